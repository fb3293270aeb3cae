package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/stockbox/stockbox-admin/pkg/domain"
)

// --- PDFs ---

// ListPDFs returns uploaded PDFs grouped by container title.
func (c *Client) ListPDFs(ctx context.Context) (domain.PDFGroups, error) {
	groups := domain.PDFGroups{}
	if err := c.get(ctx, "/api/pdf/all", &groups); err != nil {
		return nil, fmt.Errorf("client.ListPDFs: %w", err)
	}
	return groups, nil
}

// UploadPDF uploads the file at path into the container title.
func (c *Client) UploadPDF(ctx context.Context, title, path string) error {
	if title == "" || path == "" {
		return fmt.Errorf("client.UploadPDF: title and file are required")
	}
	fields := map[string]string{"title": title}
	if err := c.upload(ctx, http.MethodPost, "/api/pdf/upload", fields, []FilePart{{Field: "pdf", Path: path}}, nil); err != nil {
		return fmt.Errorf("client.UploadPDF: %w", err)
	}
	return nil
}

// DeletePDF removes a PDF.
func (c *Client) DeletePDF(ctx context.Context, id string) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/api/pdf/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("client.DeletePDF: %w", err)
	}
	return nil
}

// --- Carousel ---

func carouselPrefix(v domain.CarouselVariant) string {
	if v == domain.CarouselSmallScreen {
		return "/api/crousal/smallScreen"
	}
	return "/api/crousal"
}

// ListCarousel returns the slides of one carousel variant.
func (c *Client) ListCarousel(ctx context.Context, v domain.CarouselVariant) ([]domain.CarouselImage, error) {
	var res domain.Envelope[[]domain.CarouselImage]
	if err := c.get(ctx, carouselPrefix(v)+"/getAll_Images", &res); err != nil {
		return nil, fmt.Errorf("client.ListCarousel: %w", err)
	}
	return res.Data, nil
}

// AddCarouselImages uploads one or more slides.
func (c *Client) AddCarouselImages(ctx context.Context, v domain.CarouselVariant, paths ...string) error {
	if len(paths) == 0 {
		return fmt.Errorf("client.AddCarouselImages: no images")
	}
	files := make([]FilePart, 0, len(paths))
	for _, p := range paths {
		files = append(files, FilePart{Field: "images", Path: p})
	}
	if err := c.upload(ctx, http.MethodPost, carouselPrefix(v)+"/addImg", nil, files, nil); err != nil {
		return fmt.Errorf("client.AddCarouselImages: %w", err)
	}
	return nil
}

// ActivateCarouselImage marks a slide as the active one.
func (c *Client) ActivateCarouselImage(ctx context.Context, v domain.CarouselVariant, id string) error {
	if err := c.post(ctx, carouselPrefix(v)+"/activateimg/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("client.ActivateCarouselImage: %w", err)
	}
	return nil
}

// DeleteCarouselImage removes a slide.
func (c *Client) DeleteCarouselImage(ctx context.Context, v domain.CarouselVariant, id string) error {
	if err := c.doRequest(ctx, http.MethodDelete, carouselPrefix(v)+"/delete/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteCarouselImage: %w", err)
	}
	return nil
}
