package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/stockbox/stockbox-admin/pkg/domain"
)

// --- IPO name boards ---

type listingRoutes struct {
	list, add, field, entry string
}

func listingPaths(k domain.ListingKind) listingRoutes {
	if k == domain.ListingToday {
		return listingRoutes{"/api/company/list", "/api/company/addlist", "ipoListingsToday", "/api/company/entrylist/"}
	}
	return listingRoutes{"/api/company/", "/api/company/add", "upcomingIpos", "/api/company/entry/"}
}

// ListListings returns the entries of one board.
func (c *Client) ListListings(ctx context.Context, k domain.ListingKind) ([]domain.ListingEntry, error) {
	var entries []domain.ListingEntry
	if err := c.get(ctx, listingPaths(k).list, &entries); err != nil {
		return nil, fmt.Errorf("client.ListListings: %w", err)
	}
	return entries, nil
}

// AddListings posts names as a new entry of board k.
func (c *Client) AddListings(ctx context.Context, k domain.ListingKind, names ...string) error {
	if len(names) == 0 {
		return fmt.Errorf("client.AddListings: at least one company name is required")
	}
	r := listingPaths(k)
	if err := c.post(ctx, r.add, map[string][]string{r.field: names}, nil); err != nil {
		return fmt.Errorf("client.AddListings: %w", err)
	}
	return nil
}

// RemoveUpcomingName drops one company name from the upcoming board.
func (c *Client) RemoveUpcomingName(ctx context.Context, name string) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/api/company/delete/"+url.PathEscape(name), nil, nil); err != nil {
		return fmt.Errorf("client.RemoveUpcomingName: %w", err)
	}
	return nil
}

// DeleteListingEntry removes a whole entry from board k.
func (c *Client) DeleteListingEntry(ctx context.Context, k domain.ListingKind, id string) error {
	if err := c.doRequest(ctx, http.MethodDelete, listingPaths(k).entry+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteListingEntry: %w", err)
	}
	return nil
}

// --- Yearly table ---

// ListYearly returns the yearly complaints table.
func (c *Client) ListYearly(ctx context.Context) ([]domain.YearlyRow, error) {
	var rows []domain.YearlyRow
	if err := c.get(ctx, "/api/tableYearly", &rows); err != nil {
		return nil, fmt.Errorf("client.ListYearly: %w", err)
	}
	return rows, nil
}

// CreateYearly adds a row.
func (c *Client) CreateYearly(ctx context.Context, row domain.YearlyRow) error {
	row.ID = ""
	if err := c.post(ctx, "/api/tableYearly", row, nil); err != nil {
		return fmt.Errorf("client.CreateYearly: %w", err)
	}
	return nil
}

// UpdateYearly replaces a row.
func (c *Client) UpdateYearly(ctx context.Context, id string, row domain.YearlyRow) error {
	row.ID = ""
	if err := c.doRequest(ctx, http.MethodPut, "/api/tableYearly/"+url.PathEscape(id), row, nil); err != nil {
		return fmt.Errorf("client.UpdateYearly: %w", err)
	}
	return nil
}

// DeleteYearly removes a row.
func (c *Client) DeleteYearly(ctx context.Context, id string) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/api/tableYearly/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteYearly: %w", err)
	}
	return nil
}

// --- Event banner ---

// GetEvent returns the current banner. A missing banner is not an error;
// the returned banner then has an empty Image.
func (c *Client) GetEvent(ctx context.Context) (*domain.EventBanner, error) {
	var ev domain.EventBanner
	if err := c.get(ctx, "/api/event", &ev); err != nil {
		if IsKind(err, KindNotFound) {
			return &domain.EventBanner{}, nil
		}
		return nil, fmt.Errorf("client.GetEvent: %w", err)
	}
	return &ev, nil
}

// UploadEvent replaces the banner with the image at path.
func (c *Client) UploadEvent(ctx context.Context, path string) (*domain.EventBanner, error) {
	if path == "" {
		return nil, fmt.Errorf("client.UploadEvent: image is required")
	}
	var res struct {
		Event domain.EventBanner `json:"event"`
	}
	if err := c.upload(ctx, http.MethodPost, "/api/event/upload", nil, []FilePart{{Field: "image", Path: path}}, &res); err != nil {
		return nil, fmt.Errorf("client.UploadEvent: %w", err)
	}
	return &res.Event, nil
}

// DeleteEvent removes the banner.
func (c *Client) DeleteEvent(ctx context.Context) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/api/event", nil, nil); err != nil {
		return fmt.Errorf("client.DeleteEvent: %w", err)
	}
	return nil
}
