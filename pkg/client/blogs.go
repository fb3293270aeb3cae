package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/stockbox/stockbox-admin/pkg/domain"
)

// BlogInput is the form for creating or updating a blog post. ThumbImage is
// a local file path; it may be empty on update.
type BlogInput struct {
	Title      string `validate:"required"`
	Slug       string `validate:"required"`
	Category   string `validate:"required"`
	Content    string `validate:"required"`
	Author     string `validate:"required"`
	ThumbImage string `validate:"omitempty,file"`
}

func (in BlogInput) fields() map[string]string {
	return map[string]string{
		"title":    in.Title,
		"slug":     in.Slug,
		"category": in.Category,
		"content":  in.Content,
		"author":   in.Author,
	}
}

// ListBlogs fetches one page of blog posts.
func (c *Client) ListBlogs(ctx context.Context, page int) (*domain.BlogPage, error) {
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))

	var res domain.BlogPage
	if err := c.get(ctx, "/api/blogs?"+params.Encode(), &res); err != nil {
		return nil, fmt.Errorf("client.ListBlogs: %w", err)
	}
	return &res, nil
}

// GetBlog fetches a single blog post by ID.
func (c *Client) GetBlog(ctx context.Context, id string) (*domain.Blog, error) {
	var res domain.Envelope[domain.Blog]
	if err := c.get(ctx, "/api/blogs/"+url.PathEscape(id), &res); err != nil {
		return nil, fmt.Errorf("client.GetBlog: %w", err)
	}
	return &res.Data, nil
}

// CreateBlog publishes a new post with its thumbnail.
func (c *Client) CreateBlog(ctx context.Context, in BlogInput) error {
	files := []FilePart{{Field: "thumbImage", Path: in.ThumbImage}}
	if err := c.upload(ctx, http.MethodPost, "/api/blogs", in.fields(), files, nil); err != nil {
		return fmt.Errorf("client.CreateBlog: %w", err)
	}
	return nil
}

// UpdateBlog replaces a post. The thumbnail is only sent when set.
func (c *Client) UpdateBlog(ctx context.Context, id string, in BlogInput) error {
	files := []FilePart{{Field: "thumbImage", Path: in.ThumbImage}}
	if err := c.upload(ctx, http.MethodPut, "/api/blogs/"+url.PathEscape(id), in.fields(), files, nil); err != nil {
		return fmt.Errorf("client.UpdateBlog: %w", err)
	}
	return nil
}

// DeleteBlog deletes a post.
func (c *Client) DeleteBlog(ctx context.Context, id string) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/api/blogs/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteBlog: %w", err)
	}
	return nil
}

// PublishBlogs asks the backend to pull and publish pending posts.
func (c *Client) PublishBlogs(ctx context.Context) error {
	if err := c.post(ctx, "/api/fetch-blogs", nil, nil); err != nil {
		return fmt.Errorf("client.PublishBlogs: %w", err)
	}
	return nil
}

// FetchReviews asks the backend to refresh site reviews.
func (c *Client) FetchReviews(ctx context.Context) error {
	if err := c.get(ctx, "/api/fetch-reviews", nil); err != nil {
		return fmt.Errorf("client.FetchReviews: %w", err)
	}
	return nil
}

// --- Categories ---

// ListCategories returns all blog categories.
func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var res domain.Envelope[[]domain.Category]
	if err := c.get(ctx, "/api/blogs/categories", &res); err != nil {
		return nil, fmt.Errorf("client.ListCategories: %w", err)
	}
	return res.Data, nil
}

// CreateCategory adds a blog category.
func (c *Client) CreateCategory(ctx context.Context, name string) error {
	body := map[string]string{"blogCategoryName": name}
	if err := c.post(ctx, "/api/blogs/categories", body, nil); err != nil {
		return fmt.Errorf("client.CreateCategory: %w", err)
	}
	return nil
}

// UpdateCategory renames a blog category.
func (c *Client) UpdateCategory(ctx context.Context, id, name string) error {
	body := map[string]string{"blogCategoryName": name}
	if err := c.doRequest(ctx, http.MethodPut, "/api/blogs/categories/"+url.PathEscape(id), body, nil); err != nil {
		return fmt.Errorf("client.UpdateCategory: %w", err)
	}
	return nil
}

// DeleteCategory removes a blog category.
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/api/blogs/categories/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteCategory: %w", err)
	}
	return nil
}
