package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/stockbox/stockbox-admin/pkg/domain"
)

// --- Jobs ---

// JobInput is the payload for posting a job.
type JobInput struct {
	Title          string `json:"title" validate:"required"`
	Description    string `json:"description" validate:"required"`
	Salary         string `json:"salary"`
	GoogleFormLink string `json:"googleFormLink" validate:"omitempty,url"`
}

// ListJobs returns open positions.
func (c *Client) ListJobs(ctx context.Context) ([]domain.Job, error) {
	var res domain.Envelope[[]domain.Job]
	if err := c.get(ctx, "/api/jobs", &res); err != nil {
		return nil, fmt.Errorf("client.ListJobs: %w", err)
	}
	return res.Data, nil
}

// CreateJob posts a job.
func (c *Client) CreateJob(ctx context.Context, in JobInput) error {
	if err := c.post(ctx, "/api/jobs/add", in, nil); err != nil {
		return fmt.Errorf("client.CreateJob: %w", err)
	}
	return nil
}

// DeleteJob removes a job.
func (c *Client) DeleteJob(ctx context.Context, id string) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/api/jobs/delete/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteJob: %w", err)
	}
	return nil
}

// --- IPOs ---

// ListIPOs returns the company IPO table.
func (c *Client) ListIPOs(ctx context.Context) ([]domain.IPO, error) {
	var ipos []domain.IPO
	if err := c.get(ctx, "/api/company/ipos", &ipos); err != nil {
		return nil, fmt.Errorf("client.ListIPOs: %w", err)
	}
	return ipos, nil
}

// CreateIPO adds an IPO row.
func (c *Client) CreateIPO(ctx context.Context, ipo domain.IPO) error {
	ipo.ID = ""
	if err := c.post(ctx, "/api/company/ipos", ipo, nil); err != nil {
		return fmt.Errorf("client.CreateIPO: %w", err)
	}
	return nil
}

// UpdateIPO replaces an IPO row.
func (c *Client) UpdateIPO(ctx context.Context, id string, ipo domain.IPO) error {
	ipo.ID = ""
	if err := c.doRequest(ctx, http.MethodPut, "/api/company/ipos/"+url.PathEscape(id), ipo, nil); err != nil {
		return fmt.Errorf("client.UpdateIPO: %w", err)
	}
	return nil
}

// DeleteIPO removes an IPO row.
func (c *Client) DeleteIPO(ctx context.Context, id string) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/api/company/ipos/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteIPO: %w", err)
	}
	return nil
}

// --- Employees ---

// EmployeeInput is the form for adding or editing an employee. Image is a
// local file path and is only uploaded when set.
type EmployeeInput struct {
	Name        string `validate:"required"`
	Designation string `validate:"required"`
	Description string
	Image       string `validate:"omitempty,file"`
}

func (in EmployeeInput) fields() map[string]string {
	return map[string]string{
		"name":        in.Name,
		"designation": in.Designation,
		"description": in.Description,
	}
}

// ListEmployees returns all employees.
func (c *Client) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	var employees []domain.Employee
	if err := c.get(ctx, "/api/employee/", &employees); err != nil {
		return nil, fmt.Errorf("client.ListEmployees: %w", err)
	}
	return employees, nil
}

// GetEmployee fetches one employee.
func (c *Client) GetEmployee(ctx context.Context, id string) (*domain.Employee, error) {
	var e domain.Employee
	if err := c.get(ctx, "/api/employee/"+url.PathEscape(id), &e); err != nil {
		return nil, fmt.Errorf("client.GetEmployee: %w", err)
	}
	return &e, nil
}

// CreateEmployee adds an employee.
func (c *Client) CreateEmployee(ctx context.Context, in EmployeeInput) error {
	files := []FilePart{{Field: "image", Path: in.Image}}
	if err := c.upload(ctx, http.MethodPost, "/api/employee/add", in.fields(), files, nil); err != nil {
		return fmt.Errorf("client.CreateEmployee: %w", err)
	}
	return nil
}

// UpdateEmployee edits an employee.
func (c *Client) UpdateEmployee(ctx context.Context, id string, in EmployeeInput) error {
	files := []FilePart{{Field: "image", Path: in.Image}}
	if err := c.upload(ctx, http.MethodPut, "/api/employee/update/"+url.PathEscape(id), in.fields(), files, nil); err != nil {
		return fmt.Errorf("client.UpdateEmployee: %w", err)
	}
	return nil
}

// DeleteEmployee removes an employee.
func (c *Client) DeleteEmployee(ctx context.Context, id string) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/api/employee/delete/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteEmployee: %w", err)
	}
	return nil
}

// --- Site users ---

// ListSiteUsers returns visitors who signed up with OTP.
func (c *Client) ListSiteUsers(ctx context.Context) ([]domain.SiteUser, error) {
	var users []domain.SiteUser
	if err := c.get(ctx, "/api/otp/users", &users); err != nil {
		return nil, fmt.Errorf("client.ListSiteUsers: %w", err)
	}
	return users, nil
}
