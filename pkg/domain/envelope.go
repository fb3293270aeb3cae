package domain

// StatusSuccess is the status value the backend sends on a successful mutation.
const StatusSuccess = "success"

// StatusResponse is the minimal body returned by auth and mutation endpoints.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// OK reports whether the backend acknowledged the request.
func (s StatusResponse) OK() bool {
	return s.Status == StatusSuccess
}

// Envelope wraps endpoints that nest their payload under "data".
type Envelope[T any] struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}

// Paginate describes a page of a paginated listing.
type Paginate struct {
	Total int `json:"total"`
	Limit int `json:"limit"`
	Page  int `json:"page"`
}

// Pages returns the number of pages, at least 1.
func (p Paginate) Pages() int {
	if p.Limit <= 0 || p.Total <= 0 {
		return 1
	}
	return (p.Total + p.Limit - 1) / p.Limit
}
