package domain

// Job is an open position advertised on the site.
type Job struct {
	ID             string `json:"_id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Salary         string `json:"salary"`
	GoogleFormLink string `json:"googleFormLink"`
}
