package domain

// Employee is a team member shown on the public site.
type Employee struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Designation string `json:"designation"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
}
