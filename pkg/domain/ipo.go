package domain

// IPO is an entry of the company IPO table. Dates are kept as the
// backend sends them (ISO strings) and formatted for display only.
type IPO struct {
	ID            string `json:"_id,omitempty"`
	Company       string `json:"company"`
	OpeningDate   string `json:"openingDate"`
	ClosingDate   string `json:"closingDate"`
	ListingAt     string `json:"listingAt"`
	ListingDate   string `json:"listingDate"`
	IssuePrice    string `json:"issuePrice"`
	IssueAmountCr string `json:"issueAmountCr"`
	BlogLink      string `json:"blogLink,omitempty"`
}
