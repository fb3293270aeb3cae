package domain

// PDF is an uploaded document. PDFs are grouped into containers by Title.
type PDF struct {
	ID           string `json:"_id"`
	Title        string `json:"title"`
	OriginalName string `json:"originalName"`
	URL          string `json:"pdfUrl"`
}

// PDFGroups maps a container title (e.g. "June") to its documents.
type PDFGroups map[string][]PDF

// CarouselVariant selects which homepage carousel is managed.
type CarouselVariant int

const (
	CarouselDesktop CarouselVariant = iota
	CarouselSmallScreen
)

func (v CarouselVariant) String() string {
	if v == CarouselSmallScreen {
		return "mobile"
	}
	return "desktop"
}

// Toggle returns the other variant.
func (v CarouselVariant) Toggle() CarouselVariant {
	if v == CarouselSmallScreen {
		return CarouselDesktop
	}
	return CarouselSmallScreen
}

// CarouselImage is one slide of a homepage carousel.
type CarouselImage struct {
	ID     string `json:"_id"`
	URL    string `json:"imageUrl"`
	Active bool   `json:"isActive"`
}

// EventBanner is the single promotional image shown on the public site.
// An empty Image means no banner is set.
type EventBanner struct {
	ID    string `json:"_id,omitempty"`
	Image string `json:"image"`
}
