package domain

import (
	"testing"
	"time"
)

func TestSiteUserIsNew(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name      string
		createdAt time.Time
		want      bool
	}{
		{"zero", time.Time{}, false},
		{"an hour ago", now.Add(-time.Hour), true},
		{"exactly 24h", now.Add(-24 * time.Hour), true},
		{"25h ago", now.Add(-25 * time.Hour), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := SiteUser{CreatedAt: tt.createdAt}
			if got := u.IsNew(now); got != tt.want {
				t.Errorf("IsNew() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSiteUserDisplayFallbacks(t *testing.T) {
	u := SiteUser{Username: "stock_fan", PhoneNumber: "555-0100"}
	if got := u.DisplayName(); got != "stock_fan" {
		t.Errorf("DisplayName() = %q, want %q", got, "stock_fan")
	}
	if got := u.DisplayPhone(); got != "555-0100" {
		t.Errorf("DisplayPhone() = %q, want %q", got, "555-0100")
	}
	if got := (SiteUser{}).DisplayName(); got != "N/A" {
		t.Errorf("empty DisplayName() = %q, want N/A", got)
	}
}

func TestPaginatePages(t *testing.T) {
	tests := []struct {
		p    Paginate
		want int
	}{
		{Paginate{}, 1},
		{Paginate{Total: 10, Limit: 10}, 1},
		{Paginate{Total: 11, Limit: 10}, 2},
		{Paginate{Total: 5, Limit: 0}, 1},
	}
	for _, tt := range tests {
		if got := tt.p.Pages(); got != tt.want {
			t.Errorf("%+v.Pages() = %d, want %d", tt.p, got, tt.want)
		}
	}
}

func TestCarouselVariantToggle(t *testing.T) {
	if got := CarouselDesktop.Toggle(); got != CarouselSmallScreen {
		t.Errorf("desktop toggle = %v", got)
	}
	if got := CarouselSmallScreen.Toggle().Toggle(); got != CarouselSmallScreen {
		t.Errorf("double toggle = %v", got)
	}
}
