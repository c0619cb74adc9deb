package cleaner

import (
	"testing"

	"github.com/imotstat/go-estate-crawler/internal/domain"
)

func TestText(t *testing.T) {
	c := New()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"strips tags", "<b>Продава</b> <i>двустаен</i>", "Продава двустаен"},
		{"decodes entities", "Лозенец &amp; Изток", "Лозенец & Изток"},
		{"collapses whitespace", "  Продава \n\t двустаен  ", "Продава двустаен"},
		{"removes script", `<script>alert(1)</script>тристаен`, "тристаен"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Text(tt.raw); got != tt.want {
				t.Errorf("Text(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestListing(t *testing.T) {
	c := New()
	raw := &domain.RawListing{
		Title:        "<b>Продава 2-стаен</b>",
		Description:  "Тухла, <br>южно изложение",
		LocationText: "гр. София,&nbsp;Лозенец",
		AgencyName:   "<span>Явлена</span>",
		DetailsURL:   "https://www.imot.bg/offer/1?a=1&b=2",
	}

	c.Listing(raw)

	if raw.Title != "Продава 2-стаен" {
		t.Errorf("Title = %q", raw.Title)
	}
	if raw.Description != "Тухла, южно изложение" {
		t.Errorf("Description = %q", raw.Description)
	}
	if raw.LocationText != "гр. София, Лозенец" {
		t.Errorf("LocationText = %q", raw.LocationText)
	}
	if raw.AgencyName != "Явлена" {
		t.Errorf("AgencyName = %q", raw.AgencyName)
	}
	if raw.DetailsURL != "https://www.imot.bg/offer/1?a=1&b=2" {
		t.Errorf("DetailsURL must stay untouched, got %q", raw.DetailsURL)
	}
}
