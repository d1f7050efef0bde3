package roster

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validBrief() *Brief {
	return &Brief{
		Title:       "Beach wedding shoot",
		Description: "Two day candid coverage",
		Location:    Location{City: "Goa", Country: "India"},
		Category:    "Photography",
		BudgetMax:   75000,
	}
}

func TestBriefValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(b *Brief)
		wantErr string
	}{
		{"valid", func(*Brief) {}, ""},
		{"missing title", func(b *Brief) { b.Title = "  " }, "title"},
		{"missing description", func(b *Brief) { b.Description = "" }, "description"},
		{"missing location", func(b *Brief) { b.Location = Location{} }, "location"},
		{"country only is enough", func(b *Brief) { b.Location = Location{Country: "India"} }, ""},
		{"missing category", func(b *Brief) { b.Category = "" }, "category"},
		{"zero budget", func(b *Brief) { b.BudgetMax = 0 }, "budget"},
		{"negative budget", func(b *Brief) { b.BudgetMax = -5 }, "budget"},
		{
			"end before start",
			func(b *Brief) {
				b.StartDate = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
				b.EndDate = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
			},
			"end date",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			brief := validBrief()
			tc.mutate(brief)

			err := brief.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected an error mentioning %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestBriefSemanticText(t *testing.T) {
	brief := validBrief()
	brief.PreferredStyles = []string{"candid", "drone"}

	text := brief.SemanticText()
	if !strings.Contains(text, brief.Title) || !strings.Contains(text, brief.Description) {
		t.Fatalf("expected the title and description in the text: %q", text)
	}
	if !strings.Contains(text, "Styles: candid, drone") {
		t.Fatalf("expected the styles in the text: %q", text)
	}
}

func TestBriefFromFile(t *testing.T) {
	content := `
title: Beach wedding shoot
description: Two day candid coverage with drone reels
location:
  city: Goa
  country: India
category: Photography
preferred-styles:
  - candid
  - drone
budget-max: 75000
start-date: 2026-11-20T00:00:00Z
end-date: 2026-11-22T00:00:00Z
client-name: Ananya
client-email: ananya@example.com
`
	path := filepath.Join(t.TempDir(), "brief.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	brief, err := BriefFromFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if brief.Title != "Beach wedding shoot" {
		t.Fatalf("unexpected title: %q", brief.Title)
	}
	if brief.Location.City != "Goa" {
		t.Fatalf("unexpected city: %q", brief.Location.City)
	}
	if len(brief.PreferredStyles) != 2 {
		t.Fatalf("unexpected styles: %v", brief.PreferredStyles)
	}
	if brief.BudgetMax != 75000 {
		t.Fatalf("unexpected budget: %d", brief.BudgetMax)
	}
	if brief.StartDate.IsZero() || !brief.EndDate.After(brief.StartDate) {
		t.Fatalf("dates not decoded: %v / %v", brief.StartDate, brief.EndDate)
	}
	if err := brief.Validate(); err != nil {
		t.Fatalf("decoded brief must validate: %v", err)
	}
}

func TestBriefFromFileMissing(t *testing.T) {
	if _, err := BriefFromFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
