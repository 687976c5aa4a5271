package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestNewReport(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.FixedZone("CET", 3600))
	r := NewReport("Weekly", "<p>body</p>", now)

	if r.ID == "" {
		t.Fatal("expected generated id")
	}
	if r.Title != "Weekly" || r.Content != "<p>body</p>" {
		t.Errorf("unexpected fields: %+v", r)
	}
	if !r.CreatedAt.Equal(now) || !r.UpdatedAt.Equal(now) {
		t.Errorf("expected both timestamps = %v, got %v / %v", now, r.CreatedAt, r.UpdatedAt)
	}
	if r.CreatedAt.Location() != time.UTC {
		t.Errorf("expected UTC timestamps, got %v", r.CreatedAt.Location())
	}
}

func TestNewReportUniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		r := NewReport("t", "", time.Now())
		if seen[r.ID] {
			t.Fatalf("duplicate id %s", r.ID)
		}
		seen[r.ID] = true
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		r    Report
		want error
	}{
		{"valid", Report{ID: "a", Title: "T"}, nil},
		{"empty id", Report{ID: " ", Title: "T"}, ErrEmptyID},
		{"blank title", Report{ID: "a", Title: "  "}, ErrTitleRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.r.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPatchApply(t *testing.T) {
	base := Report{ID: "a", Title: "old", Content: "c"}

	got := ReportPatch{Title: StringPtr("new")}.Apply(base)
	if got.Title != "new" || got.Content != "c" || got.ID != "a" {
		t.Errorf("unexpected merge result: %+v", got)
	}

	if !(ReportPatch{}).IsEmpty() {
		t.Error("zero patch should be empty")
	}
	if (ReportPatch{Content: StringPtr("")}).IsEmpty() {
		t.Error("patch with empty content is not empty")
	}
}

func TestReportJSONKeys(t *testing.T) {
	raw := `{"id":"1","title":"A","content":"<b>x</b>","createdAt":"2024-05-01T10:00:00.000Z","updatedAt":"2024-05-02T10:00:00.000Z"}`

	var r Report
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r.ID != "1" || r.Content != "<b>x</b>" {
		t.Errorf("unexpected report: %+v", r)
	}
	if r.UpdatedAt.Day() != 2 {
		t.Errorf("expected updatedAt day 2, got %v", r.UpdatedAt)
	}
}
