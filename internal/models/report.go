package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Validation errors for reports
var (
	ErrEmptyID       = errors.New("report id is required")
	ErrTitleRequired = errors.New("report title is required")
)

// Report is the single persisted entity. JSON keys match the browser-storage
// layout ("reports" key) so existing collections load unchanged.
type Report struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Content   string    `json:"content" yaml:"content"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// NewReport creates a report with a fresh ID and both timestamps set to now.
func NewReport(title, content string, now time.Time) Report {
	now = now.UTC()
	return Report{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks the fields every stored report must carry.
func (r Report) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(r.Title) == "" {
		return ErrTitleRequired
	}
	return nil
}

// ReportPatch is a partial update. Nil fields are left untouched.
// ID, CreatedAt and UpdatedAt are owned by the collection and cannot be patched.
type ReportPatch struct {
	Title   *string
	Content *string
}

// IsEmpty reports whether the patch sets no field.
func (p ReportPatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil
}

// Apply returns r with the patch fields merged in. Timestamps are not touched.
func (p ReportPatch) Apply(r Report) Report {
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Content != nil {
		r.Content = *p.Content
	}
	return r
}

// StringPtr is a small helper for building patches.
func StringPtr(s string) *string {
	return &s
}
