// Package reports owns the ordered report collection. Every operation
// replaces the whole collection in one step, so observers never see a
// partially applied change.
package reports

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ppiankov/reportdesk/internal/models"
	"github.com/ppiankov/reportdesk/internal/storage"
)

// StorageKey is the durable key holding the JSON array of reports.
const StorageKey = "reports"

// Manager input errors
var (
	ErrNotFound        = errors.New("report not found")
	ErrDuplicateID     = errors.New("report id already exists")
	ErrIndexOutOfRange = errors.New("report index out of range")
)

// Manager is the single source of truth for the collection. It is safe for
// concurrent use; mutations are serialized by the underlying cell.
type Manager struct {
	cell   *storage.Cell[[]models.Report]
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source used to stamp updates.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithLogger sets the logger used to report records dropped on load.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

// New loads the collection from store. A missing or malformed stored value
// yields an empty collection. Stored records without an id or title, and
// repeats of an earlier id, are dropped and the cleaned list is written back.
func New(ctx context.Context, store *storage.Store, opts ...Option) *Manager {
	m := &Manager{
		cell:   storage.NewCell(ctx, store, StorageKey, []models.Report{}),
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.dropInvalid()
	return m
}

func (m *Manager) dropInvalid() {
	_ = m.cell.Update(func(current []models.Report) ([]models.Report, bool, error) {
		next := make([]models.Report, 0, len(current))
		for i, r := range current {
			var ok bool
			next, ok = appendValid(next, r)
			if !ok {
				m.logger.Warn("dropping stored report", "index", i, "id", r.ID, "title", r.Title)
			}
		}
		return next, len(next) != len(current), nil
	})
}

// appendValid appends r unless it is invalid or its id is already in rs.
func appendValid(rs []models.Report, r models.Report) ([]models.Report, bool) {
	if r.Validate() != nil || indexOf(rs, r.ID) >= 0 {
		return rs, false
	}
	return append(rs, r), true
}

// Persisted reports whether the last change reached the durable medium.
func (m *Manager) Persisted() bool {
	return m.cell.Persisted()
}

// Reports returns a copy of the collection in display order.
func (m *Manager) Reports() []models.Report {
	return clone(m.cell.Get())
}

// Len returns the number of reports.
func (m *Manager) Len() int {
	return len(m.cell.Get())
}

// Get looks a report up by id.
func (m *Manager) Get(id string) (models.Report, bool) {
	current := m.cell.Get()
	if i := indexOf(current, id); i >= 0 {
		return current[i], true
	}
	return models.Report{}, false
}

// IndexOf returns the position of id, or -1.
func (m *Manager) IndexOf(id string) int {
	return indexOf(m.cell.Get(), id)
}

// Add appends a fully formed report.
func (m *Manager) Add(r models.Report) error {
	if err := r.Validate(); err != nil {
		return err
	}
	return m.cell.Update(func(current []models.Report) ([]models.Report, bool, error) {
		if indexOf(current, r.ID) >= 0 {
			return nil, false, fmt.Errorf("%w: %s", ErrDuplicateID, r.ID)
		}
		next := make([]models.Report, 0, len(current)+1)
		next = append(next, current...)
		next = append(next, r)
		return next, true, nil
	})
}

// Update merges patch into the report with the given id and stamps UpdatedAt.
// UpdatedAt never moves backwards, even if the clock does.
func (m *Manager) Update(id string, patch models.ReportPatch) error {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return models.ErrTitleRequired
	}
	return m.cell.Update(func(current []models.Report) ([]models.Report, bool, error) {
		i := indexOf(current, id)
		if i < 0 {
			return nil, false, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		next := clone(current)
		updated := patch.Apply(next[i])
		now := m.now().UTC()
		if now.Before(updated.UpdatedAt) {
			now = updated.UpdatedAt
		}
		updated.UpdatedAt = now
		next[i] = updated
		return next, true, nil
	})
}

// Delete removes the report with the given id. It reports whether a report
// was removed; deleting an unknown id is a no-op.
func (m *Manager) Delete(id string) bool {
	removed := false
	_ = m.cell.Update(func(current []models.Report) ([]models.Report, bool, error) {
		i := indexOf(current, id)
		if i < 0 {
			return nil, false, nil
		}
		next := make([]models.Report, 0, len(current)-1)
		next = append(next, current[:i]...)
		next = append(next, current[i+1:]...)
		removed = true
		return next, true, nil
	})
	return removed
}

// Reorder moves the report at oldIndex so that it ends up at newIndex.
// Both indices refer to the current collection.
func (m *Manager) Reorder(oldIndex, newIndex int) error {
	return m.cell.Update(func(current []models.Report) ([]models.Report, bool, error) {
		n := len(current)
		if oldIndex < 0 || oldIndex >= n || newIndex < 0 || newIndex >= n {
			return nil, false, fmt.Errorf("%w: move %d -> %d with %d reports", ErrIndexOutOfRange, oldIndex, newIndex, n)
		}
		if oldIndex == newIndex {
			return nil, false, nil
		}
		return move(current, oldIndex, newIndex), true, nil
	})
}

// Move places the report activeID at the current position of overID, the way
// a drag and drop onto another card does.
func (m *Manager) Move(activeID, overID string) error {
	return m.cell.Update(func(current []models.Report) ([]models.Report, bool, error) {
		from := indexOf(current, activeID)
		if from < 0 {
			return nil, false, fmt.Errorf("%w: %s", ErrNotFound, activeID)
		}
		to := indexOf(current, overID)
		if to < 0 {
			return nil, false, fmt.Errorf("%w: %s", ErrNotFound, overID)
		}
		if from == to {
			return nil, false, nil
		}
		return move(current, from, to), true, nil
	})
}

// Search returns reports whose title contains term, ignoring case.
func (m *Manager) Search(term string) []models.Report {
	return FilterByTitle(m.cell.Get(), term)
}

// Import appends reports that are valid and not yet present.
func (m *Manager) Import(rs []models.Report) (added, skipped int) {
	_ = m.cell.Update(func(current []models.Report) ([]models.Report, bool, error) {
		next := clone(current)
		for _, r := range rs {
			var ok bool
			if next, ok = appendValid(next, r); !ok {
				skipped++
				continue
			}
			added++
		}
		return next, added > 0, nil
	})
	return added, skipped
}

// Subscribe calls fn with a copy of the collection after every change.
func (m *Manager) Subscribe(fn func([]models.Report)) (cancel func()) {
	return m.cell.Subscribe(func(rs []models.Report) {
		fn(clone(rs))
	})
}

// FilterByTitle keeps reports whose title contains term, ignoring case.
// An empty term keeps everything.
func FilterByTitle(rs []models.Report, term string) []models.Report {
	needle := strings.ToLower(strings.TrimSpace(term))
	out := make([]models.Report, 0, len(rs))
	for _, r := range rs {
		if needle == "" || strings.Contains(strings.ToLower(r.Title), needle) {
			out = append(out, r)
		}
	}
	return out
}

func move(rs []models.Report, from, to int) []models.Report {
	next := make([]models.Report, 0, len(rs))
	next = append(next, rs[:from]...)
	next = append(next, rs[from+1:]...)

	moved := rs[from]
	next = append(next, models.Report{})
	copy(next[to+1:], next[to:])
	next[to] = moved
	return next
}

func indexOf(rs []models.Report, id string) int {
	for i := range rs {
		if rs[i].ID == id {
			return i
		}
	}
	return -1
}

func clone(rs []models.Report) []models.Report {
	out := make([]models.Report, len(rs))
	copy(out, rs)
	return out
}
