package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ppiankov/reportdesk/internal/models"
)

// fakeCompleter records requests and replays canned answers.
type fakeCompleter struct {
	mu       sync.Mutex
	reply    string
	err      error
	requests [][]models.Message
	before   func()
}

func (f *fakeCompleter) Complete(_ context.Context, msgs []models.Message) (string, error) {
	if f.before != nil {
		f.before()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := make([]models.Message, len(msgs))
	copy(cp, msgs)
	f.requests = append(f.requests, cp)
	return f.reply, f.err
}

type fakeSink struct {
	reports []models.Report
	err     error
}

func (s *fakeSink) Add(r models.Report) error {
	if s.err != nil {
		return s.err
	}
	s.reports = append(s.reports, r)
	return nil
}

func (s *fakeSink) Reports() []models.Report {
	return s.reports
}

var fixedNow = time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)

func newTestService(c Completer, sink ReportSink) *Service {
	return NewService(c, sink, WithClock(func() time.Time { return fixedNow }))
}

// --- Send ---

func TestSendAppendsTurnsAndSendsHistory(t *testing.T) {
	fc := &fakeCompleter{reply: "Sure thing."}
	svc := newTestService(fc, &fakeSink{})

	if _, err := svc.Send(context.Background(), "first"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	reply, err := svc.Send(context.Background(), "second")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if reply.Text != "Sure thing." || reply.Created != nil {
		t.Errorf("unexpected reply: %+v", reply)
	}

	last := fc.requests[1]
	if last[0].Role != models.RoleSystem || last[0].Content != ChatPrompt {
		t.Errorf("expected chat system prompt first, got %+v", last[0])
	}
	roles := make([]models.Role, 0, len(last))
	for _, m := range last[1:] {
		roles = append(roles, m.Role)
	}
	want := []models.Role{models.RoleUser, models.RoleAssistant, models.RoleUser}
	if len(roles) != len(want) {
		t.Fatalf("expected %d prior turns, got %v", len(want), roles)
	}
	for i := range want {
		if roles[i] != want[i] {
			t.Errorf("turn %d role = %s, want %s", i, roles[i], want[i])
		}
	}

	if len(svc.History()) != 4 {
		t.Errorf("expected 4 turns in history, got %d", len(svc.History()))
	}
}

func TestSendCreatesReportWhenAsked(t *testing.T) {
	fc := &fakeCompleter{reply: "I'll create a report for you.\nTitle: Q3 Revenue Review\n\nRevenue grew."}
	sink := &fakeSink{}
	svc := newTestService(fc, sink)

	reply, err := svc.Send(context.Background(), "please summarize revenue for the third quarter")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if reply.Created == nil {
		t.Fatal("expected a created report")
	}
	if len(sink.reports) != 1 {
		t.Fatalf("expected 1 report in sink, got %d", len(sink.reports))
	}
	r := sink.reports[0]
	if r.Title != "Q3 Revenue Review" {
		t.Errorf("title = %q", r.Title)
	}
	if r.Content != fc.reply {
		t.Errorf("content should be the full reply")
	}
	if !r.CreatedAt.Equal(fixedNow) || !r.UpdatedAt.Equal(fixedNow) || r.ID == "" {
		t.Errorf("unexpected metadata: %+v", r)
	}
}

func TestSendCreateMarkerIsCaseInsensitive(t *testing.T) {
	fc := &fakeCompleter{reply: "Let me CREATE A REPORT now."}
	sink := &fakeSink{}
	svc := newTestService(fc, sink)

	reply, err := svc.Send(context.Background(), "one two three four five six seven")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if reply.Created == nil || reply.Created.Title != "one two three four five" {
		t.Errorf("expected prompt fallback title, got %+v", reply.Created)
	}
}

func TestSendErrorAppendsApology(t *testing.T) {
	boom := errors.New("network down")
	svc := newTestService(&fakeCompleter{err: boom}, &fakeSink{})

	_, err := svc.Send(context.Background(), "hello")
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	h := svc.History()
	if len(h) != 2 || h[1].Role != models.RoleAssistant || h[1].Content != chatApology {
		t.Errorf("unexpected history: %+v", h)
	}
}

func TestSendEmptyInput(t *testing.T) {
	fc := &fakeCompleter{reply: "x"}
	svc := newTestService(fc, &fakeSink{})

	if _, err := svc.Send(context.Background(), "   "); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
	if len(fc.requests) != 0 || len(svc.History()) != 0 {
		t.Error("nothing should be sent or recorded")
	}
}

func TestSendDiscardedAfterReset(t *testing.T) {
	sink := &fakeSink{}
	fc := &fakeCompleter{reply: "create a report\nTitle: Late"}
	svc := newTestService(fc, sink)
	fc.before = svc.Reset

	_, err := svc.Send(context.Background(), "hello")
	if !errors.Is(err, ErrDiscarded) {
		t.Fatalf("expected ErrDiscarded, got %v", err)
	}
	if len(svc.History()) != 0 {
		t.Errorf("history should stay empty after reset, got %+v", svc.History())
	}
	if len(sink.reports) != 0 {
		t.Error("discarded reply must not create a report")
	}
}

// --- Draft ---

func TestDraftCreatesReport(t *testing.T) {
	fc := &fakeCompleter{reply: "# Title: Remote Work Policy\n\n## Overview\n..."}
	sink := &fakeSink{}
	svc := newTestService(fc, sink)

	r, err := svc.Draft(context.Background(), "remote work")
	if err != nil {
		t.Fatalf("Draft: %v", err)
	}
	if r.Title != "Remote Work Policy" {
		t.Errorf("title = %q", r.Title)
	}
	if len(sink.reports) != 1 || sink.reports[0].ID != r.ID {
		t.Errorf("report not saved: %+v", sink.reports)
	}

	req := fc.requests[0]
	if len(req) != 2 || req[0].Content != DraftPrompt || req[1].Content != "Generate a report about: remote work" {
		t.Errorf("unexpected draft request: %+v", req)
	}

	h := svc.History()
	if len(h) != 2 || h[0].Content != "Generate a report about: remote work" || h[1].Content != draftDone {
		t.Errorf("unexpected history: %+v", h)
	}
}

func TestDraftErrorLeavesSinkUntouched(t *testing.T) {
	sink := &fakeSink{}
	svc := newTestService(&fakeCompleter{err: errors.New("500")}, sink)

	if _, err := svc.Draft(context.Background(), "anything"); err == nil {
		t.Fatal("expected error")
	}
	if len(sink.reports) != 0 || len(svc.History()) != 0 {
		t.Error("failed draft must not change state")
	}
}

func TestDraftSinkError(t *testing.T) {
	svc := newTestService(&fakeCompleter{reply: "Title: X"}, &fakeSink{err: errors.New("dup")})
	if _, err := svc.Draft(context.Background(), "x"); err == nil || !strings.Contains(err.Error(), "save report") {
		t.Errorf("expected wrapped save error, got %v", err)
	}
}

// --- Summarize ---

func TestSummarizeNoReports(t *testing.T) {
	fc := &fakeCompleter{reply: "unused"}
	svc := newTestService(fc, &fakeSink{})

	if _, err := svc.Summarize(context.Background()); !errors.Is(err, ErrNoReports) {
		t.Fatalf("expected ErrNoReports, got %v", err)
	}
	if len(fc.requests) != 0 {
		t.Error("no request expected without reports")
	}
	h := svc.History()
	if len(h) != 2 || h[0].Content != noReportsRequest || h[1].Content != noReportsReply {
		t.Errorf("unexpected history: %+v", h)
	}
}

func TestSummarizeSendsCombinedContent(t *testing.T) {
	fc := &fakeCompleter{reply: "Both reports cover sales."}
	sink := &fakeSink{reports: []models.Report{
		{ID: "1", Title: "A", Content: "<p>one</p>"},
		{ID: "2", Title: "B", Content: "two"},
	}}
	svc := newTestService(fc, sink)

	got, err := svc.Summarize(context.Background())
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if got != "Both reports cover sales." {
		t.Errorf("unexpected summary %q", got)
	}

	user := fc.requests[0][1].Content
	want := "Please summarize these reports:\n\nTitle: A\nContent: <p>one</p>\n\nTitle: B\nContent: two"
	if user != want {
		t.Errorf("user message = %q, want %q", user, want)
	}

	h := svc.History()
	if len(h) != 2 || h[0].Content != summarizeRequest || h[1].Content != got {
		t.Errorf("unexpected history: %+v", h)
	}
}

func TestSummarizeErrorAppendsApology(t *testing.T) {
	sink := &fakeSink{reports: []models.Report{{ID: "1", Title: "A"}}}
	svc := newTestService(&fakeCompleter{err: errors.New("timeout")}, sink)

	if _, err := svc.Summarize(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	h := svc.History()
	if len(h) != 2 || h[1].Content != summarizeApology {
		t.Errorf("unexpected history: %+v", h)
	}
}

func TestResetClearsHistory(t *testing.T) {
	svc := newTestService(&fakeCompleter{reply: "ok"}, &fakeSink{})
	_, _ = svc.Send(context.Background(), "hi")
	svc.Reset()
	if len(svc.History()) != 0 {
		t.Error("expected empty history after reset")
	}
}
