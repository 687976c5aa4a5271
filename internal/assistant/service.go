// Package assistant drives conversations with the text-generation service
// and turns its output into reports.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ppiankov/reportdesk/internal/models"
)

// System instructions for each kind of exchange.
const (
	ChatPrompt      = "You are a helpful AI assistant that helps users write and organize reports. When suggesting to create a report, provide a clear title and structured content."
	DraftPrompt     = "You are a professional report writer. Generate a well-structured report based on the user's prompt. Include a clear title and organize the content with appropriate sections."
	SummarizePrompt = "You are a professional content summarizer. Provide a concise and informative summary of the given reports, highlighting key points and themes."
)

// Canned conversation turns.
const (
	chatApology      = "Sorry, I encountered an error. Please try again."
	summarizeApology = "Sorry, I encountered an error while summarizing the content."
	draftDone        = "I've generated a draft report based on your prompt. You can find it in the reports list."
	summarizeRequest = "Summarize all reports"
	noReportsRequest = "No reports available to summarize."
	noReportsReply   = "Sorry, I cannot summarize content without reports."
)

// createMarker in a chat reply asks for the reply to be saved as a report.
const createMarker = "create a report"

var (
	ErrEmptyInput = errors.New("message is empty")
	ErrNoReports  = errors.New("no reports available to summarize")
	ErrDiscarded  = errors.New("conversation was reset while the request was in flight")
)

// Completer produces the next assistant turn for a conversation.
type Completer interface {
	Complete(ctx context.Context, messages []models.Message) (string, error)
}

// ReportSink is where generated reports go. The collection manager satisfies it.
type ReportSink interface {
	Add(r models.Report) error
	Reports() []models.Report
}

// Reply is the outcome of a chat turn.
type Reply struct {
	Text    string
	Created *models.Report
}

// Service keeps the conversation history. Requests run without holding the
// history lock, so the collection stays editable while a call is in flight.
type Service struct {
	completer Completer
	sink      ReportSink
	logger    *slog.Logger
	now       func() time.Time

	mu         sync.Mutex
	history    []models.Message
	generation int
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithClock overrides the time source used for new reports.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService wires a completer to a report sink.
func NewService(completer Completer, sink ReportSink, opts ...Option) *Service {
	s := &Service{
		completer: completer,
		sink:      sink,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// History returns a copy of the conversation.
func (s *Service) History() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Message, len(s.history))
	copy(out, s.history)
	return out
}

// Reset clears the conversation. Replies to requests started before the
// reset are dropped.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
	s.generation++
}

// Send adds a user turn and asks for the next assistant turn. A reply that
// offers to create a report is saved as one.
func (s *Service) Send(ctx context.Context, input string) (Reply, error) {
	if strings.TrimSpace(input) == "" {
		return Reply{}, ErrEmptyInput
	}

	s.mu.Lock()
	s.history = append(s.history, models.Message{Role: models.RoleUser, Content: input})
	gen := s.generation
	conversation := withSystem(ChatPrompt, s.history)
	s.mu.Unlock()

	text, err := s.completer.Complete(ctx, conversation)
	if err != nil {
		s.logger.Warn("chat request failed", "error", err)
		s.appendIfCurrent(gen, models.Message{Role: models.RoleAssistant, Content: chatApology})
		return Reply{}, err
	}
	if !s.appendIfCurrent(gen, models.Message{Role: models.RoleAssistant, Content: text}) {
		return Reply{}, ErrDiscarded
	}

	reply := Reply{Text: text}
	if strings.Contains(strings.ToLower(text), createMarker) {
		r := models.NewReport(ExtractTitle(text, input), text, s.now())
		if err := s.sink.Add(r); err != nil {
			return reply, fmt.Errorf("save report: %w", err)
		}
		s.logger.Info("assistant created report", "id", r.ID, "title", r.Title)
		reply.Created = &r
	}
	return reply, nil
}

// Draft asks the model to write a report about prompt and saves it.
func (s *Service) Draft(ctx context.Context, prompt string) (models.Report, error) {
	if strings.TrimSpace(prompt) == "" {
		return models.Report{}, ErrEmptyInput
	}

	s.mu.Lock()
	gen := s.generation
	s.mu.Unlock()

	request := "Generate a report about: " + prompt
	text, err := s.completer.Complete(ctx, []models.Message{
		{Role: models.RoleSystem, Content: DraftPrompt},
		{Role: models.RoleUser, Content: request},
	})
	if err != nil {
		s.logger.Warn("draft request failed", "error", err)
		return models.Report{}, err
	}

	r := models.NewReport(ExtractTitle(text, prompt), text, s.now())
	if err := s.sink.Add(r); err != nil {
		return models.Report{}, fmt.Errorf("save report: %w", err)
	}
	s.logger.Info("assistant drafted report", "id", r.ID, "title", r.Title)

	s.appendIfCurrent(gen,
		models.Message{Role: models.RoleUser, Content: request},
		models.Message{Role: models.RoleAssistant, Content: draftDone},
	)
	return r, nil
}

// Summarize asks the model for a summary of every report in the collection.
func (s *Service) Summarize(ctx context.Context) (string, error) {
	reports := s.sink.Reports()

	s.mu.Lock()
	gen := s.generation
	if len(reports) == 0 {
		s.history = append(s.history,
			models.Message{Role: models.RoleUser, Content: noReportsRequest},
			models.Message{Role: models.RoleAssistant, Content: noReportsReply},
		)
		s.mu.Unlock()
		return "", ErrNoReports
	}
	s.mu.Unlock()

	text, err := s.completer.Complete(ctx, []models.Message{
		{Role: models.RoleSystem, Content: SummarizePrompt},
		{Role: models.RoleUser, Content: "Please summarize these reports:\n\n" + CombineReports(reports)},
	})
	if err != nil {
		s.logger.Warn("summarize request failed", "error", err)
		s.appendIfCurrent(gen,
			models.Message{Role: models.RoleUser, Content: summarizeRequest},
			models.Message{Role: models.RoleAssistant, Content: summarizeApology},
		)
		return "", err
	}

	if !s.appendIfCurrent(gen,
		models.Message{Role: models.RoleUser, Content: summarizeRequest},
		models.Message{Role: models.RoleAssistant, Content: text},
	) {
		return "", ErrDiscarded
	}
	return text, nil
}

// CombineReports renders reports as "Title/Content" blocks separated by blank lines.
func CombineReports(reports []models.Report) string {
	blocks := make([]string, 0, len(reports))
	for _, r := range reports {
		blocks = append(blocks, fmt.Sprintf("Title: %s\nContent: %s", r.Title, r.Content))
	}
	return strings.Join(blocks, "\n\n")
}

func (s *Service) appendIfCurrent(gen int, msgs ...models.Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false
	}
	s.history = append(s.history, msgs...)
	return true
}

func withSystem(prompt string, history []models.Message) []models.Message {
	out := make([]models.Message, 0, len(history)+1)
	out = append(out, models.Message{Role: models.RoleSystem, Content: prompt})
	return append(out, history...)
}
