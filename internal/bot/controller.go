// Package bot implements the chat interaction controller: a per-user state
// machine that turns menu taps and free-text payloads into store calls.
package bot

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mikhailyemets/todoplash/internal/domain"
	"github.com/mikhailyemets/todoplash/internal/metrics"
	"github.com/mikhailyemets/todoplash/internal/probe"
	"github.com/mikhailyemets/todoplash/internal/session"
	"github.com/mikhailyemets/todoplash/internal/storeclient"
)

// Message is an inbound chat message.
type Message struct {
	UserID string
	Text   string
}

// Reply is what the controller wants sent back. Menu asks the transport to
// attach the main menu keyboard.
type Reply struct {
	Text string
	Menu bool
}

// Store is the remote task/user store as seen by the controller.
type Store interface {
	CreateTask(ctx context.Context, description string) (*domain.Task, error)
	GetTask(ctx context.Context, id string) (*domain.Task, error)
	ListTasks(ctx context.Context) ([]domain.Task, error)
	UpdateTask(ctx context.Context, id, description string) (*domain.Task, error)
	DeleteTask(ctx context.Context, id string) error
	DeleteAllTasks(ctx context.Context) (*storeclient.DeleteAllResult, error)

	ListUsers(ctx context.Context) ([]domain.User, error)
	AddUser(ctx context.Context, telegramID, group string) (*domain.User, error)
	DeleteUser(ctx context.Context, telegramID string) error
	EditUser(ctx context.Context, telegramID, group string) (*domain.User, error)

	SearchDomains(ctx context.Context, in probe.Input) ([]domain.ProbeResult, error)
}

// Authorizer decides who may run admin workflows.
type Authorizer interface {
	IsAdmin(userID string) bool
}

// Controller routes messages through the per-user state machine.
type Controller struct {
	store    Store
	sessions *session.Registry
	admins   Authorizer
	logger   *slog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a controller.
func New(store Store, sessions *session.Registry, admins Authorizer, opts ...Option) *Controller {
	c := &Controller{
		store:    store,
		sessions: sessions,
		admins:   admins,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Handle processes one message and returns the reply. It never fails: every
// path produces a reply, and every finished workflow leaves the session idle.
func (c *Controller) Handle(ctx context.Context, msg Message) Reply {
	var reply Reply
	err := c.sessions.WithSession(ctx, msg.UserID, func(s *session.Session) {
		reply = c.step(ctx, s, msg)
	})
	if err != nil {
		c.logger.Warn("Failed to persist session", "user_id", msg.UserID, "error", err)
	}
	return reply
}

func (c *Controller) step(ctx context.Context, s *session.Session, msg Message) (reply Reply) {
	current := s.State
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Workflow panicked", "user_id", msg.UserID, "state", current, "panic", r)
			metrics.RecordWorkflow(workflowForState(current), metrics.OutcomeFailure)
			s.Reset()
			reply = Reply{Text: msgSomethingWrong, Menu: true}
		}
	}()

	switch strings.TrimSpace(msg.Text) {
	case CommandStart:
		s.Reset()
		return Reply{Text: msgWelcome, Menu: true}
	case CommandCancel:
		if !s.IsIdle() {
			metrics.RecordWorkflow(workflowForState(s.State), metrics.OutcomeCanceled)
		}
		s.Reset()
		return Reply{Text: msgCanceled, Menu: true}
	}

	// Menu labels win over an awaited payload and restart the interaction.
	if w, ok := lookup(msg.Text); ok {
		return c.trigger(ctx, s, w, msg)
	}

	if s.IsIdle() {
		return Reply{Text: msgChooseAction, Menu: true}
	}

	w, ok := byState[s.State]
	if !ok {
		c.logger.Warn("Session in unknown state, resetting", "user_id", msg.UserID, "state", s.State)
		s.Reset()
		return Reply{Text: msgChooseAction, Menu: true}
	}

	defer s.Reset()
	if w.admin && !c.isAdmin(msg.UserID) {
		metrics.RecordWorkflow(w.name, metrics.OutcomeDenied)
		return Reply{Text: msgAccessDenied, Menu: true}
	}
	return c.finish(ctx, w, msg, w.payload)
}

func (c *Controller) trigger(ctx context.Context, s *session.Session, w *workflow, msg Message) Reply {
	if w.admin && !c.isAdmin(msg.UserID) {
		c.logger.Info("Admin workflow denied", "user_id", msg.UserID, "workflow", w.name)
		metrics.RecordWorkflow(w.name, metrics.OutcomeDenied)
		return Reply{Text: msgAccessDenied, Menu: true}
	}

	if w.await != "" {
		s.Enter(w.await)
		return Reply{Text: w.prompt}
	}

	s.Reset()
	return c.finish(ctx, w, msg, w.run)
}

func (c *Controller) finish(ctx context.Context, w *workflow, msg Message, fn handlerFunc) Reply {
	res := fn(c, ctx, msg)
	metrics.RecordWorkflow(w.name, res.outcome)
	if res.err != nil {
		c.logger.Warn("Workflow failed",
			"user_id", msg.UserID,
			"workflow", w.name,
			"status", storeclient.StatusCode(res.err),
			"error", res.err,
		)
	}
	return Reply{Text: res.text, Menu: true}
}

func (c *Controller) isAdmin(userID string) bool {
	return c.admins != nil && c.admins.IsAdmin(userID)
}
