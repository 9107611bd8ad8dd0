package tasklist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/language"

	"github.com/grand-thief-cash/todolist/internal/apiclient"
	"github.com/grand-thief-cash/todolist/internal/model"
)

var (
	// ErrLoginRequired means no usable credential is cached; the caller must log in first.
	ErrLoginRequired = errors.New("login required")
	ErrTitleRequired = errors.New("title is required")
	ErrUnknownTask   = errors.New("task not in list")
)

// API is the subset of the HTTP client the controller drives.
type API interface {
	SetToken(token string)
	ListTasks(ctx context.Context) ([]model.Task, error)
	CreateTask(ctx context.Context, t model.Task) (*model.Task, error)
	UpdateTask(ctx context.Context, t model.Task) error
	DeleteTask(ctx context.Context, id int64) error
}

// TokenSource returns the cached bearer token, or ok=false when absent or expired.
type TokenSource func() (token string, ok bool)

type Controller struct {
	api    API
	tokens TokenSource
	now    func() time.Time
	locale language.Tag

	mu    sync.Mutex
	state State
}

type Option func(*Controller)

func WithClock(now func() time.Time) Option { return func(c *Controller) { c.now = now } }

func WithLocale(tag language.Tag) Option { return func(c *Controller) { c.locale = tag } }

func NewController(api API, tokens TokenSource, opts ...Option) *Controller {
	c := &Controller{api: api, tokens: tokens, now: time.Now, locale: language.Und}
	for _, o := range opts {
		o(c)
	}
	c.state = NewState(c.now())
	return c
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Visible() []model.Task { return c.State().Visible(c.locale) }

// Apply runs a local-only transition such as WithFilter or WithSearch.
func (c *Controller) Apply(fn func(State) State) {
	c.mu.Lock()
	c.state = fn(c.state)
	c.mu.Unlock()
}

// Mount loads the task list, or returns ErrLoginRequired without touching the network.
func (c *Controller) Mount(ctx context.Context) error {
	token, ok := c.tokens()
	if !ok {
		return ErrLoginRequired
	}
	c.api.SetToken(token)
	list, err := c.api.ListTasks(ctx)
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	c.Apply(func(s State) State { return s.Loaded(list) })
	return nil
}

// SubmitForm creates or updates from the current form. The form is reset only on success.
func (c *Controller) SubmitForm(ctx context.Context) error {
	s := c.State()
	form := s.FormData
	form.Title = strings.TrimSpace(form.Title)
	form.Description = strings.TrimSpace(form.Description)
	if form.Title == "" {
		c.Apply(func(s State) State { return s.FormFailed(ErrTitleRequired.Error()) })
		return ErrTitleRequired
	}

	if s.EditingTask != nil {
		t := form.Task(s.EditingTask.ID)
		if err := c.api.UpdateTask(ctx, t); err != nil {
			return c.fail(err)
		}
		c.Apply(func(s State) State { return s.Replaced(t, c.now()) })
		return nil
	}

	created, err := c.api.CreateTask(ctx, form.Task(0))
	if err != nil {
		return c.fail(err)
	}
	c.Apply(func(s State) State { return s.Added(*created, c.now()) })
	return nil
}

// ToggleComplete flips the flag locally only after the server accepted the update.
func (c *Controller) ToggleComplete(ctx context.Context, id int64) error {
	t, ok := c.State().Find(id)
	if !ok {
		return ErrUnknownTask
	}
	t.IsCompleted = !t.IsCompleted
	if err := c.api.UpdateTask(ctx, t); err != nil {
		return err
	}
	c.Apply(func(s State) State { return s.Toggled(id) })
	return nil
}

func (c *Controller) DeleteTask(ctx context.Context, id int64) error {
	if err := c.api.DeleteTask(ctx, id); err != nil {
		return err
	}
	c.Apply(func(s State) State { return s.Removed(id) })
	return nil
}

func (c *Controller) StartEdit(t model.Task) {
	c.Apply(func(s State) State { return s.EditStarted(t) })
}

func (c *Controller) CancelEdit() {
	c.Apply(func(s State) State { return s.EditCancelled(c.now()) })
}

func (c *Controller) ShowForm() {
	c.Apply(State.FormShown)
}

func (c *Controller) SetForm(f FormData) {
	c.Apply(func(s State) State { return s.WithForm(f) })
}

// fail surfaces validation and network failures on the form; the rest stay silent.
func (c *Controller) fail(err error) error {
	switch apiclient.KindOf(err) {
	case apiclient.KindValidation, apiclient.KindNetwork:
		msg := err.Error()
		var ae *apiclient.APIError
		if errors.As(err, &ae) {
			msg = ae.Message
		}
		c.Apply(func(s State) State { return s.FormFailed(msg) })
	}
	return err
}
