package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/grand-thief-cash/todolist/infra/application/components/logging"
	"github.com/grand-thief-cash/todolist/infra/application/components/prometheus"
	appconsts "github.com/grand-thief-cash/todolist/infra/application/consts"
	"github.com/grand-thief-cash/todolist/infra/application/core"
	"github.com/grand-thief-cash/todolist/internal/auth"
	"github.com/grand-thief-cash/todolist/internal/consts"
	"github.com/grand-thief-cash/todolist/internal/dao"
	"github.com/grand-thief-cash/todolist/internal/model"
)

// TaskInput is the client-supplied part of a task. ID is only read by Update.
type TaskInput struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	Description *string          `json:"description"`
	DueDate     time.Time        `json:"dueDate"`
	IsCompleted bool             `json:"isCompleted"`
	Priority    *consts.Priority `json:"priority"`
}

func (in *TaskInput) UnmarshalJSON(b []byte) error {
	type plain TaskInput
	aux := struct {
		*plain
		DueDate model.DueDate `json:"dueDate"`
	}{plain: (*plain)(in), DueDate: model.DueDate(in.DueDate)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	in.DueDate = time.Time(aux.DueDate)
	return nil
}

// TaskService applies the task rules on top of TaskDao. In scoped mode every call is
// restricted to the caller's own tasks; in shared mode all users see all tasks.
type TaskService struct {
	*core.BaseComponent
	TaskDao dao.TaskDao           `infra:"dep:task_dao"`
	Metrics *prometheus.Component `infra:"dep:prometheus?"`

	scoped  bool
	tracer  trace.Tracer
	ops     *prom.CounterVec
	latency *prom.HistogramVec
}

func NewTaskService(scoped bool) *TaskService {
	return &TaskService{
		BaseComponent: core.NewBaseComponent(consts.COMP_SVC_TASK, appconsts.COMPONENT_LOGGING),
		scoped:        scoped,
	}
}

func (s *TaskService) Start(ctx context.Context) error {
	if err := s.BaseComponent.Start(ctx); err != nil {
		return err
	}
	s.tracer = otel.Tracer("todolist/task_service")
	if s.Metrics != nil {
		s.ops = s.Metrics.NewCounter("task_operations_total", "Task service operations by result.", []string{"op", "result"})
		s.latency = s.Metrics.NewHistogram("task_operation_duration_seconds", "Task service operation latency.", []string{"op"}, nil)
	}
	logging.Info(ctx, "task_service started", zap.Bool("scoped", s.scoped))
	return nil
}

func (s *TaskService) owner(id *auth.Identity) int64 {
	if !s.scoped || id == nil {
		return 0
	}
	return id.UserID
}

// begin opens a span for op; the returned func records the outcome.
func (s *TaskService) begin(ctx context.Context, op string, id *auth.Identity) (context.Context, func(error)) {
	if s.tracer == nil {
		s.tracer = otel.Tracer("todolist/task_service")
	}
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "TaskService."+op)
	if id != nil {
		span.SetAttributes(attribute.Int64("user.id", id.UserID))
	}
	return ctx, func(err error) {
		result := "ok"
		if err != nil {
			result = resultOf(err)
			span.RecordError(err)
			if result == "error" {
				span.SetStatus(codes.Error, err.Error())
			}
		}
		span.End()
		if s.ops != nil {
			s.ops.WithLabelValues(op, result).Inc()
			s.latency.WithLabelValues(op).Observe(time.Since(start).Seconds())
		}
	}
}

func resultOf(err error) string {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrBadRequest):
		return "invalid"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	}
	return "error"
}

func validate(in *TaskInput) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if in.DueDate.IsZero() {
		return fmt.Errorf("%w: dueDate is required", ErrValidation)
	}
	if in.Priority != nil && !in.Priority.Valid() {
		return fmt.Errorf("%w: priority %q must be low, medium or high", ErrValidation, *in.Priority)
	}
	return nil
}

func notFound(err error, id int64) error {
	if errors.Is(err, dao.ErrNotFound) {
		return fmt.Errorf("%w: task %d", ErrNotFound, id)
	}
	return err
}

func (s *TaskService) List(ctx context.Context, id *auth.Identity) (list []*model.Task, err error) {
	ctx, done := s.begin(ctx, "list", id)
	defer func() { done(err) }()
	list, err = s.TaskDao.List(ctx, s.owner(id))
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return list, nil
}

func (s *TaskService) Get(ctx context.Context, id *auth.Identity, taskID int64) (t *model.Task, err error) {
	ctx, done := s.begin(ctx, "get", id)
	defer func() { done(err) }()
	t, err = s.TaskDao.Get(ctx, s.owner(id), taskID)
	if err != nil {
		return nil, notFound(err, taskID)
	}
	return t, nil
}

func (s *TaskService) Create(ctx context.Context, id *auth.Identity, in TaskInput) (t *model.Task, err error) {
	ctx, done := s.begin(ctx, "create", id)
	defer func() { done(err) }()
	if err = validate(&in); err != nil {
		return nil, err
	}
	t = &model.Task{
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		IsCompleted: in.IsCompleted,
		Priority:    in.Priority,
	}
	if id != nil {
		t.OwnerID = id.UserID
	}
	if err = s.TaskDao.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	logging.Info(ctx, "task created", zap.Int64("task_id", t.ID), zap.Int64("owner_id", t.OwnerID))
	return t, nil
}

// Update overwrites every mutable field of taskID; pathID must match in.ID.
func (s *TaskService) Update(ctx context.Context, id *auth.Identity, pathID int64, in TaskInput) (err error) {
	ctx, done := s.begin(ctx, "update", id)
	defer func() { done(err) }()
	if pathID != in.ID {
		return fmt.Errorf("%w: path id %d does not match body id %d", ErrBadRequest, pathID, in.ID)
	}
	if err = validate(&in); err != nil {
		return err
	}
	t := &model.Task{
		ID:          in.ID,
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		IsCompleted: in.IsCompleted,
		Priority:    in.Priority,
	}
	if err = s.TaskDao.Update(ctx, s.owner(id), t); err != nil {
		return notFound(err, pathID)
	}
	return nil
}

func (s *TaskService) Delete(ctx context.Context, id *auth.Identity, taskID int64) (err error) {
	ctx, done := s.begin(ctx, "delete", id)
	defer func() { done(err) }()
	if err = s.TaskDao.Delete(ctx, s.owner(id), taskID); err != nil {
		return notFound(err, taskID)
	}
	return nil
}

// Complete sets isCompleted; completing twice is a no-op.
func (s *TaskService) Complete(ctx context.Context, id *auth.Identity, taskID int64) (err error) {
	ctx, done := s.begin(ctx, "complete", id)
	defer func() { done(err) }()
	if err = s.TaskDao.MarkCompleted(ctx, s.owner(id), taskID); err != nil {
		return notFound(err, taskID)
	}
	return nil
}
