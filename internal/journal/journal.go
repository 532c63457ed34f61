// Package journal implements the task lineage rules of a diary: carrying
// open tasks onto a new page, copying them between dates, moving a task to
// today's page when its status changes, and rebuilding a task's history.
//
// Every operation runs in a single transaction obtained from a Transactor.
// Failures wrap model.ErrNotFound, model.ErrConflict or model.ErrValidation.
package journal

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/Joseda-hg/lazydiary/internal/model"
	"github.com/Joseda-hg/lazydiary/internal/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/Joseda-hg/lazydiary/internal/journal"

// Repository is the transaction-scoped view of the entity store. Lookups of
// a single row return an error wrapping model.ErrNotFound when it is
// missing; CreatePage returns one wrapping model.ErrConflict when the
// (diary, date) pair is taken.
type Repository interface {
	GetDiary(ctx context.Context, id int64) (model.Diary, error)

	GetPage(ctx context.Context, id int64) (model.Page, error)
	GetPageByDate(ctx context.Context, diaryID int64, date time.Time) (model.Page, error)
	CreatePage(ctx context.Context, diaryID int64, date time.Time) (model.Page, error)
	// LatestPageDateBefore reports the most recent page date of the diary
	// strictly before date. ok is false when there is none.
	LatestPageDateBefore(ctx context.Context, diaryID int64, date time.Time) (latest time.Time, ok bool, err error)
	ListPagesOnDate(ctx context.Context, diaryID int64, date time.Time) ([]model.Page, error)

	GetInstance(ctx context.Context, id int64) (model.TaskInstance, error)
	ListInstancesByPage(ctx context.Context, pageID int64) ([]model.TaskInstance, error)
	ListOpenInstancesByPage(ctx context.Context, pageID int64) ([]model.TaskInstance, error)
	FindInstanceByLineageOnPage(ctx context.Context, pageID, lineageID int64) (instance model.TaskInstance, ok bool, err error)
	CreateInstance(ctx context.Context, instance model.TaskInstance) (model.TaskInstance, error)
	UpdateInstanceStatus(ctx context.Context, id int64, status string) (model.TaskInstance, error)
	UpdateInstanceTitle(ctx context.Context, id int64, title string) (model.TaskInstance, error)

	ListHistoryByLineage(ctx context.Context, lineageID int64) ([]model.HistoryEntry, error)
}

// Transactor runs fn inside one transaction, committing only when fn
// returns nil.
type Transactor interface {
	RunInTx(ctx context.Context, fn func(Repository) error) error
}

type Engine struct {
	store   Transactor
	now     func() time.Time
	logger  *slog.Logger
	metrics *observability.Metrics
	tracer  trace.Tracer
}

type Option func(*Engine)

// WithClock sets the source of "today" for MigrateStatus.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func WithMetrics(metrics *observability.Metrics) Option {
	return func(e *Engine) {
		e.metrics = metrics
	}
}

func New(store Transactor, opts ...Option) *Engine {
	engine := &Engine{
		store:  store,
		now:    time.Now,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// Today returns the engine's current calendar date.
func (e *Engine) Today() time.Time {
	return model.DateOf(e.now())
}

func (e *Engine) run(ctx context.Context, operation string, attrs []attribute.KeyValue, fn func(context.Context, Repository) error) error {
	ctx, span := e.tracer.Start(ctx, "journal."+operation, trace.WithAttributes(attrs...))
	defer span.End()

	start := time.Now()
	err := e.store.RunInTx(ctx, func(repo Repository) error {
		return fn(ctx, repo)
	})
	e.metrics.ObserveOperation(operation, err, time.Since(start))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.logger.Debug("journal operation failed", "operation", operation, "error", err)
		return err
	}
	e.logger.Debug("journal operation", "operation", operation, "duration", time.Since(start))
	return nil
}
