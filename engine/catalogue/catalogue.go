// Package catalogue implements the per-kind operations of the theatrical
// catalogue: validate, create, update, edit, show, delete and list.
//
// A write runs as one store transaction: existence check, intrinsic and
// store-backed validation, the composite write and the read-back of the shown
// entity. Validation failures abort before the write and come back as the
// input carrying hasErrors and field messages, never as a Go error.
package catalogue

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/stagebase/stagebase/engine/domain"
	"github.com/stagebase/stagebase/engine/identity"
	"github.com/stagebase/stagebase/engine/queries"
	"github.com/stagebase/stagebase/engine/shape"
	"github.com/stagebase/stagebase/pkg/metrics"
	"github.com/stagebase/stagebase/pkg/repo"
)

// Operation names, used in spans, metrics, logs and event subjects.
const (
	OpValidate = "validate"
	OpCreate   = "create"
	OpUpdate   = "update"
	OpEdit     = "edit"
	OpShow     = "show"
	OpDelete   = "delete"
	OpList     = "list"
)

// Input is the create/update body of a kind.
type Input interface {
	Normalize()
	Validate() domain.Errors
	Ident() domain.Identity
	ID() string
	SetID(uuid string)
	SetErrors(errs domain.Errors)
}

// Operations is the operation set of one kind.
type Operations interface {
	Model() domain.Model
	// NewInput returns an empty input to decode a request body into.
	NewInput() Input
	Validate(ctx context.Context, in Input) (Input, error)
	// Create and Update return the shown entity, or the input carrying
	// errors when validation failed.
	Create(ctx context.Context, in Input) (any, error)
	Update(ctx context.Context, uuid string, in Input) (any, error)
	Edit(ctx context.Context, uuid string) (any, error)
	Show(ctx context.Context, uuid string) (any, error)
	Delete(ctx context.Context, uuid string) (domain.Deleted, error)
	List(ctx context.Context, opts repo.ListOpts) ([]any, error)
}

// Catalogue holds the operations of every kind over one store.
type Catalogue struct {
	store   repo.Store
	tpl     *queries.Templates
	depth   int
	newID   func() string
	log     *slog.Logger
	events  Publisher
	metrics *metrics.Metrics
	tracer  trace.Tracer
	kinds   map[domain.Model]Operations
}

// Option configures a Catalogue.
type Option func(*Catalogue)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(c *Catalogue) { c.log = l } }

// WithPublisher publishes an event after every committed write.
func WithPublisher(p Publisher) Option { return func(c *Catalogue) { c.events = p } }

// WithMetrics records operation outcomes and latency.
func WithMetrics(m *metrics.Metrics) Option { return func(c *Catalogue) { c.metrics = m } }

// WithMaxDepth bounds hierarchy chains on read and guard.
func WithMaxDepth(d int) Option { return func(c *Catalogue) { c.depth = d } }

// WithIDs replaces the uuid source.
func WithIDs(f func() string) Option { return func(c *Catalogue) { c.newID = f } }

// New creates a catalogue over store.
func New(store repo.Store, opts ...Option) *Catalogue {
	c := &Catalogue{
		store:  store,
		depth:  shape.DefaultMaxDepth,
		newID:  identity.NewUUID,
		log:    slog.New(slog.DiscardHandler),
		tracer: otel.Tracer("github.com/stagebase/stagebase/engine/catalogue"),
	}
	for _, o := range opts {
		o(c)
	}
	c.tpl = queries.New(c.depth, c.newID)
	c.kinds = make(map[domain.Model]Operations)
	c.register()
	return c
}

// Kind returns the operations of model m.
func (c *Catalogue) Kind(m domain.Model) (Operations, bool) {
	k, ok := c.kinds[m]
	return k, ok
}

func (c *Catalogue) shapeOpts() shape.Options { return shape.Options{MaxDepth: c.depth} }

// begin opens the span of one operation. The returned func closes it and
// records the outcome.
func (c *Catalogue) begin(ctx context.Context, m domain.Model, op string) (context.Context, func(uuid, outcome string, err error)) {
	start := time.Now()
	ctx, span := c.tracer.Start(ctx, "catalogue."+op, trace.WithAttributes(
		attribute.String("model", string(m)),
	))
	return ctx, func(uuid, outcome string, err error) {
		elapsed := time.Since(start)
		span.SetAttributes(attribute.String("uuid", uuid), attribute.String("outcome", outcome))
		if outcome == metrics.OutcomeError {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		c.metrics.Observe(string(m), op, outcome, elapsed)
		switch {
		case outcome == metrics.OutcomeError:
			c.log.Error("catalogue operation failed", "model", m, "op", op, "uuid", uuid, "duration", elapsed, "err", err)
		case op == OpCreate || op == OpUpdate || op == OpDelete:
			c.log.Info("catalogue write", "model", m, "op", op, "uuid", uuid, "outcome", outcome, "duration", elapsed)
		default:
			c.log.Debug("catalogue read", "model", m, "op", op, "uuid", uuid, "outcome", outcome, "duration", elapsed)
		}
	}
}

func outcome(err error, invalid bool) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return metrics.OutcomeNotFound
	case err != nil:
		return metrics.OutcomeError
	case invalid:
		return metrics.OutcomeInvalid
	}
	return metrics.OutcomeOK
}

// fail classifies an error escaping a transaction: not-found and chain depth
// errors pass through, anything else becomes a store error.
func fail(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrChainDepth) || errors.Is(err, domain.ErrStore) {
		return err
	}
	return domain.NewStoreError(op, err)
}

// publish announces a committed write. Failures are logged only.
func (c *Catalogue) publish(ctx context.Context, e Event) {
	if c.events == nil {
		return
	}
	if err := c.events.Publish(ctx, e); err != nil {
		c.log.Warn("event publish failed", "subject", e.Subject(), "err", err)
	}
}

func run(ctx context.Context, r repo.Runner, op string, text string, params map[string]any) ([]repo.Row, error) {
	rows, err := r.Run(ctx, text, params)
	if err != nil {
		return nil, domain.NewStoreError(op, err)
	}
	return rows, nil
}
