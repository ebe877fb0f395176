package compiler

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/alexisbeaulieu97/livepreview/internal/descriptor"
	"github.com/alexisbeaulieu97/livepreview/internal/hook"
	"github.com/alexisbeaulieu97/livepreview/internal/logger"
	"github.com/alexisbeaulieu97/livepreview/internal/telemetry"
)

// Builder compiles a field set into the final script and passes it through the script
// hook.
type Builder struct {
	hooks   *hook.Registry
	logger  *logger.Logger
	metrics *telemetry.Metrics
	tracer  *telemetry.Tracer
	workers int
	now     func() time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// WithHooks sets the registry whose script filters run on every build.
func WithHooks(hooks *hook.Registry) Option {
	return func(b *Builder) {
		b.hooks = hooks
	}
}

// WithLogger injects a logger.
func WithLogger(l *logger.Logger) Option {
	return func(b *Builder) {
		b.logger = l
	}
}

// WithMetrics injects a metrics collector.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(b *Builder) {
		b.metrics = m
	}
}

// WithTracer injects a tracer.
func WithTracer(t *telemetry.Tracer) Option {
	return func(b *Builder) {
		b.tracer = t
	}
}

// WithWorkers sets per-field compile parallelism. Values below two compile sequentially.
func WithWorkers(workers int) Option {
	return func(b *Builder) {
		b.workers = workers
	}
}

// NewBuilder constructs a Builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		logger: logger.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.Component("compiler")
	return b
}

// Result describes one build.
type Result struct {
	ID        string
	Script    string
	Digest    string
	Fields    []CompiledField
	Skipped   []Skip
	StartedAt time.Time
	Duration  time.Duration
}

// Build compiles fields, joins the procedures in input order and applies the script hook.
func (b *Builder) Build(ctx context.Context, fields []descriptor.Field) (*Result, error) {
	started := b.now()
	res := &Result{ID: uuid.NewString(), StartedAt: started}

	ctx, span := b.tracer.StartBuildSpan(ctx, res.ID, len(fields))
	defer span.End()

	eligible, skipped := Scan(fields)
	res.Skipped = skipped
	for _, s := range skipped {
		b.metrics.RecordSkip(string(s.Reason))
		b.logger.WithFields(map[string]any{
			"setting": s.Setting,
			"reason":  string(s.Reason),
		}).Debug("field skipped")
	}
	span.SetAttributes(telemetry.AttrSkipCount.Int(len(skipped)))

	compiled, err := CompileAll(ctx, eligible, b.workers, b.compileField)
	if err != nil {
		return nil, b.fail(res, span, err, "compile failed")
	}
	res.Fields = compiled

	out, err := b.hooks.Apply(ctx, hook.Script, Join(compiled))
	if err != nil {
		return nil, b.fail(res, span, err, "script filter failed")
	}

	sum := sha256.Sum256([]byte(out))
	res.Script = out
	res.Digest = hex.EncodeToString(sum[:])
	res.Duration = b.now().Sub(started)

	b.metrics.RecordBuild(telemetry.StatusSuccess, res.Duration, len(out))
	span.SetAttributes(telemetry.AttrScriptBytes.Int(len(out)))
	telemetry.RecordSuccess(span)
	b.logger.WithFields(map[string]any{
		"build_id": res.ID,
		"fields":   len(compiled),
		"skipped":  len(skipped),
		"bytes":    len(out),
	}).Info("script built")

	return res, nil
}

func (b *Builder) compileField(ctx context.Context, f descriptor.Field) CompiledField {
	_, span := b.tracer.StartFieldSpan(ctx, f.Settings, len(f.JSVars))
	defer span.End()

	cf := CompileField(f)
	b.metrics.RecordField(cf.Handlers()...)
	return cf
}

func (b *Builder) fail(res *Result, span trace.Span, err error, msg string) error {
	res.Duration = b.now().Sub(res.StartedAt)
	b.metrics.RecordBuild(telemetry.StatusFailure, res.Duration, 0)
	telemetry.RecordError(span, err)
	b.logger.WithField("build_id", res.ID).Error(err, msg)
	return err
}
