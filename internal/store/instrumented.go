package store

import (
	"context"
	"fmt"
	"time"

	"github.com/abgdnv/catalog/internal/repository"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/abgdnv/catalog/internal/store"

// Instrumented wraps a repository with one span, one counter increment and one
// duration sample per call.
type Instrumented[T any] struct {
	next     repository.Repository[T]
	identity repository.Identity[T]
	tracer   trace.Tracer
	calls    metric.Int64Counter
	duration metric.Float64Histogram
}

// NewInstrumented decorates next with tracing and metrics taken from the given providers.
func NewInstrumented[T any](next repository.Repository[T], identity repository.Identity[T],
	tp trace.TracerProvider, mp metric.MeterProvider) (*Instrumented[T], error) {
	meter := mp.Meter(instrumentationName)
	calls, err := meter.Int64Counter("store.operations",
		metric.WithDescription("Number of store operations by operation and result"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create store counter: %w", err)
	}
	duration, err := meter.Float64Histogram("store.operation.duration",
		metric.WithDescription("Duration of store operations"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create store histogram: %w", err)
	}
	return &Instrumented[T]{
		next:     next,
		identity: identity,
		tracer:   tp.Tracer(instrumentationName),
		calls:    calls,
		duration: duration,
	}, nil
}

func (s *Instrumented[T]) GetByID(ctx context.Context, id int64) (T, bool, error) {
	ctx, span, done := s.start(ctx, "get", id)
	entity, ok, err := s.next.GetByID(ctx, id)
	span.SetAttributes(attribute.Bool("entity.found", ok))
	done(ctx, err)
	return entity, ok, err
}

func (s *Instrumented[T]) GetAll(ctx context.Context) ([]T, error) {
	ctx, span, done := s.start(ctx, "get_all", 0)
	list, err := s.next.GetAll(ctx)
	span.SetAttributes(attribute.Int("entity.count", len(list)))
	done(ctx, err)
	return list, err
}

func (s *Instrumented[T]) Create(ctx context.Context, entity *T) error {
	ctx, span, done := s.start(ctx, "create", s.identity.ID(*entity))
	err := s.next.Create(ctx, entity)
	span.SetAttributes(attribute.Int64("entity.id", s.identity.ID(*entity)))
	done(ctx, err)
	return err
}

func (s *Instrumented[T]) Update(ctx context.Context, entity T) error {
	ctx, _, done := s.start(ctx, "update", s.identity.ID(entity))
	err := s.next.Update(ctx, entity)
	done(ctx, err)
	return err
}

func (s *Instrumented[T]) Delete(ctx context.Context, entity T) error {
	ctx, _, done := s.start(ctx, "delete", s.identity.ID(entity))
	err := s.next.Delete(ctx, entity)
	done(ctx, err)
	return err
}

// Ping forwards to the wrapped store when it supports pings.
func (s *Instrumented[T]) Ping(ctx context.Context) error {
	if p, ok := s.next.(repository.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (s *Instrumented[T]) start(ctx context.Context, op string, id int64) (context.Context, trace.Span, func(context.Context, error)) {
	started := time.Now()
	ctx, span := s.tracer.Start(ctx, "store."+op, trace.WithSpanKind(trace.SpanKindInternal))
	if id != 0 {
		span.SetAttributes(attribute.Int64("entity.id", id))
	}
	return ctx, span, func(ctx context.Context, err error) {
		defer span.End()
		result := "ok"
		if err != nil {
			result = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		attrs := metric.WithAttributes(
			attribute.String("operation", op),
			attribute.String("result", result),
		)
		s.calls.Add(ctx, 1, attrs)
		s.duration.Record(ctx, float64(time.Since(started).Microseconds())/1e3, attrs)
	}
}
