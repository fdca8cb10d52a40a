package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"clearance/internal/audit"
	"clearance/internal/export/lifecycle"
	"clearance/internal/export/models"
	"clearance/internal/shipment/metrics"
	"clearance/pkg/platform/broadcast"
	"clearance/pkg/platform/coalesce"
	"clearance/pkg/platform/sentinel"
)

// DefaultDebounce is the quiet period Submit waits for before applying a burst.
const DefaultDebounce = 150 * time.Millisecond

// ReasonNotSaved is the rejection reason attached to a burst whose result
// could not be persisted.
const ReasonNotSaved = "Changes could not be saved"

type Repository interface {
	Save(ctx context.Context, e models.Export) error
	FindByID(ctx context.Context, id models.ExportID) (models.Export, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// ExportStore owns one export file for its editor session.
type ExportStore struct {
	mu      sync.Mutex
	current Snapshot
	closed  bool

	pubMu sync.Mutex

	hub     *broadcast.Hub[Snapshot]
	pending *coalesce.Coalescer[models.Section, models.Update]

	repo     Repository
	audit    AuditPublisher
	recorder *audit.Recorder
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	logger   *slog.Logger
	debounce time.Duration
}

type Option func(*ExportStore)

func WithLogger(logger *slog.Logger) Option {
	return func(s *ExportStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *ExportStore) {
		s.metrics = m
	}
}

func WithRepository(repo Repository) Option {
	return func(s *ExportStore) {
		s.repo = repo
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *ExportStore) {
		s.audit = publisher
	}
}

func WithDebounce(d time.Duration) Option {
	return func(s *ExportStore) {
		if d >= 0 {
			s.debounce = d
		}
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *ExportStore) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// NewExportStore opens a store on initial at revision 0.
func NewExportStore(initial models.Export, opts ...Option) (*ExportStore, error) {
	if initial.ID.IsZero() {
		return nil, fmt.Errorf("export id is required")
	}
	s := &ExportStore{
		hub:      broadcast.NewHub[Snapshot](),
		logger:   slog.Default(),
		tracer:   otel.Tracer("clearance/internal/export/service"),
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.current = Snapshot{Export: initial.Clone(), State: lifecycle.State(initial)}
	s.recorder = audit.NewRecorder(audit.AggregateExport, s.audit, s.logger)
	s.pending = coalesce.New[models.Section, models.Update](s.debounce, s.applyBatch)
	return s, nil
}

func (s *ExportStore) ID() models.ExportID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Export.ID
}

// Current returns the latest published snapshot.
func (s *ExportStore) Current() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.clone()
}

func (s *ExportStore) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	return s.hub.Subscribe(fn)
}

// Apply validates and applies u immediately, superseding a pending save of
// the same section. A rejected update leaves the file unchanged and returns
// an error wrapping sentinel.ErrInvalidState.
func (s *ExportStore) Apply(ctx context.Context, u models.Update) (Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "ExportStore.Apply", trace.WithAttributes(
		attribute.String("export.section", string(u.Section)),
	))
	defer span.End()
	started := time.Now()

	if s.pending.Discard(u.Section) {
		span.SetAttributes(attribute.Bool("export.superseded_pending", true))
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Snapshot{}, fmt.Errorf("apply %s: %w", u.Section, sentinel.ErrClosed)
	}
	prev := s.current
	span.SetAttributes(attribute.String("export.id", prev.Export.ID.String()))

	next, state, err := ApplyUpdate(prev.Export, u)
	if err != nil {
		s.mu.Unlock()
		span.SetAttributes(attribute.String("export.rejection", err.Error()))
		s.recordRejection(ctx, prev, Rejection{Section: u.Section, Reason: reason(err)})
		return prev.clone(), err
	}
	if err := s.persist(ctx, next); err != nil {
		s.mu.Unlock()
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist failed")
		return prev.clone(), err
	}

	snap := s.advance(next, state, nil)
	s.publish(ctx, prev, snap, started)
	return snap.clone(), nil
}

// Submit queues u behind the debounce window, last update per section wins.
func (s *ExportStore) Submit(u models.Update) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return fmt.Errorf("submit %s: %w", u.Section, sentinel.ErrClosed)
	}
	s.pending.Add(u.Section, u)
	return nil
}

func (s *ExportStore) Flush() {
	s.pending.Flush()
}

// Close applies any pending burst and rejects later mutations.
func (s *ExportStore) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.pending.Close()

	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *ExportStore) applyBatch(batch []models.Update, superseded int) {
	ctx, span := s.tracer.Start(context.Background(), "ExportStore.Flush", trace.WithAttributes(
		attribute.Int("export.batch_size", len(batch)),
		attribute.Int("export.superseded", superseded),
	))
	defer span.End()
	started := time.Now()
	s.metrics.AddCoalesced(superseded)

	s.mu.Lock()
	prev := s.current

	working, state := prev.Export, prev.State
	var rejections []Rejection
	applied := 0
	for _, u := range batch {
		next, st, err := ApplyUpdate(working, u)
		if err != nil {
			rejections = append(rejections, Rejection{Section: u.Section, Reason: reason(err)})
			continue
		}
		working, state = next, st
		applied++
	}
	if applied > 0 {
		if err := s.persist(ctx, working); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "persist failed")
			s.logger.ErrorContext(ctx, "failed to persist coalesced updates",
				"export_id", prev.Export.ID,
				"updates", len(batch),
				"error", err,
			)
			working, state = prev.Export, prev.State
			rejections = rejections[:0]
			for _, u := range batch {
				rejections = append(rejections, Rejection{Section: u.Section, Reason: ReasonNotSaved})
			}
		}
	}

	snap := s.advance(working, state, rejections)
	s.publish(ctx, prev, snap, started)
}

// advance installs the next snapshot. Callers hold s.mu.
func (s *ExportStore) advance(e models.Export, state models.State, rejections []Rejection) Snapshot {
	snap := Snapshot{
		Export:     e,
		State:      state,
		Revision:   s.current.Revision + 1,
		Rejections: rejections,
	}
	s.current = snap
	return snap
}

// publish releases s.mu, which the caller holds, and notifies subscribers.
func (s *ExportStore) publish(ctx context.Context, prev, snap Snapshot, started time.Time) {
	s.pubMu.Lock()
	s.mu.Unlock()
	defer s.pubMu.Unlock()

	s.metrics.ObserveRecompute(audit.AggregateExport, string(snap.State), time.Since(started))
	s.hub.Publish(snap.clone())

	for _, r := range snap.Rejections {
		s.recordRejection(ctx, snap, r)
	}
	if prev.State != snap.State {
		s.recorder.StateChanged(ctx, snap.Export.ID.String(), snap.Revision, string(prev.State), string(snap.State))
	}
}

func (s *ExportStore) recordRejection(ctx context.Context, at Snapshot, r Rejection) {
	s.metrics.IncrementDenial(string(r.Section), string(at.State))
	s.recorder.Denied(ctx, at.Export.ID.String(), at.Revision, string(at.State), string(r.Section), r.Reason)
}

func (s *ExportStore) persist(ctx context.Context, e models.Export) error {
	if s.repo == nil {
		return nil
	}
	if err := s.repo.Save(ctx, e); err != nil {
		return fmt.Errorf("persist export %s: %w", e.ID, err)
	}
	return nil
}

func reason(err error) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Reason
	}
	return err.Error()
}
