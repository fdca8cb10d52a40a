// Package service holds the import shipment orchestration: the pure
// recompute step, the ShipmentStore that owns one aggregate for its editor
// session, the session registry and the free-days sweeper.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"clearance/internal/audit"
	"clearance/internal/shipment/access"
	"clearance/internal/shipment/metrics"
	"clearance/internal/shipment/models"
	"clearance/pkg/platform/broadcast"
	"clearance/pkg/platform/coalesce"
	"clearance/pkg/platform/sentinel"
)

// DefaultDebounce is the quiet period Submit waits for before applying a burst.
const DefaultDebounce = 150 * time.Millisecond

// ReasonNotSaved is the denial reason attached to a burst whose result could
// not be persisted.
const ReasonNotSaved = "Changes could not be saved"

type Repository interface {
	Save(ctx context.Context, s models.Shipment) error
	FindByID(ctx context.Context, id models.ShipmentID) (models.Shipment, error)
	FindMany(ctx context.Context, ids []models.ShipmentID) (map[models.ShipmentID]models.Shipment, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// ShipmentStore owns one import aggregate. Every accepted change runs the
// full recompute and is published to subscribers in revision order.
// Subscribers run on the publishing goroutine and must not mutate the store.
type ShipmentStore struct {
	// mu guards current and closed.
	mu      sync.Mutex
	current Snapshot
	closed  bool

	// pubMu is taken before mu is released so publications never reorder.
	pubMu sync.Mutex

	hub     *broadcast.Hub[Snapshot]
	pending *coalesce.Coalescer[models.Section, models.Update]

	repo     Repository
	audit    AuditPublisher
	recorder *audit.Recorder
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	logger   *slog.Logger
	now      func() time.Time
	debounce time.Duration
}

type Option func(*ShipmentStore)

func WithLogger(logger *slog.Logger) Option {
	return func(s *ShipmentStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *ShipmentStore) {
		s.metrics = m
	}
}

// WithRepository persists the aggregate before each publication.
func WithRepository(repo Repository) Option {
	return func(s *ShipmentStore) {
		s.repo = repo
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *ShipmentStore) {
		s.audit = publisher
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *ShipmentStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithDebounce sets the Submit quiet period. Zero applies every Submit
// immediately.
func WithDebounce(d time.Duration) Option {
	return func(s *ShipmentStore) {
		if d >= 0 {
			s.debounce = d
		}
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *ShipmentStore) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// NewShipmentStore opens a store on initial. The opening state is revision 0
// and is not persisted or published.
func NewShipmentStore(initial models.Shipment, opts ...Option) (*ShipmentStore, error) {
	if initial.ID.IsZero() {
		return nil, fmt.Errorf("shipment id is required")
	}
	s := &ShipmentStore{
		hub:      broadcast.NewHub[Snapshot](),
		logger:   slog.Default(),
		tracer:   otel.Tracer("clearance/internal/shipment/service"),
		now:      time.Now,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(s)
	}
	if !initial.Override.Valid() {
		return nil, fmt.Errorf("override %q: %w", initial.Override, sentinel.ErrInvalidState)
	}

	shipment, derived := Recompute(initial, s.now())
	s.current = newSnapshot(shipment, derived, 0, nil)
	s.recorder = audit.NewRecorder(audit.AggregateImport, s.audit, s.logger)
	s.pending = coalesce.New[models.Section, models.Update](s.debounce, s.applyBatch)
	return s, nil
}

// ID identifies the owned shipment.
func (s *ShipmentStore) ID() models.ShipmentID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Shipment.ID
}

// Current returns the latest published snapshot.
func (s *ShipmentStore) Current() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.clone()
}

// Subscribe registers fn for every later publication.
func (s *ShipmentStore) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	return s.hub.Subscribe(fn)
}

// Apply checks and applies u immediately. A save of the same section still
// waiting behind the debounce window is superseded. A denial is reported
// through the Decision and leaves the aggregate unchanged; the error is
// reserved for persistence failures and use after Close.
func (s *ShipmentStore) Apply(ctx context.Context, u models.Update) (Snapshot, access.Decision, error) {
	ctx, span := s.tracer.Start(ctx, "ShipmentStore.Apply", trace.WithAttributes(
		attribute.String("shipment.section", string(u.Section)),
	))
	defer span.End()
	started := time.Now()

	if s.pending.Discard(u.Section) {
		span.SetAttributes(attribute.Bool("shipment.superseded_pending", true))
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Snapshot{}, access.Decision{}, fmt.Errorf("apply %s: %w", u.Section, sentinel.ErrClosed)
	}
	prev := s.current
	span.SetAttributes(attribute.String("shipment.id", prev.Shipment.ID.String()))

	next, derived, decision := ApplyUpdate(prev.Shipment, u, s.now())
	if !decision.Allowed {
		s.mu.Unlock()
		span.SetAttributes(attribute.String("shipment.denial", decision.Reason))
		s.recordDenial(ctx, prev, decision)
		return prev.clone(), decision, nil
	}

	if err := s.persist(ctx, next); err != nil {
		s.mu.Unlock()
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist failed")
		return prev.clone(), decision, err
	}

	snap := s.advance(next, derived, nil)
	s.publish(ctx, prev, snap, started)
	return snap.clone(), decision, nil
}

// Submit queues u behind the debounce window. Within a burst the last update
// per section wins and sections apply in order of their last submission;
// one publication follows and reports any denials in Snapshot.Denials.
func (s *ShipmentStore) Submit(u models.Update) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return fmt.Errorf("submit %s: %w", u.Section, sentinel.ErrClosed)
	}
	s.pending.Add(u.Section, u)
	return nil
}

// Flush applies the pending burst now.
func (s *ShipmentStore) Flush() {
	s.pending.Flush()
}

// SetOverride stores the hold/closed flag. CLOSED cannot be lifted.
func (s *ShipmentStore) SetOverride(ctx context.Context, o models.OverrideStatus) (Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "ShipmentStore.SetOverride", trace.WithAttributes(
		attribute.String("shipment.override", string(o)),
	))
	defer span.End()
	started := time.Now()

	if !o.Valid() {
		return Snapshot{}, fmt.Errorf("override %q: %w", o, sentinel.ErrInvalidState)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Snapshot{}, fmt.Errorf("set override: %w", sentinel.ErrClosed)
	}
	prev := s.current
	if prev.Shipment.Override == o {
		s.mu.Unlock()
		return prev.clone(), nil
	}
	if prev.Shipment.Override == models.OverrideClosed {
		s.mu.Unlock()
		return prev.clone(), fmt.Errorf("reopen closed shipment %s: %w", prev.Shipment.ID, sentinel.ErrInvalidState)
	}

	changed := prev.Shipment.Clone()
	changed.Override = o
	next, derived := Recompute(changed, s.now())
	if err := s.persist(ctx, next); err != nil {
		s.mu.Unlock()
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist failed")
		return prev.clone(), err
	}

	snap := s.advance(next, derived, nil)
	s.publish(ctx, prev, snap, started)
	return snap.clone(), nil
}

// Refresh re-derives time-dependent fields against the clock and publishes
// only when the charges or the state moved.
func (s *ShipmentStore) Refresh(ctx context.Context) (Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "ShipmentStore.Refresh")
	defer span.End()
	started := time.Now()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Snapshot{}, fmt.Errorf("refresh: %w", sentinel.ErrClosed)
	}
	prev := s.current
	next, derived := Recompute(prev.Shipment, s.now())
	if next.Charges == prev.Shipment.Charges && derived.State == prev.State {
		s.mu.Unlock()
		return prev.clone(), nil
	}
	if err := s.persist(ctx, next); err != nil {
		s.mu.Unlock()
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist failed")
		return prev.clone(), err
	}

	snap := s.advance(next, derived, nil)
	s.publish(ctx, prev, snap, started)
	return snap.clone(), nil
}

// Close applies any pending burst and rejects later mutations.
func (s *ShipmentStore) Close() {
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

// applyBatch is the coalescer's flush target.
func (s *ShipmentStore) applyBatch(batch []models.Update, superseded int) {
	ctx, span := s.tracer.Start(context.Background(), "ShipmentStore.Flush", trace.WithAttributes(
		attribute.Int("shipment.batch_size", len(batch)),
		attribute.Int("shipment.superseded", superseded),
	))
	defer span.End()
	started := time.Now()
	s.metrics.AddCoalesced(superseded)

	s.mu.Lock()
	prev := s.current
	now := s.now()

	working, derived := prev.Shipment, Derived{}
	var denials []access.Decision
	applied := 0
	for _, u := range batch {
		next, d, decision := ApplyUpdate(working, u, now)
		if !decision.Allowed {
			denials = append(denials, decision)
			continue
		}
		working, derived = next, d
		applied++
	}
	if applied == 0 {
		working, derived = Recompute(working, now)
	} else if err := s.persist(ctx, working); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist failed")
		s.logger.ErrorContext(ctx, "failed to persist coalesced updates",
			"shipment_id", prev.Shipment.ID,
			"updates", len(batch),
			"error", err,
		)
		working, derived = Recompute(prev.Shipment, now)
		denials = denials[:0]
		for _, u := range batch {
			denials = append(denials, access.Decision{
				Reason:  ReasonNotSaved,
				State:   prev.State,
				Section: u.Section,
			})
		}
	}

	snap := s.advance(working, derived, denials)
	s.publish(ctx, prev, snap, started)
}

// advance installs the next snapshot. Callers hold s.mu.
func (s *ShipmentStore) advance(shipment models.Shipment, derived Derived, denials []access.Decision) Snapshot {
	snap := newSnapshot(shipment, derived, s.current.Revision+1, denials)
	s.current = snap
	return snap
}

// publish releases s.mu, which the caller holds, and notifies subscribers.
func (s *ShipmentStore) publish(ctx context.Context, prev, snap Snapshot, started time.Time) {
	s.pubMu.Lock()
	s.mu.Unlock()
	defer s.pubMu.Unlock()

	s.metrics.ObserveRecompute(audit.AggregateImport, string(snap.State), time.Since(started))
	s.hub.Publish(snap.clone())

	for _, d := range snap.Denials {
		s.recordDenial(ctx, snap, d)
	}
	if prev.State != snap.State {
		s.recorder.StateChanged(ctx, snap.Shipment.ID.String(), snap.Revision, string(prev.State), string(snap.State))
	}
}

func (s *ShipmentStore) recordDenial(ctx context.Context, at Snapshot, d access.Decision) {
	s.metrics.IncrementDenial(string(d.Section), string(d.State))
	s.recorder.Denied(ctx, at.Shipment.ID.String(), at.Revision, string(d.State), string(d.Section), d.Reason)
}

func (s *ShipmentStore) persist(ctx context.Context, shipment models.Shipment) error {
	if s.repo == nil {
		return nil
	}
	if err := s.repo.Save(ctx, shipment); err != nil {
		return fmt.Errorf("persist shipment %s: %w", shipment.ID, err)
	}
	return nil
}
