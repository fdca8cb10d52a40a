package audit

import (
	"context"
	"fmt"
	"log/slog"

	"clearance/pkg/platform/circuit"
)

// FallbackSink writes to primary and diverts to fallback once the breaker
// opens. The primary is still tried on every event so the circuit can close.
type FallbackSink struct {
	primary  Sink
	fallback Sink
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

func NewFallbackSink(primary, fallback Sink, breaker *circuit.Breaker, logger *slog.Logger) (*FallbackSink, error) {
	if primary == nil || fallback == nil {
		return nil, fmt.Errorf("primary and fallback sinks are required")
	}
	if breaker == nil {
		breaker = circuit.New("audit")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FallbackSink{primary: primary, fallback: fallback, breaker: breaker, logger: logger}, nil
}

func (f *FallbackSink) Append(ctx context.Context, event Event) error {
	err := f.primary.Append(ctx, event)
	if err == nil {
		if _, change := f.breaker.RecordSuccess(); change.Closed {
			f.logger.InfoContext(ctx, "audit sink recovered", "breaker", f.breaker.Name())
		}
		return nil
	}

	useFallback, change := f.breaker.RecordFailure()
	if change.Opened {
		f.logger.WarnContext(ctx, "audit sink failing, diverting to fallback",
			"breaker", f.breaker.Name(),
			"error", err,
		)
	}
	if !useFallback {
		return err
	}
	return f.fallback.Append(ctx, event)
}
