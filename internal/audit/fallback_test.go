package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clearance/pkg/platform/circuit"
)

type flakySink struct {
	fail     bool
	appended []Event
}

func (s *flakySink) Append(_ context.Context, e Event) error {
	if s.fail {
		return errors.New("broker unreachable")
	}
	s.appended = append(s.appended, e)
	return nil
}

func TestFallbackSink(t *testing.T) {
	ctx := context.Background()
	primary := &flakySink{fail: true}
	fallback := NewMemorySink()
	breaker := circuit.New("kafka", circuit.WithFailureThreshold(2), circuit.WithSuccessThreshold(1))
	sink, err := NewFallbackSink(primary, fallback, breaker, discardLogger())
	require.NoError(t, err)

	err = sink.Append(ctx, Event{AggregateID: "a"})
	assert.Error(t, err, "below threshold the failure surfaces")
	assert.Empty(t, fallback.Events())

	require.NoError(t, sink.Append(ctx, Event{AggregateID: "b"}))
	assert.True(t, breaker.IsOpen())
	require.Len(t, fallback.Events(), 1)
	assert.Equal(t, "b", fallback.Events()[0].AggregateID)

	primary.fail = false
	require.NoError(t, sink.Append(ctx, Event{AggregateID: "c"}))
	assert.False(t, breaker.IsOpen())
	require.Len(t, primary.appended, 1)
	assert.Len(t, fallback.Events(), 1)
}

func TestNewFallbackSink_RequiresSinks(t *testing.T) {
	_, err := NewFallbackSink(nil, NewMemorySink(), nil, nil)
	assert.Error(t, err)
}
