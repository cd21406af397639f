package events

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/ghuser/apidocs/pkg/logger"
)

func setupTracer() *sdktrace.TracerProvider {
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return tp
}

func nopLogger() logger.Logger {
	return logger.Discard()
}

// TestRetryWithBackoff_SuccessOnFirstAttempt verifies no retry occurs on success.
func TestRetryWithBackoff_SuccessOnFirstAttempt(t *testing.T) {
	calls := 0
	handler := func(_ context.Context, _ *message.Message) error {
		calls++
		return nil
	}
	msg := message.NewMessage("id", nil)
	err := retryWithBackoff(context.Background(), msg, handler, maxRetries, time.Millisecond, nopLogger())
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

// TestRetryWithBackoff_SuccessAfterRetries verifies retry continues until success.
func TestRetryWithBackoff_SuccessAfterRetries(t *testing.T) {
	calls := 0
	handler := func(_ context.Context, _ *message.Message) error {
		calls++
		if calls < 3 {
			return errors.New("transient error")
		}
		return nil
	}
	msg := message.NewMessage("id", nil)
	err := retryWithBackoff(context.Background(), msg, handler, maxRetries, time.Millisecond, nopLogger())
	if err != nil {
		t.Fatalf("expected nil after eventual success, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

// TestRetryWithBackoff_ExhaustsRetries verifies an error is returned after all retries fail.
func TestRetryWithBackoff_ExhaustsRetries(t *testing.T) {
	calls := 0
	handler := func(_ context.Context, _ *message.Message) error {
		calls++
		return errors.New("permanent error")
	}
	msg := message.NewMessage("id", nil)
	err := retryWithBackoff(context.Background(), msg, handler, maxRetries, time.Millisecond, nopLogger())
	if err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	if calls != maxRetries {
		t.Errorf("expected %d calls, got %d", maxRetries, calls)
	}
}

// TestRetryWithBackoff_ContextCancelled verifies retry stops when context is canceled.
func TestRetryWithBackoff_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	calls := 0
	handler := func(_ context.Context, _ *message.Message) error {
		calls++
		return errors.New("error")
	}
	msg := message.NewMessage("id", nil)
	err := retryWithBackoff(ctx, msg, handler, maxRetries, time.Second, nopLogger())
	if err == nil {
		t.Fatal("expected error from canceled context")
	}
	// Should have called handler once then exited on ctx.Done
	if calls != 1 {
		t.Errorf("expected 1 call before context cancel, got %d", calls)
	}
}

// TestEventBus_PublishSubscribe verifies a published message reaches the
// handler with the publisher's trace restored.
func TestEventBus_PublishSubscribe(t *testing.T) {
	tp := setupTracer()
	defer tp.Shutdown(context.Background()) //nolint:errcheck

	bus := NewEventBus(nopLogger())
	defer bus.Close() //nolint:errcheck

	type received struct {
		payload string
		traceID trace.TraceID
	}
	got := make(chan received, 1)
	errCh, err := bus.Subscribe(context.Background(), "item.created", func(ctx context.Context, msg *message.Message) error {
		got <- received{payload: string(msg.Payload), traceID: trace.SpanFromContext(ctx).SpanContext().TraceID()}
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	go func() {
		for range errCh { //nolint:revive
		}
	}()

	ctx, span := otel.Tracer("test").Start(context.Background(), "publish")
	defer span.End()
	if err := bus.Publish(ctx, "item.created", message.NewMessage("1", []byte(`{"name":"x"}`))); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case r := <-got:
		if r.payload != `{"name":"x"}` {
			t.Errorf("unexpected payload %q", r.payload)
		}
		if r.traceID != span.SpanContext().TraceID() {
			t.Errorf("trace not propagated: want %s, got %s", span.SpanContext().TraceID(), r.traceID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("message not delivered")
	}
}

// TestEventBus_FailedHandlerReportsError verifies exhausted retries surface on
// the error channel and the message is not redelivered.
func TestEventBus_FailedHandlerReportsError(t *testing.T) {
	bus := NewEventBus(nopLogger())
	bus.retryDelay = time.Millisecond
	defer bus.Close() //nolint:errcheck

	var calls atomic.Int32
	errCh, err := bus.Subscribe(context.Background(), "t", func(context.Context, *message.Message) error {
		calls.Add(1)
		return errors.New("always fails")
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err := bus.Publish(context.Background(), "t", message.NewMessage("1", nil)); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case err := <-errCh:
		if err == nil {
			t.Fatal("expected an error")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no error reported")
	}
	time.Sleep(20 * time.Millisecond)
	if n := calls.Load(); n != maxRetries {
		t.Errorf("expected %d handler calls, got %d", maxRetries, n)
	}
}

// TestEventBus_Closed verifies a closed bus rejects work and fails health checks.
func TestEventBus_Closed(t *testing.T) {
	bus := NewEventBus(nopLogger())
	if err := bus.Ping(context.Background()); err != nil {
		t.Fatalf("open bus ping: %v", err)
	}
	if err := bus.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := bus.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if err := bus.Ping(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed from ping, got %v", err)
	}
	if err := bus.Publish(context.Background(), "t", message.NewMessage("1", nil)); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed from publish, got %v", err)
	}
	if _, err := bus.Subscribe(context.Background(), "t", nil); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed from subscribe, got %v", err)
	}
}

func TestEventBus_SubscribeRacingClose(t *testing.T) {
	bus := NewEventBus(nopLogger())
	handler := func(context.Context, *message.Message) error { return nil }

	var wg sync.WaitGroup
	results := make(chan (<-chan error), 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errCh, err := bus.Subscribe(context.Background(), "race", handler)
			if err != nil {
				if !errors.Is(err, ErrClosed) {
					t.Errorf("unexpected subscribe error: %v", err)
				}
				return
			}
			results <- errCh
		}()
	}
	if err := bus.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	wg.Wait()
	close(results)

	for errCh := range results {
		select {
		case _, ok := <-errCh:
			if ok {
				t.Error("expected no subscriber errors")
			}
		case <-time.After(5 * time.Second):
			t.Fatal("subscription outlived Close")
		}
	}
}

// TestOTelPropagation_InjectExtract verifies that trace context injected via
// the same propagation path used by Publish/Subscribe round-trips correctly.
func TestOTelPropagation_InjectExtract(t *testing.T) {
	tp := setupTracer()
	defer tp.Shutdown(context.Background()) //nolint:errcheck

	ctx, span := otel.Tracer("test").Start(context.Background(), "publish-span")
	defer span.End()
	wantTraceID := span.SpanContext().TraceID()

	// Simulate Publish: inject trace context into message metadata.
	msg := message.NewMessage("id", nil)
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for k, v := range carrier {
		msg.Metadata.Set(k, v)
	}

	// Simulate Subscribe: extract trace context from message metadata.
	extractCarrier := propagation.MapCarrier{}
	for k, v := range msg.Metadata {
		extractCarrier[k] = v
	}
	msgCtx := otel.GetTextMapPropagator().Extract(context.Background(), extractCarrier)

	gotSpan := trace.SpanFromContext(msgCtx)
	if !gotSpan.SpanContext().IsValid() {
		t.Fatal("extracted span context is not valid")
	}
	if gotSpan.SpanContext().TraceID() != wantTraceID {
		t.Errorf("trace ID mismatch: want %s, got %s", wantTraceID, gotSpan.SpanContext().TraceID())
	}
}
