package otel

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/dessert-wasm/dessert-graphql-parser-core/internal/eventbus"
	"github.com/dessert-wasm/dessert-graphql-parser-core/internal/events"
	"github.com/dessert-wasm/dessert-graphql-parser-core/internal/reqid"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	eventbus.Use(eventbus.New())
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	unsubscribe := Register(tp.Tracer("test"))
	t.Cleanup(func() {
		unsubscribe()
		eventbus.Use(nil)
	})
	return sr
}

func attrs(s sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	m := map[attribute.Key]attribute.Value{}
	for _, kv := range s.Attributes() {
		m[kv.Key] = kv.Value
	}
	return m
}

func TestParseSpanNestsUnderRequest(t *testing.T) {
	sr := setupRecorder(t)
	ctx, _ := reqid.NewContext(context.Background())
	req := httptest.NewRequest("POST", "/parse", nil)

	eventbus.Publish(ctx, events.HTTPStart{Request: req})
	eventbus.Publish(ctx, events.ParseStart{Source: "{ a }"})
	eventbus.Publish(ctx, events.ParseFinish{Source: "{ a }", Outcome: events.ParseOK, Definitions: 1})
	eventbus.Publish(ctx, events.HTTPFinish{Request: req, Status: 200, Documents: 1})

	spans := sr.Ended()
	require.Len(t, spans, 2)
	parse, http := spans[0], spans[1]
	require.Equal(t, "dessert.parse", parse.Name())
	require.Equal(t, "http.request", http.Name())
	require.Equal(t, http.SpanContext().SpanID(), parse.Parent().SpanID())
	require.Equal(t, "ok", attrs(parse)["dessert.outcome"].AsString())
	require.Equal(t, int64(1), attrs(parse)["dessert.definitions"].AsInt64())
	require.Equal(t, int64(200), attrs(http)["http.status_code"].AsInt64())
	require.Equal(t, "POST", attrs(http)["http.method"].AsString())
}

func TestDefectMarksSpanError(t *testing.T) {
	sr := setupRecorder(t)
	ctx := context.Background()
	eventbus.Publish(ctx, events.ParseStart{Source: "{ a(n: 1e999) }"})
	eventbus.Publish(ctx, events.ParseFinish{Outcome: events.ParseDefect, Err: errors.New("out of range")})

	spans := sr.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, codes.Error, spans[0].Status().Code)
	require.Len(t, spans[0].Events(), 1)
}

func TestFinishWithoutStartIsIgnored(t *testing.T) {
	sr := setupRecorder(t)
	eventbus.Publish(context.Background(), events.ParseFinish{Outcome: events.ParseFailed})
	require.Empty(t, sr.Ended())
}

func TestSetupWithoutEndpoint(t *testing.T) {
	shutdown, err := Setup("", "dessert")
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}
