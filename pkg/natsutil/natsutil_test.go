package natsutil

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

type testMsg struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type fakeConn struct {
	msgs []*nats.Msg
	err  error
}

func (f *fakeConn) PublishMsg(m *nats.Msg) error {
	f.msgs = append(f.msgs, m)
	return f.err
}

func TestNatsHeaderCarrier(t *testing.T) {
	msg := &nats.Msg{}
	carrier := (*natsHeaderCarrier)(msg)

	carrier.Set("traceparent", "00-abc-def-01")
	if got := carrier.Get("traceparent"); got != "00-abc-def-01" {
		t.Fatalf("expected traceparent, got %q", got)
	}

	keys := carrier.Keys()
	if len(keys) != 1 {
		t.Fatalf("unexpected keys: %v", keys)
	}
}

func TestNatsHeaderCarrierNilHeader(t *testing.T) {
	msg := &nats.Msg{}
	carrier := (*natsHeaderCarrier)(msg)

	if got := carrier.Get("missing"); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
	if keys := carrier.Keys(); keys != nil {
		t.Fatalf("expected nil keys, got %v", keys)
	}
}

func TestPublishSerializesJSON(t *testing.T) {
	conn := &fakeConn{}
	if err := Publish(context.Background(), conn, "stagebase.venue.create", testMsg{Name: "test", Value: 42}); err != nil {
		t.Fatal(err)
	}
	if len(conn.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(conn.msgs))
	}
	if conn.msgs[0].Subject != "stagebase.venue.create" {
		t.Fatalf("unexpected subject %q", conn.msgs[0].Subject)
	}
	var decoded testMsg
	if err := json.Unmarshal(conn.msgs[0].Data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Name != "test" || decoded.Value != 42 {
		t.Fatalf("unexpected: %+v", decoded)
	}
}

func TestPublishReturnsConnError(t *testing.T) {
	conn := &fakeConn{err: errors.New("closed")}
	if err := Publish(context.Background(), conn, "s", testMsg{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewMsgInjectsTraceContext(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	tid, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	sid, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    tid,
		SpanID:     sid,
		TraceFlags: trace.FlagsSampled,
	}))

	msg, err := NewMsg(ctx, "s", testMsg{})
	if err != nil {
		t.Fatal(err)
	}
	want := "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"
	if got := msg.Header.Get("traceparent"); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestNewMsgRejectsUnencodable(t *testing.T) {
	if _, err := NewMsg(context.Background(), "s", make(chan int)); err == nil {
		t.Fatal("expected marshal error")
	}
}
