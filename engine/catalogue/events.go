package catalogue

import (
	"context"
	"strings"

	"github.com/stagebase/stagebase/engine/domain"
	"github.com/stagebase/stagebase/pkg/natsutil"
	"github.com/stagebase/stagebase/pkg/resilience"
)

// Event announces a committed write.
type Event struct {
	Model          domain.Model `json:"model"`
	UUID           string       `json:"uuid"`
	Name           string       `json:"name"`
	Differentiator string       `json:"differentiator"`
	Op             string       `json:"op"`
}

// AllSubjects matches the subject of every catalogue event.
const AllSubjects = "stagebase.>"

// Subject is the NATS subject of e: stagebase.<model>.<op>.
func (e Event) Subject() string {
	return "stagebase." + strings.ToLower(string(e.Model)) + "." + e.Op
}

// Publisher delivers change events.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// NATSPublisher publishes events as JSON on their subjects.
type NATSPublisher struct {
	Conn natsutil.Conn
}

func (p NATSPublisher) Publish(ctx context.Context, e Event) error {
	return natsutil.Publish(ctx, p.Conn, e.Subject(), e)
}

// BreakerPublisher stops publishing through Next while the broker keeps
// failing; events raised meanwhile are dropped with ErrCircuitOpen.
type BreakerPublisher struct {
	Next    Publisher
	Breaker *resilience.Breaker
}

func (p BreakerPublisher) Publish(ctx context.Context, e Event) error {
	return p.Breaker.Call(ctx, func(ctx context.Context) error {
		return p.Next.Publish(ctx, e)
	})
}
