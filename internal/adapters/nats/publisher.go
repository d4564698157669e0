package natsadapter

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/samirrijal/mygeo/internal/core/domain"
	"github.com/samirrijal/mygeo/internal/pkg/metrics"
)

// Map update subjects relayed to WebSocket clients.
const (
	SubjectPosition = "mygeo.map.position"
	SubjectPoints   = "mygeo.map.points"
	SubjectAll      = "mygeo.map.>"
)

// Event types carried in MapEvent.Type.
const (
	EventPosition = "position"
	EventPoint    = "point"
)

// MapEvent is the envelope published for every map update.
type MapEvent struct {
	Type string    `json:"type"`
	Time time.Time `json:"time"`
	Data any       `json:"data"`
}

// Publisher implements ports.EventPublisher over core NATS.
type Publisher struct {
	conn *nats.Conn
}

// NewPublisherWithConn shares an existing connection.
func NewPublisherWithConn(conn *nats.Conn) *Publisher {
	return &Publisher{conn: conn}
}

func (p *Publisher) PublishTrackerState(ctx context.Context, state *domain.TrackerState) error {
	return p.publish(SubjectPosition, MapEvent{Type: EventPosition, Time: time.Now(), Data: state})
}

func (p *Publisher) PublishPoint(ctx context.Context, pt *domain.Point) error {
	return p.publish(SubjectPoints, MapEvent{Type: EventPoint, Time: time.Now(), Data: pt})
}

func (p *Publisher) publish(subject string, ev MapEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if err := p.conn.Publish(subject, data); err != nil {
		metrics.EventsPublished.WithLabelValues(subject, "error").Inc()
		return err
	}
	metrics.EventsPublished.WithLabelValues(subject, "ok").Inc()
	return nil
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection that keeps reconnecting.
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
