package nats

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

func NewClient(url string, timeout time.Duration) (*nats.Conn, error) {
	nc, err := nats.Connect(url, nats.Timeout(timeout), nats.Name("catalog-service"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return nc, nil
}

// NewJetStreamContext creates a JetStream context on nc. The caller keeps ownership of nc.
func NewJetStreamContext(nc *nats.Conn, opts ...jetstream.JetStreamOpt) (jetstream.JetStream, error) {
	js, err := jetstream.New(nc, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}
	return js, nil
}

// OpenStream creates a JetStream context on nc and ensures the stream capturing subjects exists.
// nc is closed when either step fails.
func OpenStream(ctx context.Context, nc *nats.Conn, stream string, subjects []string, opts ...jetstream.JetStreamOpt) (jetstream.JetStream, error) {
	js, err := NewJetStreamContext(nc, opts...)
	if err != nil {
		nc.Close()
		return nil, err
	}
	if _, err := EnsureStream(ctx, js, stream, subjects...); err != nil {
		nc.Close()
		return nil, err
	}
	return js, nil
}

// EnsureStream creates the stream capturing subjects, or updates it when it already exists.
func EnsureStream(ctx context.Context, js jetstream.JetStream, name string, subjects ...string) (jetstream.Stream, error) {
	stream, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     name,
		Subjects: subjects,
		Storage:  jetstream.FileStorage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to ensure stream %s: %w", name, err)
	}
	return stream, nil
}
