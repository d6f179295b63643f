package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	streamName   = "gymform_events"
	retention    = 90 * 24 * time.Hour
	readyTimeout = 4 * time.Second
	drainTimeout = 2 * time.Second
)

// NATSTracker publishes events to a JetStream stream on an in-process
// server. Events persist under the data directory between runs.
type NATSTracker struct {
	ns      *server.Server
	nc      *nats.Conn
	js      jetstream.JetStream
	stream  jetstream.Stream
	pixelID string
	now     func() time.Time
	log     *slog.Logger
}

// StartNATSTracker starts an embedded server with JetStream storage in
// dataDir and connects to it in-process. No network port is opened.
func StartNATSTracker(ctx context.Context, dataDir, pixelID string, log *slog.Logger) (*NATSTracker, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	ns, err := server.NewServer(&server.Options{
		JetStream:  true,
		StoreDir:   dataDir,
		DontListen: true,
		NoSigs:     true,
		NoLog:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}
	go ns.Start()
	if !ns.ReadyForConnections(readyTimeout) {
		ns.Shutdown()
		return nil, errors.New("nats server failed to start within timeout")
	}

	nc, err := nats.Connect("", nats.InProcessServer(ns))
	if err != nil {
		ns.Shutdown()
		return nil, fmt.Errorf("connecting to nats in-process: %w", err)
	}
	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		ns.Shutdown()
		return nil, fmt.Errorf("creating jetstream context: %w", err)
	}
	stream, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     streamName,
		Subjects: []string{subjectPrefix + ".>"},
		Storage:  jetstream.FileStorage,
		MaxAge:   retention,
	})
	if err != nil {
		nc.Close()
		ns.Shutdown()
		return nil, fmt.Errorf("setting up event stream: %w", err)
	}

	log.Debug("analytics stream ready", "dir", dataDir)
	return &NATSTracker{
		ns:      ns,
		nc:      nc,
		js:      js,
		stream:  stream,
		pixelID: pixelID,
		now:     time.Now,
		log:     log,
	}, nil
}

// Track stamps e with an ID, time and pixel ID and publishes it.
func (t *NATSTracker) Track(ctx context.Context, e Event) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = t.now().UTC()
	}
	if e.PixelID == "" {
		e.PixelID = t.pixelID
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}
	subject := Subject(e)
	if _, err := t.js.Publish(ctx, subject, data); err != nil {
		t.log.WarnContext(ctx, "publishing analytics event failed", "subject", subject, "error", err)
		return fmt.Errorf("publishing %s: %w", subject, err)
	}
	return nil
}

// Recent returns up to limit events, newest first.
func (t *NATSTracker) Recent(ctx context.Context, limit int) ([]Event, error) {
	info, err := t.stream.Info(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading stream info: %w", err)
	}
	var out []Event
	for seq := info.State.LastSeq; seq >= info.State.FirstSeq && seq > 0; seq-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		msg, err := t.stream.GetMsg(ctx, seq)
		if err != nil {
			if errors.Is(err, jetstream.ErrMsgNotFound) {
				continue
			}
			return nil, fmt.Errorf("reading event %d: %w", seq, err)
		}
		var e Event
		if err := json.Unmarshal(msg.Data, &e); err != nil {
			t.log.WarnContext(ctx, "skipping undecodable event", "seq", seq, "error", err)
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// Close drains the connection and shuts the server down.
func (t *NATSTracker) Close() error {
	drained := make(chan error, 1)
	go func() { drained <- t.nc.Drain() }()
	select {
	case err := <-drained:
		if err != nil {
			t.log.Warn("nats drain failed, forcing close", "error", err)
			t.nc.Close()
		}
	case <-time.After(drainTimeout):
		t.log.Warn("nats drain timed out, forcing close")
		t.nc.Close()
	}
	// Drain returns before the connection is fully closed.
	for i := 0; i < 50 && !t.nc.IsClosed(); i++ {
		time.Sleep(10 * time.Millisecond)
	}

	t.ns.Shutdown()
	t.ns.WaitForShutdown()
	return nil
}
