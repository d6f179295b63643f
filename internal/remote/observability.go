package remote

import (
	"log/slog"
)

// CallEvent records one remote call.
type CallEvent struct {
	Call       string
	Target     string
	LatencyMs  int64
	StatusCode int
	Success    bool
	ErrorCode  string
}

// Observer receives an event after every remote call.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes call events to a slog logger.
type LogObserver struct {
	logger *slog.Logger
}

func NewLogObserver(logger *slog.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnCallComplete(e CallEvent) {
	attrs := []any{
		"call", e.Call,
		"target", e.Target,
		"latency_ms", e.LatencyMs,
		"status_code", e.StatusCode,
	}
	if !e.Success {
		o.logger.Warn("remote_call", append(attrs, "error_code", e.ErrorCode)...)
		return
	}
	o.logger.Info("remote_call", attrs...)
}

// NoopObserver discards all events.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
