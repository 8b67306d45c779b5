package event

import "sync/atomic"

type MetricsSnapshot struct {
	Published       int64
	Handled         int64
	HandlerFailures int64
}

type Metrics struct {
	published       atomic.Int64
	handled         atomic.Int64
	handlerFailures atomic.Int64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) RecordPublished(delta int) {
	m.published.Add(int64(delta))
}

func (m *Metrics) RecordHandled(delta int) {
	m.handled.Add(int64(delta))
}

func (m *Metrics) RecordFailure(delta int) {
	m.handlerFailures.Add(int64(delta))
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Published:       m.published.Load(),
		Handled:         m.handled.Load(),
		HandlerFailures: m.handlerFailures.Load(),
	}
}
