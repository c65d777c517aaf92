package store

import (
	"context"
	"time"

	"github.com/Nyirongo2000/tagme.in/internal/metrics"
)

// instrumented records the latency of every backend call.
type instrumented struct {
	Backend
	kind string
}

// Instrument wraps b so Get, Put and List report to metrics.KVLatency
// under the given backend label.
func Instrument(b Backend, kind Kind) Backend {
	return &instrumented{Backend: b, kind: string(kind)}
}

func (i *instrumented) observe(op string, start time.Time) {
	metrics.KVLatency.WithLabelValues(i.kind, op).Observe(time.Since(start).Seconds())
}

func (i *instrumented) Get(ctx context.Context, key string) ([]byte, error) {
	defer i.observe("get", time.Now())
	return i.Backend.Get(ctx, key)
}

func (i *instrumented) Put(ctx context.Context, key string, value []byte) error {
	defer i.observe("put", time.Now())
	return i.Backend.Put(ctx, key, value)
}

func (i *instrumented) List(ctx context.Context, prefix string) ([]string, error) {
	defer i.observe("list", time.Now())
	return i.Backend.List(ctx, prefix)
}
