package scroll

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nyirongo2000/tagme.in/internal/hours"
	"github.com/Nyirongo2000/tagme.in/internal/metrics"
	"github.com/Nyirongo2000/tagme.in/internal/models"
)

// DefaultWindow is the number of hour buckets a seek covers.
const DefaultWindow = 24

// Scope selects which hours feed the popular channels leaderboard.
type Scope string

const (
	// ScopeWindow counts sends inside the seek window only.
	ScopeWindow Scope = "window"
	// ScopeAll counts every send up to the seek hour.
	ScopeAll Scope = "all"
)

// Options tunes Sender and Seeker.
type Options struct {
	Window int
	Scope  Scope
	// Now is the wall clock; nil means time.Now.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Window < 1 {
		o.Window = DefaultWindow
	}
	if o.Scope != ScopeAll {
		o.Scope = ScopeWindow
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Ack describes a committed send.
type Ack struct {
	Channel string
	Text    string
	Hour    hours.Hour
	Record  models.MessageRecord
}

// Sender is the only writer of the scroll.
type Sender struct {
	store  *Store
	opts   Options
	logger zerolog.Logger
}

// NewSender creates a Sender over st.
func NewSender(st *Store, opts Options, logger zerolog.Logger) *Sender {
	return &Sender{store: st, opts: opts.withDefaults(), logger: logger}
}

// Send validates and records one post or vote of text in channel. Sending
// the same text again bumps its position by one and replaces its velocity.
// Errors are *ValidationError or *StorageError.
func (s *Sender) Send(ctx context.Context, channel, text string, velocity float64) (*Ack, error) {
	if err := Validate(channel, text, velocity); err != nil {
		metrics.ValidationFailures.Inc()
		return nil, err
	}

	now := s.opts.Now()
	h := hours.At(now)

	// The text may last have been touched in any earlier bucket of the window.
	from, to := span(h, s.opts.Window)
	buckets, err := s.store.RangeRead(ctx, channel, from, to)
	if err != nil {
		s.logger.Error().Err(err).Str("channel", channel).Msg("send: read failed")
		return nil, err
	}

	rec := models.MessageRecord{
		Position:  1,
		Velocity:  Clamp(velocity),
		Timestamp: now.UnixMilli(),
	}
	if prev, ok := latest(buckets, text); ok {
		rec.Position = prev.Position + 1
	}

	stored, err := s.store.Merge(ctx, channel, h, text, rec)
	if err != nil {
		s.logger.Error().Err(err).Str("channel", channel).Int64("hour", int64(h)).Msg("send: merge failed")
		return nil, err
	}

	metrics.MessagesSent.WithLabelValues(direction(rec.Velocity)).Inc()
	s.logger.Debug().
		Str("channel", channel).
		Int64("hour", int64(h)).
		Float64("position", stored.Position).
		Float64("velocity", stored.Velocity).
		Msg("message sent")

	return &Ack{Channel: channel, Text: text, Hour: h, Record: stored}, nil
}

// latest finds the newest record of text across buckets.
func latest(buckets []Bucket, text string) (models.MessageRecord, bool) {
	var (
		best  models.MessageRecord
		found bool
	)
	for _, b := range buckets {
		if r, ok := b.Messages[text]; ok && (!found || r.Timestamp >= best.Timestamp) {
			best, found = r, true
		}
	}
	return best, found
}

func direction(v float64) string {
	switch {
	case v > 0:
		return "up"
	case v < 0:
		return "down"
	}
	return "flat"
}
