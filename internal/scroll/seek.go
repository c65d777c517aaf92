package scroll

import (
	"context"

	"github.com/Nyirongo2000/tagme.in/internal/hours"
	"github.com/Nyirongo2000/tagme.in/internal/metrics"
	"github.com/Nyirongo2000/tagme.in/internal/models"
)

// Seeker reconstructs point-in-time views. It never writes.
type Seeker struct {
	store *Store
	opts  Options
}

// NewSeeker creates a Seeker over st.
func NewSeeker(st *Store, opts Options) *Seeker {
	return &Seeker{store: st, opts: opts.withDefaults()}
}

// Window reports the number of buckets a seek covers.
func (s *Seeker) Window() int { return s.opts.Window }

// Now returns the current bucket by the Seeker's clock.
func (s *Seeker) Now() hours.Hour { return hours.At(s.opts.Now()) }

// Seek returns the channel's messages as of hour h, keeping for each text
// the record with the greatest timestamp among the window's buckets, and
// the send counts of every channel active in the configured scope. Hours
// with no data yield empty results rather than errors.
func (s *Seeker) Seek(ctx context.Context, channel string, h hours.Hour) (*models.Snapshot, error) {
	from, to := span(h, s.opts.Window)
	buckets, err := s.store.RangeRead(ctx, channel, from, to)
	if err != nil {
		return nil, err
	}

	messages := make(map[string]models.MessageRecord)
	// Ascending order: on equal timestamps the later bucket wins.
	for _, b := range buckets {
		for text, r := range b.Messages {
			if cur, ok := messages[text]; !ok || r.Timestamp >= cur.Timestamp {
				messages[text] = r
			}
		}
	}

	channels, err := s.Channels(ctx, h)
	if err != nil {
		return nil, err
	}

	metrics.Seeks.Inc()
	return &models.Snapshot{Messages: messages, Channels: channels}, nil
}

// Channels returns the send count of every channel active in the
// configured scope as of hour h.
func (s *Seeker) Channels(ctx context.Context, h hours.Hour) (map[string]int64, error) {
	if s.opts.Scope == ScopeAll {
		return s.store.AllTallies(ctx, h)
	}
	from, to := span(h, s.opts.Window)
	return s.store.Tallies(ctx, from, to)
}
