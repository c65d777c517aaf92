// Package scroll is the channel scroll engine: hour-bucketed message
// records per channel, the send path that commits votes into them, and
// the seek path that reconstructs a channel as of an hour.
package scroll

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/Nyirongo2000/tagme.in/internal/hours"
	"github.com/Nyirongo2000/tagme.in/internal/metrics"
	"github.com/Nyirongo2000/tagme.in/internal/models"
	"github.com/Nyirongo2000/tagme.in/internal/store"
)

// DefaultTimeout bounds each backend call when Options.Timeout is unset.
const DefaultTimeout = 5 * time.Second

// Bucket is the content of one channel-hour.
type Bucket struct {
	Hour     hours.Hour
	Messages map[string]models.MessageRecord
	Sends    int64
}

// bucketValue is the stored encoding of a Bucket.
type bucketValue struct {
	Messages map[string]models.MessageRecord `json:"messages"`
	Sends    int64                           `json:"sends"`
}

// Store owns the bucket keyspace on top of a store.Backend. It holds no
// state of its own; all conflict resolution happens in Merge.
type Store struct {
	kv      store.Backend
	timeout time.Duration
}

// NewStore wraps kv. A non-positive timeout selects DefaultTimeout.
func NewStore(kv store.Backend, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Store{kv: kv, timeout: timeout}
}

func (s *Store) fail(op, key string, err error) error {
	metrics.StorageErrors.WithLabelValues(op).Inc()
	return &StorageError{Op: op, Key: key, Err: err}
}

// get returns nil without error for a missing key.
func (s *Store) get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	v, err := s.kv.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, s.fail("get", key, err)
	}
	return v, nil
}

func (s *Store) put(ctx context.Context, key string, value []byte) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.kv.Put(ctx, key, value); err != nil {
		return s.fail("put", key, err)
	}
	return nil
}

func (s *Store) list(ctx context.Context, prefix string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	keys, err := s.kv.List(ctx, prefix)
	if err != nil {
		return nil, s.fail("list", prefix, err)
	}
	return keys, nil
}

func (s *Store) readBucket(ctx context.Context, channel string, h hours.Hour) (Bucket, error) {
	key := KeyFor(channel, h)
	b := Bucket{Hour: h, Messages: make(map[string]models.MessageRecord)}
	raw, err := s.get(ctx, key)
	if err != nil || raw == nil {
		return b, err
	}
	var v bucketValue
	if err := json.Unmarshal(raw, &v); err != nil {
		return b, s.fail("decode", key, err)
	}
	if v.Messages != nil {
		b.Messages = v.Messages
	}
	b.Sends = v.Sends
	return b, nil
}

// Read returns one bucket; a missing bucket is empty.
func (s *Store) Read(ctx context.Context, channel string, h hours.Hour) (Bucket, error) {
	return s.readBucket(ctx, channel, h)
}

// span returns the first and last bucket of the window of size w ending at
// h, saturating at the smallest hour instead of wrapping.
func span(h hours.Hour, w int) (from, to hours.Hour) {
	back := hours.Hour(w - 1)
	if h < math.MinInt64+back {
		return math.MinInt64, h
	}
	return h - back, h
}

// RangeRead returns the buckets from..to inclusive in ascending hour order.
// Missing buckets are returned empty.
func (s *Store) RangeRead(ctx context.Context, channel string, from, to hours.Hour) ([]Bucket, error) {
	if from > to {
		return nil, nil
	}
	var out []Bucket
	for h := from; ; h++ {
		b, err := s.readBucket(ctx, channel, h)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
		if h == to {
			break
		}
	}
	return out, nil
}

// Merge commits rec for text into the channel-hour bucket and counts one
// send for the channel in that hour. A stored record with a newer
// timestamp is kept over rec, whatever order the writes arrive in. Merge
// returns the record the bucket holds afterwards.
//
// The first send into a bucket also writes the hour's activity marker for
// the channel. The marker goes first, so a failed send leaves at most a
// marker pointing at a bucket without sends, which counts as nothing.
func (s *Store) Merge(ctx context.Context, channel string, h hours.Hour, text string, rec models.MessageRecord) (models.MessageRecord, error) {
	b, err := s.readBucket(ctx, channel, h)
	if err != nil {
		return models.MessageRecord{}, err
	}

	if b.Sends == 0 {
		if err := s.put(ctx, pulseKey(h, channel), []byte("1")); err != nil {
			return models.MessageRecord{}, err
		}
	}

	winner := rec
	if cur, ok := b.Messages[text]; ok && !rec.Newer(cur) {
		winner = cur
	}
	winner.Velocity = Clamp(winner.Velocity)
	b.Messages[text] = winner
	b.Sends++

	key := KeyFor(channel, h)
	raw, err := json.Marshal(bucketValue{Messages: b.Messages, Sends: b.Sends})
	if err != nil {
		return models.MessageRecord{}, s.fail("encode", key, err)
	}
	if err := s.put(ctx, key, raw); err != nil {
		return models.MessageRecord{}, err
	}
	return winner, nil
}

// addSends adds the send count of every channel marked active at hour h.
func (s *Store) addSends(ctx context.Context, sum map[string]int64, h hours.Hour) error {
	keys, err := s.list(ctx, pulseHourPrefix(h))
	if err != nil {
		return err
	}
	for _, key := range keys {
		_, channel, err := parsePulseKey(key)
		if err != nil {
			continue
		}
		if err := s.addBucketSends(ctx, sum, channel, h); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) addBucketSends(ctx context.Context, sum map[string]int64, channel string, h hours.Hour) error {
	b, err := s.readBucket(ctx, channel, h)
	if err != nil {
		return err
	}
	if b.Sends > 0 {
		sum[channel] += b.Sends
	}
	return nil
}

// Tallies sums the per-channel send counts over hours from..to inclusive.
// Counts come from the buckets themselves, so sends to different channels
// never affect each other's totals.
func (s *Store) Tallies(ctx context.Context, from, to hours.Hour) (map[string]int64, error) {
	sum := make(map[string]int64)
	if from > to {
		return sum, nil
	}
	for h := from; ; h++ {
		if err := s.addSends(ctx, sum, h); err != nil {
			return nil, err
		}
		if h == to {
			break
		}
	}
	return sum, nil
}

// AllTallies sums the per-channel send counts over every hour up to and
// including upTo.
func (s *Store) AllTallies(ctx context.Context, upTo hours.Hour) (map[string]int64, error) {
	keys, err := s.list(ctx, pulsePrefix)
	if err != nil {
		return nil, err
	}
	sum := make(map[string]int64)
	for _, key := range keys {
		h, channel, err := parsePulseKey(key)
		if err != nil {
			continue
		}
		if h > upTo {
			break
		}
		if err := s.addBucketSends(ctx, sum, channel, h); err != nil {
			return nil, err
		}
	}
	return sum, nil
}
