package scroll

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/Nyirongo2000/tagme.in/internal/hours"
)

// Keyspace (ASCII, lexicographically sortable):
//   - scroll/{b64(channel)}/{hour_hex16}   per channel-hour message bucket
//   - pulse/{hour_hex16}/{b64(channel)}    marks a channel active in an hour
//
// Channels use unpadded base64url which never contains '/', so a channel
// prefix cannot match another channel's keys. Hours are written as 16 hex
// digits with the sign bit flipped, so byte order equals numeric order.

const (
	scrollPrefix = "scroll/"
	pulsePrefix  = "pulse/"
)

var channelEncoding = base64.RawURLEncoding

func encodeHour(h hours.Hour) string {
	return fmt.Sprintf("%016x", uint64(h)^(1<<63))
}

func decodeHour(s string) (hours.Hour, error) {
	if len(s) != 16 {
		return 0, fmt.Errorf("scroll: bad hour segment %q", s)
	}
	u, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("scroll: bad hour segment %q: %w", s, err)
	}
	return hours.Hour(u ^ (1 << 63)), nil
}

// ChannelPrefix returns the prefix shared by every bucket key of channel.
func ChannelPrefix(channel string) string {
	return scrollPrefix + channelEncoding.EncodeToString([]byte(channel)) + "/"
}

// KeyFor returns the bucket key for a channel and hour.
func KeyFor(channel string, h hours.Hour) string {
	return ChannelPrefix(channel) + encodeHour(h)
}

// ParseKey is the inverse of KeyFor.
func ParseKey(key string) (channel string, h hours.Hour, err error) {
	rest, ok := strings.CutPrefix(key, scrollPrefix)
	if !ok {
		return "", 0, fmt.Errorf("scroll: not a bucket key %q", key)
	}
	enc, hourPart, ok := strings.Cut(rest, "/")
	if !ok {
		return "", 0, fmt.Errorf("scroll: not a bucket key %q", key)
	}
	raw, err := channelEncoding.DecodeString(enc)
	if err != nil {
		return "", 0, fmt.Errorf("scroll: bad channel segment in %q: %w", key, err)
	}
	h, err = decodeHour(hourPart)
	if err != nil {
		return "", 0, err
	}
	return string(raw), h, nil
}

// pulseHourPrefix returns the prefix of every activity marker of hour h.
func pulseHourPrefix(h hours.Hour) string {
	return pulsePrefix + encodeHour(h) + "/"
}

// pulseKey returns the marker saying channel has a bucket at hour h.
func pulseKey(h hours.Hour, channel string) string {
	return pulseHourPrefix(h) + channelEncoding.EncodeToString([]byte(channel))
}

// parsePulseKey is the inverse of pulseKey.
func parsePulseKey(key string) (hours.Hour, string, error) {
	rest, ok := strings.CutPrefix(key, pulsePrefix)
	if !ok {
		return 0, "", fmt.Errorf("scroll: not a pulse key %q", key)
	}
	hourPart, enc, ok := strings.Cut(rest, "/")
	if !ok {
		return 0, "", fmt.Errorf("scroll: not a pulse key %q", key)
	}
	h, err := decodeHour(hourPart)
	if err != nil {
		return 0, "", err
	}
	raw, err := channelEncoding.DecodeString(enc)
	if err != nil {
		return 0, "", fmt.Errorf("scroll: bad channel segment in %q: %w", key, err)
	}
	return h, string(raw), nil
}
