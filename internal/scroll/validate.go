package scroll

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf16"
)

const (
	MaxChannelLength = 250
	MinMessageLength = 5
	MaxMessageLength = 150
	MaxVelocity      = 10.0
)

// Length counts UTF-16 code units, the unit browser clients measure text in.
func Length(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// isTrimmed reports whether s has no leading or trailing whitespace.
func isTrimmed(s string) bool {
	return strings.TrimFunc(s, isTrimSpace) == s
}

func isTrimSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// Validate checks a send request. It returns nil or a *ValidationError.
func Validate(channel, message string, velocity float64) error {
	return ValidateRequest(&channel, &message, &velocity)
}

// ValidateRequest checks decoded request fields in the order the HTTP API
// reports failures. A nil field did not decode to the expected JSON type.
func ValidateRequest(channel, message *string, velocity *float64) error {
	if message == nil {
		return invalid("message must be a string")
	}
	if !isTrimmed(*message) {
		return invalid("message must not start or end with space")
	}
	if channel == nil {
		return invalid("channel must be a string")
	}
	if Length(*message) < MinMessageLength {
		return invalid(fmt.Sprintf("message must be at least %d characters long", MinMessageLength))
	}
	if Length(*message) > MaxMessageLength {
		return invalid(fmt.Sprintf("message must be %d characters or less", MaxMessageLength))
	}
	if Length(*channel) > MaxChannelLength {
		return invalid(fmt.Sprintf("channel must be %d characters or less", MaxChannelLength))
	}
	if !isTrimmed(*channel) {
		return invalid("channel must not start or end with space")
	}
	if velocity == nil {
		return invalid("velocity must be a number")
	}
	v := *velocity
	if math.IsNaN(v) || math.IsInf(v, 0) || v < -MaxVelocity || v > MaxVelocity {
		return invalid("velocity must be in the range -10..10")
	}
	return nil
}

// Clamp bounds v to [-MaxVelocity, MaxVelocity]. NaN becomes zero.
func Clamp(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < -MaxVelocity:
		return -MaxVelocity
	case v > MaxVelocity:
		return MaxVelocity
	}
	return v
}
