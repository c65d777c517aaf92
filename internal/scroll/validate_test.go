package scroll

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		channel  string
		message  string
		velocity float64
		reason   string
	}{
		{"ok", "news", "hello world", 1, ""},
		{"home channel", "", "hello world", 0, ""},
		{"message 4 chars", "news", "abcd", 0, "message must be at least 5 characters long"},
		{"message 5 chars", "news", "abcde", 0, ""},
		{"message 150 chars", "news", strings.Repeat("m", 150), 0, ""},
		{"message 151 chars", "news", strings.Repeat("m", 151), 0, "message must be 150 characters or less"},
		{"channel 250 chars", strings.Repeat("c", 250), "hello world", 0, ""},
		{"channel 251 chars", strings.Repeat("c", 251), "hello world", 0, "channel must be 250 characters or less"},
		{"message leading space", "news", " hello world", 0, "message must not start or end with space"},
		{"message trailing newline", "news", "hello world\n", 0, "message must not start or end with space"},
		{"channel trailing space", "news ", "hello world", 0, "channel must not start or end with space"},
		{"velocity high", "news", "hello world", 10.01, "velocity must be in the range -10..10"},
		{"velocity low", "news", "hello world", -11, "velocity must be in the range -10..10"},
		{"velocity bounds", "news", "hello world", -10, ""},
		{"velocity NaN", "news", "hello world", math.NaN(), "velocity must be in the range -10..10"},
		{"velocity Inf", "news", "hello world", math.Inf(1), "velocity must be in the range -10..10"},
		// Trim is checked before length, as the HTTP API reports it.
		{"short and padded", "news", " ab ", 0, "message must not start or end with space"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.channel, tt.message, tt.velocity)
			if tt.reason == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("want ValidationError, got %v", err)
			}
			if verr.Reason != tt.reason {
				t.Fatalf("reason %q, want %q", verr.Reason, tt.reason)
			}
		})
	}
}

func TestLengthCountsUTF16Units(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"hello", 5},
		{"héllo", 5},
		{"🎉🎉", 4},
		{"", 0},
	}
	for _, tt := range tests {
		if got := Length(tt.in); got != tt.want {
			t.Errorf("Length(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}

	// Three emoji are six units: long enough for a message.
	if err := Validate("", "🎉🎉🎉", 0); err != nil {
		t.Fatalf("emoji message rejected: %v", err)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0}, {10, 10}, {12, 10}, {-12, -10}, {math.NaN(), 0}, {math.Inf(-1), -10},
	}
	for _, tt := range tests {
		if got := Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMalformedIsValidationError(t *testing.T) {
	var err error = Malformed()
	var verr *ValidationError
	if !errors.As(err, &verr) || !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("Malformed() = %v", err)
	}
}

func TestValidateRequestTypeOrder(t *testing.T) {
	msg, padded, ch := "hello world", " hello", "news"
	v := 1.0
	tests := []struct {
		name     string
		channel  *string
		message  *string
		velocity *float64
		reason   string
	}{
		{"message not string", &ch, nil, &v, "message must be a string"},
		{"padded before channel type", nil, &padded, &v, "message must not start or end with space"},
		{"channel not string", nil, &msg, &v, "channel must be a string"},
		{"velocity not number", &ch, &msg, nil, "velocity must be a number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest(tt.channel, tt.message, tt.velocity)
			if err == nil || err.Error() != tt.reason {
				t.Fatalf("got %v, want %q", err, tt.reason)
			}
		})
	}
}
