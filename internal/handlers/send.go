package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/Nyirongo2000/tagme.in/internal/metrics"
	"github.com/Nyirongo2000/tagme.in/internal/scroll"
)

// SendRequest is the POST /send body. Fields stay raw until their JSON type
// has been checked, so a wrong type yields its own reason.
type SendRequest struct {
	Channel  json.RawMessage `json:"channel"`
	Message  json.RawMessage `json:"message"`
	Velocity json.RawMessage `json:"velocity"`
}

// Send handles posting or voting on a message.
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.reject(w, r, scroll.Malformed())
		return
	}
	var req *SendRequest
	if err := json.Unmarshal(body, &req); err != nil || req == nil {
		h.reject(w, r, scroll.Malformed())
		return
	}

	channel := jsonString(req.Channel)
	message := jsonString(req.Message)
	velocity := jsonNumber(req.Velocity)
	if err := scroll.ValidateRequest(channel, message, velocity); err != nil {
		h.reject(w, r, err)
		return
	}

	if _, err := h.sender.Send(r.Context(), *channel, *message, *velocity); err != nil {
		h.Fail(w, r, err)
		return
	}

	h.Text(w, http.StatusOK, "sent")
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request, err error) {
	metrics.ValidationFailures.Inc()
	h.Fail(w, r, err)
}

// jsonString decodes raw only if it is a JSON string.
func jsonString(raw json.RawMessage) *string {
	if len(raw) == 0 || raw[0] != '"' {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return &s
}

// jsonNumber decodes raw only if it is a JSON number.
func jsonNumber(raw json.RawMessage) *float64 {
	if len(raw) == 0 || !(raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9')) {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}
	return &f
}
