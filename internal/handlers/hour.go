package handlers

import (
	"net/http"
	"time"

	"github.com/Nyirongo2000/tagme.in/internal/hours"
)

// HourResponse describes one hour bucket.
type HourResponse struct {
	Hour  hours.Hour `json:"hour"`
	Start string     `json:"start"`
	hours.Calendar
}

// Hour handles converting an hour bucket (the current one by default) to
// its UTC calendar position.
func (h *Handler) Hour(w http.ResponseWriter, r *http.Request) {
	hour, reason := h.hourParam(r)
	if reason != "" {
		h.Text(w, http.StatusBadRequest, reason)
		return
	}

	h.JSON(w, http.StatusOK, HourResponse{
		Hour:     hour,
		Start:    hour.Start().Format(time.RFC3339),
		Calendar: hour.Calendar(),
	})
}
