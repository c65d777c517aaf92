package handlers

import (
	"net/http"

	"github.com/Nyirongo2000/tagme.in/internal/models"
)

// SeekResponse wraps the snapshot the way browser clients expect it.
type SeekResponse struct {
	Response *models.Snapshot `json:"response"`
}

// Seek handles reading a channel as of an hour.
func (h *Handler) Seek(w http.ResponseWriter, r *http.Request) {
	hour, reason := h.hourParam(r)
	if reason != "" {
		h.Text(w, http.StatusBadRequest, reason)
		return
	}

	snap, err := h.seeker.Seek(r.Context(), r.URL.Query().Get("channel"), hour)
	if err != nil {
		h.Fail(w, r, err)
		return
	}

	h.JSON(w, http.StatusOK, SeekResponse{Response: snap})
}
