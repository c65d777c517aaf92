package handlers

import (
	"net/http"

	"github.com/Nyirongo2000/tagme.in/internal/hours"
	"github.com/Nyirongo2000/tagme.in/internal/models"
)

// ChannelListResponse represents the popular channels response.
type ChannelListResponse struct {
	Hour     hours.Hour                `json:"hour"`
	Channels []models.ChannelAggregate `json:"channels"`
}

// ListChannels handles listing channels by popularity as of an hour.
func (h *Handler) ListChannels(w http.ResponseWriter, r *http.Request) {
	hour, reason := h.hourParam(r)
	if reason != "" {
		h.Text(w, http.StatusBadRequest, reason)
		return
	}

	counts, err := h.seeker.Channels(r.Context(), hour)
	if err != nil {
		h.Fail(w, r, err)
		return
	}

	h.JSON(w, http.StatusOK, ChannelListResponse{
		Hour:     hour,
		Channels: models.Leaderboard(counts),
	})
}
