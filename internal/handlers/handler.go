package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/Nyirongo2000/tagme.in/internal/hours"
	"github.com/Nyirongo2000/tagme.in/internal/scroll"
	"github.com/Nyirongo2000/tagme.in/internal/store"
)

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	sender  *scroll.Sender
	seeker  *scroll.Seeker
	kv      store.Backend
	backend string
	logger  zerolog.Logger
}

// NewHandler creates a new Handler. kv is only pinged by the health check;
// reads and writes go through sender and seeker.
func NewHandler(sender *scroll.Sender, seeker *scroll.Seeker, kv store.Backend, backend string, logger zerolog.Logger) *Handler {
	return &Handler{sender: sender, seeker: seeker, kv: kv, backend: backend, logger: logger}
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Text sends a plain text response. The scroll API reports results and
// validation reasons as bare strings.
func (h *Handler) Text(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

// Fail maps engine errors to responses: validation reasons become 400s,
// everything else is logged and reported as a 500.
func (h *Handler) Fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *scroll.ValidationError
	if errors.As(err, &verr) {
		h.Text(w, http.StatusBadRequest, verr.Reason)
		return
	}

	var serr *scroll.StorageError
	if errors.As(err, &serr) {
		h.logger.Error().Err(err).Str("op", serr.Op).Str("path", r.URL.Path).Msg("storage failure")
		h.Text(w, http.StatusInternalServerError, "storage error")
		return
	}

	h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	h.Text(w, http.StatusInternalServerError, "internal error")
}

// hourParam parses the optional hour query parameter, defaulting to the
// current bucket. A non-empty reason means the parameter was rejected.
func (h *Handler) hourParam(r *http.Request) (hours.Hour, string) {
	raw := r.URL.Query().Get("hour")
	if raw == "" {
		return h.seeker.Now(), ""
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		var nerr *strconv.NumError
		if errors.As(err, &nerr) && errors.Is(nerr.Err, strconv.ErrRange) {
			return 0, "hour out of range"
		}
		return 0, "hour must be an integer"
	}
	if !hours.Hour(n).InRange() {
		return 0, "hour out of range"
	}
	return hours.Hour(n), ""
}
