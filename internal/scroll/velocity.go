package scroll

import (
	"sort"
	"time"

	"github.com/Nyirongo2000/tagme.in/internal/models"
)

const msPerHour = float64(time.Hour / time.Millisecond)

// Score is the display score of a record at now (Unix ms): its position
// plus velocity per elapsed hour since the last commit. It depends on the
// record fields alone, so clients can recompute it between renders.
func Score(r models.MessageRecord, now int64) float64 {
	return r.Position + r.Velocity*float64(now-r.Timestamp)/msPerHour
}

// Ranked is a message with its display score.
type Ranked struct {
	Text   string               `json:"text"`
	Score  float64              `json:"score"`
	Record models.MessageRecord `json:"data"`
}

// Rank orders messages by descending score at now, ties by text.
func Rank(messages map[string]models.MessageRecord, now int64) []Ranked {
	out := make([]Ranked, 0, len(messages))
	for text, r := range messages {
		out = append(out, Ranked{Text: text, Score: Score(r, now), Record: r})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Text < out[j].Text
	})
	return out
}
