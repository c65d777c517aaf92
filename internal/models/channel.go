package models

import "sort"

// ChannelAggregate is a channel's popularity over the hours a query covers.
type ChannelAggregate struct {
	Name  string `json:"name"`
	Score int64  `json:"score"`
}

// Snapshot is the reconstructed state of a channel as of one hour, together
// with the popularity of every channel active in the same scope.
type Snapshot struct {
	Messages map[string]MessageRecord `json:"messages"`
	Channels map[string]int64         `json:"channels"`
}

// Leaderboard returns the channels sorted by descending score, then name.
func (s *Snapshot) Leaderboard() []ChannelAggregate {
	return Leaderboard(s.Channels)
}

// Leaderboard sorts per-channel counts by descending score, then name.
func Leaderboard(counts map[string]int64) []ChannelAggregate {
	out := make([]ChannelAggregate, 0, len(counts))
	for name, score := range counts {
		out = append(out, ChannelAggregate{Name: name, Score: score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Name < out[j].Name
	})
	return out
}
