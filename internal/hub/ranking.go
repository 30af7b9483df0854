package hub

import (
	"sort" // Ordering

	"ejn_hub/internal/domain" // Importing domain models
)

// Level is a tier reached by lifetime points
type Level struct {
	Name string `json:"name"`
	Min  int    `json:"min"` // Lifetime points needed
}

// Levels in ascending order
var Levels = []Level{
	{Name: "Bronze", Min: 0},
	{Name: "Prata", Min: 500},
	{Name: "Ouro", Min: 1500},
	{Name: "Platina", Min: 5000},
}

// LevelFor returns the highest level whose minimum totalAccumulated reaches
func LevelFor(totalAccumulated int) Level {
	lvl := Levels[0]
	for _, l := range Levels {
		if totalAccumulated >= l.Min {
			lvl = l
		}
	}
	return lvl
}

// NextLevel returns the level after the current one and the points missing; ok is
// false at the top level
func NextLevel(totalAccumulated int) (next Level, missing int, ok bool) {
	for _, l := range Levels {
		if l.Min > totalAccumulated {
			return l, l.Min - totalAccumulated, true
		}
	}
	return Level{}, 0, false
}

// RankEntry is one line of the ranking
type RankEntry struct {
	Position         int    `json:"position"` // 1-based
	UserID           string `json:"userId"`
	Name             string `json:"name"`
	Team             string `json:"team"`
	AvatarURL        string `json:"avatarUrl,omitempty"`
	TotalAccumulated int    `json:"totalAccumulated"`
	Level            string `json:"level"` // Level name
}

// Ranking orders opted-in, unblocked users by lifetime points; ties keep name order
func Ranking(users []domain.User) []RankEntry {
	listed := make([]domain.User, 0, len(users))
	for _, u := range users {
		if u.ShowOnRanking && !u.IsBlocked { // Opted in and not blocked
			listed = append(listed, u)
		}
	}
	sort.SliceStable(listed, func(i, j int) bool {
		if listed[i].TotalAccumulated != listed[j].TotalAccumulated {
			return listed[i].TotalAccumulated > listed[j].TotalAccumulated
		}
		return listed[i].Name < listed[j].Name
	})
	out := make([]RankEntry, len(listed))
	for i, u := range listed {
		out[i] = RankEntry{
			Position:         i + 1,
			UserID:           u.ID,
			Name:             u.Name,
			Team:             u.Team,
			AvatarURL:        u.AvatarURL,
			TotalAccumulated: u.TotalAccumulated,
			Level:            LevelFor(u.TotalAccumulated).Name,
		}
	}
	return out
}
