package hub

import (
	"sort"    // Ordering
	"strings" // String manipulation
	"time"    // Highlight window

	"ejn_hub/internal/domain" // Importing domain models
)

// HighlightPost picks the most liked post of the last 24 hours, falling back to the
// newest post. Returns nil for an empty feed.
func HighlightPost(posts []domain.CommunityPost, now time.Time) *domain.CommunityPost {
	if len(posts) == 0 {
		return nil
	}
	since := now.Add(-24 * time.Hour) // Highlight window
	var best *domain.CommunityPost
	for i := range posts {
		p := &posts[i]
		if !p.CreatedAt.After(since) {
			continue
		}
		if best == nil || len(p.Likes) > len(best.Likes) {
			best = p
		}
	}
	if best != nil {
		return best
	}
	newest := &posts[0] // No post in the window
	for i := range posts {
		if posts[i].CreatedAt.After(newest.CreatedAt) {
			newest = &posts[i]
		}
	}
	return newest
}

// Conversation returns the messages exchanged between a and b, oldest first
func Conversation(messages []domain.ChatMessage, a, b string) []domain.ChatMessage {
	out := make([]domain.ChatMessage, 0)
	for _, m := range messages {
		if (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// ManagerOnline reports business hours, 08:00 until 18:00 in loc
func ManagerOnline(now time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.Local
	}
	h := now.In(loc).Hour() // Manager's wall clock
	return h >= 8 && h < 18
}

// FilterRewards keeps rewards of category whose name contains term, case-insensitively
func FilterRewards(rewards []domain.Reward, category, term string) []domain.Reward {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]domain.Reward, 0, len(rewards))
	for _, r := range rewards {
		if category != "" && category != AllCategories && r.Category != category {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(r.Name), term) {
			continue
		}
		out = append(out, r)
	}
	return out
}
