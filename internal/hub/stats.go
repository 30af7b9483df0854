package hub

import (
	"strings" // String manipulation

	"ejn_hub/internal/domain" // Importing domain models
)

// FeedbackFilter narrows the SAC list. Empty or "ALL" fields match everything.
type FeedbackFilter struct {
	Category string
	Status   string
	Search   string // Matched against subject and message
}

// Apply returns the feedbacks matching every criterion
func (f FeedbackFilter) Apply(feedbacks []domain.AnonymousFeedback) []domain.AnonymousFeedback {
	term := strings.ToLower(f.Search)
	out := make([]domain.AnonymousFeedback, 0, len(feedbacks))
	for _, fb := range feedbacks {
		if f.Category != "" && f.Category != "ALL" && string(fb.Category) != f.Category {
			continue
		}
		if f.Status != "" && f.Status != "ALL" && string(fb.Status) != f.Status {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(fb.Subject), term) && !strings.Contains(strings.ToLower(fb.Message), term) {
			continue
		}
		out = append(out, fb)
	}
	return out
}

// FeedbackStats summarises the SAC inbox
type FeedbackStats struct {
	Total      int            `json:"total"`
	Resolved   int            `json:"resolved"` // SOLVED or APPLIED
	ByCategory map[string]int `json:"byCategory"`
}

// SummarizeFeedback counts reports; SOLVED and APPLIED count as resolved
func SummarizeFeedback(feedbacks []domain.AnonymousFeedback) FeedbackStats {
	st := FeedbackStats{Total: len(feedbacks), ByCategory: map[string]int{}}
	for _, c := range domain.FeedbackCategories {
		st.ByCategory[string(c)] = 0 // Every category is listed, even when empty
	}
	for _, fb := range feedbacks {
		if fb.Status == domain.FeedbackSolved || fb.Status == domain.FeedbackApplied {
			st.Resolved++
		}
		st.ByCategory[string(fb.Category)]++
	}
	return st
}

// MissionsCompleted counts approved submissions per user
func MissionsCompleted(submissions []domain.Submission) map[string]int {
	out := map[string]int{}
	for _, s := range submissions {
		if s.Status == domain.SubmissionApproved {
			out[s.UserID]++
		}
	}
	return out
}

// CollaboratorStatus is one row of the admin overview
type CollaboratorStatus struct {
	UserID             string `json:"userId"`
	Name               string `json:"name"`
	Team               string `json:"team"`
	Points             int    `json:"points"`
	TotalAccumulated   int    `json:"totalAccumulated"`
	Level              string `json:"level"`
	MissionsCompleted  int    `json:"missionsCompleted"`
	AvailabilityStatus string `json:"availabilityStatus"`
}

// Dashboard is the admin overview
type Dashboard struct {
	Collaborators       []CollaboratorStatus `json:"collaborators"`
	PointsInCirculation int                  `json:"pointsInCirculation"` // Sum of spendable balances
	PointsDistributed   int                  `json:"pointsDistributed"`   // Sum of lifetime totals
	PendingSubmissions  int                  `json:"pendingSubmissions"`
	RedemptionsByStatus map[string]int       `json:"redemptionsByStatus"`
	Feedback            FeedbackStats        `json:"feedback"`
}

// BuildDashboard aggregates the admin overview from raw lists
func BuildDashboard(users []domain.User, submissions []domain.Submission, redemptions []domain.Redemption, feedbacks []domain.AnonymousFeedback) Dashboard {
	missions := MissionsCompleted(submissions)
	d := Dashboard{
		Collaborators:       make([]CollaboratorStatus, 0),
		RedemptionsByStatus: map[string]int{},
		Feedback:            SummarizeFeedback(feedbacks),
	}
	for _, u := range users {
		if u.Role != domain.RoleColaborador {
			continue // Admins hold no coins
		}
		d.PointsInCirculation += u.Points
		d.PointsDistributed += u.TotalAccumulated
		d.Collaborators = append(d.Collaborators, CollaboratorStatus{
			UserID:             u.ID,
			Name:               u.Name,
			Team:               u.Team,
			Points:             u.Points,
			TotalAccumulated:   u.TotalAccumulated,
			Level:              LevelFor(u.TotalAccumulated).Name,
			MissionsCompleted:  missions[u.ID],
			AvailabilityStatus: u.AvailabilityStatus,
		})
	}
	for _, s := range submissions {
		if s.Status == domain.SubmissionPending {
			d.PendingSubmissions++
		}
	}
	for _, r := range redemptions {
		d.RedemptionsByStatus[string(r.Status)]++
	}
	return d
}

// ProfileStats are the counters shown on a profile page
type ProfileStats struct {
	Posts             int    `json:"posts"`
	LikesReceived     int    `json:"likesReceived"`
	MissionsCompleted int    `json:"missionsCompleted"`
	Level             string `json:"level"`
	NextLevel         string `json:"nextLevel,omitempty"`
	PointsToNextLevel int    `json:"pointsToNextLevel,omitempty"`
}

// BuildProfileStats counts the user's posts, likes received and approved missions
func BuildProfileStats(user domain.User, posts []domain.CommunityPost, submissions []domain.Submission) ProfileStats {
	st := ProfileStats{Level: LevelFor(user.TotalAccumulated).Name}
	if next, missing, ok := NextLevel(user.TotalAccumulated); ok {
		st.NextLevel, st.PointsToNextLevel = next.Name, missing
	}
	for _, p := range posts {
		if p.UserID == user.ID {
			st.Posts++
			st.LikesReceived += len(p.Likes)
		}
	}
	for _, s := range submissions {
		if s.UserID == user.ID && s.Status == domain.SubmissionApproved {
			st.MissionsCompleted++
		}
	}
	return st
}
