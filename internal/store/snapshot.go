package store

import (
	"context" // Context for DB operations

	"ejn_hub/internal/domain" // Importing domain models

	"golang.org/x/sync/errgroup" // Parallel loads
)

// Snapshot is everything the hub screens load on start
type Snapshot struct {
	Users         []domain.User              `json:"users"`
	Tasks         []domain.Task              `json:"tasks"`
	Rewards       []domain.Reward            `json:"rewards"`
	Submissions   []domain.Submission        `json:"submissions"`
	Redemptions   []domain.Redemption        `json:"redemptions"`
	Posts         []domain.CommunityPost     `json:"posts"`
	Messages      []domain.ChatMessage       `json:"messages"`
	Feedbacks     []domain.AnonymousFeedback `json:"feedbacks"`
	Notifications []domain.Notification      `json:"notifications"`
}

// LoadSnapshot reads every list concurrently. Collaborators only get their own
// submissions, redemptions and messages; anonymous feedback is admin-only.
func (s *Store) LoadSnapshot(ctx context.Context, viewer domain.User) (Snapshot, error) {
	var snap Snapshot
	owner := viewer.ID
	if viewer.IsAdmin() {
		owner = "" // Everyone's rows
	}
	g, ctx := errgroup.WithContext(ctx) // First failure cancels the other loads
	g.Go(func() (err error) { snap.Users, err = s.ListProfiles(ctx); return })
	g.Go(func() (err error) { snap.Tasks, err = s.ListTasks(ctx); return })
	g.Go(func() (err error) { snap.Rewards, err = s.ListRewards(ctx); return })
	g.Go(func() (err error) { snap.Submissions, err = s.ListSubmissions(ctx, owner); return })
	g.Go(func() (err error) { snap.Redemptions, err = s.ListRedemptions(ctx, owner); return })
	g.Go(func() (err error) { snap.Posts, err = s.ListPosts(ctx); return })
	g.Go(func() (err error) { snap.Messages, err = s.ListMessages(ctx, viewer.ID); return })
	g.Go(func() (err error) { snap.Notifications, err = s.ListNotifications(ctx, viewer); return })
	if viewer.IsAdmin() {
		g.Go(func() (err error) { snap.Feedbacks, err = s.ListFeedback(ctx); return })
	}
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
