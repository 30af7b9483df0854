package domain

// All lists every model managed by migrations
func All() []any {
	return []any{
		&User{}, &Reward{}, &Redemption{}, &Notification{},
		&Task{}, &Submission{},
		&CommunityPost{}, &PostLike{}, &CommunityComment{},
		&ChatMessage{}, &AnonymousFeedback{},
	}
}
