package rewards

import (
	"context" // Context for store calls

	"ejn_hub/internal/domain" // Importing domain models
)

// ProfileStore is the authoritative point balance per user
type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (domain.User, error)
	AddPoints(ctx context.Context, userID string, amount int) error
}

// RewardCatalog is the authoritative cost and stock per reward
type RewardCatalog interface {
	GetReward(ctx context.Context, rewardID string) (domain.Reward, error)
}

// RedemptionLedger commits a redemption: debit, stock decrement and history row,
// all or nothing
type RedemptionLedger interface {
	Redeem(ctx context.Context, draft domain.Redemption) (domain.Redemption, error)
}

// NotificationSink fans alerts out to users
type NotificationSink interface {
	Notify(ctx context.Context, n domain.Notification) error
}

// Confirmer asks the user a yes/no question before an irreversible action
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool { return f(ctx, prompt) }

// Always is a Confirmer for callers that already collected consent
var Always = ConfirmFunc(func(context.Context, string) bool { return true })
