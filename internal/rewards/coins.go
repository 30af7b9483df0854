package rewards

import (
	"context" // Context for balance updates

	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// Coins credited for community and task activity
const (
	CoinsPerPost    = 5 // Author of a new post
	CoinsPerLike    = 3 // Author of the liked post
	CoinsPerComment = 1 // Author of a comment
)

// CoinAward credits coins without surfacing failures to the caller
type CoinAward struct {
	profiles ProfileStore
	log      logrus.FieldLogger // Never nil
}

// NewCoinAward returns an awarder; log may be nil
func NewCoinAward(profiles ProfileStore, log logrus.FieldLogger) *CoinAward {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CoinAward{profiles: profiles, log: log}
}

// AwardCoins adds amount to the user's balance and lifetime total. Non-positive
// amounts are ignored so the lifetime total never decreases. Fire-and-forget.
func (a *CoinAward) AwardCoins(ctx context.Context, userID string, amount int) {
	fields := logrus.Fields{"user_id": userID, "amount": amount}
	if amount <= 0 {
		a.log.WithFields(fields).Debug("Ignoring non-positive coin award")
		return
	}
	if err := a.profiles.AddPoints(ctx, userID, amount); err != nil { // Atomic increment of both counters
		a.log.WithFields(fields).WithError(err).Warn("Coin award failed")
		return
	}
	a.log.WithFields(fields).Info("Coins awarded")
}
