// Package rewards holds the points economy: redeeming rewards and awarding coins.
package rewards

import (
	"context" // Context for store calls
	"errors"  // Error matching
	"fmt"     // Prompt and message formatting

	"ejn_hub/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// FailureMessage is what users see for any failed redemption. It does not say
// whether stock, balance or the backend was the cause.
const FailureMessage = "Resgate falhou. Verifique seu saldo ou o estoque do item."

var (
	// ErrRedemptionFailed covers every precondition, read and commit failure
	ErrRedemptionFailed = errors.New("redemption failed")
	// ErrNotConfirmed means the user declined the confirmation prompt
	ErrNotConfirmed = errors.New("redemption not confirmed")
)

// Result of a successful redemption
type Result struct {
	Redemption domain.Redemption `json:"redemption"`
	Reward     domain.Reward     `json:"reward"`
	Balance    int               `json:"balance"` // Pre-debit balance minus cost
}

// Workflow validates and commits reward redemptions
type Workflow struct {
	profiles ProfileStore
	catalog  RewardCatalog
	ledger   RedemptionLedger
	notifier NotificationSink
	log      logrus.FieldLogger
}

// NewWorkflow wires the workflow to its stores; log may be nil
func NewWorkflow(profiles ProfileStore, catalog RewardCatalog, ledger RedemptionLedger, notifier NotificationSink, log logrus.FieldLogger) *Workflow {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Workflow{profiles: profiles, catalog: catalog, ledger: ledger, notifier: notifier, log: log}
}

// Prompt is the confirmation question for redeeming r
func Prompt(r domain.Reward) string {
	return fmt.Sprintf("Resgatar %q por %d EJN Coins?", r.Name, r.Cost)
}

// AttemptRedemption redeems rewardID for userID. State is read fresh, the user must
// confirm, and the commit is a single all-or-nothing ledger call. Nothing is retried.
func (w *Workflow) AttemptRedemption(ctx context.Context, userID, rewardID string, confirm Confirmer) (Result, error) {
	fields := logrus.Fields{"user_id": userID, "reward_id": rewardID}

	reward, err := w.catalog.GetReward(ctx, rewardID) // Fresh read, never the cached catalog
	if err != nil {
		w.log.WithFields(fields).WithError(err).Info("Redemption rejected: reward unavailable")
		return Result{}, ErrRedemptionFailed
	}
	user, err := w.profiles.GetProfile(ctx, userID)
	if err != nil {
		w.log.WithFields(fields).WithError(err).Info("Redemption rejected: profile unavailable")
		return Result{}, ErrRedemptionFailed
	}
	fields["cost"] = reward.Cost // Price the user is asked to confirm
	if reward.Stock <= 0 {
		w.log.WithFields(fields).Info("Redemption rejected: out of stock")
		return Result{}, ErrRedemptionFailed
	}
	if user.Points < reward.Cost {
		fields["points"] = user.Points
		w.log.WithFields(fields).Info("Redemption rejected: insufficient balance")
		return Result{}, ErrRedemptionFailed
	}

	if confirm == nil || !confirm.Confirm(ctx, Prompt(reward)) {
		return Result{}, ErrNotConfirmed // Nothing written
	}

	redemption, err := w.ledger.Redeem(ctx, domain.Redemption{
		RewardID:   reward.ID,
		UserID:     user.ID,
		UserName:   user.Name,
		RewardName: reward.Name,
		Cost:       reward.Cost,                // Debit must match the confirmed price
		Status:     domain.RedemptionRequested, // Admins move it forward
	})
	if err != nil {
		w.log.WithFields(fields).WithError(err).Error("Redemption commit failed")
		return Result{}, ErrRedemptionFailed
	}

	// Best-effort: the redemption stands even if admins are not told about it
	if err := w.notifier.Notify(ctx, domain.Notification{
		UserID:  domain.NotifyAdmin,
		Title:   "Novo Resgate Realizado!",
		Message: fmt.Sprintf("%s resgatou: %q.", user.Name, reward.Name),
		Type:    domain.NotificationRewardReady,
	}); err != nil {
		w.log.WithFields(fields).WithError(err).Warn("Admin notification for redemption failed")
	}

	fields["redemption_id"] = redemption.ID
	w.log.WithFields(fields).Info("Reward redeemed")
	return Result{Redemption: redemption, Reward: reward, Balance: user.Points - reward.Cost}, nil
}
