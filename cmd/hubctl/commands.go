package main

import (
	"bufio"   // Prompt answers
	"context" // Context for confirmations
	"errors"  // Error matching
	"fmt"     // Output formatting
	"io"      // Prompt streams
	"strings" // String manipulation

	"ejn_hub/internal/db"      // Schema migration
	"ejn_hub/internal/domain"  // Importing domain models
	"ejn_hub/internal/rewards" // Points economy
	"ejn_hub/internal/utils"   // Cache keys

	"github.com/spf13/cobra" // Command tree
)

// invalidate drops the cached views a CLI write made stale
func (a *app) invalidate(ctx context.Context, keys ...string) {
	if err := utils.DeleteCache(ctx, a.rdb, keys...); err != nil {
		a.log.WithField("keys", keys).Warnf("Cache invalidation failed: %v", err)
	}
}

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := db.Migrate(a.conn); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
}

// stdinConfirmer asks the prompt on out and reads a yes/no answer from in.
// Anything but an explicit yes declines.
func stdinConfirmer(in io.Reader, out io.Writer) rewards.Confirmer {
	reader := bufio.NewReader(in)
	return rewards.ConfirmFunc(func(_ context.Context, prompt string) bool {
		fmt.Fprintf(out, "%s [y/N] ", prompt)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes", "s", "sim":
			return true
		}
		return false
	})
}

func newRedeemCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "redeem <user-id> <reward-id>",
		Short: "Redeem a reward on behalf of a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			wf := rewards.NewWorkflow(a.store, a.store, a.store, a.store, a.log)
			var confirm rewards.Confirmer = rewards.Always
			if !yes {
				confirm = stdinConfirmer(cmd.InOrStdin(), cmd.OutOrStdout())
			}
			res, err := wf.AttemptRedemption(cmd.Context(), args[0], args[1], confirm)
			switch {
			case errors.Is(err, rewards.ErrNotConfirmed):
				fmt.Fprintln(cmd.OutOrStdout(), "cancelled")
				return nil
			case err != nil:
				return errors.New(rewards.FailureMessage) // Same message whatever the cause
			}
			a.invalidate(cmd.Context(), utils.CacheKeyRewards, utils.CacheKeyDashboard) // Stock and pending redemptions changed
			fmt.Fprintf(cmd.OutOrStdout(), "redeemed %q (%s), balance %d\n", res.Reward.Name, res.Redemption.ID, res.Balance)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newAwardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "award <user-id> <amount>",
		Short: "Credit coins to a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var amount int
			if _, err := fmt.Sscan(args[1], &amount); err != nil || amount <= 0 {
				return fmt.Errorf("amount must be a positive integer, got %q", args[1])
			}
			if _, err := a.store.GetProfile(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("load user %s: %w", args[0], err)
			}
			rewards.NewCoinAward(a.store, a.log).AwardCoins(cmd.Context(), args[0], amount)
			a.invalidate(cmd.Context(), utils.CacheKeyRanking, utils.CacheKeyDashboard)
			u, err := a.store.GetProfile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s now has %d coins (%d lifetime)\n", u.Name, u.Points, u.TotalAccumulated)
			return nil
		},
	}
}

func newNotifyCmd(a *app) *cobra.Command {
	var (
		title, link string
		kind        string // Notification type
	)
	cmd := &cobra.Command{
		Use:   "notify <recipient> <message>",
		Short: "Send a notification to a user id, ALL or ADMIN",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" {
				return errors.New("--title is required")
			}
			// Reaches connected clients through the change feed when Redis is configured
			return a.store.Notify(cmd.Context(), domain.Notification{
				UserID:  args[0],
				Title:   title,
				Message: args[1],
				Type:    domain.NotificationType(kind),
				Link:    link,
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "notification title")
	cmd.Flags().StringVar(&link, "link", "", "optional link")
	cmd.Flags().StringVar(&kind, "type", "", "notification type, e.g. TASK_NEW")
	return cmd
}
