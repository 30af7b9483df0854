package rewards

import (
	"context"
	"errors"
	"sync"

	"ejn_hub/internal/domain"
)

var errBackend = errors.New("backend unavailable")

// memory is an in-process backend that counts every write it receives
type memory struct {
	mu            sync.Mutex
	users         map[string]domain.User
	rewards       map[string]domain.Reward
	redemptions   []domain.Redemption
	notifications []domain.Notification
	writes        int

	readErr   error
	redeemErr error
	notifyErr error
}

func newMemory() *memory {
	return &memory{users: map[string]domain.User{}, rewards: map[string]domain.Reward{}}
}

func (m *memory) GetProfile(_ context.Context, id string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.User{}, errors.New("no profile")
	}
	return u, nil
}

func (m *memory) AddPoints(_ context.Context, id string, amount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	u, ok := m.users[id]
	if !ok {
		return errors.New("no profile")
	}
	u.Points += amount
	u.TotalAccumulated += amount
	m.users[id] = u
	return nil
}

func (m *memory) GetReward(_ context.Context, id string) (domain.Reward, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return domain.Reward{}, m.readErr
	}
	r, ok := m.rewards[id]
	if !ok {
		return domain.Reward{}, errors.New("no reward")
	}
	return r, nil
}

func (m *memory) Redeem(_ context.Context, d domain.Redemption) (domain.Redemption, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.redeemErr != nil {
		return domain.Redemption{}, m.redeemErr
	}
	u := m.users[d.UserID]
	r := m.rewards[d.RewardID]
	if u.Points < d.Cost || r.Stock <= 0 || r.Cost != d.Cost {
		return domain.Redemption{}, errors.New("conflict")
	}
	u.Points -= d.Cost
	r.Stock--
	m.users[u.ID], m.rewards[r.ID] = u, r
	d.ID = "red-1"
	m.redemptions = append(m.redemptions, d)
	return d, nil
}

func (m *memory) Notify(_ context.Context, n domain.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.notifyErr != nil {
		return m.notifyErr
	}
	m.notifications = append(m.notifications, n)
	return nil
}

// promptRecorder confirms with a fixed answer and remembers what it was asked
type promptRecorder struct {
	answer  bool
	prompts []string
}

func (p *promptRecorder) Confirm(_ context.Context, prompt string) bool {
	p.prompts = append(p.prompts, prompt)
	return p.answer
}
