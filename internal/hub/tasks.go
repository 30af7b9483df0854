// Package hub computes the read-only views the hub screens show: task urgency,
// rankings, levels, feed highlights and admin statistics.
package hub

import (
	"fmt"  // Deadline labels
	"math" // Rounding
	"sort" // Ordering
	"time" // Deadlines and recurrence

	"ejn_hub/internal/domain" // Importing domain models
)

// AllCategories is the catch-all category filter
const AllCategories = "Todos"

// Deadline describes how close a task is to its due date
type Deadline struct {
	Text     string `json:"text"`
	Urgent   bool   `json:"urgent"`   // Overdue or due today
	DaysLeft int    `json:"daysLeft"` // Negative when overdue
}

// TaskView is a task with its deadline info
type TaskView struct {
	domain.Task
	DeadlineInfo *Deadline `json:"deadlineInfo,omitempty"`
}

// startOfDay truncates t to local midnight
func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// DeadlineInfo compares whole calendar days in loc. Overdue and due-today are urgent.
func DeadlineInfo(deadline *time.Time, now time.Time, loc *time.Location) *Deadline {
	if deadline == nil {
		return nil
	}
	if loc == nil {
		loc = time.Local
	}
	// Rounded so a DST shift does not lose a day
	days := int(math.Round(startOfDay(*deadline, loc).Sub(startOfDay(now, loc)).Hours() / 24))
	switch {
	case days < 0:
		return &Deadline{Text: "Atrasado", Urgent: true, DaysLeft: days}
	case days == 0:
		return &Deadline{Text: "Entrega Hoje", Urgent: true}
	case days == 1:
		return &Deadline{Text: "Vence em 1 dia", DaysLeft: 1}
	default:
		return &Deadline{Text: fmt.Sprintf("Vence em %d dias", days), DaysLeft: days}
	}
}

// PendingTasks keeps the PENDENTE tasks aimed at every team or at the user's team
func PendingTasks(tasks []domain.Task, user domain.User) []domain.Task {
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if (t.TargetTeam == domain.TeamAll || t.TargetTeam == user.Team) && t.StatusTag == domain.TagPending {
			out = append(out, t)
		}
	}
	return out
}

// FilterTasksByCategory keeps tasks of category; AllCategories keeps everything
func FilterTasksByCategory(tasks []domain.Task, category string) []domain.Task {
	if category == "" || category == AllCategories {
		return tasks
	}
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}

// SortByUrgency puts urgent tasks first, then earlier deadlines, then tasks without one
func SortByUrgency(tasks []domain.Task, now time.Time, loc *time.Location) []TaskView {
	views := make([]TaskView, len(tasks))
	for i, t := range tasks {
		views[i] = TaskView{Task: t, DeadlineInfo: DeadlineInfo(t.Deadline, now, loc)}
	}
	sort.SliceStable(views, func(i, j int) bool {
		a, b := views[i], views[j]
		au := a.DeadlineInfo != nil && a.DeadlineInfo.Urgent // Urgent first
		bu := b.DeadlineInfo != nil && b.DeadlineInfo.Urgent
		if au != bu {
			return au
		}
		switch {
		case a.Deadline != nil && b.Deadline != nil:
			return a.Deadline.Before(*b.Deadline)
		case a.Deadline != nil:
			return true
		default:
			return false
		}
	})
	return views
}
