package api

import (
	"context"  // Context for notifications
	"fmt"      // Message formatting
	"net/http" // HTTP status codes
	"strings"  // String manipulation
	"time"     // Deadlines and clock

	"ejn_hub/internal/domain"  // Importing domain models
	"ejn_hub/internal/hub"     // Task views
	"ejn_hub/internal/rewards" // Coin awards
	"ejn_hub/internal/store"   // Data layer
	"ejn_hub/internal/utils"   // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// ListMyTasksHandler returns the pending tasks for the current user's team, most
// urgent first, optionally filtered by ?category=
func ListMyTasksHandler(st *store.Store, loc *time.Location) gin.HandlerFunc {
	return func(c *gin.Context) {
		tasks, err := st.ListTasks(c.Request.Context())
		if err != nil {
			respondStoreError(c, err, "list tasks")
			return
		}
		pending := hub.FilterTasksByCategory(hub.PendingTasks(tasks, currentUser(c)), c.Query("category"))
		c.JSON(http.StatusOK, hub.SortByUrgency(pending, time.Now(), loc))
	}
}

// SubmissionRequest carries the evidence of a completed task
type SubmissionRequest struct {
	Evidence string `json:"evidence"` // Link or description of the delivered work
}

// SubmitTaskHandler records the current user's evidence for a task
func SubmitTaskHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SubmissionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		task, err := st.GetTask(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondStoreError(c, err, "load task")
			return
		}
		if task.EvidenceRequired && strings.TrimSpace(req.Evidence) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Evidence is required for this task"})
			return
		}
		user := currentUser(c)
		sub := domain.Submission{
			TaskID:    task.ID,
			UserID:    user.ID,
			UserName:  user.Name,
			TaskTitle: task.Title,
			Evidence:  strings.TrimSpace(req.Evidence),
		}
		if err := st.CreateSubmission(c.Request.Context(), &sub); err != nil {
			respondStoreError(c, err, "submit task")
			return
		}
		logrus.WithFields(logrus.Fields{
			"submission_id": sub.ID,
			"task_id":       task.ID,
			"user_id":       user.ID,
		}).Info("Task submitted")
		c.JSON(http.StatusCreated, sub)
	}
}

// TaskRequest is the admin payload for creating or editing a task
type TaskRequest struct {
	Title             *string    `json:"title"`
	Description       *string    `json:"description"`
	Category          *string    `json:"category"`
	TargetTeam        *string    `json:"targetTeam"`
	Deadline          *time.Time `json:"deadline"`
	ReferenceLinks    *string    `json:"referenceLinks"`
	Points            *int       `json:"points"`
	Difficulty        *string    `json:"difficulty"`
	Recurrence        *string    `json:"recurrence"`
	EvidenceRequired  *bool      `json:"evidenceRequired"`
	StatusTag         *string    `json:"statusTag"`
	ResponsibleUserID *string    `json:"responsibleUserId"`
}

func (r TaskRequest) fields() map[string]any {
	f := map[string]any{}
	setIf(f, "title", r.Title)
	setIf(f, "description", r.Description)
	setIf(f, "category", r.Category)
	setIf(f, "target_team", r.TargetTeam)
	if r.Deadline != nil {
		f["deadline"] = r.Deadline
	}
	setIf(f, "reference_links", r.ReferenceLinks)
	setIf(f, "points", r.Points)
	setIf(f, "difficulty", r.Difficulty)
	setIf(f, "recurrence", r.Recurrence)
	setIf(f, "evidence_required", r.EvidenceRequired)
	setIf(f, "status_tag", r.StatusTag)
	setIf(f, "responsible_user_id", r.ResponsibleUserID)
	return f
}

// CreateTaskHandler publishes a new task and tells its audience about it
func CreateTaskHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TaskRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Title == nil || strings.TrimSpace(*req.Title) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if req.Points != nil && *req.Points < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Points must not be negative"})
			return
		}
		admin := currentUser(c)
		task := domain.Task{
			Title:             strings.TrimSpace(*req.Title),
			Description:       deref(req.Description),
			Category:          deref(req.Category),
			TargetTeam:        deref(req.TargetTeam),
			Deadline:          req.Deadline,
			ReferenceLinks:    deref(req.ReferenceLinks),
			Points:            deref(req.Points),
			Difficulty:        deref(req.Difficulty),
			Recurrence:        deref(req.Recurrence),
			EvidenceRequired:  deref(req.EvidenceRequired),
			StatusTag:         deref(req.StatusTag),
			ResponsibleUserID: deref(req.ResponsibleUserID),
			CreatorID:         admin.ID,
			CreatorName:       admin.Name,
			CreatorTeam:       admin.Team,
		}
		if task.TargetTeam == "" {
			task.TargetTeam = domain.TeamAll
		}
		if task.StatusTag == "" {
			task.StatusTag = domain.TagPending
		}
		if err := st.CreateTask(c.Request.Context(), &task); err != nil {
			respondStoreError(c, err, "create task")
			return
		}
		announceTask(c.Request.Context(), st, task)
		logrus.WithFields(logrus.Fields{
			"task_id":     task.ID,
			"target_team": task.TargetTeam,
			"points":      task.Points,
			"admin_id":    admin.ID,
		}).Info("Task created")
		c.JSON(http.StatusCreated, task)
	}
}

// announceTask notifies everyone for TODOS tasks, otherwise each member of the target team
func announceTask(ctx context.Context, st *store.Store, task domain.Task) {
	n := domain.Notification{
		Title:   "Nova Missão Disponível!",
		Message: fmt.Sprintf("%q vale %d EJN Coins.", task.Title, task.Points),
		Type:    domain.NotificationTaskNew,
	}
	recipients := []string{domain.NotifyAll}
	if task.TargetTeam != domain.TeamAll {
		users, err := st.ListProfiles(ctx)
		if err != nil {
			logrus.WithFields(logrus.Fields{"task_id": task.ID, "error": err.Error()}).Warn("Task announcement skipped")
			return
		}
		recipients = recipients[:0]
		for _, u := range users {
			if u.Team == task.TargetTeam {
				recipients = append(recipients, u.ID)
			}
		}
	}
	for _, id := range recipients {
		n.UserID = id
		if err := st.Notify(ctx, n); err != nil {
			logrus.WithFields(logrus.Fields{"task_id": task.ID, "user_id": id, "error": err.Error()}).Warn("Task announcement failed")
		}
	}
}

// UpdateTaskHandler edits a task
func UpdateTaskHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TaskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		fields := req.fields()
		if len(fields) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
			return
		}
		if err := st.UpdateTask(c.Request.Context(), c.Param("id"), fields); err != nil {
			respondStoreError(c, err, "update task")
			return
		}
		task, err := st.GetTask(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondStoreError(c, err, "load task")
			return
		}
		c.JSON(http.StatusOK, task)
	}
}

// DeleteTaskHandler removes a task
func DeleteTaskHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := st.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
			respondStoreError(c, err, "delete task")
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// ListSubmissionsHandler returns every submission, optionally filtered by ?status=
func ListSubmissionsHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		subs, err := st.ListSubmissions(c.Request.Context(), "")
		if err != nil {
			respondStoreError(c, err, "list submissions")
			return
		}
		if status := c.Query("status"); status != "" {
			filtered := subs[:0]
			for _, s := range subs {
				if string(s.Status) == status {
					filtered = append(filtered, s)
				}
			}
			subs = filtered
		}
		c.JSON(http.StatusOK, subs)
	}
}

// ReviewSubmissionHandler approves or rejects a pending submission. Approval credits
// the task's points to the submitter.
func ReviewSubmissionHandler(st *store.Store, coins *rewards.CoinAward, rdb *redis.Client, approve bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		sub, err := st.ReviewSubmission(ctx, c.Param("id"), approve)
		if err != nil {
			respondStoreError(c, err, "review submission")
			return
		}
		n := domain.Notification{
			UserID:  sub.UserID,
			Title:   "Missão Reprovada",
			Message: fmt.Sprintf("Sua entrega para %q precisa de ajustes.", sub.TaskTitle),
			Type:    domain.NotificationTaskRejected,
		}
		if approve {
			coins.AwardCoins(ctx, sub.UserID, sub.PointsAwarded)
			invalidate(ctx, rdb, utils.CacheKeyRanking, utils.CacheKeyDashboard)
			n.Title = "Missão Aprovada!"
			n.Message = fmt.Sprintf("Sua entrega para %q foi aprovada. +%d EJN Coins.", sub.TaskTitle, sub.PointsAwarded)
			n.Type = domain.NotificationTaskApproved
		} else {
			invalidate(ctx, rdb, utils.CacheKeyDashboard)
		}
		if err := st.Notify(ctx, n); err != nil {
			logrus.WithFields(logrus.Fields{"submission_id": sub.ID, "error": err.Error()}).Warn("Review notification failed")
		}
		logrus.WithFields(logrus.Fields{
			"submission_id": sub.ID,
			"user_id":       sub.UserID,
			"status":        sub.Status,
			"points":        sub.PointsAwarded,
			"admin_id":      currentUser(c).ID,
		}).Info("Submission reviewed")
		c.JSON(http.StatusOK, sub)
	}
}
