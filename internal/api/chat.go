package api

import (
	"fmt"      // Message formatting
	"net/http" // HTTP status codes
	"strings"  // String manipulation
	"time"     // Business hours

	"ejn_hub/internal/domain" // Importing domain models
	"ejn_hub/internal/hub"    // Conversation views
	"ejn_hub/internal/store"  // Data layer

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// ManagerView is a manager as listed in the chat sidebar
type ManagerView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Team      string `json:"team"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	Online    bool   `json:"online"`
}

// ListManagersHandler returns the managers a collaborator can message
func ListManagersHandler(st *store.Store, loc *time.Location) gin.HandlerFunc {
	return func(c *gin.Context) {
		managers, err := st.ListManagers(c.Request.Context())
		if err != nil {
			respondStoreError(c, err, "list managers")
			return
		}
		online := hub.ManagerOnline(time.Now(), loc)
		out := make([]ManagerView, 0, len(managers))
		for _, m := range managers {
			out = append(out, ManagerView{ID: m.ID, Name: m.Name, Team: m.Team, AvatarURL: m.AvatarURL, Online: online})
		}
		c.JSON(http.StatusOK, out)
	}
}

// resolvePeer loads the other side of a conversation. Collaborators may only talk to
// managers; managers may talk to anyone.
func resolvePeer(c *gin.Context, st *store.Store, user domain.User) (domain.User, bool) {
	peer, err := st.GetProfile(c.Request.Context(), c.Param("peerID"))
	if err != nil {
		respondStoreError(c, err, "load peer")
		return domain.User{}, false
	}
	if peer.ID == user.ID || (!user.IsAdmin() && !peer.IsAdmin()) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Chat is only available between collaborators and managers"})
		return domain.User{}, false
	}
	return peer, true
}

// ConversationHandler returns the messages with a peer and marks theirs as read
func ConversationHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		peer, ok := resolvePeer(c, st, user)
		if !ok {
			return
		}
		messages, err := st.ListMessages(c.Request.Context(), user.ID)
		if err != nil {
			respondStoreError(c, err, "load messages")
			return
		}
		if err := st.MarkConversationRead(c.Request.Context(), user.ID, peer.ID); err != nil {
			logrus.WithFields(logrus.Fields{"user_id": user.ID, "peer_id": peer.ID, "error": err.Error()}).Warn("Marking conversation read failed")
		}
		c.JSON(http.StatusOK, hub.Conversation(messages, user.ID, peer.ID))
	}
}

// MessageRequest is a chat message, optionally about a task
type MessageRequest struct {
	Text   string `json:"text" binding:"required"`
	TaskID string `json:"taskId"`
}

// SendMessageHandler sends a message to a peer and notifies them
func SendMessageHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req MessageRequest
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		user := currentUser(c)
		peer, ok := resolvePeer(c, st, user)
		if !ok {
			return
		}
		msg := domain.ChatMessage{
			SenderID:   user.ID,
			SenderName: user.Name,
			ReceiverID: peer.ID,
			Text:       strings.TrimSpace(req.Text),
			TaskID:     req.TaskID,
		}
		if err := st.SendMessage(c.Request.Context(), &msg); err != nil {
			respondStoreError(c, err, "send message")
			return
		}
		if err := st.Notify(c.Request.Context(), domain.Notification{
			UserID:  peer.ID,
			Title:   "Nova Mensagem",
			Message: fmt.Sprintf("%s enviou uma mensagem.", user.Name),
			Type:    domain.NotificationChatMessage,
			Link:    "/chat/" + user.ID,
		}); err != nil {
			logrus.WithFields(logrus.Fields{"message_id": msg.ID, "error": err.Error()}).Warn("Chat notification failed")
		}
		c.JSON(http.StatusCreated, msg)
	}
}
