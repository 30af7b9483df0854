package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ejn_hub/internal/db"
	"ejn_hub/internal/domain"
	"ejn_hub/internal/realtime"
	"ejn_hub/internal/rewards"
	"ejn_hub/internal/store"
	"ejn_hub/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const secret = "test-secret"

type env struct {
	t      *testing.T
	router *gin.Engine
	store  *store.Store
	mr     *miniredis.Miniredis
	broker *realtime.Broker
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	conn, err := db.OpenDSN("sqlite", "file:"+name+"?mode=memory&cache=shared", true)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	broker := realtime.NewBroker(rdb)

	log, _ := test.NewNullLogger()
	st := store.New(conn, broker)
	r := gin.New()
	RegisterRoutes(r, Deps{
		Store:     st,
		Redis:     rdb,
		Broker:    broker,
		Workflow:  rewards.NewWorkflow(st, st, st, st, log),
		Coins:     rewards.NewCoinAward(st, log),
		JWTSecret: secret,
		CacheTTL:  time.Minute,
		Location:  time.UTC,
	})
	return &env{t: t, router: r, store: st, mr: mr, broker: broker}
}

func (e *env) user(name string, role domain.Role, points int) domain.User {
	e.t.Helper()
	u := domain.User{
		Name:             name,
		Email:            strings.ToLower(name) + "@ejn.com",
		Role:             role,
		Team:             "Design",
		Points:           points,
		TotalAccumulated: points,
		ShowOnRanking:    true,
	}
	require.NoError(e.t, e.store.CreateProfile(context.Background(), &u))
	return u
}

func (e *env) reward(name string, cost, stock int) domain.Reward {
	e.t.Helper()
	r := domain.Reward{Name: name, Cost: cost, Stock: stock, Category: "Benefícios"}
	require.NoError(e.t, e.store.CreateReward(context.Background(), &r))
	return r
}

func (e *env) do(method, path string, as *domain.User, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if as != nil {
		token, err := utils.GenerateJWT(as.ID, string(as.Role), secret)
		require.NoError(e.t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *env) points(id string) (int, int) {
	e.t.Helper()
	u, err := e.store.GetProfile(context.Background(), id)
	require.NoError(e.t, err)
	return u.Points, u.TotalAccumulated
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestRegisterAndLogin(t *testing.T) {
	e := newEnv(t)

	w := e.do(http.MethodPost, "/user", nil, gin.H{"name": "Bia", "email": "Bia@EJN.com", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(http.MethodPost, "/user", nil, gin.H{"name": "Bia", "email": "Bia@EJN.com", "password": "longenough", "team": "Dev"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "longenough")

	w = e.do(http.MethodPost, "/user", nil, gin.H{"name": "Bia 2", "email": "bia@ejn.com", "password": "longenough"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(http.MethodGet, "/user", nil, gin.H{"email": "bia@ejn.com", "password": "wrongpass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = e.do(http.MethodGet, "/user", nil, gin.H{"email": "BIA@ejn.com", "password": "longenough"})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[AuthResponse](t, w)
	claims, err := utils.ParseJWT(resp.Token, secret)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, domain.RoleColaborador, resp.User.Role)
	assert.True(t, resp.User.ShowOnRanking)
}

func TestLoginRejectsBlockedUser(t *testing.T) {
	e := newEnv(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("longenough"), bcrypt.MinCost)
	require.NoError(t, err)
	u := domain.User{Name: "Caio", Email: "caio@ejn.com", Password: string(hash), IsBlocked: true}
	require.NoError(t, e.store.CreateProfile(context.Background(), &u))

	w := e.do(http.MethodGet, "/user", nil, gin.H{"email": "caio@ejn.com", "password": "longenough"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRedeemRequiresConfirmation(t *testing.T) {
	e := newEnv(t)
	ana := e.user("Ana", domain.RoleColaborador, 300)
	admin := e.user("Gestor", domain.RoleAdmin, 0)
	mug := e.reward("Caneca", 200, 1)

	w := e.do(http.MethodPost, "/rewards/"+mug.ID+"/redeem", &ana, nil)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, `Resgatar "Caneca" por 200 EJN Coins?`, decode[map[string]string](t, w)["prompt"])
	p, _ := e.points(ana.ID)
	assert.Equal(t, 300, p)

	w = e.do(http.MethodPost, "/rewards/"+mug.ID+"/redeem", &ana, RedeemRequest{Confirm: true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[rewards.Result](t, w)
	assert.Equal(t, 100, res.Balance)
	assert.Equal(t, domain.RedemptionRequested, res.Redemption.Status)

	p, total := e.points(ana.ID)
	assert.Equal(t, 100, p)
	assert.Equal(t, 300, total)

	// Out of stock now; the message does not say why
	w = e.do(http.MethodPost, "/rewards/"+mug.ID+"/redeem", &ana, RedeemRequest{Confirm: true})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, rewards.FailureMessage, decode[map[string]string](t, w)["error"])

	// Admins were told about the redemption
	w = e.do(http.MethodGet, "/notifications", &admin, nil)
	inbox := decode[NotificationsResponse](t, w)
	require.Len(t, inbox.Notifications, 1)
	assert.Equal(t, "Novo Resgate Realizado!", inbox.Notifications[0].Title)
	assert.Equal(t, `Ana resgatou: "Caneca".`, inbox.Notifications[0].Message)
	assert.Equal(t, 1, inbox.Unread)

	w = e.do(http.MethodGet, "/redemptions", &ana, nil)
	assert.Len(t, decode[[]domain.Redemption](t, w), 1)
}

func TestRedeemInsufficientBalance(t *testing.T) {
	e := newEnv(t)
	ana := e.user("Ana", domain.RoleColaborador, 50)
	mug := e.reward("Caneca", 200, 5)

	w := e.do(http.MethodPost, "/rewards/"+mug.ID+"/redeem", &ana, RedeemRequest{Confirm: true})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, rewards.FailureMessage, decode[map[string]string](t, w)["error"])

	r, err := e.store.GetReward(context.Background(), mug.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, r.Stock)
}

func TestRewardCatalogIsCachedAndFiltered(t *testing.T) {
	e := newEnv(t)
	ana := e.user("Ana", domain.RoleColaborador, 0)
	e.reward("Caneca EJN", 100, 3)
	e.reward("Day off", 900, 1)

	w := e.do(http.MethodGet, "/rewards?q=caneca", &ana, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]domain.Reward](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, "Caneca EJN", list[0].Name)
	assert.True(t, e.mr.Exists(utils.CacheKeyRewards))

	w = e.do(http.MethodGet, "/rewards?category=Todos", &ana, nil)
	assert.Len(t, decode[[]domain.Reward](t, w), 2)
}

func TestAdminRewardWritesInvalidateCatalog(t *testing.T) {
	e := newEnv(t)
	admin := e.user("Gestor", domain.RoleAdmin, 0)
	ana := e.user("Ana", domain.RoleColaborador, 0)

	e.do(http.MethodGet, "/rewards", &ana, nil)
	require.True(t, e.mr.Exists(utils.CacheKeyRewards))

	w := e.do(http.MethodPost, "/admin/rewards", &ana, gin.H{"name": "Mochila", "cost": 400, "stock": 2})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = e.do(http.MethodPost, "/admin/rewards", &admin, gin.H{"name": "Mochila", "cost": 0, "stock": 2})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(http.MethodPost, "/admin/rewards", &admin, gin.H{"name": "Mochila", "cost": 400, "stock": 2})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.False(t, e.mr.Exists(utils.CacheKeyRewards))
	created := decode[domain.Reward](t, w)

	w = e.do(http.MethodPatch, "/admin/rewards/"+created.ID, &admin, gin.H{"stock": 7})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 7, decode[domain.Reward](t, w).Stock)

	w = e.do(http.MethodDelete, "/admin/rewards/"+created.ID, &admin, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = e.do(http.MethodDelete, "/admin/rewards/"+created.ID, &admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCommunityAwardsCoins(t *testing.T) {
	e := newEnv(t)
	ana := e.user("Ana", domain.RoleColaborador, 0)
	bruno := e.user("Bruno", domain.RoleColaborador, 0)

	w := e.do(http.MethodPost, "/feed", &ana, PostRequest{Content: "Entregamos o site!"})
	require.Equal(t, http.StatusCreated, w.Code)
	post := decode[domain.CommunityPost](t, w)
	p, total := e.points(ana.ID)
	assert.Equal(t, rewards.CoinsPerPost, p)
	assert.Equal(t, rewards.CoinsPerPost, total)

	assert.Equal(t, http.StatusForbidden, e.do(http.MethodPost, "/feed/"+post.ID+"/like", &ana, nil).Code)
	assert.Equal(t, http.StatusNoContent, e.do(http.MethodPost, "/feed/"+post.ID+"/like", &bruno, nil).Code)
	assert.Equal(t, http.StatusConflict, e.do(http.MethodPost, "/feed/"+post.ID+"/like", &bruno, nil).Code)
	p, _ = e.points(ana.ID)
	assert.Equal(t, rewards.CoinsPerPost+rewards.CoinsPerLike, p)

	w = e.do(http.MethodPost, "/feed/"+post.ID+"/comments", &bruno, CommentRequest{Text: "Top"})
	require.Equal(t, http.StatusCreated, w.Code)
	p, _ = e.points(bruno.ID)
	assert.Equal(t, rewards.CoinsPerComment, p)

	w = e.do(http.MethodGet, "/feed", &bruno, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var feed struct {
		Highlight struct {
			ID    string   `json:"id"`
			Likes []string `json:"likes"`
		} `json:"highlight"`
		Posts []json.RawMessage `json:"posts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &feed))
	assert.Equal(t, post.ID, feed.Highlight.ID)
	assert.Equal(t, []string{bruno.ID}, feed.Highlight.Likes)
	assert.Len(t, feed.Posts, 1)

	assert.Equal(t, http.StatusForbidden, e.do(http.MethodDelete, "/feed/"+post.ID, &bruno, nil).Code)
	assert.Equal(t, http.StatusNoContent, e.do(http.MethodDelete, "/feed/"+post.ID, &ana, nil).Code)
}

func TestRankingExcludesOptedOutUsers(t *testing.T) {
	e := newEnv(t)
	ana := e.user("Ana", domain.RoleColaborador, 600)
	e.user("Bruno", domain.RoleColaborador, 1600)
	hidden := e.user("Carla", domain.RoleColaborador, 9000)
	require.NoError(t, e.store.UpdateProfile(context.Background(), hidden.ID, map[string]any{"show_on_ranking": false}))

	w := e.do(http.MethodGet, "/ranking", &ana, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ranking []struct {
		Name  string `json:"name"`
		Level string `json:"level"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ranking))
	require.Len(t, ranking, 2)
	assert.Equal(t, "Bruno", ranking[0].Name)
	assert.Equal(t, "Ouro", ranking[0].Level)
	assert.Equal(t, "Prata", ranking[1].Level)
	assert.True(t, e.mr.Exists(utils.CacheKeyRanking))
}

func TestSubmissionReview(t *testing.T) {
	e := newEnv(t)
	admin := e.user("Gestor", domain.RoleAdmin, 0)
	ana := e.user("Ana", domain.RoleColaborador, 0)

	w := e.do(http.MethodPost, "/admin/tasks", &admin, gin.H{"title": "Post no blog", "points": 80, "evidenceRequired": true})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	task := decode[domain.Task](t, w)
	assert.Equal(t, domain.TeamAll, task.TargetTeam)
	assert.Equal(t, domain.TagPending, task.StatusTag)

	w = e.do(http.MethodGet, "/tasks", &ana, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]json.RawMessage](t, w), 1)

	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodPost, "/tasks/"+task.ID+"/submissions", &ana, SubmissionRequest{}).Code)
	w = e.do(http.MethodPost, "/tasks/"+task.ID+"/submissions", &ana, SubmissionRequest{Evidence: "https://blog/ejn"})
	require.Equal(t, http.StatusCreated, w.Code)
	sub := decode[domain.Submission](t, w)

	w = e.do(http.MethodPost, "/admin/submissions/"+sub.ID+"/approve", &admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, domain.SubmissionApproved, decode[domain.Submission](t, w).Status)
	p, total := e.points(ana.ID)
	assert.Equal(t, 80, p)
	assert.Equal(t, 80, total)

	// Reviewing again changes nothing
	assert.Equal(t, http.StatusConflict, e.do(http.MethodPost, "/admin/submissions/"+sub.ID+"/approve", &admin, nil).Code)
	assert.Equal(t, http.StatusConflict, e.do(http.MethodPost, "/admin/submissions/"+sub.ID+"/reject", &admin, nil).Code)
	p, _ = e.points(ana.ID)
	assert.Equal(t, 80, p)

	w = e.do(http.MethodGet, "/notifications", &ana, nil)
	inbox := decode[NotificationsResponse](t, w)
	var types []domain.NotificationType
	for _, n := range inbox.Notifications {
		types = append(types, n.Type)
	}
	assert.ElementsMatch(t, []domain.NotificationType{domain.NotificationTaskNew, domain.NotificationTaskApproved}, types)

	w = e.do(http.MethodPost, "/notifications/read-all", &ana, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decode[NotificationsResponse](t, e.do(http.MethodGet, "/notifications", &ana, nil)).Unread)
}

func TestChatOnlyBetweenCollaboratorsAndManagers(t *testing.T) {
	e := newEnv(t)
	admin := e.user("Gestor", domain.RoleAdmin, 0)
	ana := e.user("Ana", domain.RoleColaborador, 0)
	bruno := e.user("Bruno", domain.RoleColaborador, 0)

	assert.Equal(t, http.StatusForbidden, e.do(http.MethodPost, "/chat/"+bruno.ID, &ana, MessageRequest{Text: "oi"}).Code)

	w := e.do(http.MethodPost, "/chat/"+admin.ID, &ana, MessageRequest{Text: "Dúvida na missão"})
	require.Equal(t, http.StatusCreated, w.Code)
	w = e.do(http.MethodPost, "/chat/"+ana.ID, &admin, MessageRequest{Text: "Pode falar"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = e.do(http.MethodGet, "/chat/"+ana.ID, &admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	conv := decode[[]domain.ChatMessage](t, w)
	require.Len(t, conv, 2)
	assert.Equal(t, "Dúvida na missão", conv[0].Text)

	w = e.do(http.MethodGet, "/chat/managers", &ana, nil)
	require.Equal(t, http.StatusOK, w.Code)
	managers := decode[[]ManagerView](t, w)
	require.Len(t, managers, 1)
	assert.Equal(t, admin.ID, managers[0].ID)

	inbox := decode[NotificationsResponse](t, e.do(http.MethodGet, "/notifications", &admin, nil))
	require.Len(t, inbox.Notifications, 1)
	assert.Equal(t, domain.NotificationChatMessage, inbox.Notifications[0].Type)
}

func TestFeedbackIsAnonymousAndAdminOnly(t *testing.T) {
	e := newEnv(t)
	admin := e.user("Gestor", domain.RoleAdmin, 0)
	ana := e.user("Ana", domain.RoleColaborador, 0)

	w := e.do(http.MethodPost, "/feedback", &ana, FeedbackRequest{Category: "NOPE", Subject: "x", Message: "y"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(http.MethodPost, "/feedback", &ana, FeedbackRequest{Category: domain.FeedbackSuggestion, Subject: "Café", Message: "Mais café"})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[map[string]string](t, w)["id"]

	assert.Equal(t, http.StatusForbidden, e.do(http.MethodGet, "/admin/feedback", &ana, nil).Code)

	w = e.do(http.MethodGet, "/admin/feedback?q=caf", &admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), ana.ID)
	list := decode[FeedbackListResponse](t, w)
	require.Len(t, list.Feedbacks, 1)
	assert.Equal(t, 1, list.Stats.Total)

	w = e.do(http.MethodPatch, "/admin/feedback/"+id, &admin, gin.H{"status": "SOLVED", "solutionAdopted": "Nova máquina"})
	require.Equal(t, http.StatusOK, w.Code)
	list = decode[FeedbackListResponse](t, e.do(http.MethodGet, "/admin/feedback", &admin, nil))
	assert.Equal(t, 1, list.Stats.Resolved)

	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodPatch, "/admin/feedback/"+id, &admin, gin.H{"status": "LOST"}).Code)
}

func TestProfileEditCannotTouchPoints(t *testing.T) {
	e := newEnv(t)
	ana := e.user("Ana", domain.RoleColaborador, 40)

	w := e.do(http.MethodPatch, "/me", &ana, gin.H{"bio": "Designer", "points": 99999})
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[domain.User](t, w)
	assert.Equal(t, "Designer", got.Bio)
	assert.Equal(t, 40, got.Points)

	w = e.do(http.MethodPost, "/me/availability", &ana, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, AvailabilityOnline, decode[map[string]string](t, w)["availabilityStatus"])

	w = e.do(http.MethodGet, "/me", &ana, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, AvailabilityOnline, decode[ProfileResponse](t, w).User.AvailabilityStatus)
}

func TestBootstrapScopesByRole(t *testing.T) {
	e := newEnv(t)
	admin := e.user("Gestor", domain.RoleAdmin, 0)
	ana := e.user("Ana", domain.RoleColaborador, 0)
	require.NoError(t, e.store.CreateFeedback(context.Background(), &domain.AnonymousFeedback{Category: domain.FeedbackOther, Subject: "s", Message: "m"}))

	var body struct {
		Data store.Snapshot `json:"data"`
	}
	w := e.do(http.MethodGet, "/bootstrap", &ana, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Empty(t, body.Data.Feedbacks)
	assert.Len(t, body.Data.Users, 2)

	w = e.do(http.MethodGet, "/bootstrap", &admin, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Data.Feedbacks, 1)
}

func TestAdminDashboardAndAccess(t *testing.T) {
	e := newEnv(t)
	admin := e.user("Gestor", domain.RoleAdmin, 0)
	ana := e.user("Ana", domain.RoleColaborador, 120)

	w := e.do(http.MethodGet, "/admin/dashboard", &admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var dash struct {
		PointsInCirculation int `json:"pointsInCirculation"`
		Collaborators       []struct {
			UserID string `json:"userId"`
		} `json:"collaborators"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dash))
	assert.Equal(t, 120, dash.PointsInCirculation)
	assert.Len(t, dash.Collaborators, 1)

	w = e.do(http.MethodGet, "/admin/users?page=1&page_size=1", &admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[map[string]any](t, w)
	assert.EqualValues(t, 2, page["total"])
	assert.EqualValues(t, 2, page["total_pages"])

	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodPatch, "/admin/users/"+admin.ID, &admin, gin.H{"isBlocked": true}).Code)
	assert.Equal(t, http.StatusNoContent, e.do(http.MethodPatch, "/admin/users/"+ana.ID, &admin, gin.H{"isBlocked": true}).Code)
	assert.Equal(t, http.StatusForbidden, e.do(http.MethodGet, "/me", &ana, nil).Code)
}

func TestEventVisibility(t *testing.T) {
	ana := domain.User{ID: "ana", Role: domain.RoleColaborador}
	admin := domain.User{ID: "boss", Role: domain.RoleAdmin}
	event := func(table, record string) realtime.Event {
		return realtime.Event{Table: table, Type: realtime.Insert, Record: json.RawMessage(record)}
	}

	cases := []struct {
		name   string
		ev     realtime.Event
		viewer domain.User
		want   bool
	}{
		{"posts are public", event(realtime.TablePosts, `{"id":"p"}`), ana, true},
		{"own notification", event(realtime.TableNotifications, `{"userId":"ana"}`), ana, true},
		{"broadcast", event(realtime.TableNotifications, `{"userId":"ALL"}`), ana, true},
		{"admin sentinel hidden from collaborators", event(realtime.TableNotifications, `{"userId":"ADMIN"}`), ana, false},
		{"admin sentinel for admins", event(realtime.TableNotifications, `{"userId":"ADMIN"}`), admin, true},
		{"someone else's notification", event(realtime.TableNotifications, `{"userId":"bruno"}`), ana, false},
		{"chat participant", event(realtime.TableChat, `{"senderId":"boss","receiverId":"ana"}`), ana, true},
		{"chat outsider", event(realtime.TableChat, `{"senderId":"boss","receiverId":"bruno"}`), ana, false},
		{"unknown table", event("profiles", `{}`), admin, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, eventVisibleTo(tc.ev, tc.viewer))
		})
	}
}

func TestMarkReadEventReachesRecipient(t *testing.T) {
	e := newEnv(t)
	ana := e.user("Ana", domain.RoleColaborador, 0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, e.store.Notify(ctx, domain.Notification{UserID: ana.ID, Title: "Aprovada"}))
	list := decode[NotificationsResponse](t, e.do(http.MethodGet, "/notifications", &ana, nil))
	require.Len(t, list.Notifications, 1)

	sub, err := e.broker.Subscribe(ctx, realtime.TableNotifications)
	require.NoError(t, err)
	w := e.do(http.MethodPost, "/notifications/"+list.Notifications[0].ID+"/read", &ana, nil)
	require.Less(t, w.Code, http.StatusBadRequest, w.Body.String())

	select {
	case ev := <-sub.Events():
		assert.Equal(t, realtime.Update, ev.Type)
		assert.True(t, eventVisibleTo(ev, ana))
	case <-time.After(2 * time.Second):
		t.Fatal("no change event after marking read")
	}
}

func TestRealtimeRejectsUnknownTable(t *testing.T) {
	e := newEnv(t)
	ana := e.user("Ana", domain.RoleColaborador, 0)

	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodGet, "/realtime?tables=profiles", &ana, nil).Code)
}

func init() {
	logrus.SetLevel(logrus.WarnLevel)
}
