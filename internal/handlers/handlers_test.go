package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ArowuTest/leaderboard-backend/internal/models"
	"github.com/ArowuTest/leaderboard-backend/internal/repositories/memory"
	"github.com/ArowuTest/leaderboard-backend/internal/services"
	"github.com/ArowuTest/leaderboard-backend/pkg/apperrors"
	"github.com/ArowuTest/leaderboard-backend/pkg/logger"
	"github.com/ArowuTest/leaderboard-backend/pkg/validation"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

type testServer struct {
	router *gin.Engine
	store  *memory.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	log := logger.Discard()
	store := memory.NewStore()
	tx := memory.NewTransactor(store, false)

	awards := services.NewAwardService(store.Users(), store.History(), tx, log).
		WithAwardFunc(func() int { return 7 })
	board := services.NewLeaderboardService(store.Users(), store.History(), 0)
	users := services.NewUserService(store.Users(), log)
	seeder := services.NewSeedService(store.Users(), store.History(), tx, log)

	if _, err := seeder.EnsureSeeded(context.Background()); err != nil {
		t.Fatalf("Failed to seed: %v", err)
	}

	claimHandler := NewClaimHandler(awards, log)
	userHandler := NewUserHandler(board, users, log)
	historyHandler := NewHistoryHandler(board, log)
	systemHandler := NewSystemHandler(seeder, board, StoreInfo{Driver: "memory"}, log)

	r := gin.New()
	r.POST("/claim", claimHandler.Claim)
	r.GET("/users", userHandler.GetAllUsers)
	r.POST("/users", userHandler.CreateUser)
	r.GET("/history", historyHandler.GetRecentHistory)
	r.POST("/reset", systemHandler.Reset)
	r.GET("/debug", systemHandler.Debug)
	r.GET("/health", systemHandler.Health)

	return &testServer{router: r, store: store}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) topUser(t *testing.T) *models.User {
	t.Helper()
	users, err := s.store.Users().FindAllByPoints(context.Background())
	if err != nil || len(users) == 0 {
		t.Fatalf("Expected seeded users, got %v", err)
	}
	return users[0]
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("Failed to decode %q: %v", w.Body.String(), err)
	}
}

func TestClaimHandler(t *testing.T) {
	srv := newTestServer(t)
	top := srv.topUser(t)

	testCases := []struct {
		name        string
		body        string
		wantStatus  int
		wantMessage string
	}{
		{"valid claim", `{"userId":"` + top.ID.Hex() + `"}`, http.StatusOK, ""},
		{"unknown user", `{"userId":"` + primitive.NewObjectID().Hex() + `"}`, http.StatusNotFound, "User not found"},
		{"malformed id", `{"userId":"abc"}`, http.StatusNotFound, "User not found"},
		{"missing id", `{}`, http.StatusNotFound, "User not found"},
		{"empty body", "", http.StatusNotFound, "User not found"},
		{"invalid json", `{"userId":`, http.StatusBadRequest, "Validation failed"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := srv.do(t, http.MethodPost, "/claim", tc.body)
			if w.Code != tc.wantStatus {
				t.Fatalf("Expected status %d, got %d: %s", tc.wantStatus, w.Code, w.Body.String())
			}
			if tc.wantMessage != "" {
				var resp models.ErrorResponse
				decode(t, w, &resp)
				if resp.Message != tc.wantMessage {
					t.Errorf("Expected message %q, got %q", tc.wantMessage, resp.Message)
				}
			}
		})
	}

	stored, _ := srv.store.Users().FindByID(context.Background(), top.ID)
	if stored.TotalPoints != top.TotalPoints+7 {
		t.Errorf("Expected exactly one award of 7, got %d -> %d", top.TotalPoints, stored.TotalPoints)
	}
}

func TestClaimHandlerResponseShape(t *testing.T) {
	srv := newTestServer(t)
	top := srv.topUser(t)

	w := srv.do(t, http.MethodPost, "/claim", `{"userId":"`+top.ID.Hex()+`"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp struct {
		User struct {
			ID          string `json:"_id"`
			Name        string `json:"name"`
			TotalPoints int    `json:"totalPoints"`
		} `json:"user"`
		AwardedPoints int    `json:"awardedPoints"`
		Timestamp     string `json:"timestamp"`
	}
	decode(t, w, &resp)

	if resp.User.ID != top.ID.Hex() || resp.User.Name != top.Name {
		t.Errorf("Unexpected user in response: %+v", resp.User)
	}
	if resp.AwardedPoints != 7 || resp.User.TotalPoints != top.TotalPoints+7 {
		t.Errorf("Unexpected award: %+v", resp)
	}
	if resp.Timestamp == "" {
		t.Error("Expected timestamp")
	}
}

func TestGetAllUsers(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, "/users", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var users []models.User
	decode(t, w, &users)
	if len(users) != 10 {
		t.Fatalf("Expected 10 seeded users, got %d", len(users))
	}
	if users[0].Name != "Pavan" || users[9].Name != "Kohli" {
		t.Errorf("Unexpected ranking: first %s, last %s", users[0].Name, users[9].Name)
	}
}

func TestCreateUser(t *testing.T) {
	testCases := []struct {
		name       string
		body       string
		wantStatus int
		wantField  string
	}{
		{"name only", `{"name":"test"}`, http.StatusCreated, ""},
		{"with points", `{"name":"Mira","totalPoints":40}`, http.StatusCreated, ""},
		{"missing name", `{"totalPoints":5}`, http.StatusBadRequest, "name"},
		{"blank name", `{"name":"   "}`, http.StatusBadRequest, "name"},
		{"negative points", `{"name":"Neg","totalPoints":-1}`, http.StatusBadRequest, "totalPoints"},
		{"wrong type", `{"name":"Neg","totalPoints":"many"}`, http.StatusBadRequest, "payload"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(t)
			w := srv.do(t, http.MethodPost, "/users", tc.body)
			if w.Code != tc.wantStatus {
				t.Fatalf("Expected status %d, got %d: %s", tc.wantStatus, w.Code, w.Body.String())
			}

			if tc.wantField != "" {
				var resp models.ErrorResponse
				decode(t, w, &resp)
				if resp.Message != "Validation failed" {
					t.Errorf("Expected Validation failed, got %q", resp.Message)
				}
				if _, ok := resp.Errors[tc.wantField]; !ok {
					t.Errorf("Expected error for %q, got %v", tc.wantField, resp.Errors)
				}
				if n, _ := srv.store.Users().Count(context.Background()); n != 10 {
					t.Errorf("Rejected request must not create a user, count %d", n)
				}
				return
			}

			var user models.User
			decode(t, w, &user)
			if user.ID.IsZero() {
				t.Error("Expected assigned _id")
			}
			if user.ProfilePic == "" {
				t.Error("Expected default profile picture")
			}
		})
	}
}

func TestGetRecentHistory(t *testing.T) {
	srv := newTestServer(t)
	top := srv.topUser(t)

	for i := 0; i < 12; i++ {
		if w := srv.do(t, http.MethodPost, "/claim", `{"userId":"`+top.ID.Hex()+`"}`); w.Code != http.StatusOK {
			t.Fatalf("Claim failed: %d", w.Code)
		}
	}

	testCases := []struct {
		name       string
		path       string
		wantStatus int
		wantLen    int
	}{
		{"default", "/history", http.StatusOK, 10},
		{"explicit", "/history?limit=3", http.StatusOK, 3},
		{"clamped low", "/history?limit=0", http.StatusOK, 1},
		{"clamped high", "/history?limit=1000", http.StatusOK, 12},
		{"not a number", "/history?limit=ten", http.StatusBadRequest, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := srv.do(t, http.MethodGet, tc.path, "")
			if w.Code != tc.wantStatus {
				t.Fatalf("Expected status %d, got %d", tc.wantStatus, w.Code)
			}
			if tc.wantStatus != http.StatusOK {
				return
			}

			var history []models.HistoryView
			decode(t, w, &history)
			if len(history) != tc.wantLen {
				t.Fatalf("Expected %d entries, got %d", tc.wantLen, len(history))
			}
			if history[0].Name != top.Name || history[0].AwardedPoints != 7 {
				t.Errorf("Unexpected entry: %+v", history[0])
			}
		})
	}
}

func TestResetAndDebug(t *testing.T) {
	srv := newTestServer(t)

	srv.do(t, http.MethodPost, "/users", `{"name":"Extra"}`)
	srv.do(t, http.MethodPost, "/claim", `{"userId":"`+srv.topUser(t).ID.Hex()+`"}`)

	w := srv.do(t, http.MethodPost, "/reset", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var msg models.MessageResponse
	decode(t, w, &msg)
	if msg.Message != "Database reset successfully" {
		t.Errorf("Unexpected message %q", msg.Message)
	}

	w = srv.do(t, http.MethodGet, "/debug", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var debug models.DebugResponse
	decode(t, w, &debug)
	if debug.UserCount != 10 || debug.HistoryCount != 0 {
		t.Errorf("Expected 10 users and no history after reset, got %+v", debug)
	}
	if len(debug.SampleUsers) != 5 {
		t.Errorf("Expected 5 sample users, got %d", len(debug.SampleUsers))
	}
	if debug.MongoURI != "Not configured" || debug.StoreDriver != "memory" {
		t.Errorf("Unexpected store info: %q %q", debug.MongoURI, debug.StoreDriver)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	w := srv.do(t, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK || w.Body.String() != `{"status":"ok"}` {
		t.Errorf("Unexpected health response %d %s", w.Code, w.Body.String())
	}
}

func TestHealthStoreUnreachable(t *testing.T) {
	log := logger.Discard()
	store := memory.NewStore()
	tx := memory.NewTransactor(store, false)
	seeder := services.NewSeedService(store.Users(), store.History(), tx, log)
	board := services.NewLeaderboardService(store.Users(), store.History(), 0)

	info := StoreInfo{
		Driver:          "mongodb",
		MongoConfigured: true,
		Ping: func(context.Context) error {
			return errors.New("server selection timeout")
		},
	}
	r := gin.New()
	r.GET("/health", NewSystemHandler(seeder, board, info, log).Health)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusServiceUnavailable || w.Body.String() != `{"status":"unavailable"}` {
		t.Errorf("Unexpected health response %d %s", w.Code, w.Body.String())
	}
}

type failingLeaderboard struct{}

func (failingLeaderboard) ListUsers(context.Context) ([]*models.User, error) {
	return nil, apperrors.StoreUnavailable("failed to list users", errors.New("server selection timeout"))
}

func (failingLeaderboard) ListRecentHistory(context.Context, int) ([]*models.HistoryView, error) {
	return nil, errors.New("unexpected")
}

func (failingLeaderboard) Debug(context.Context) (*models.DebugResponse, error) {
	return nil, apperrors.StoreUnavailable("failed to count users", nil)
}

func TestStoreUnavailableIs500(t *testing.T) {
	log := logger.Discard()
	userHandler := NewUserHandler(failingLeaderboard{}, nil, log)
	historyHandler := NewHistoryHandler(failingLeaderboard{}, log)

	r := gin.New()
	r.GET("/users", userHandler.GetAllUsers)
	r.GET("/history", historyHandler.GetRecentHistory)

	testCases := []struct {
		path      string
		wantError string
	}{
		{"/users", "failed to list users"},
		{"/history", "Server error"},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))

			if w.Code != http.StatusInternalServerError {
				t.Fatalf("Expected status 500, got %d", w.Code)
			}
			var resp models.ErrorResponse
			decode(t, w, &resp)
			if resp.Message != "Server error" || resp.Error != tc.wantError {
				t.Errorf("Unexpected body: %+v", resp)
			}
		})
	}
}
