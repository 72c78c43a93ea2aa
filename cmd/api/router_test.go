package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authdomain "fittrack-backend/internal/auth/domain"
	authRepo "fittrack-backend/internal/auth/repository"
	authUsecase "fittrack-backend/internal/auth/usecase"
	goaldomain "fittrack-backend/internal/goal/domain"
	goalUsecase "fittrack-backend/internal/goal/usecase"
	nutritiondomain "fittrack-backend/internal/nutrition/domain"
	nutritionRepo "fittrack-backend/internal/nutrition/repository"
	nutritionUsecase "fittrack-backend/internal/nutrition/usecase"
	ownedRepo "fittrack-backend/internal/owned/repository"
	"fittrack-backend/internal/testutil"
	workoutdomain "fittrack-backend/internal/workout/domain"
	workoutUsecase "fittrack-backend/internal/workout/usecase"
	"fittrack-backend/pkg/cache"
	"fittrack-backend/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func newTestDeps(t *testing.T) (Usecases, *gorm.DB, *config.Config) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t,
		&authdomain.User{}, &authdomain.RefreshSession{}, &authdomain.DeviceToken{},
		&goaldomain.Goal{}, &workoutdomain.Workout{}, &nutritiondomain.Nutrition{},
	)
	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTIssuer:        "fittrack-test",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: time.Hour,
		CORSOrigins:      []string{"*"},
	}
	log := zap.NewNop()

	deviceRepo := authRepo.NewDeviceRepository(db)
	uc := Usecases{
		Auth: authUsecase.NewAuthUsecase(authRepo.NewUserRepository(db), authRepo.NewSessionRepository(db), deviceRepo, cfg, log),
		Goals: goalUsecase.NewGoalUsecase(ownedRepo.New[goaldomain.Goal, *goaldomain.Goal](db),
			goalUsecase.NewAchievementNotifier(nil, deviceRepo, log), time.UTC, log),
		Workouts: workoutUsecase.NewWorkoutUsecase(ownedRepo.New[workoutdomain.Workout, *workoutdomain.Workout](db), time.UTC, log),
		Nutrition: nutritionUsecase.NewNutritionUsecase(ownedRepo.New[nutritiondomain.Nutrition, *nutritiondomain.Nutrition](db),
			nutritionRepo.NewStatsRepository(db), cache.Nop{}, time.Minute, time.UTC, log),
	}
	return uc, db, cfg
}

func newTestServer(t *testing.T) *testServer {
	uc, db, cfg := newTestDeps(t)
	return &testServer{t: t, router: NewRouter(uc, db, cfg, zap.NewNop())}
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func (s *testServer) register(username string) tokens {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/register", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[tokens](s.t, w)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","database":"up"}`, w.Body.String())
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/api/goals", "/api/workouts", "/api/nutrition", "/api/me"} {
		w := s.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestNutritionFlow(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("alice")
	bob := s.register("bob")

	for _, cal := range []int{500, 300} {
		w := s.do(http.MethodPost, "/api/nutrition", alice.Access, gin.H{
			"meal_type": "lunch", "calories": cal, "protein": 10.5, "carbohydrates": 20, "fats": 5,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := s.do(http.MethodPost, "/api/nutrition", alice.Access, gin.H{
		"meal_type": "brunch", "calories": 1, "protein": 0, "carbohydrates": 0, "fats": 0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/nutrition/today_stats", alice.Access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[nutritiondomain.DailyStats](t, w)
	assert.EqualValues(t, 800, stats.TotalCalories)
	assert.InDelta(t, 21.0, stats.TotalProtein, 1e-9)

	w = s.do(http.MethodGet, "/api/nutrition/today_stats", bob.Access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, decode[nutritiondomain.DailyStats](t, w).TotalCalories)

	w = s.do(http.MethodGet, "/api/nutrition", alice.Access, nil)
	records := decode[[]nutritiondomain.Nutrition](t, w)
	require.Len(t, records, 2)
	id := records[0].ID

	// another user's record is invisible on read and forbidden on write
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/nutrition/"+id, bob.Access, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodDelete, "/api/nutrition/"+id, bob.Access, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPatch, "/api/nutrition/"+id, bob.Access, gin.H{"calories": 1}).Code)

	w = s.do(http.MethodPatch, "/api/nutrition/"+id, alice.Access, gin.H{"calories": 100})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 100, decode[nutritiondomain.Nutrition](t, w).Calories)

	w = s.do(http.MethodDelete, "/api/nutrition/delete_by_meal_type", alice.Access, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodDelete, "/api/nutrition/delete_by_meal_type?meal_type=lunch", alice.Access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decode[map[string]interface{}](t, w)["deleted"])
}

func TestWorkoutBulkDeletes(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("alice")
	bob := s.register("bob")

	for _, tok := range []string{alice.Access, alice.Access, bob.Access} {
		w := s.do(http.MethodPost, "/api/workouts", tok, gin.H{"name": "run", "duration": 30, "calories_burned": 250})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := s.do(http.MethodDelete, "/api/workouts/delete_by_date?date=15-10-2026", alice.Access, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	today := time.Now().UTC().Format("2006-01-02")
	w = s.do(http.MethodDelete, "/api/workouts/delete_by_date?date="+today, alice.Access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decode[map[string]interface{}](t, w)["deleted"])

	w = s.do(http.MethodDelete, "/api/workouts/delete_all", bob.Access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode[map[string]interface{}](t, w)["deleted"])
}

func TestGoalProgressFlow(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("alice")

	w := s.do(http.MethodPost, "/api/goals", alice.Access, gin.H{"name": "run 10k", "category": "workout"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	goal := decode[goaldomain.Goal](t, w)

	w = s.do(http.MethodPatch, "/api/goals/"+goal.ID+"/update_progress", alice.Access, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPatch, "/api/goals/"+goal.ID+"/update_progress", alice.Access, gin.H{"progress": 100})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[goaldomain.Goal](t, w).Achieved)

	w = s.do(http.MethodGet, "/api/goals/achieved", alice.Access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]goaldomain.Goal](t, w), 1)

	w = s.do(http.MethodPatch, "/api/goals/"+goal.ID+"/toggle_achieved", alice.Access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[goaldomain.Goal](t, w).Achieved)

	w = s.do(http.MethodGet, "/api/goals/by_category", alice.Access, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestServer(t)
	first := s.register("alice")

	w := s.do(http.MethodPost, "/api/login", "", gin.H{"username": "alice", "password": "password123"})
	require.Equal(t, http.StatusOK, w.Code)
	second := decode[tokens](t, w)

	// login revoked the session created at registration
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/me", first.Access, nil).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/me", second.Access, nil).Code)

	w = s.do(http.MethodPost, "/api/token/refresh", "", gin.H{"refresh": second.Refresh})
	require.Equal(t, http.StatusOK, w.Code)
	rotated := decode[tokens](t, w)
	assert.Equal(t, http.StatusUnauthorized,
		s.do(http.MethodPost, "/api/token/refresh", "", gin.H{"refresh": second.Refresh}).Code)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/logout", "", gin.H{}).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/logout", "", gin.H{"refresh": rotated.Refresh}).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/logout", "", gin.H{"refresh": rotated.Refresh}).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/me", rotated.Access, nil).Code)

	w = s.do(http.MethodPost, "/api/login", "", gin.H{"username": "alice", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
