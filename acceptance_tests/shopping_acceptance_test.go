package acceptance_tests

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"weekly-menu/internal/api"
	"weekly-menu/internal/app"
	"weekly-menu/internal/config"
	"weekly-menu/internal/llm/llmtest"
	"weekly-menu/internal/planner"
	"weekly-menu/internal/shopping"
	"weekly-menu/internal/user"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newApp(t *testing.T, redisURL string) *app.App {
	t.Helper()
	cfg := &config.Config{
		DatabasePath: filepath.Join(t.TempDir(), "menu.db"),
		RedisURL:     redisURL,
		PlanCacheTTL: time.Hour,
		JWTSecret:    "acceptance-secret",
	}
	a, err := app.NewWithGenerator(context.Background(), cfg, zap.NewNop(), &llmtest.Stub{})
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	_, err = a.SeedRecipes(context.Background())
	require.NoError(t, err)
	return a
}

func TestPlanIsCachedInRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	a := newApp(t, "redis://"+mr.Addr())
	ctx := context.Background()

	u := &user.User{ID: "user-1", Email: "ana@example.com", HouseholdSize: 2}
	week := planner.FormatDate(planner.WeekStart(time.Now()))

	plan, err := a.GenerateWeekPlan(ctx, u, week)
	require.NoError(t, err)

	key := planner.CacheKey(week, u.Email)
	require.True(t, mr.Exists(key), "plan should be written through to redis")
	assert.Positive(t, mr.TTL(key))

	// A stale entry in the cache wins over the store until it expires.
	cached := *plan
	cached.Meals = cached.Meals[:1]
	raw, err := json.Marshal(cached)
	require.NoError(t, err)
	require.NoError(t, mr.Set(key, string(raw)))
	mr.SetTTL(key, time.Hour)

	got, err := a.Plans.Get(ctx, u, week)
	require.NoError(t, err)
	assert.Len(t, got.Meals, 1)

	mr.FastForward(2 * time.Hour)
	got, err = a.Plans.Get(ctx, u, week)
	require.NoError(t, err)
	assert.Len(t, got.Meals, len(plan.Meals))
}

func TestShoppingListSurvivesStoreOutage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	a := newApp(t, "")
	ctx := context.Background()
	router := api.NewRouter(a)

	u := &user.User{ID: "user-1", Email: "ana@example.com"}
	token, err := a.Auth.IssueToken(u, time.Hour)
	require.NoError(t, err)
	week := planner.FormatDate(planner.WeekStart(time.Now()))

	call := func(method, path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	w := call(http.MethodPost, "/plans/"+week+"/generate")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	_, err = a.DB.SQL.ExecContext(ctx, `ALTER TABLE shopping_lists RENAME TO shopping_lists_offline`)
	require.NoError(t, err)

	w = call(http.MethodPost, "/shopping-lists/"+week+"/generate")
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	type listBody struct {
		List   shopping.ShoppingList `json:"list"`
		Synced bool                  `json:"synced"`
	}
	var resp listBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Synced)
	require.NotEmpty(t, resp.List.Items)

	purchased := true
	list, err := a.Shopping.UpdateItem(ctx, u.ID, week, 0, shopping.ItemPatch{IsPurchased: &purchased})
	require.ErrorIs(t, err, shopping.ErrNotPersisted)
	assert.True(t, list.Items[0].IsPurchased)

	w = call(http.MethodGet, "/shopping-lists/"+week)
	require.Equal(t, http.StatusAccepted, w.Code, "still memory-only")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Synced)
	assert.True(t, resp.List.Items[0].IsPurchased)

	_, err = a.DB.SQL.ExecContext(ctx, `ALTER TABLE shopping_lists_offline RENAME TO shopping_lists`)
	require.NoError(t, err)

	w = call(http.MethodGet, "/shopping-lists/"+week)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp = listBody{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Synced)

	stored, err := shopping.NewRepository(a.DB.SQL).GetByOwnerAndWeek(ctx, u.ID, week)
	require.NoError(t, err)
	require.NotNil(t, stored, "memory-only list written back")
	assert.Equal(t, resp.List.ID, stored.ID)
	assert.True(t, stored.Items[0].IsPurchased)
}
