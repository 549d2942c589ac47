// Package api exposes the application over HTTP.
package api

import (
	"net/http"

	"weekly-menu/internal/app"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Handler serves the HTTP API on top of an App.
type Handler struct {
	app      *app.App
	validate *validator.Validate
}

// NewHandler creates a Handler.
func NewHandler(a *app.App) *Handler {
	return &Handler{app: a, validate: validator.New()}
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(a *app.App) *gin.Engine {
	h := NewHandler(a)
	llmLimit := RateLimit(newLLMLimiter(a.Config.LLMRequestsPerMinute))

	r := gin.New()
	r.Use(gin.Recovery(), Instrument(a.Collectors), RequestLogger(a.Logger))

	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(a.Collectors.Handler()))

	authed := r.Group("/")
	authed.Use(Authenticate(a.Auth))
	{
		authed.GET("/me", h.GetProfile)
		authed.PUT("/me", h.UpdateProfile)
		authed.POST("/me/favorites/:recipeID", h.ToggleFavorite)

		authed.GET("/recipes", h.ListRecipes)
		authed.POST("/recipes/generate", llmLimit, h.GenerateRecipes)
		authed.POST("/recipes/import", llmLimit, h.ImportRecipe)

		authed.GET("/plans", h.PlanHistory)
		authed.GET("/plans/:week", h.GetPlan)
		authed.PUT("/plans/:week/meals", h.AddMeal)
		authed.DELETE("/plans/:week/meals", h.RemoveMeal)
		authed.POST("/plans/:week/generate", h.GenerateWeek)
		authed.POST("/plans/:week/days/:date/generate", h.GenerateDay)

		authed.GET("/shopping-lists/:week", h.GetShoppingList)
		authed.POST("/shopping-lists/:week/generate", h.GenerateShoppingList)
		authed.PATCH("/shopping-lists/:week/items/:index", h.UpdateShoppingItem)
		authed.POST("/shopping-lists/:week/compare-prices", llmLimit, h.ComparePrices)
	}
	return r
}

// Health reports liveness together with process and disk figures.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"system": h.app.SysHealth(),
	})
}
