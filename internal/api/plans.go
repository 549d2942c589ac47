package api

import (
	"net/http"
	"strconv"

	"weekly-menu/internal/planner"

	"github.com/gin-gonic/gin"
)

type planResponse struct {
	Plan   *planner.MealPlan `json:"plan"`
	Synced bool              `json:"synced"`
}

// writePlan answers with plan, or with 202 when it was only cached.
func writePlan(c *gin.Context, status int, plan *planner.MealPlan, err error) {
	switch {
	case err == nil:
		c.JSON(status, planResponse{Plan: plan, Synced: true})
	case localOnly(err) && plan != nil:
		c.JSON(http.StatusAccepted, planResponse{Plan: plan})
	default:
		writeError(c, err)
	}
}

// sameWeek checks that date falls in the week named by the :week parameter.
func sameWeek(c *gin.Context, date string) error {
	week, err := planner.NormalizeWeek(c.Param("week"))
	if err != nil {
		return err
	}
	dateWeek, err := planner.NormalizeWeek(date)
	if err != nil {
		return err
	}
	if week != dateWeek {
		return errWrongWeek
	}
	return nil
}

func (h *Handler) GetPlan(c *gin.Context) {
	plan, err := h.app.Plans.Get(c.Request.Context(), currentUser(c), c.Param("week"))
	if err != nil {
		writeError(c, err)
		return
	}
	if plan == nil {
		writeError(c, planner.ErrPlanNotFound)
		return
	}
	c.JSON(http.StatusOK, planResponse{Plan: plan, Synced: true})
}

func (h *Handler) PlanHistory(c *gin.Context) {
	limit := planner.DefaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			badRequest(c, "limit must be a positive number")
			return
		}
		limit = n
	}

	plans, err := h.app.Plans.History(c.Request.Context(), currentUser(c), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

type addMealRequest struct {
	RecipeID string           `json:"recipe_id" binding:"required"`
	Date     string           `json:"date" binding:"required"`
	MealType planner.MealType `json:"meal_type" binding:"required,oneof=breakfast lunch dinner"`
}

func (h *Handler) AddMeal(c *gin.Context) {
	var req addMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "recipe_id, date and meal_type are required")
		return
	}
	if err := sameWeek(c, req.Date); err != nil {
		writeError(c, err)
		return
	}

	ctx := c.Request.Context()
	rec, err := h.app.Recipes.Get(ctx, req.RecipeID)
	if err != nil {
		writeError(c, err)
		return
	}
	if rec == nil {
		writeError(c, errRecipeNotFound)
		return
	}

	plan, err := h.app.Plans.AddMeal(ctx, currentUser(c), req.RecipeID, req.Date, req.MealType)
	writePlan(c, http.StatusOK, plan, err)
}

func (h *Handler) RemoveMeal(c *gin.Context) {
	date := c.Query("date")
	mealType := planner.MealType(c.Query("meal_type"))
	if date == "" || mealType == "" {
		badRequest(c, "date and meal_type query parameters are required")
		return
	}
	if err := sameWeek(c, date); err != nil {
		writeError(c, err)
		return
	}

	plan, err := h.app.Plans.RemoveMeal(c.Request.Context(), currentUser(c), date, mealType)
	writePlan(c, http.StatusOK, plan, err)
}

func (h *Handler) GenerateWeek(c *gin.Context) {
	plan, err := h.app.GenerateWeekPlan(c.Request.Context(), currentUser(c), c.Param("week"))
	writePlan(c, http.StatusOK, plan, err)
}

func (h *Handler) GenerateDay(c *gin.Context) {
	date := c.Param("date")
	if err := sameWeek(c, date); err != nil {
		writeError(c, err)
		return
	}
	plan, err := h.app.GenerateDayPlan(c.Request.Context(), currentUser(c), date)
	writePlan(c, http.StatusOK, plan, err)
}
