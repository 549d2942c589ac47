package api

import (
	"errors"
	"net/http"
	"time"

	"weekly-menu/internal/auth"
	"weekly-menu/internal/clipper"
	"weekly-menu/internal/planner"
	"weekly-menu/internal/recipe"
	"weekly-menu/internal/shopping"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var (
	errRecipeNotFound = errors.New("recipe not found")
	errWrongWeek      = errors.New("date does not belong to the requested week")
)

// localOnly reports whether err means the result was kept in memory but
// not written to the store.
func localOnly(err error) bool {
	return errors.Is(err, shopping.ErrNotPersisted) || errors.Is(err, planner.ErrNotSynced)
}

func statusFor(err error) int {
	var parseErr *time.ParseError
	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, shopping.ErrNoMealPlan), errors.Is(err, shopping.ErrEmptyList):
		return http.StatusConflict
	case errors.Is(err, shopping.ErrListNotFound),
		errors.Is(err, planner.ErrPlanNotFound),
		errors.Is(err, errRecipeNotFound):
		return http.StatusNotFound
	case errors.Is(err, shopping.ErrItemIndexOutOfRange),
		errors.Is(err, planner.ErrOutsideWindow),
		errors.Is(err, errWrongWeek),
		errors.As(err, &parseErr),
		errors.As(err, &validationErrs):
		return http.StatusBadRequest
	case errors.Is(err, clipper.ErrNoRecipe):
		return http.StatusUnprocessableEntity
	case errors.Is(err, recipe.ErrNoRecipesGenerated):
		return http.StatusBadGateway
	case errors.Is(err, shopping.ErrComparisonUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with the status err maps to. Unexpected errors are
// recorded on the context and hidden from the client.
func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		c.Error(err)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
