package api

import (
	"net/http"

	"weekly-menu/internal/recipe"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListRecipes(c *gin.Context) {
	var f recipe.Filter
	if err := c.ShouldBindQuery(&f); err != nil {
		badRequest(c, "invalid filter")
		return
	}
	recipes := h.app.ListRecipes(c.Request.Context(), f)
	c.JSON(http.StatusOK, gin.H{"recipes": recipes, "count": len(recipes)})
}

type generateRecipesRequest struct {
	Count int `json:"count" binding:"omitempty,min=1,max=10"`
}

func (h *Handler) GenerateRecipes(c *gin.Context) {
	var req generateRecipesRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "count must be between 1 and 10")
			return
		}
	}
	if req.Count == 0 {
		req.Count = recipe.DefaultGenerateCount
	}

	recipes, err := h.app.GenerateRecipes(c.Request.Context(), req.Count)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"recipes": recipes, "count": len(recipes)})
}

type importRecipeRequest struct {
	URL string `json:"url" binding:"required,url"`
}

func (h *Handler) ImportRecipe(c *gin.Context) {
	var req importRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "a valid url is required")
		return
	}

	rec, err := h.app.ImportRecipe(c.Request.Context(), req.URL)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}
