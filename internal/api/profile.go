package api

import (
	"net/http"

	"weekly-menu/internal/user"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var update user.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if err := h.validate.Struct(update); err != nil {
		writeError(c, err)
		return
	}

	u := currentUser(c)
	update.Apply(u)
	if err := h.app.Users.Save(c.Request.Context(), u); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) ToggleFavorite(c *gin.Context) {
	ctx := c.Request.Context()
	recipeID := c.Param("recipeID")

	rec, err := h.app.Recipes.Get(ctx, recipeID)
	if err != nil {
		writeError(c, err)
		return
	}
	if rec == nil {
		writeError(c, errRecipeNotFound)
		return
	}

	u := currentUser(c)
	favorite := u.ToggleFavorite(recipeID)
	if err := h.app.Users.Save(ctx, u); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorite": favorite, "favorite_recipes": u.FavoriteRecipes})
}
