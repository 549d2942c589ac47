package api

import (
	"net/http"
	"strconv"

	"weekly-menu/internal/shopping"

	"github.com/gin-gonic/gin"
)

type shoppingListResponse struct {
	List    *shopping.ShoppingList `json:"list"`
	Summary shopping.Summary       `json:"summary"`
	Synced  bool                   `json:"synced"`
}

// writeList answers with list and its summary, or with 202 when the list
// is only held in memory.
func writeList(c *gin.Context, status int, list *shopping.ShoppingList, err error) {
	switch {
	case err == nil:
		c.JSON(status, shoppingListResponse{List: list, Summary: shopping.Summarize(list), Synced: true})
	case localOnly(err) && list != nil:
		c.JSON(http.StatusAccepted, shoppingListResponse{List: list, Summary: shopping.Summarize(list)})
	default:
		writeError(c, err)
	}
}

func (h *Handler) GetShoppingList(c *gin.Context) {
	list, err := h.app.Shopping.Current(c.Request.Context(), currentUser(c).ID, c.Param("week"))
	writeList(c, http.StatusOK, list, err)
}

func (h *Handler) GenerateShoppingList(c *gin.Context) {
	list, err := h.app.GenerateShoppingList(c.Request.Context(), currentUser(c), c.Param("week"))
	writeList(c, http.StatusCreated, list, err)
}

func (h *Handler) UpdateShoppingItem(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		badRequest(c, "item index must be a number")
		return
	}

	var patch shopping.ItemPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid item update")
		return
	}

	list, err := h.app.Shopping.UpdateItem(c.Request.Context(), currentUser(c).ID, c.Param("week"), index, patch)
	writeList(c, http.StatusOK, list, err)
}

func (h *Handler) ComparePrices(c *gin.Context) {
	cmp, err := h.app.ComparePrices(c.Request.Context(), currentUser(c), c.Param("week"))
	if err != nil {
		writeError(c, err)
		return
	}

	resp := gin.H{"comparison": cmp}
	if best, ok := cmp.Cheapest(); ok {
		resp["cheapest"] = best
	}
	c.JSON(http.StatusOK, resp)
}
