package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"khao-backend/services"
)

// PublicHandler serves the unauthenticated menu read paths. Every listing
// applies the effective-availability filter.
type PublicHandler struct {
	menu *services.MenuService
}

func NewPublicHandler(menu *services.MenuService) *PublicHandler {
	return &PublicHandler{menu: menu}
}

// GetMenu returns a restaurant's effectively available items
func (h *PublicHandler) GetMenu(c *gin.Context) {
	items, err := h.menu.GetMenu(c.Request.Context(), c.Param("restaurantId"), c.Query("category"), c.Query("dietary_tag"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(items), "menu": items})
}

// GetItem returns a single effectively available item
func (h *PublicHandler) GetItem(c *gin.Context) {
	item, err := h.menu.GetItem(c.Request.Context(), c.Param("itemId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// Search matches name and description substrings, case-insensitively
func (h *PublicHandler) Search(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Query parameter 'q' is required"})
		return
	}

	items, err := h.menu.Search(c.Request.Context(), c.Param("restaurantId"), term)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(items), "items": items})
}

// ByDietaryTag filters the menu by a dietary classification
func (h *PublicHandler) ByDietaryTag(c *gin.Context) {
	items, err := h.menu.ByDietaryTag(c.Request.Context(), c.Param("restaurantId"), c.Param("tag"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(items), "items": items})
}

// Bestsellers ranks by quantity sold, then average rating
func (h *PublicHandler) Bestsellers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	items, err := h.menu.Bestsellers(c.Request.Context(), c.Param("restaurantId"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(items), "items": items})
}
