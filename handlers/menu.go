package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"khao-backend/middleware"
	"khao-backend/models"
	"khao-backend/services"
)

// MenuHandler exposes the owner-scoped menu mutations. Public menu reads
// live in PublicHandler.
type MenuHandler struct {
	svc *services.MenuService
}

func NewMenuHandler(svc *services.MenuService) *MenuHandler {
	return &MenuHandler{svc: svc}
}

type CreateMenuItemRequest struct {
	Name                  string     `json:"name" binding:"required"`
	Description           string     `json:"description"`
	ImageURL              string     `json:"image_url"`
	Price                 float64    `json:"price" binding:"required,gt=0"`
	DietaryTags           []string   `json:"dietary_tags"`
	SpicinessLevel        string     `json:"spiciness_level" binding:"omitempty,oneof=not_spicy mild medium hot very_hot"`
	EstimatedPrepTimeMins int        `json:"estimated_prep_time_minutes"`
	Calories              int        `json:"calories"`
	ProteinGrams          float64    `json:"protein_grams"`
	CarbsGrams            float64    `json:"carbs_grams"`
	FatGrams              float64    `json:"fat_grams"`
	FiberGrams            float64    `json:"fiber_grams"`
	ServingSize           string     `json:"serving_size"`
	SpecialInstructions   string     `json:"special_instructions"`
	Category              string     `json:"category"`
	IsTemporary           bool       `json:"is_temporary"`
	AvailabilityEndDate   *time.Time `json:"availability_end_date"`
}

// AddItem creates a menu item on the caller's restaurant
func (h *MenuHandler) AddItem(c *gin.Context) {
	var req CreateMenuItemRequest
	if !bindJSON(c, &req) {
		return
	}

	spiciness := models.SpicinessLevel(req.SpicinessLevel)
	if spiciness == "" {
		spiciness = models.SpicinessMedium
	}
	prepTime := req.EstimatedPrepTimeMins
	if prepTime <= 0 {
		prepTime = 20
	}

	item := &models.MenuItem{
		Name:                  req.Name,
		Description:           req.Description,
		ImageURL:              req.ImageURL,
		Price:                 req.Price,
		DietaryTags:           req.DietaryTags,
		SpicinessLevel:        spiciness,
		EstimatedPrepTimeMins: prepTime,
		Calories:              req.Calories,
		ProteinGrams:          req.ProteinGrams,
		CarbsGrams:            req.CarbsGrams,
		FatGrams:              req.FatGrams,
		FiberGrams:            req.FiberGrams,
		ServingSize:           req.ServingSize,
		SpecialInstructions:   req.SpecialInstructions,
		Category:              req.Category,
		IsTemporary:           req.IsTemporary,
		AvailabilityEndDate:   req.AvailabilityEndDate,
	}

	created, err := h.svc.AddItem(c.Request.Context(), middleware.GetUserID(c), c.Param("restaurantId"), item)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Menu item added", "item": created})
}

// UpdateItem patches an item; ids and popularity counters are not patchable
func (h *MenuHandler) UpdateItem(c *gin.Context) {
	var patch map[string]interface{}
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	item, err := h.svc.UpdateItem(c.Request.Context(), middleware.GetUserID(c), c.Param("restaurantId"), c.Param("itemId"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item updated", "item": item})
}

// DeleteItem removes an item from the caller's restaurant
func (h *MenuHandler) DeleteItem(c *gin.Context) {
	err := h.svc.DeleteItem(c.Request.Context(), middleware.GetUserID(c), c.Param("restaurantId"), c.Param("itemId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted"})
}

// ToggleAvailability flips is_available on the stored value
func (h *MenuHandler) ToggleAvailability(c *gin.Context) {
	item, err := h.svc.ToggleAvailability(c.Request.Context(), middleware.GetUserID(c), c.Param("restaurantId"), c.Param("itemId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item availability toggled", "item": item})
}

// Stats returns owner-facing menu counters
func (h *MenuHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context(), middleware.GetUserID(c), c.Param("restaurantId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
