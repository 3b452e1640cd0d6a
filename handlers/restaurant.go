package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"khao-backend/middleware"
	"khao-backend/models"
	"khao-backend/services"
)

type RestaurantHandler struct {
	svc *services.RestaurantService
}

func NewRestaurantHandler(svc *services.RestaurantService) *RestaurantHandler {
	return &RestaurantHandler{svc: svc}
}

type RegisterRestaurantRequest struct {
	Name             string   `json:"name" binding:"required"`
	Description      string   `json:"description"`
	OwnerName        string   `json:"owner_name" binding:"required"`
	OwnerContact     string   `json:"owner_contact"`
	Address          string   `json:"address" binding:"required"`
	City             string   `json:"city"`
	State            string   `json:"state"`
	Country          string   `json:"country" binding:"required,max=3"`
	Latitude         float64  `json:"latitude"`
	Longitude        float64  `json:"longitude"`
	LogoURL          string   `json:"logo_url"`
	CoverImageURL    string   `json:"cover_image_url"`
	CuisineTypes     []string `json:"cuisine_types"`
	IsVegetarianOnly *bool    `json:"is_vegetarian_only"`
	OffersDelivery   bool     `json:"offers_delivery"`
	OffersPickup     bool     `json:"offers_pickup"`
}

type WorkingStatusRequest struct {
	WorkingStatus models.WorkingStatus `json:"working_status" binding:"required,oneof=online busy offline"`
}

// Register creates the caller's restaurant in pending approval
func (h *RestaurantHandler) Register(c *gin.Context) {
	var req RegisterRestaurantRequest
	if !bindJSON(c, &req) {
		return
	}

	rest := &models.Restaurant{
		Name:           req.Name,
		Description:    req.Description,
		OwnerName:      req.OwnerName,
		OwnerContact:   req.OwnerContact,
		Address:        req.Address,
		City:           req.City,
		State:          req.State,
		Country:        req.Country,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		LogoURL:        req.LogoURL,
		CoverImageURL:  req.CoverImageURL,
		CuisineTypes:   req.CuisineTypes,
		OffersDelivery: req.OffersDelivery,
		OffersPickup:   req.OffersPickup,
		AcceptsOrders:  true,
	}
	rest.IsVegetarianOnly = true
	if req.IsVegetarianOnly != nil {
		rest.IsVegetarianOnly = *req.IsVegetarianOnly
	}

	created, err := h.svc.Register(c.Request.Context(), middleware.GetUserID(c), rest)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Restaurant registered, pending approval", "restaurant": created})
}

// MyRestaurant returns the restaurant owned by the caller
func (h *RestaurantHandler) MyRestaurant(c *gin.Context) {
	rest, err := h.svc.GetByOwner(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"restaurant": rest})
}

// Get returns a single restaurant (public)
func (h *RestaurantHandler) Get(c *gin.Context) {
	rest, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"restaurant": rest})
}

// Update patches owner-editable fields; country changes are dropped
func (h *RestaurantHandler) Update(c *gin.Context) {
	var patch map[string]interface{}
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	rest, err := h.svc.Update(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Restaurant updated", "restaurant": rest})
}

// SetWorkingStatus updates the operational online/busy/offline state
func (h *RestaurantHandler) SetWorkingStatus(c *gin.Context) {
	var req WorkingStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	rest, err := h.svc.SetWorkingStatus(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), req.WorkingStatus)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Working status updated", "restaurant": rest})
}

// List returns approved restaurants with optional filters (public)
func (h *RestaurantHandler) List(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	take, _ := strconv.Atoi(c.DefaultQuery("take", "50"))

	rests, total, err := h.svc.List(
		c.Request.Context(),
		c.Query("country"),
		models.WorkingStatus(c.Query("working_status")),
		skip, take,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rests, "total": total})
}
