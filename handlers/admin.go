package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"khao-backend/middleware"
	"khao-backend/services"
)

// AdminHandler exposes the admin side of the restaurant lifecycle. Role
// enforcement happens in the route middleware before these run.
type AdminHandler struct {
	svc *services.RestaurantService
}

func NewAdminHandler(svc *services.RestaurantService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

type RejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// Pending lists restaurants awaiting review, oldest first (FIFO queue)
func (h *AdminHandler) Pending(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	take, _ := strconv.Atoi(c.DefaultQuery("take", "50"))

	rests, total, err := h.svc.ListPending(c.Request.Context(), skip, take)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rests, "total": total})
}

// Approve moves a pending restaurant to approved
func (h *AdminHandler) Approve(c *gin.Context) {
	rest, err := h.svc.Approve(c.Request.Context(), c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Restaurant approved", "restaurant": rest})
}

// Reject records the rejection reason and timestamp
func (h *AdminHandler) Reject(c *gin.Context) {
	var req RejectRequest
	if !bindJSON(c, &req) {
		return
	}

	rest, err := h.svc.Reject(c.Request.Context(), c.Param("id"), middleware.GetUserID(c), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Restaurant rejected", "restaurant": rest})
}

// Suspend takes an approved restaurant out of service and forces it offline
func (h *AdminHandler) Suspend(c *gin.Context) {
	rest, err := h.svc.Suspend(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Restaurant suspended", "restaurant": rest})
}

// Reactivate restores approved status; the owner must go online manually
func (h *AdminHandler) Reactivate(c *gin.Context) {
	rest, err := h.svc.Reactivate(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Restaurant reactivated", "restaurant": rest})
}
