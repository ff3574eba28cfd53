package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tripdesk-dev/tripdesk/db"
	"github.com/tripdesk-dev/tripdesk/internal/models"
	"github.com/tripdesk-dev/tripdesk/internal/utils"
	"gorm.io/gorm"
)

type CreatePurchaseRequest struct {
	Type          string   `json:"type" binding:"required,oneof=before after"`
	Item          string   `json:"item" binding:"required"`
	Category      string   `json:"category" binding:"required"`
	EstimatedCost float64  `json:"estimated_cost" binding:"omitempty,gte=0"`
	ActualCost    *float64 `json:"actual_cost" binding:"omitempty,gte=0"`
	TripMemberID  *uint    `json:"trip_member_id"`
}

type UpdatePurchaseRequest struct {
	Type          string   `json:"type" binding:"omitempty,oneof=before after"`
	Item          string   `json:"item"`
	Category      string   `json:"category"`
	EstimatedCost *float64 `json:"estimated_cost" binding:"omitempty,gte=0"`
	ActualCost    *float64 `json:"actual_cost" binding:"omitempty,gte=0"`
	Status        string   `json:"status" binding:"omitempty,oneof=planned bought"`
}

func CreatePurchase(ctx *gin.Context) {
	tripID, err := utils.GetIDParam(ctx, "trip_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trip := fetchAuthorizedTrip(ctx, tripID)

	if trip == nil {
		return
	}

	var body CreatePurchaseRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	purchase := models.Purchase{
		TripID:        trip.ID,
		TripMemberID:  body.TripMemberID,
		Type:          body.Type,
		Item:          body.Item,
		Category:      body.Category,
		EstimatedCost: body.EstimatedCost,
		ActualCost:    body.ActualCost,
		Status:        models.PurchaseStatusPlanned,
	}

	if err := db.DB.Create(&purchase).Error; err != nil {
		log.Printf("Failed to create purchase: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create purchase"})
		return
	}

	BroadcastRefresh(ctx.Param("trip_id"))

	ctx.JSON(http.StatusCreated, purchase)
}

func UpdatePurchase(ctx *gin.Context) {
	purchaseID, err := utils.GetIDParam(ctx, "purchase_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var purchase models.Purchase

	if err := db.DB.Preload("Trip.User").First(&purchase, purchaseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Purchase not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve purchase"})
		}
		return
	}

	if !authorizeLoadedTrip(ctx, &purchase.Trip) {
		return
	}

	var body UpdatePurchaseRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if body.Type != "" {
		purchase.Type = body.Type
	}
	if body.Item != "" {
		purchase.Item = body.Item
	}
	if body.Category != "" {
		purchase.Category = body.Category
	}
	if body.EstimatedCost != nil {
		purchase.EstimatedCost = *body.EstimatedCost
	}
	if body.ActualCost != nil {
		purchase.ActualCost = body.ActualCost
	}
	if body.Status != "" {
		purchase.Status = body.Status
	}

	if err := db.DB.Save(&purchase).Error; err != nil {
		log.Printf("Failed to update purchase: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update purchase"})
		return
	}

	ctx.JSON(http.StatusOK, purchase)
}

func DeletePurchase(ctx *gin.Context) {
	purchaseID, err := utils.GetIDParam(ctx, "purchase_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var purchase models.Purchase

	if err := db.DB.Preload("Trip.User").First(&purchase, purchaseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Purchase not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve purchase"})
		}
		return
	}

	if !authorizeLoadedTrip(ctx, &purchase.Trip) {
		return
	}

	if err := db.DB.Delete(&purchase).Error; err != nil {
		log.Printf("Failed to delete purchase: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete purchase"})
		return
	}

	ctx.Status(http.StatusNoContent)
}
