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

type CreateBudgetRequest struct {
	Category      string   `json:"category" binding:"required"`
	PlannedAmount float64  `json:"planned_amount" binding:"required,gte=0"`
	SpentAmount   *float64 `json:"spent_amount" binding:"omitempty,gte=0"`
	Period        string   `json:"period" binding:"omitempty,oneof=monthly total"`
}

type UpdateBudgetRequest struct {
	Category      string   `json:"category"`
	PlannedAmount *float64 `json:"planned_amount" binding:"omitempty,gte=0"`
	SpentAmount   *float64 `json:"spent_amount" binding:"omitempty,gte=0"`
	Period        string   `json:"period" binding:"omitempty,oneof=monthly total"`
}

func CreateBudget(ctx *gin.Context) {
	tripID, err := utils.GetIDParam(ctx, "trip_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trip := fetchAuthorizedTrip(ctx, tripID)

	if trip == nil {
		return
	}

	var body CreateBudgetRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	budget := models.Budget{
		TripID:        trip.ID,
		Category:      body.Category,
		PlannedAmount: body.PlannedAmount,
		Period:        "total",
	}

	if body.SpentAmount != nil {
		budget.SpentAmount = *body.SpentAmount
	}

	if body.Period != "" {
		budget.Period = body.Period
	}

	if err := db.DB.Create(&budget).Error; err != nil {
		log.Printf("Failed to create budget: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create budget"})
		return
	}

	BroadcastRefresh(ctx.Param("trip_id"))

	ctx.JSON(http.StatusCreated, budget)
}

func UpdateBudget(ctx *gin.Context) {
	budgetID, err := utils.GetIDParam(ctx, "budget_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var budget models.Budget

	if err := db.DB.Preload("Trip.User").First(&budget, budgetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Budget not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve budget"})
		}
		return
	}

	if !authorizeLoadedTrip(ctx, &budget.Trip) {
		return
	}

	var body UpdateBudgetRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if body.Category != "" {
		budget.Category = body.Category
	}
	if body.PlannedAmount != nil {
		budget.PlannedAmount = *body.PlannedAmount
	}
	if body.SpentAmount != nil {
		budget.SpentAmount = *body.SpentAmount
	}
	if body.Period != "" {
		budget.Period = body.Period
	}

	if err := db.DB.Save(&budget).Error; err != nil {
		log.Printf("Failed to update budget: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update budget"})
		return
	}

	ctx.JSON(http.StatusOK, budget)
}

func DeleteBudget(ctx *gin.Context) {
	budgetID, err := utils.GetIDParam(ctx, "budget_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var budget models.Budget

	if err := db.DB.Preload("Trip.User").First(&budget, budgetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Budget not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve budget"})
		}
		return
	}

	if !authorizeLoadedTrip(ctx, &budget.Trip) {
		return
	}

	if err := db.DB.Delete(&budget).Error; err != nil {
		log.Printf("Failed to delete budget: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete budget"})
		return
	}

	ctx.Status(http.StatusNoContent)
}
