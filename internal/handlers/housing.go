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

type CreateHousingRequest struct {
	Type        string   `json:"type" binding:"required,oneof=host_family residence rental"`
	Address     string   `json:"address" binding:"required"`
	ContactInfo string   `json:"contact_info"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	Cost        *float64 `json:"cost" binding:"omitempty,gte=0"`
}

type UpdateHousingRequest struct {
	Type        string   `json:"type" binding:"omitempty,oneof=host_family residence rental"`
	Address     string   `json:"address"`
	ContactInfo string   `json:"contact_info"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	Cost        *float64 `json:"cost" binding:"omitempty,gte=0"`
}

func CreateHousing(ctx *gin.Context) {
	tripID, err := utils.GetIDParam(ctx, "trip_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trip := fetchAuthorizedTrip(ctx, tripID)

	if trip == nil {
		return
	}

	var body CreateHousingRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	startDate, err := utils.ParseDate(body.StartDate)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	endDate, err := utils.ParseDate(body.EndDate)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := utils.ValidateDateRange(startDate, endDate); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	housing := models.Housing{
		TripID:      trip.ID,
		Type:        body.Type,
		Address:     body.Address,
		ContactInfo: body.ContactInfo,
		StartDate:   startDate,
		EndDate:     endDate,
		Cost:        body.Cost,
	}

	if err := db.DB.Create(&housing).Error; err != nil {
		log.Printf("Failed to create housing: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create housing"})
		return
	}

	ctx.JSON(http.StatusCreated, housing)
}

func UpdateHousing(ctx *gin.Context) {
	housingID, err := utils.GetIDParam(ctx, "housing_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var housing models.Housing

	if err := db.DB.Preload("Trip.User").First(&housing, housingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Housing not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve housing"})
		}
		return
	}

	if !authorizeLoadedTrip(ctx, &housing.Trip) {
		return
	}

	var body UpdateHousingRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if body.Type != "" {
		housing.Type = body.Type
	}
	if body.Address != "" {
		housing.Address = body.Address
	}
	if body.ContactInfo != "" {
		housing.ContactInfo = body.ContactInfo
	}
	if body.Cost != nil {
		housing.Cost = body.Cost
	}

	if body.StartDate != "" {
		startDate, err := utils.ParseDate(body.StartDate)

		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		housing.StartDate = startDate
	}

	if body.EndDate != "" {
		endDate, err := utils.ParseDate(body.EndDate)

		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		housing.EndDate = endDate
	}

	if err := utils.ValidateDateRange(housing.StartDate, housing.EndDate); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := db.DB.Save(&housing).Error; err != nil {
		log.Printf("Failed to update housing: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update housing"})
		return
	}

	ctx.JSON(http.StatusOK, housing)
}

func DeleteHousing(ctx *gin.Context) {
	housingID, err := utils.GetIDParam(ctx, "housing_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var housing models.Housing

	if err := db.DB.Preload("Trip.User").First(&housing, housingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Housing not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve housing"})
		}
		return
	}

	if !authorizeLoadedTrip(ctx, &housing.Trip) {
		return
	}

	if err := db.DB.Delete(&housing).Error; err != nil {
		log.Printf("Failed to delete housing: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete housing"})
		return
	}

	ctx.Status(http.StatusNoContent)
}
