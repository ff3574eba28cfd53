package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tripdesk-dev/tripdesk/db"
	"github.com/tripdesk-dev/tripdesk/internal/models"
	"github.com/tripdesk-dev/tripdesk/internal/utils"
	"gorm.io/gorm"
)

type CreateTripMemberRequest struct {
	Name   string `json:"name" binding:"required"`
	UserID *uint  `json:"user_id"`
}

func CreateTripMember(ctx *gin.Context) {
	tripID, err := utils.GetIDParam(ctx, "trip_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trip := fetchAuthorizedTrip(ctx, tripID)

	if trip == nil {
		return
	}

	var body CreateTripMemberRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	name := strings.TrimSpace(body.Name)

	var existing []models.TripMember

	if err := db.DB.Where("trip_id = ?", trip.ID).Find(&existing).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve trip members"})
		return
	}

	// Duplicate guard: same linked user or same name ignoring case
	for _, member := range existing {
		if strings.EqualFold(member.Name, name) {
			ctx.JSON(http.StatusConflict, gin.H{"error": "This participant is already on the trip"})
			return
		}
		if body.UserID != nil && member.UserID != nil && *member.UserID == *body.UserID {
			ctx.JSON(http.StatusConflict, gin.H{"error": "This participant is already on the trip"})
			return
		}
	}

	member := models.TripMember{
		TripID: trip.ID,
		UserID: body.UserID,
		Name:   name,
	}

	if err := db.DB.Create(&member).Error; err != nil {
		log.Printf("Failed to create trip member: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add trip member"})
		return
	}

	BroadcastRefresh(ctx.Param("trip_id"))

	ctx.JSON(http.StatusCreated, member)
}

// DeleteTripMember refuses to remove a participant that still owns documents,
// tasks or purchases; those must be reassigned or deleted first.
func DeleteTripMember(ctx *gin.Context) {
	memberID, err := utils.GetIDParam(ctx, "member_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var member models.TripMember

	if err := db.DB.Preload("Trip.User").First(&member, memberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Trip member not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve trip member"})
		}
		return
	}

	if !authorizeLoadedTrip(ctx, &member.Trip) {
		return
	}

	checks := []struct {
		model   interface{}
		message string
	}{
		{&models.Task{}, "This participant still has assigned tasks"},
		{&models.Purchase{}, "This participant still has assigned purchases"},
		{&models.Document{}, "This participant still has assigned documents"},
	}

	for _, check := range checks {
		var count int64

		if err := db.DB.Model(check.model).Where("trip_member_id = ?", member.ID).Count(&count).Error; err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check member assignments"})
			return
		}

		if count > 0 {
			ctx.JSON(http.StatusConflict, gin.H{"error": check.message})
			return
		}
	}

	if err := db.DB.Delete(&member).Error; err != nil {
		log.Printf("Failed to delete trip member: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove trip member"})
		return
	}

	ctx.Status(http.StatusNoContent)
}
