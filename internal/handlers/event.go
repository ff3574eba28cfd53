package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tripdesk-dev/tripdesk/db"
	"github.com/tripdesk-dev/tripdesk/internal/models"
	"github.com/tripdesk-dev/tripdesk/internal/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CreateEventRequest struct {
	Title    string         `json:"title" binding:"required"`
	Location string         `json:"location"`
	Date     string         `json:"date"`
	Details  datatypes.JSON `json:"details"`
}

type UpdateEventRequest struct {
	Title    string         `json:"title"`
	Location string         `json:"location"`
	Date     string         `json:"date"`
	Details  datatypes.JSON `json:"details"`
}

func CreateEvent(ctx *gin.Context) {
	tripID, err := utils.GetIDParam(ctx, "trip_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trip := fetchAuthorizedTrip(ctx, tripID)

	if trip == nil {
		return
	}

	var body CreateEventRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	date, err := utils.ParseDate(body.Date)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event := models.Event{
		TripID:   trip.ID,
		Title:    body.Title,
		Location: body.Location,
		Date:     date,
		Details:  body.Details,
	}

	if err := db.DB.Create(&event).Error; err != nil {
		log.Printf("Failed to create event: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create event"})
		return
	}

	ctx.JSON(http.StatusCreated, event)
}

func UpdateEvent(ctx *gin.Context) {
	eventID, err := utils.GetIDParam(ctx, "event_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var event models.Event

	if err := db.DB.Preload("Trip.User").First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve event"})
		}
		return
	}

	if !authorizeLoadedTrip(ctx, &event.Trip) {
		return
	}

	var body UpdateEventRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if body.Title != "" {
		event.Title = body.Title
	}
	if body.Location != "" {
		event.Location = body.Location
	}
	if body.Details != nil {
		event.Details = body.Details
	}

	if body.Date != "" {
		date, err := utils.ParseDate(body.Date)

		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		event.Date = date
	}

	if err := db.DB.Save(&event).Error; err != nil {
		log.Printf("Failed to update event: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update event"})
		return
	}

	ctx.JSON(http.StatusOK, event)
}

func DeleteEvent(ctx *gin.Context) {
	eventID, err := utils.GetIDParam(ctx, "event_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var event models.Event

	if err := db.DB.Preload("Trip.User").First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve event"})
		}
		return
	}

	if !authorizeLoadedTrip(ctx, &event.Trip) {
		return
	}

	if err := db.DB.Delete(&event).Error; err != nil {
		log.Printf("Failed to delete event: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete event"})
		return
	}

	ctx.Status(http.StatusNoContent)
}
