package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tripdesk-dev/tripdesk/db"
	"github.com/tripdesk-dev/tripdesk/internal/models"
	"github.com/tripdesk-dev/tripdesk/internal/policy"
	"github.com/tripdesk-dev/tripdesk/internal/utils"
)

type CreateTripRequest struct {
	Country   string `json:"country" binding:"required"`
	City      string `json:"city" binding:"required"`
	Type      string `json:"type" binding:"required"`
	Place     string `json:"place"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type UpdateTripRequest struct {
	Country   string `json:"country"`
	City      string `json:"city"`
	Type      string `json:"type"`
	Place     string `json:"place"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status"`
}

func ListTrips(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var trips []models.Trip

	query := db.DB.Order("created_at DESC")

	switch {
	case user.Role == models.RoleAdmin:
		err = query.Preload("User").Find(&trips).Error
	case user.FamilyID != nil:
		// Family members see every trip in the household
		var familyUserIDs []uint

		if err := db.DB.Model(&models.User{}).Where("family_id = ?", *user.FamilyID).Pluck("id", &familyUserIDs).Error; err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve trips"})
			return
		}

		err = query.Where("user_id IN ?", familyUserIDs).Find(&trips).Error
	default:
		err = query.Where("user_id = ?", user.ID).Find(&trips).Error
	}

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve trips"})
		return
	}

	ctx.JSON(http.StatusOK, trips)
}

func CreateTrip(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreateTripRequest

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

	trip := models.Trip{
		UserID:    userID,
		Country:   body.Country,
		City:      body.City,
		Place:     body.Place,
		Type:      body.Type,
		Status:    models.TripStatusPlanning,
		StartDate: startDate,
		EndDate:   endDate,
	}

	if err := db.DB.Create(&trip).Error; err != nil {
		log.Printf("Failed to create trip: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create trip"})
		return
	}

	ctx.JSON(http.StatusCreated, trip)
}

func GetTrip(ctx *gin.Context) {
	tripID, err := utils.GetIDParam(ctx, "trip_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trip := fetchAuthorizedTrip(ctx, tripID)

	if trip == nil {
		return
	}

	if err := db.DB.
		Preload("Members").
		Preload("Documents.Member").
		Preload("Tasks.Member").
		Preload("Budgets").
		Preload("Purchases.Member").
		Preload("Housings").
		Preload("Events").
		First(trip, trip.ID).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve trip"})
		return
	}

	now := time.Now()

	for i := range trip.Documents {
		doc := &trip.Documents[i]

		if models.ReconcileExpiration(doc, now) {
			if err := db.DB.Model(doc).Update("status", doc.Status).Error; err != nil {
				log.Printf("Failed to expire document %d: %v", doc.ID, err)
			}
		}
	}

	ctx.JSON(http.StatusOK, trip)
}

func UpdateTrip(ctx *gin.Context) {
	tripID, err := utils.GetIDParam(ctx, "trip_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trip := fetchAuthorizedTrip(ctx, tripID)

	if trip == nil {
		return
	}

	var body UpdateTripRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if body.Country != "" {
		trip.Country = body.Country
	}
	if body.City != "" {
		trip.City = body.City
	}
	if body.Type != "" {
		trip.Type = body.Type
	}
	if body.Place != "" {
		trip.Place = body.Place
	}

	if body.StartDate != "" {
		startDate, err := utils.ParseDate(body.StartDate)

		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		trip.StartDate = startDate
	}

	if body.EndDate != "" {
		endDate, err := utils.ParseDate(body.EndDate)

		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		trip.EndDate = endDate
	}

	if err := utils.ValidateDateRange(trip.StartDate, trip.EndDate); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if body.Status != "" && body.Status != trip.Status {
		if !models.ValidTripStatus(body.Status) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}

		if err := policy.ValidateTransition(db.DB, trip, body.Status); err != nil {
			if errors.Is(err, policy.ErrPendingMandatoryDocuments) || errors.Is(err, policy.ErrPendingTasks) {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			log.Printf("Failed to validate transition for trip %d: %v", trip.ID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update trip"})
			return
		}

		trip.Status = body.Status
	}

	if err := db.DB.Save(trip).Error; err != nil {
		log.Printf("Failed to update trip: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update trip"})
		return
	}

	BroadcastRefresh(ctx.Param("trip_id"))

	ctx.JSON(http.StatusOK, trip)
}

func DeleteTrip(ctx *gin.Context) {
	tripID, err := utils.GetIDParam(ctx, "trip_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trip := fetchAuthorizedTrip(ctx, tripID)

	if trip == nil {
		return
	}

	// Local document files are removed best-effort before the cascade; Drive
	// files stay (see documents.Service.RemoveStoredFile).
	var docs []models.Document

	if err := db.DB.Where("trip_id = ?", trip.ID).Find(&docs).Error; err == nil {
		for i := range docs {
			docService.RemoveStoredFile(&docs[i])
		}
	}

	if err := db.DB.Select("Members", "Documents", "Tasks", "Budgets", "Purchases", "Housings", "Events").Delete(trip).Error; err != nil {
		log.Printf("Failed to delete trip: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete trip"})
		return
	}

	ctx.Status(http.StatusNoContent)
}
