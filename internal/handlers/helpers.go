package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tripdesk-dev/tripdesk/db"
	"github.com/tripdesk-dev/tripdesk/internal/middleware"
	"github.com/tripdesk-dev/tripdesk/internal/models"
	"github.com/tripdesk-dev/tripdesk/internal/policy"
	"github.com/tripdesk-dev/tripdesk/internal/utils"
	"gorm.io/gorm"
)

func principalFrom(user middleware.AuthenticatedUser) policy.Principal {
	return policy.Principal{
		ID:       user.ID,
		Role:     user.Role,
		FamilyID: user.FamilyID,
	}
}

// fetchAuthorizedTrip loads a trip with its owner and enforces the access
// policy. On failure it writes the error response and returns nil.
func fetchAuthorizedTrip(ctx *gin.Context, tripID uint) *models.Trip {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return nil
	}

	var trip models.Trip

	if err := db.DB.Preload("User").First(&trip, tripID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve trip"})
		}
		return nil
	}

	if !policy.CanAccess(principalFrom(user), trip.UserID, trip.User.FamilyID) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return nil
	}

	return &trip
}

// authorizeLoadedTrip applies the access policy to a trip that arrived
// preloaded with its owner, writing the 403 itself when denied.
func authorizeLoadedTrip(ctx *gin.Context, trip *models.Trip) bool {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return false
	}

	if !policy.CanAccess(principalFrom(user), trip.UserID, trip.User.FamilyID) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return false
	}

	return true
}
