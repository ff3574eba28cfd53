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

type CreateFamilyMemberRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Role      string `json:"role" binding:"required"`
	IsPrimary bool   `json:"is_primary"`
}

type UpdateFamilyMemberRequest struct {
	Role      string `json:"role" binding:"required"`
	IsPrimary *bool  `json:"is_primary"`
}

// ListFamilyMembers returns the caller's family, creating it on first access.
// A user whose family link was lost is reattached through their member record.
func ListFamilyMembers(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var user models.User

	if err := db.DB.First(&user, currentUser.ID).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if user.FamilyID == nil {
		if err := initializeFamily(&user); err != nil {
			log.Printf("Failed to initialize family for user %d: %v", user.ID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to initialize family"})
			return
		}
	}

	var members []models.FamilyMember

	if err := db.DB.Where("family_id = ?", *user.FamilyID).
		Order("is_primary DESC").Order("name").
		Find(&members).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve family members"})
		return
	}

	ctx.JSON(http.StatusOK, members)
}

func CreateFamilyMember(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreateFamilyMemberRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var user models.User

	if err := db.DB.First(&user, currentUser.ID).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if user.FamilyID == nil {
		if err := initializeFamily(&user); err != nil {
			log.Printf("Failed to initialize family for user %d: %v", user.ID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to initialize family"})
			return
		}
	}

	email := strings.ToLower(strings.TrimSpace(body.Email))

	if email == user.Email {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "You are already in the family"})
		return
	}

	var member models.FamilyMember

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		var linkedUser models.User
		var linkedUserID *uint

		err := tx.Where("email = ?", email).First(&linkedUser).Error

		if err == nil {
			linkedUserID = &linkedUser.ID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		member = models.FamilyMember{
			FamilyID:  *user.FamilyID,
			UserID:    linkedUserID,
			Name:      strings.TrimSpace(body.Name),
			Email:     email,
			Role:      body.Role,
			IsPrimary: body.IsPrimary,
		}

		if body.IsPrimary {
			if err := demoteSiblings(tx, *user.FamilyID, 0); err != nil {
				return err
			}
		}

		if err := tx.Create(&member).Error; err != nil {
			return err
		}

		// Invited users with accounts join the household immediately
		if linkedUserID != nil {
			if err := tx.Model(&linkedUser).Update("family_id", *user.FamilyID).Error; err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		log.Printf("Failed to create family member: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add family member"})
		return
	}

	ctx.JSON(http.StatusCreated, member)
}

func UpdateFamilyMember(ctx *gin.Context) {
	memberID, err := utils.GetIDParam(ctx, "member_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var member models.FamilyMember

	if err := db.DB.First(&member, memberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Family member not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve family member"})
		}
		return
	}

	if currentUser.FamilyID == nil || member.FamilyID != *currentUser.FamilyID {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	var body UpdateFamilyMemberRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		member.Role = body.Role

		if body.IsPrimary != nil && *body.IsPrimary && !member.IsPrimary {
			// Promote: exactly one primary per family
			if err := demoteSiblings(tx, member.FamilyID, member.ID); err != nil {
				return err
			}
			member.IsPrimary = true
		}

		return tx.Save(&member).Error
	})

	if err != nil {
		log.Printf("Failed to update family member: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update family member"})
		return
	}

	ctx.JSON(http.StatusOK, member)
}

func DeleteFamilyMember(ctx *gin.Context) {
	memberID, err := utils.GetIDParam(ctx, "member_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var member models.FamilyMember

	if err := db.DB.First(&member, memberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Family member not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve family member"})
		}
		return
	}

	if currentUser.FamilyID == nil || member.FamilyID != *currentUser.FamilyID {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		// Unlink the account so their trips stop sharing with this family
		if member.UserID != nil {
			if err := tx.Model(&models.User{}).Where("id = ?", *member.UserID).
				Update("family_id", nil).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&member).Error
	})

	if err != nil {
		log.Printf("Failed to delete family member: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove family member"})
		return
	}

	ctx.Status(http.StatusNoContent)
}

// initializeFamily creates a family for the user, or recovers the link when a
// member record already points at them. The creating user becomes the primary
// member.
func initializeFamily(user *models.User) error {
	var existing models.FamilyMember

	err := db.DB.Where("user_id = ?", user.ID).First(&existing).Error

	if err == nil {
		user.FamilyID = &existing.FamilyID
		return db.DB.Model(user).Update("family_id", existing.FamilyID).Error
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return db.DB.Transaction(func(tx *gorm.DB) error {
		family := models.Family{Name: "Família de " + user.Name}

		if err := tx.Create(&family).Error; err != nil {
			return err
		}

		if err := tx.Model(user).Update("family_id", family.ID).Error; err != nil {
			return err
		}

		user.FamilyID = &family.ID

		userID := user.ID

		return tx.Create(&models.FamilyMember{
			FamilyID:  family.ID,
			UserID:    &userID,
			Name:      user.Name,
			Email:     user.Email,
			Role:      "Principal",
			IsPrimary: true,
		}).Error
	})
}

// demoteSiblings clears is_primary on every member of the family except the
// one being promoted (exceptID 0 when promoting a new record).
func demoteSiblings(tx *gorm.DB, familyID, exceptID uint) error {
	query := tx.Model(&models.FamilyMember{}).Where("family_id = ?", familyID)

	if exceptID != 0 {
		query = query.Where("id != ?", exceptID)
	}

	return query.Update("is_primary", false).Error
}
