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

type CreateShoppingItemRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

type UpdateShoppingItemRequest struct {
	IsOnList  *bool `json:"is_on_list"`
	IsChecked *bool `json:"is_checked"`
}

func ListShoppingItems(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var items []models.ShoppingItem

	if err := db.DB.Where("user_id = ?", userID).Order("name").Find(&items).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve shopping items"})
		return
	}

	ctx.JSON(http.StatusOK, items)
}

func CreateShoppingItem(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreateShoppingItemRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	// New items start in the catalog, off the monthly list
	item := models.ShoppingItem{
		UserID: userID,
		Name:   body.Name,
	}

	if err := db.DB.Create(&item).Error; err != nil {
		log.Printf("Failed to create shopping item: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create shopping item"})
		return
	}

	ctx.JSON(http.StatusCreated, item)
}

func UpdateShoppingItem(ctx *gin.Context) {
	itemID, err := utils.GetIDParam(ctx, "item_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var item models.ShoppingItem

	if err := db.DB.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Shopping item not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve shopping item"})
		}
		return
	}

	if item.UserID != userID {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	var body UpdateShoppingItemRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	updates := make(map[string]interface{})

	if body.IsOnList != nil {
		updates["is_on_list"] = *body.IsOnList
	}
	if body.IsChecked != nil {
		updates["is_checked"] = *body.IsChecked
	}

	if len(updates) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No valid fields to update"})
		return
	}

	if err := db.DB.Model(&item).Updates(updates).Error; err != nil {
		log.Printf("Failed to update shopping item: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update shopping item"})
		return
	}

	ctx.JSON(http.StatusOK, item)
}

func DeleteShoppingItem(ctx *gin.Context) {
	itemID, err := utils.GetIDParam(ctx, "item_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var item models.ShoppingItem

	if err := db.DB.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Shopping item not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve shopping item"})
		}
		return
	}

	if item.UserID != userID {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	if err := db.DB.Delete(&item).Error; err != nil {
		log.Printf("Failed to delete shopping item: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete shopping item"})
		return
	}

	ctx.Status(http.StatusNoContent)
}
