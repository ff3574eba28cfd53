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

type CreateChecklistTaskRequest struct {
	Description    string `json:"description" binding:"required,max=255"`
	FamilyMemberID *uint  `json:"family_member_id"`
}

type UpdateChecklistTaskRequest struct {
	IsCompleted    *bool `json:"is_completed"`
	FamilyMemberID *uint `json:"family_member_id"`
}

func ListChecklistTasks(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var tasks []models.ChecklistTask

	if err := db.DB.Where("user_id = ?", userID).
		Preload("Member").
		Order("is_completed").Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve checklist"})
		return
	}

	ctx.JSON(http.StatusOK, tasks)
}

func CreateChecklistTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreateChecklistTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task := models.ChecklistTask{
		UserID:         userID,
		Description:    body.Description,
		FamilyMemberID: body.FamilyMemberID,
	}

	if err := db.DB.Create(&task).Error; err != nil {
		log.Printf("Failed to create checklist task: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checklist task"})
		return
	}

	ctx.JSON(http.StatusCreated, task)
}

func UpdateChecklistTask(ctx *gin.Context) {
	taskID, err := utils.GetIDParam(ctx, "task_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var task models.ChecklistTask

	if err := db.DB.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Checklist task not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve checklist task"})
		}
		return
	}

	if task.UserID != userID {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	var body UpdateChecklistTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if body.IsCompleted != nil {
		task.IsCompleted = *body.IsCompleted
	}
	if body.FamilyMemberID != nil {
		task.FamilyMemberID = body.FamilyMemberID
	}

	if err := db.DB.Save(&task).Error; err != nil {
		log.Printf("Failed to update checklist task: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update checklist task"})
		return
	}

	ctx.JSON(http.StatusOK, task)
}

func DeleteChecklistTask(ctx *gin.Context) {
	taskID, err := utils.GetIDParam(ctx, "task_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var task models.ChecklistTask

	if err := db.DB.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Checklist task not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve checklist task"})
		}
		return
	}

	if task.UserID != userID {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	if err := db.DB.Delete(&task).Error; err != nil {
		log.Printf("Failed to delete checklist task: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete checklist task"})
		return
	}

	ctx.Status(http.StatusNoContent)
}
