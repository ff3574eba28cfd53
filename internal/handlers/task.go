package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tripdesk-dev/tripdesk/db"
	"github.com/tripdesk-dev/tripdesk/internal/models"
	"github.com/tripdesk-dev/tripdesk/internal/utils"
	"gorm.io/gorm"
)

type CreateTaskRequest struct {
	Description  string `json:"description" binding:"required"`
	Category     string `json:"category" binding:"required"`
	DueDate      string `json:"due_date"`
	TripMemberID *uint  `json:"trip_member_id"`
}

type UpdateTaskRequest struct {
	Status      string `json:"status" binding:"required,oneof=pending completed"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
}

func CreateTask(ctx *gin.Context) {
	tripID, err := utils.GetIDParam(ctx, "trip_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trip := fetchAuthorizedTrip(ctx, tripID)

	if trip == nil {
		return
	}

	var body CreateTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	dueDate, err := utils.ParseDate(body.DueDate)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task := models.Task{
		TripID:       trip.ID,
		TripMemberID: body.TripMemberID,
		Description:  body.Description,
		Category:     body.Category,
		Status:       models.TaskStatusPending,
		DueDate:      dueDate,
	}

	if err := db.DB.Create(&task).Error; err != nil {
		log.Printf("Failed to create task: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	BroadcastRefresh(ctx.Param("trip_id"))

	ctx.JSON(http.StatusCreated, task)
}

func UpdateTask(ctx *gin.Context) {
	taskID, err := utils.GetIDParam(ctx, "task_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var task models.Task

	if err := db.DB.Preload("Trip.User").First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		}
		return
	}

	if !authorizeLoadedTrip(ctx, &task.Trip) {
		return
	}

	var body UpdateTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task.Status = body.Status

	if body.Description != "" {
		task.Description = body.Description
	}

	if body.DueDate != "" {
		dueDate, err := utils.ParseDate(body.DueDate)

		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		task.DueDate = dueDate
	}

	if err := db.DB.Save(&task).Error; err != nil {
		log.Printf("Failed to update task: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	BroadcastRefresh(strconv.FormatUint(uint64(task.TripID), 10))

	ctx.JSON(http.StatusOK, task)
}

func DeleteTask(ctx *gin.Context) {
	taskID, err := utils.GetIDParam(ctx, "task_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var task models.Task

	if err := db.DB.Preload("Trip.User").First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		}
		return
	}

	if !authorizeLoadedTrip(ctx, &task.Trip) {
		return
	}

	if err := db.DB.Delete(&task).Error; err != nil {
		log.Printf("Failed to delete task: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}

	BroadcastRefresh(strconv.FormatUint(uint64(task.TripID), 10))

	ctx.Status(http.StatusNoContent)
}
