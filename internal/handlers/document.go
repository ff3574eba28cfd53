package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tripdesk-dev/tripdesk/db"
	"github.com/tripdesk-dev/tripdesk/internal/documents"
	"github.com/tripdesk-dev/tripdesk/internal/drive"
	"github.com/tripdesk-dev/tripdesk/internal/models"
	"github.com/tripdesk-dev/tripdesk/internal/utils"
	"gorm.io/gorm"
)

// docService is wired in main before the router starts serving.
var docService *documents.Service

func SetDocumentService(svc *documents.Service) {
	docService = svc
}

const maxDocumentSize = 10 << 20 // 10 MB, mirrors the upload form limit

type UpdateDocumentRequest struct {
	Type           string `json:"type"`
	Status         string `json:"status"`
	IsMandatory    *bool  `json:"is_mandatory"`
	ExpirationDate string `json:"expiration_date"`
}

func ListTripDocuments(ctx *gin.Context) {
	tripID, err := utils.GetIDParam(ctx, "trip_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trip := fetchAuthorizedTrip(ctx, tripID)

	if trip == nil {
		return
	}

	var docs []models.Document

	if err := db.DB.Where("trip_id = ?", trip.ID).Preload("Member").Order("created_at DESC").Find(&docs).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve documents"})
		return
	}

	now := time.Now()

	for i := range docs {
		doc := &docs[i]

		if models.ReconcileExpiration(doc, now) {
			if err := db.DB.Model(doc).Update("status", doc.Status).Error; err != nil {
				log.Printf("Failed to expire document %d: %v", doc.ID, err)
			}
		}
	}

	ctx.JSON(http.StatusOK, docs)
}

// CreateDocument ingests a document from a multipart form: type,
// is_mandatory, expiration_date, target_member ("" for unassigned, "all" for
// one document per trip member, or a member id) and an optional file.
func CreateDocument(ctx *gin.Context) {
	tripID, err := utils.GetIDParam(ctx, "trip_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var trip models.Trip

	if err := db.DB.Preload("User").First(&trip, tripID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve trip"})
		}
		return
	}

	docType := ctx.PostForm("type")

	if docType == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Document type is required"})
		return
	}

	isMandatory := false

	if raw := ctx.PostForm("is_mandatory"); raw != "" {
		isMandatory, err = strconv.ParseBool(raw)

		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid is_mandatory value"})
			return
		}
	}

	expirationDate, err := utils.ParseDate(ctx.PostForm("expiration_date"))

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var upload *documents.Upload

	if fileHeader, err := ctx.FormFile("file"); err == nil {
		if fileHeader.Size > maxDocumentSize {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the 10MB limit"})
			return
		}

		file, err := fileHeader.Open()

		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
			return
		}

		content, err := io.ReadAll(file)
		file.Close()

		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
			return
		}

		upload = &documents.Upload{
			Filename: fileHeader.Filename,
			MimeType: fileHeader.Header.Get("Content-Type"),
			Content:  content,
		}
	}

	var principal models.User

	if err := db.DB.First(&principal, currentUser.ID).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	meta := documents.Meta{
		Type:           docType,
		IsMandatory:    isMandatory,
		ExpirationDate: expirationDate,
	}

	created, err := docService.Ingest(ctx.Request.Context(), &principal, &trip, meta, upload, ctx.PostForm("target_member"))

	if err != nil {
		respondIngestError(ctx, err, created)
		return
	}

	BroadcastRefresh(ctx.Param("trip_id"))

	ctx.JSON(http.StatusCreated, created)
}

func UpdateDocument(ctx *gin.Context) {
	docID, err := utils.GetIDParam(ctx, "document_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var doc models.Document

	if err := db.DB.Preload("Trip.User").First(&doc, docID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve document"})
		}
		return
	}

	if !authorizeLoadedTrip(ctx, &doc.Trip) {
		return
	}

	var body UpdateDocumentRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if body.Type != "" {
		doc.Type = body.Type
	}
	if body.Status != "" {
		doc.Status = body.Status
	}
	if body.IsMandatory != nil {
		doc.IsMandatory = *body.IsMandatory
	}

	if body.ExpirationDate != "" {
		expirationDate, err := utils.ParseDate(body.ExpirationDate)

		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		doc.ExpirationDate = expirationDate
	}

	models.ReconcileExpiration(&doc, time.Now())

	if err := db.DB.Save(&doc).Error; err != nil {
		log.Printf("Failed to update document: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update document"})
		return
	}

	BroadcastRefresh(strconv.FormatUint(uint64(doc.TripID), 10))

	ctx.JSON(http.StatusOK, doc)
}

func DeleteDocument(ctx *gin.Context) {
	docID, err := utils.GetIDParam(ctx, "document_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var doc models.Document

	if err := db.DB.Preload("Trip.User").First(&doc, docID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve document"})
		}
		return
	}

	if !authorizeLoadedTrip(ctx, &doc.Trip) {
		return
	}

	docService.RemoveStoredFile(&doc)

	if err := db.DB.Delete(&doc).Error; err != nil {
		log.Printf("Failed to delete document: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete document"})
		return
	}

	BroadcastRefresh(strconv.FormatUint(uint64(doc.TripID), 10))

	ctx.Status(http.StatusNoContent)
}

func respondIngestError(ctx *gin.Context, err error, created []models.Document) {
	var credErr *drive.CredentialMissingError
	var driveErr *drive.Error

	switch {
	case errors.Is(err, documents.ErrAccessDenied):
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, documents.ErrMemberNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &credErr):
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": credErr.Error()})
	case errors.Is(err, drive.ErrAuthExpired):
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "created": created})
	case errors.As(err, &driveErr):
		log.Printf("Drive upload failed: %v", driveErr)
		ctx.JSON(http.StatusBadGateway, gin.H{"error": driveErr.Error(), "created": created})
	default:
		log.Printf("Failed to ingest document: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create document"})
	}
}
