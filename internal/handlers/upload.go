package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"shopapi/internal/models"
)

const productImageFolder = "products"

const maxImageSize = 5 << 20

func validateImageUpload(filename string, size int64) error {
	extension := strings.ToLower(filepath.Ext(filename))
	if extension == "" {
		return fmt.Errorf("image file extension is required")
	}

	allowedExtensions := map[string]struct{}{
		".jpg":  {},
		".jpeg": {},
		".png":  {},
		".webp": {},
	}
	if _, ok := allowedExtensions[extension]; !ok {
		return fmt.Errorf("unsupported image type: %s", extension)
	}

	if size > maxImageSize {
		return fmt.Errorf("image file too large (max 5MB)")
	}
	return nil
}

// UploadProductImage stores the image in the blob store and records a File
// document pointing at it.
func UploadProductImage(db *mongo.Database, store BlobStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /upload/image"
		defer handlePanic(c, route)

		file, err := c.FormFile("image")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "no image file provided")
			return
		}

		if err := validateImageUpload(file.Filename, file.Size); err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		url, publicID, err := store.Save(file, productImageFolder)
		if err != nil {
			log.Println("[UPLOAD] [ERROR] image store failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "image upload failed")
			return
		}

		var uploadedBy *primitive.ObjectID
		if raw := strings.TrimSpace(c.PostForm("userId")); raw != "" {
			if id, err := primitive.ObjectIDFromHex(raw); err == nil {
				uploadedBy = &id
			}
		}

		email := strings.TrimSpace(c.PostForm("email"))
		if email == "" {
			email = "anonymous@example.com"
		}

		record := models.File{
			Name:       file.Filename,
			Tags:       "product",
			Email:      email,
			ImageURL:   url,
			PublicID:   publicID,
			UploadedBy: uploadedBy,
			CreatedAt:  time.Now(),
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("files").InsertOne(ctx, record)
		if err != nil {
			log.Println("[UPLOAD] [ERROR] file record insert failed:", err)
			// Roll the blob back so the store does not leak orphans.
			if removeErr := store.Remove(productImageFolder, publicID); removeErr != nil {
				log.Println("[UPLOAD] [ERROR] orphan blob cleanup failed:", removeErr)
			}
			respondWithError(c, http.StatusInternalServerError, route, "image upload failed")
			return
		}

		fileID := ""
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			fileID = id.Hex()
		}

		log.Println("[UPLOAD] [INFO] product image stored:", publicID)
		c.JSON(http.StatusOK, gin.H{
			"message": "Product image uploaded successfully",
			"data": gin.H{
				"imageUrl": url,
				"publicId": publicID,
				"fileId":   fileID,
			},
		})
	}
}

type deleteImageRequest struct {
	PublicID string `json:"publicId" binding:"required"`
}

func DeleteImage(db *mongo.Database, store BlobStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /upload/image"
		defer handlePanic(c, route)

		var req deleteImageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if err := store.Remove(productImageFolder, req.PublicID); err != nil {
			log.Println("[UPLOAD] [ERROR] blob delete failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "failed to delete image")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if _, err := db.Collection("files").DeleteOne(ctx, bson.M{"publicId": req.PublicID}); err != nil {
			log.Println("[UPLOAD] [ERROR] file record delete failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "failed to delete image")
			return
		}

		log.Println("[UPLOAD] [INFO] image deleted:", req.PublicID)
		c.JSON(http.StatusOK, gin.H{"message": "Image deleted successfully"})
	}
}
