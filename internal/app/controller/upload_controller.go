package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/stephens-stores/backend/internal/middleware"
	"github.com/stephens-stores/backend/internal/response"
	"github.com/stephens-stores/backend/internal/storage"
)

// maxImageSize bounds the declared upload size at 10 MiB.
const maxImageSize = 10 << 20

var allowedImageTypes = []string{
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/gif",
	"image/webp",
}

type UploadController struct {
	storage *storage.S3Storage
}

func NewUploadController(storage *storage.S3Storage) *UploadController {
	return &UploadController{storage: storage}
}

type PresignImageRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// PresignImage issues a presigned PUT URL for a product image
// POST /api/uploads/image
func (ctrl *UploadController) PresignImage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req PresignImageRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Filename == "" || req.ContentType == "" {
		response.BadRequest(c, "Invalid data", nil)
		return
	}

	if err := ctrl.storage.ValidateContentType(req.ContentType, allowedImageTypes); err != nil {
		log.Warn("Rejected upload content type", map[string]interface{}{
			"content_type": req.ContentType,
		})
		response.BadRequest(c, "Only image files are allowed (JPEG, PNG, GIF, WEBP)", nil)
		return
	}
	if req.Size > 0 {
		if err := ctrl.storage.ValidateFileSize(req.Size, maxImageSize); err != nil {
			response.BadRequest(c, "Image exceeds the maximum allowed size of 10MB", nil)
			return
		}
	}

	upload, err := ctrl.storage.PresignUpload(c.Request.Context(), req.Filename, req.ContentType, "products")
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename": req.Filename,
		})
		response.Internal(c)
		return
	}

	response.OK(c, "Upload URL generated successfully", upload)
}
