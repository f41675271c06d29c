package handler

import (
	"context"
	"mime/multipart"

	"github.com/gin-gonic/gin"

	"github.com/daehwan2da/sopt-aos-server/internal/storage"
	apperrors "github.com/daehwan2da/sopt-aos-server/pkg/errors"
)

// ImageService 图片上传接口
type ImageService interface {
	Upload(ctx context.Context, image storage.File) (string, error)
}

// UploadHandler 独立上传处理器
type UploadHandler struct {
	imageService ImageService
	maxFileSize  int64
}

// NewUploadHandler 创建上传处理器
func NewUploadHandler(imageService ImageService, maxFileSize int64) *UploadHandler {
	return &UploadHandler{imageService: imageService, maxFileSize: maxFileSize}
}

// UploadResponse 上传响应
type UploadResponse struct {
	ImageURL string `json:"imageUrl"`
}

// Upload 上传图片，表单字段 file
func (h *UploadHandler) Upload(c *gin.Context) {
	header, err := formImage(c, "file", h.maxFileSize)
	if err != nil {
		handleError(c, err)
		return
	}

	src, err := header.Open()
	if err != nil {
		handleError(c, err)
		return
	}
	defer src.Close()

	url, err := h.imageService.Upload(c.Request.Context(), toStorageFile(src, header))
	if err != nil {
		handleError(c, err)
		return
	}

	Success(c, "Uploaded successfully", UploadResponse{ImageURL: url})
}

// formImage 读取 multipart 文件并检查大小上限；超限时不会触达存储
func formImage(c *gin.Context, field string, maxFileSize int64) (*multipart.FileHeader, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if isBodyTooLarge(err) {
			return nil, apperrors.ErrPayloadTooLarge.WithError(err)
		}
		return nil, apperrors.ErrMissingField.WithMessage(field + " is required").WithError(err)
	}
	if maxFileSize > 0 && header.Size > maxFileSize {
		return nil, apperrors.ErrPayloadTooLarge
	}
	return header, nil
}

func toStorageFile(src multipart.File, header *multipart.FileHeader) storage.File {
	return storage.File{
		Reader:      src,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	}
}
