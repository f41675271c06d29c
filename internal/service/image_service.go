package service

import (
	"context"

	"github.com/daehwan2da/sopt-aos-server/internal/storage"
)

// ImageService 独立图片上传
type ImageService struct {
	uploader storage.Uploader
}

// NewImageService 创建图片服务
func NewImageService(uploader storage.Uploader) *ImageService {
	return &ImageService{uploader: uploader}
}

// Upload 上传图片并返回公开地址
func (s *ImageService) Upload(ctx context.Context, image storage.File) (string, error) {
	return s.uploader.Upload(ctx, image)
}
