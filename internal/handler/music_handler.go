package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/daehwan2da/sopt-aos-server/internal/domain"
	"github.com/daehwan2da/sopt-aos-server/internal/storage"
	apperrors "github.com/daehwan2da/sopt-aos-server/pkg/errors"
	"github.com/daehwan2da/sopt-aos-server/pkg/logger"
)

const (
	// UserIDHeader 登记音乐时携带用户ID的请求头
	UserIDHeader = "id"

	msgIDHeaderRequired = "id header is required"
	msgTitleRequired    = "title is required"
	msgSingerRequired   = "singer is required"
)

// MusicService 音乐服务接口
type MusicService interface {
	FindMusic(ctx context.Context, userID string) ([]*domain.Music, error)
	RegisterMusic(ctx context.Context, userID, title, singer string, image storage.File) (*domain.Music, error)
}

// MusicHandler 音乐处理器
type MusicHandler struct {
	musicService MusicService
	maxFileSize  int64
}

// NewMusicHandler 创建音乐处理器
func NewMusicHandler(musicService MusicService, maxFileSize int64) *MusicHandler {
	return &MusicHandler{musicService: musicService, maxFileSize: maxFileSize}
}

// MusicResponse 单条音乐
type MusicResponse struct {
	Title  string `json:"title"`
	Singer string `json:"singer"`
	URL    string `json:"url"`
}

// MusicListResponse 音乐列表
type MusicListResponse struct {
	MusicList []MusicResponse `json:"musicList"`
}

func newMusicResponse(m *domain.Music) MusicResponse {
	return MusicResponse{Title: m.Title, Singer: m.Singer, URL: m.URL}
}

// RegisterMusic 登记音乐：header id，表单 title、singer，文件 image
func (h *MusicHandler) RegisterMusic(c *gin.Context) {
	userID := c.GetHeader(UserIDHeader)
	if domain.IsBlank(userID) {
		handleError(c, apperrors.ErrMissingField.WithMessage(msgIDHeaderRequired))
		return
	}

	// 先读取文件，multipart 超限错误在这里暴露
	header, err := formImage(c, "image", h.maxFileSize)
	if err != nil {
		handleError(c, err)
		return
	}

	title := c.PostForm("title")
	singer := c.PostForm("singer")
	switch {
	case domain.IsBlank(title):
		handleError(c, apperrors.ErrMissingField.WithMessage(msgTitleRequired))
		return
	case domain.IsBlank(singer):
		handleError(c, apperrors.ErrMissingField.WithMessage(msgSingerRequired))
		return
	}

	src, err := header.Open()
	if err != nil {
		handleError(c, err)
		return
	}
	defer src.Close()

	ctx := logger.WithUserID(c.Request.Context(), userID)
	music, err := h.musicService.RegisterMusic(ctx, userID, title, singer, toStorageFile(src, header))
	if err != nil {
		handleError(c, err)
		return
	}

	Success(c, "Music registered successfully", newMusicResponse(music))
}

// ListMusic 获取用户的音乐列表
func (h *MusicHandler) ListMusic(c *gin.Context) {
	list, err := h.musicService.FindMusic(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	resp := MusicListResponse{MusicList: make([]MusicResponse, 0, len(list))}
	for _, m := range list {
		resp.MusicList = append(resp.MusicList, newMusicResponse(m))
	}

	Success(c, "Music list retrieved", resp)
}
