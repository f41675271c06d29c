package service

import (
	"context"

	"github.com/daehwan2da/sopt-aos-server/internal/domain"
	"github.com/daehwan2da/sopt-aos-server/internal/repository"
	"github.com/daehwan2da/sopt-aos-server/internal/storage"
	"github.com/daehwan2da/sopt-aos-server/pkg/logger"
)

// MusicService 音乐服务
type MusicService struct {
	musicRepo repository.MusicRepository
	uploader  storage.Uploader
	log       logger.Logger
}

// NewMusicService 创建音乐服务
func NewMusicService(musicRepo repository.MusicRepository, uploader storage.Uploader, log logger.Logger) *MusicService {
	if log == nil {
		log = logger.Nop()
	}
	return &MusicService{
		musicRepo: musicRepo,
		uploader:  uploader,
		log:       log.WithFields(logger.String("component", "music_service")),
	}
}

// SaveMusic 保存一条音乐记录
func (s *MusicService) SaveMusic(ctx context.Context, title, singer, url, userID string) (*domain.Music, error) {
	music := domain.NewMusic(userID, title, singer, url)
	if err := music.Validate(); err != nil {
		return nil, err
	}

	if err := s.musicRepo.Create(ctx, music); err != nil {
		return nil, err
	}
	return music, nil
}

// FindMusic 获取用户登记的全部音乐，没有时返回空切片
func (s *MusicService) FindMusic(ctx context.Context, userID string) ([]*domain.Music, error) {
	list, err := s.musicRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*domain.Music{}
	}
	return list, nil
}

// RegisterMusic 先上传封面再保存记录；保存失败时已上传的对象不会被删除
func (s *MusicService) RegisterMusic(ctx context.Context, userID, title, singer string, image storage.File) (*domain.Music, error) {
	// 上传前先校验字段，避免产生无主对象
	switch {
	case domain.IsBlank(userID):
		return nil, domain.ErrInvalidUserID
	case domain.IsBlank(title):
		return nil, domain.ErrInvalidTitle
	case domain.IsBlank(singer):
		return nil, domain.ErrInvalidSinger
	}

	url, err := s.uploader.Upload(ctx, image)
	if err != nil {
		return nil, err
	}

	music, err := s.SaveMusic(ctx, title, singer, url, userID)
	if err != nil {
		s.log.WithContext(ctx).Warn("music save failed after upload",
			logger.String("url", url),
			logger.Error(err),
		)
		return nil, err
	}
	return music, nil
}
