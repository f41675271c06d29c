package repository

import (
	"context"

	"github.com/daehwan2da/sopt-aos-server/internal/domain"
)

// UserRepository 用户仓储接口
type UserRepository interface {
	// Create 创建用户并回填 ID；nickname 重复时返回 domain.ErrNicknameTaken
	Create(ctx context.Context, user *domain.User) error
	// GetByNickname 根据 nickname 获取用户；不存在时返回 domain.ErrUserNotFound
	GetByNickname(ctx context.Context, nickname string) (*domain.User, error)
}

// MusicRepository 音乐仓储接口
type MusicRepository interface {
	// Create 创建音乐条目并回填 ID
	Create(ctx context.Context, music *domain.Music) error
	// ListByUser 获取用户的全部音乐，没有时返回空切片
	ListByUser(ctx context.Context, userID string) ([]*domain.Music, error)
}
