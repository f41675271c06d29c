package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/daehwan2da/sopt-aos-server/internal/domain"
	"github.com/daehwan2da/sopt-aos-server/internal/storage"
	"github.com/daehwan2da/sopt-aos-server/pkg/crypto"
)

// MockUserRepository 用户仓储Mock
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByNickname(ctx context.Context, nickname string) (*domain.User, error) {
	args := m.Called(ctx, nickname)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockMusicRepository 音乐仓储Mock
type MockMusicRepository struct {
	mock.Mock
}

func (m *MockMusicRepository) Create(ctx context.Context, music *domain.Music) error {
	args := m.Called(ctx, music)
	return args.Error(0)
}

func (m *MockMusicRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Music, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Music), args.Error(1)
}

// MockUploader 上传器Mock
type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) Upload(ctx context.Context, file storage.File) (string, error) {
	args := m.Called(ctx, file)
	return args.String(0), args.Error(1)
}

// fastHasher 测试用的低成本参数
func fastHasher() *crypto.PasswordHasher {
	return crypto.NewPasswordHasherWithParams(&crypto.Argon2Params{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
}
