package service

import (
	"context"
	"fmt"

	"github.com/daehwan2da/sopt-aos-server/internal/domain"
	"github.com/daehwan2da/sopt-aos-server/internal/repository"
	"github.com/daehwan2da/sopt-aos-server/pkg/crypto"
	"github.com/daehwan2da/sopt-aos-server/pkg/logger"
)

// UserService 用户服务：注册、登录校验、资料查询
type UserService struct {
	userRepo repository.UserRepository
	hasher   *crypto.PasswordHasher
	log      logger.Logger
}

// NewUserService 创建用户服务
func NewUserService(userRepo repository.UserRepository, hasher *crypto.PasswordHasher, log logger.Logger) *UserService {
	if hasher == nil {
		hasher = crypto.NewPasswordHasher()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &UserService{
		userRepo: userRepo,
		hasher:   hasher,
		log:      log.WithFields(logger.String("component", "user_service")),
	}
}

// SaveUser 注册新用户；昵称重复返回 domain.ErrNicknameTaken
func (s *UserService) SaveUser(ctx context.Context, id, password, name string, skill *string) (*domain.User, error) {
	if domain.IsBlank(password) {
		return nil, domain.ErrInvalidPassword
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := domain.NewUser(id, hash, name, skill)
	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.WithContext(ctx).Info("user signed up",
		logger.String("nickname", user.Nickname),
		logger.Int64("user_id", user.ID),
	)
	return user, nil
}

// Search 按昵称查找用户；password 非空时校验密码
func (s *UserService) Search(ctx context.Context, id, password string) (*domain.User, error) {
	if domain.IsBlank(id) {
		return nil, domain.ErrInvalidNickname
	}

	user, err := s.userRepo.GetByNickname(ctx, id)
	if err != nil {
		return nil, err
	}

	if domain.IsBlank(password) {
		return user, nil
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		s.log.WithContext(ctx).Debug("password mismatch", logger.String("nickname", id))
		return nil, domain.ErrPasswordMismatch
	}

	return user, nil
}
