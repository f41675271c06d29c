package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/daehwan2da/sopt-aos-server/internal/domain"
)

// userRepository PostgreSQL用户仓储实现
type userRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository 创建用户仓储
func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &userRepository{db: db}
}

// Create 创建用户
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (nickname, password_hash, name, skill, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		user.Nickname,
		user.PasswordHash,
		user.Name,
		user.Skill,
		user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrNicknameTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByNickname 根据 nickname 获取用户
func (r *userRepository) GetByNickname(ctx context.Context, nickname string) (*domain.User, error) {
	query := `SELECT id, nickname, password_hash, name, skill, created_at FROM users WHERE nickname = $1`

	var user domain.User
	err := r.db.QueryRow(ctx, query, nickname).Scan(
		&user.ID,
		&user.Nickname,
		&user.PasswordHash,
		&user.Name,
		&user.Skill,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	return &user, nil
}
