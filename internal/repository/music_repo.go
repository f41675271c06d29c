package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/daehwan2da/sopt-aos-server/internal/domain"
)

// musicRepository PostgreSQL音乐仓储实现
type musicRepository struct {
	db *pgxpool.Pool
}

// NewMusicRepository 创建音乐仓储
func NewMusicRepository(db *pgxpool.Pool) MusicRepository {
	return &musicRepository{db: db}
}

// Create 创建音乐条目
func (r *musicRepository) Create(ctx context.Context, music *domain.Music) error {
	query := `
		INSERT INTO music (user_id, title, singer, url, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		music.UserID,
		music.Title,
		music.Singer,
		music.URL,
		music.CreatedAt,
	).Scan(&music.ID)
	if err != nil {
		return fmt.Errorf("insert music: %w", err)
	}
	return nil
}

// ListByUser 获取用户的音乐列表
func (r *musicRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Music, error) {
	query := `
		SELECT id, user_id, title, singer, url, created_at
		FROM music
		WHERE user_id = $1
		ORDER BY id ASC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("select music: %w", err)
	}
	defer rows.Close()

	list := make([]*domain.Music, 0)
	for rows.Next() {
		var music domain.Music
		if err := rows.Scan(
			&music.ID,
			&music.UserID,
			&music.Title,
			&music.Singer,
			&music.URL,
			&music.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan music: %w", err)
		}
		list = append(list, &music)
	}
	return list, rows.Err()
}
