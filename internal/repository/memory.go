package repository

import (
	"context"
	"sync"

	"github.com/daehwan2da/sopt-aos-server/internal/domain"
)

// MemoryStore 进程内存储，重启即清空。并发安全，nickname 唯一性在写锁内保证。
type MemoryStore struct {
	mu          sync.RWMutex
	nextUserID  int64
	nextMusicID int64
	users       map[string]domain.User
	music       map[string][]domain.Music
}

var _ UserRepository = memoryUsers{}
var _ MusicRepository = memoryMusic{}

// NewMemoryStore 创建空的内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextUserID:  1,
		nextMusicID: 1,
		users:       make(map[string]domain.User),
		music:       make(map[string][]domain.Music),
	}
}

// Users 返回用户仓储视图
func (s *MemoryStore) Users() UserRepository {
	return memoryUsers{s}
}

// Music 返回音乐仓储视图
func (s *MemoryStore) Music() MusicRepository {
	return memoryMusic{s}
}

type memoryUsers struct{ s *MemoryStore }

func (m memoryUsers) Create(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.Nickname]; exists {
		return domain.ErrNicknameTaken
	}

	user.ID = s.nextUserID
	s.nextUserID++
	s.users[user.Nickname] = *user
	return nil
}

func (m memoryUsers) GetByNickname(ctx context.Context, nickname string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := m.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[nickname]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

type memoryMusic struct{ s *MemoryStore }

func (m memoryMusic) Create(ctx context.Context, music *domain.Music) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()

	music.ID = s.nextMusicID
	s.nextMusicID++
	s.music[music.UserID] = append(s.music[music.UserID], *music)
	return nil
}

func (m memoryMusic) ListByUser(ctx context.Context, userID string) ([]*domain.Music, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := m.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.music[userID]
	list := make([]*domain.Music, 0, len(rows))
	for i := range rows {
		row := rows[i]
		list = append(list, &row)
	}
	return list, nil
}
