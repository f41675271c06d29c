package domain

import "time"

// Music 用户登记的音乐
type Music struct {
	ID        int64     // 自增主键
	UserID    string    // 所属用户的 nickname（按值引用，无外键）
	Title     string    // 标题
	Singer    string    // 歌手
	URL       string    // 封面图片地址
	CreatedAt time.Time // 创建时间
}

// NewMusic 创建音乐条目
func NewMusic(userID, title, singer, url string) *Music {
	return &Music{
		UserID:    userID,
		Title:     title,
		Singer:    singer,
		URL:       url,
		CreatedAt: time.Now(),
	}
}

// Validate 验证非空字段
func (m *Music) Validate() error {
	if IsBlank(m.UserID) {
		return ErrInvalidUserID
	}
	if IsBlank(m.Title) {
		return ErrInvalidTitle
	}
	if IsBlank(m.Singer) {
		return ErrInvalidSinger
	}
	if IsBlank(m.URL) {
		return ErrInvalidURL
	}
	return nil
}
