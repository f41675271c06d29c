package domain

import (
	"strings"
	"time"
)

// User 用户实体
type User struct {
	ID           int64     // 自增主键
	Nickname     string    // 登录ID（唯一），对外称为 "id"
	PasswordHash string    // argon2id 哈希
	Name         string    // 显示名
	Skill        *string   // 可选
	CreatedAt    time.Time // 创建时间
}

// NewUser 创建新用户（ID 由仓储分配）
func NewUser(nickname, passwordHash, name string, skill *string) *User {
	return &User{
		Nickname:     nickname,
		PasswordHash: passwordHash,
		Name:         name,
		Skill:        skill,
		CreatedAt:    time.Now(),
	}
}

// Validate 验证用户数据
func (u *User) Validate() error {
	if IsBlank(u.Nickname) {
		return ErrInvalidNickname
	}
	if u.PasswordHash == "" {
		return ErrInvalidPassword
	}
	if IsBlank(u.Name) {
		return ErrInvalidName
	}
	return nil
}

// IsBlank 判断字符串是否为空白
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
