package domain

import "errors"

// User 相关错误
var (
	ErrInvalidNickname  = errors.New("invalid nickname")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrInvalidName      = errors.New("invalid name")
	ErrUserNotFound     = errors.New("user not found")
	ErrPasswordMismatch = errors.New("password mismatch")
	ErrNicknameTaken    = errors.New("nickname already exists")
)

// Music 相关错误
var (
	ErrInvalidUserID = errors.New("invalid user id")
	ErrInvalidTitle  = errors.New("invalid title")
	ErrInvalidSinger = errors.New("invalid singer")
	ErrInvalidURL    = errors.New("invalid url")
)
