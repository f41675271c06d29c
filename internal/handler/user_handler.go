package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/daehwan2da/sopt-aos-server/internal/domain"
	apperrors "github.com/daehwan2da/sopt-aos-server/pkg/errors"
	"github.com/daehwan2da/sopt-aos-server/pkg/logger"
)

const (
	msgIDRequired       = "id is required"
	msgPasswordRequired = "password is required"
	msgNameRequired     = "name is required"
)

// UserService 用户服务接口
type UserService interface {
	SaveUser(ctx context.Context, id, password, name string, skill *string) (*domain.User, error)
	Search(ctx context.Context, id, password string) (*domain.User, error)
}

// SignInLimiter 登录限流接口，nil 表示不限流
type SignInLimiter interface {
	Allow(ctx context.Context, nickname string) (bool, error)
}

// UserHandler 用户处理器
type UserHandler struct {
	userService UserService
	limiter     SignInLimiter
	log         logger.Logger
}

// NewUserHandler 创建用户处理器
func NewUserHandler(userService UserService, limiter SignInLimiter, log logger.Logger) *UserHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &UserHandler{
		userService: userService,
		limiter:     limiter,
		log:         log,
	}
}

// SignUpRequest 注册请求
type SignUpRequest struct {
	ID       string  `json:"id"`
	Password string  `json:"password"`
	Name     string  `json:"name"`
	Skill    *string `json:"skill"`
}

// SignUpResponse 注册响应
type SignUpResponse struct {
	Name  string  `json:"name"`
	Skill *string `json:"skill,omitempty"`
}

// SignInRequest 登录请求
type SignInRequest struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

// InfoResponse 用户资料
type InfoResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Skill *string `json:"skill,omitempty"`
}

func newInfoResponse(u *domain.User) InfoResponse {
	return InfoResponse{ID: u.Nickname, Name: u.Name, Skill: u.Skill}
}

// SignUp 注册
func (h *UserHandler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, apperrors.ErrInvalidRequest.WithError(err))
		return
	}

	// 必填字段校验，先于任何存储访问
	switch {
	case domain.IsBlank(req.ID):
		handleError(c, apperrors.ErrMissingField.WithMessage(msgIDRequired))
		return
	case domain.IsBlank(req.Password):
		handleError(c, apperrors.ErrMissingField.WithMessage(msgPasswordRequired))
		return
	case domain.IsBlank(req.Name):
		handleError(c, apperrors.ErrMissingField.WithMessage(msgNameRequired))
		return
	}

	user, err := h.userService.SaveUser(c.Request.Context(), req.ID, req.Password, req.Name, req.Skill)
	if err != nil {
		handleError(c, err)
		return
	}

	Success(c, "Signed up successfully", SignUpResponse{Name: user.Name, Skill: user.Skill})
}

// SignIn 登录；用户不存在与密码错误对客户端返回同一消息
func (h *UserHandler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, apperrors.ErrInvalidRequest.WithError(err))
		return
	}

	switch {
	case domain.IsBlank(req.ID):
		handleError(c, apperrors.ErrMissingField.WithMessage(msgIDRequired))
		return
	case domain.IsBlank(req.Password):
		handleError(c, apperrors.ErrMissingField.WithMessage(msgPasswordRequired))
		return
	}

	ctx := c.Request.Context()
	if h.limiter != nil {
		allowed, err := h.limiter.Allow(ctx, req.ID)
		switch {
		case err != nil:
			// 限流后端故障时放行
			h.log.WithContext(ctx).Warn("sign-in limiter unavailable", logger.Error(err))
		case !allowed:
			handleError(c, apperrors.ErrTooManyRequests)
			return
		}
	}

	user, err := h.userService.Search(ctx, req.ID, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrPasswordMismatch) {
			err = apperrors.ErrInvalidCredentials.WithError(err)
		}
		handleError(c, err)
		return
	}

	Success(c, "Signed in successfully", newInfoResponse(user))
}

// GetInfo 查询用户资料
func (h *UserHandler) GetInfo(c *gin.Context) {
	id := c.Param("id")
	if domain.IsBlank(id) {
		handleError(c, apperrors.ErrMissingField.WithMessage(msgIDRequired))
		return
	}

	user, err := h.userService.Search(c.Request.Context(), id, "")
	if err != nil {
		handleError(c, err)
		return
	}

	Success(c, "User info retrieved", newInfoResponse(user))
}
