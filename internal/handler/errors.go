package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/daehwan2da/sopt-aos-server/internal/domain"
	"github.com/daehwan2da/sopt-aos-server/internal/storage"
	apperrors "github.com/daehwan2da/sopt-aos-server/pkg/errors"
)

// handleError 统一把领域错误映射为信封和HTTP状态码
func handleError(c *gin.Context, err error) {
	appErr := toAppError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		// 交给日志中间件记录原始错误
		_ = c.Error(err)
	}
	Error(c, appErr.HTTPStatus, appErr.Message)
}

func toAppError(err error) *apperrors.Error {
	var appErr *apperrors.Error
	switch {
	case errors.As(err, &appErr):
		return appErr

	// 409 Conflict
	case errors.Is(err, domain.ErrNicknameTaken):
		return apperrors.ErrUserAlreadyExists

	// 400 Bad Request
	case errors.Is(err, domain.ErrUserNotFound):
		return apperrors.ErrUserNotFound
	case errors.Is(err, domain.ErrPasswordMismatch):
		return apperrors.ErrInvalidCredentials
	case errors.Is(err, domain.ErrInvalidNickname):
		return apperrors.ErrMissingField.WithMessage(msgIDRequired)
	case errors.Is(err, domain.ErrInvalidPassword):
		return apperrors.ErrMissingField.WithMessage(msgPasswordRequired)
	case errors.Is(err, domain.ErrInvalidName):
		return apperrors.ErrMissingField.WithMessage(msgNameRequired)
	case errors.Is(err, domain.ErrInvalidUserID):
		return apperrors.ErrMissingField.WithMessage(msgIDHeaderRequired)
	case errors.Is(err, domain.ErrInvalidTitle):
		return apperrors.ErrMissingField.WithMessage(msgTitleRequired)
	case errors.Is(err, domain.ErrInvalidSinger):
		return apperrors.ErrMissingField.WithMessage(msgSingerRequired)
	case isBodyTooLarge(err):
		return apperrors.ErrPayloadTooLarge

	// 500 Internal Server Error
	case errors.Is(err, storage.ErrUploadFailed):
		return apperrors.ErrUploadFailed
	default:
		return apperrors.ErrInternal
	}
}

// isBodyTooLarge 判断是否触发了 BodyLimit；multipart 解析可能丢失错误类型，因此兜底比较文本
func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}
