package handler

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// TestReadiness 测试健康检查
func TestReadiness(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(newRequest(http.MethodGet, "/readiness"))

	assert.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.Equal(t, 200, env.Status)
	assert.NotEmpty(t, env.Message)
	assert.NotContains(t, w.Body.String(), `"data"`)
}

// TestSignUp_Success 测试注册成功以及重复注册
func TestSignUp_Success(t *testing.T) {
	s := newTestServer(t, nil)
	body := map[string]interface{}{"id": "abc", "password": "pw", "name": "Dae", "skill": "kotlin"}

	w := s.postJSON("/sign-up", body)
	assert.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.Equal(t, 200, env.Status)
	assert.Equal(t, map[string]interface{}{"name": "Dae", "skill": "kotlin"}, env.Data)

	w = s.postJSON("/sign-up", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	env = decode(t, w)
	assert.Equal(t, 409, env.Status)
	assert.Nil(t, env.Data)
}

// TestSignUp_WithoutSkill 测试不带 skill 时响应省略该字段
func TestSignUp_WithoutSkill(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.postJSON("/sign-up", map[string]string{"id": "abc", "password": "pw", "name": "Dae"})

	assert.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.Equal(t, map[string]interface{}{"name": "Dae"}, env.Data)
}

// TestSignUp_BlankFields 测试空白字段在调用服务前被拒绝
func TestSignUp_BlankFields(t *testing.T) {
	tests := []struct {
		name string
		body map[string]string
		msg  string
	}{
		{"blank id", map[string]string{"id": "  ", "password": "pw", "name": "Dae"}, msgIDRequired},
		{"blank password", map[string]string{"id": "abc", "password": "", "name": "Dae"}, msgPasswordRequired},
		{"blank name", map[string]string{"id": "abc", "password": "pw", "name": "\t"}, msgNameRequired},
		{"missing fields", map[string]string{}, msgIDRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockUserService)
			router := NewRouter(RouterConfig{UserService: mockService})

			s := &testServer{router: router}
			w := s.postJSON("/sign-up", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			env := decode(t, w)
			assert.Equal(t, 400, env.Status)
			assert.Equal(t, tt.msg, env.Message)
			mockService.AssertNotCalled(t, "SaveUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

// TestSignUp_MalformedBody 测试非法JSON
func TestSignUp_MalformedBody(t *testing.T) {
	s := newTestServer(t, nil)

	req := newRequest(http.MethodPost, "/sign-up")
	req.Body = http.NoBody
	req.Header.Set("Content-Type", "application/json")
	w := s.do(req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(jsonRequest("/sign-up", `{"id": "abc",`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestSignUp_ServiceError 测试未知错误返回500且不泄露细节
func TestSignUp_ServiceError(t *testing.T) {
	mockService := new(MockUserService)
	mockService.On("SaveUser", mock.Anything, "abc", "pw", "Dae", (*string)(nil)).
		Return(nil, errors.New("pq: connection refused"))

	s := &testServer{router: NewRouter(RouterConfig{UserService: mockService})}
	w := s.postJSON("/sign-up", map[string]string{"id": "abc", "password": "pw", "name": "Dae"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	env := decode(t, w)
	assert.Equal(t, 500, env.Status)
	assert.NotContains(t, env.Message, "connection refused")
	mockService.AssertExpectations(t)
}

// TestSignIn 测试登录
func TestSignIn(t *testing.T) {
	s := newTestServer(t, nil)
	s.postJSON("/sign-up", map[string]string{"id": "abc", "password": "pw", "name": "Dae", "skill": "kotlin"})

	t.Run("correct password", func(t *testing.T) {
		w := s.postJSON("/sign-in", map[string]string{"id": "abc", "password": "pw"})
		assert.Equal(t, http.StatusOK, w.Code)
		env := decode(t, w)
		assert.Equal(t, map[string]interface{}{"id": "abc", "name": "Dae", "skill": "kotlin"}, env.Data)
	})

	t.Run("wrong password", func(t *testing.T) {
		w := s.postJSON("/sign-in", map[string]string{"id": "abc", "password": "nope"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid id or password", decode(t, w).Message)
	})

	t.Run("unknown user shares the message", func(t *testing.T) {
		w := s.postJSON("/sign-in", map[string]string{"id": "ghost", "password": "pw"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid id or password", decode(t, w).Message)
	})

	t.Run("blank password", func(t *testing.T) {
		w := s.postJSON("/sign-in", map[string]string{"id": "abc", "password": " "})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, msgPasswordRequired, decode(t, w).Message)
	})
}

// TestSignIn_Throttled 测试登录限流
func TestSignIn_Throttled(t *testing.T) {
	mockLimiter := new(MockSignInLimiter)
	mockService := new(MockUserService)
	mockLimiter.On("Allow", mock.Anything, "abc").Return(false, nil)

	s := &testServer{router: NewRouter(RouterConfig{UserService: mockService, SignInLimiter: mockLimiter})}
	w := s.postJSON("/sign-in", map[string]string{"id": "abc", "password": "pw"})

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, 429, decode(t, w).Status)
	mockService.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
	mockLimiter.AssertExpectations(t)
}

// TestSignIn_LimiterFailsOpen 测试限流后端故障时放行
func TestSignIn_LimiterFailsOpen(t *testing.T) {
	mockLimiter := new(MockSignInLimiter)
	mockLimiter.On("Allow", mock.Anything, "abc").Return(false, errors.New("redis down"))

	s := newTestServer(t, mockLimiter)
	s.postJSON("/sign-up", map[string]string{"id": "abc", "password": "pw", "name": "Dae"})

	w := s.postJSON("/sign-in", map[string]string{"id": "abc", "password": "pw"})
	assert.Equal(t, http.StatusOK, w.Code)
}

// TestGetInfo 测试资料查询
func TestGetInfo(t *testing.T) {
	s := newTestServer(t, nil)
	s.postJSON("/sign-up", map[string]string{"id": "abc", "password": "pw", "name": "Dae"})

	w := s.do(newRequest(http.MethodGet, "/info/abc"))
	assert.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.Equal(t, map[string]interface{}{"id": "abc", "name": "Dae"}, env.Data)
	assert.NotContains(t, strings.ToLower(w.Body.String()), "password")

	w = s.do(newRequest(http.MethodGet, "/info/ghost"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User not found", decode(t, w).Message)
}

// TestNoRoute 测试未知路由
func TestNoRoute(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(newRequest(http.MethodGet, "/a/b/c"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 404, decode(t, w).Status)
}
