package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/daehwan2da/sopt-aos-server/internal/domain"
	"github.com/daehwan2da/sopt-aos-server/internal/repository"
	"github.com/daehwan2da/sopt-aos-server/internal/service"
	"github.com/daehwan2da/sopt-aos-server/internal/storage"
	"github.com/daehwan2da/sopt-aos-server/pkg/crypto"
)

const (
	testMaxFileSize    = 100 * 1024
	testMaxRequestSize = 128 * 1024
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockUserService 用户服务Mock
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) SaveUser(ctx context.Context, id, password, name string, skill *string) (*domain.User, error) {
	args := m.Called(ctx, id, password, name, skill)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) Search(ctx context.Context, id, password string) (*domain.User, error) {
	args := m.Called(ctx, id, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockSignInLimiter 登录限流Mock
type MockSignInLimiter struct {
	mock.Mock
}

func (m *MockSignInLimiter) Allow(ctx context.Context, nickname string) (bool, error) {
	args := m.Called(ctx, nickname)
	return args.Bool(0), args.Error(1)
}

// fakeUploader 记录上传内容，按 S3 虚拟主机格式返回地址
type fakeUploader struct {
	mu     sync.Mutex
	err    error
	calls  int
	bodies [][]byte
}

func (f *fakeUploader) Upload(ctx context.Context, file storage.File) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	data, err := io.ReadAll(file.Reader)
	if err != nil {
		return "", err
	}
	f.bodies = append(f.bodies, data)
	return fmt.Sprintf("https://my-daehwan-bucket.s3.ap-northeast-2.amazonaws.com/%s", uuid.NewString()), nil
}

func (f *fakeUploader) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type testServer struct {
	router   *gin.Engine
	uploader *fakeUploader
}

// newTestServer 使用内存存储和真实服务组装路由
func newTestServer(t *testing.T, limiter SignInLimiter) *testServer {
	t.Helper()

	store := repository.NewMemoryStore()
	hasher := crypto.NewPasswordHasherWithParams(&crypto.Argon2Params{
		Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32,
	})
	uploader := &fakeUploader{}

	router := NewRouter(RouterConfig{
		UserService:    service.NewUserService(store.Users(), hasher, nil),
		MusicService:   service.NewMusicService(store.Music(), uploader, nil),
		ImageService:   service.NewImageService(uploader),
		SignInLimiter:  limiter,
		MaxFileSize:    testMaxFileSize,
		MaxRequestSize: testMaxRequestSize,
	})
	return &testServer{router: router, uploader: uploader}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) postJSON(path string, body interface{}) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return s.do(req)
}

// envelope 解析后的响应
type envelope struct {
	Status  int                    `json:"status"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

// multipartRequest 构造 multipart 请求；fileField 为空时不附带文件
func multipartRequest(t *testing.T, path, fileField string, file []byte, fields map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileField != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="cover.png"`, fileField))
		h.Set("Content-Type", "image/png")
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func newRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

func jsonRequest(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}
