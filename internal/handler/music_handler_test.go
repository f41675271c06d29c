package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daehwan2da/sopt-aos-server/internal/middleware"
	"github.com/daehwan2da/sopt-aos-server/internal/storage"
)

const bucketURLPrefix = "https://my-daehwan-bucket.s3.ap-northeast-2.amazonaws.com/"

// TestUpload_Success 测试独立上传
func TestUpload_Success(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(multipartRequest(t, "/upload", "file", []byte("png-bytes"), nil))

	assert.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	url, _ := env.Data["imageUrl"].(string)
	assert.True(t, strings.HasPrefix(url, bucketURLPrefix), url)
	assert.Equal(t, 1, s.uploader.Calls())
	assert.Equal(t, []byte("png-bytes"), s.uploader.bodies[0])
}

// TestUpload_OverFileSize 测试超过单文件上限时返回400且不写存储
func TestUpload_OverFileSize(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(multipartRequest(t, "/upload", "file", bytes.Repeat([]byte{1}, testMaxFileSize+1), nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Image must be 100 KB or smaller", decode(t, w).Message)
	assert.Equal(t, 0, s.uploader.Calls())
}

// TestUpload_OverRequestSize 测试请求体超过上限
func TestUpload_OverRequestSize(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(multipartRequest(t, "/upload", "file", bytes.Repeat([]byte{1}, testMaxRequestSize+1), nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, s.uploader.Calls())
}

// TestUpload_AtFileSizeLimit 测试正好等于上限时允许
func TestUpload_AtFileSizeLimit(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(multipartRequest(t, "/upload", "file", bytes.Repeat([]byte{1}, testMaxFileSize), nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, s.uploader.Calls())
}

// TestUpload_MissingFile 测试缺少文件
func TestUpload_MissingFile(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(multipartRequest(t, "/upload", "", nil, map[string]string{"other": "x"}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "file is required", decode(t, w).Message)
}

// TestUpload_ProviderFailure 测试存储失败返回500
func TestUpload_ProviderFailure(t *testing.T) {
	s := newTestServer(t, nil)
	s.uploader.err = fmt.Errorf("%w: access denied", storage.ErrUploadFailed)

	w := s.do(multipartRequest(t, "/upload", "file", []byte("x"), nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	env := decode(t, w)
	assert.Equal(t, 500, env.Status)
	assert.NotContains(t, env.Message, "access denied")
}

// TestRegisterMusic_Success 测试登记音乐
func TestRegisterMusic_Success(t *testing.T) {
	s := newTestServer(t, nil)

	req := multipartRequest(t, "/music", "image", []byte("cover"), map[string]string{
		"title":  "Hype Boy",
		"singer": "NewJeans",
	})
	req.Header.Set(UserIDHeader, "abc")
	w := s.do(req)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.Equal(t, "Hype Boy", env.Data["title"])
	assert.Equal(t, "NewJeans", env.Data["singer"])
	url, _ := env.Data["url"].(string)
	assert.True(t, strings.HasPrefix(url, bucketURLPrefix))
}

// TestRegisterMusic_Validation 测试必填项缺失时不上传
func TestRegisterMusic_Validation(t *testing.T) {
	tests := []struct {
		name   string
		userID string
		fields map[string]string
		file   bool
		msg    string
	}{
		{"missing id header", "", map[string]string{"title": "t", "singer": "s"}, true, msgIDHeaderRequired},
		{"blank title", "abc", map[string]string{"title": " ", "singer": "s"}, true, msgTitleRequired},
		{"missing singer", "abc", map[string]string{"title": "t"}, true, msgSingerRequired},
		{"missing image", "abc", map[string]string{"title": "t", "singer": "s"}, false, "image is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, nil)

			field := ""
			if tt.file {
				field = "image"
			}
			req := multipartRequest(t, "/music", field, []byte("cover"), tt.fields)
			if tt.userID != "" {
				req.Header.Set(UserIDHeader, tt.userID)
			}
			w := s.do(req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.msg, decode(t, w).Message)
			assert.Equal(t, 0, s.uploader.Calls())
		})
	}
}

// TestRegisterMusic_OverFileSize 测试封面超限
func TestRegisterMusic_OverFileSize(t *testing.T) {
	s := newTestServer(t, nil)

	req := multipartRequest(t, "/music", "image", bytes.Repeat([]byte{1}, testMaxFileSize+1),
		map[string]string{"title": "t", "singer": "s"})
	req.Header.Set(UserIDHeader, "abc")
	w := s.do(req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, s.uploader.Calls())

	list := decode(t, s.do(newRequest(http.MethodGet, "/abc/music")))
	assert.Empty(t, list.Data["musicList"])
}

// TestListMusic 测试登记N条后列出N条，无记录时返回空列表
func TestListMusic(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(newRequest(http.MethodGet, "/abc/music"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"musicList":[]`)

	const n = 3
	for i := 0; i < n; i++ {
		req := multipartRequest(t, "/music", "image", []byte("cover"), map[string]string{
			"title":  fmt.Sprintf("title-%d", i),
			"singer": "singer",
		})
		req.Header.Set(UserIDHeader, "abc")
		require.Equal(t, http.StatusOK, s.do(req).Code)
	}

	env := decode(t, s.do(newRequest(http.MethodGet, "/abc/music")))
	list, ok := env.Data["musicList"].([]interface{})
	require.True(t, ok)
	assert.Len(t, list, n)

	first := list[0].(map[string]interface{})
	assert.Contains(t, first, "title")
	assert.Contains(t, first, "singer")
	assert.Contains(t, first, "url")

	other := decode(t, s.do(newRequest(http.MethodGet, "/other/music")))
	assert.Empty(t, other.Data["musicList"])
}

// TestRouter_Metrics 测试 /metrics 注册
func TestRouter_Metrics(t *testing.T) {
	s := &testServer{router: NewRouter(RouterConfig{Metrics: middleware.NewMetrics("sopt_test")})}

	s.do(newRequest(http.MethodGet, "/readiness"))
	w := s.do(newRequest(http.MethodGet, "/metrics"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `sopt_test_http_requests_total{method="GET",route="/readiness",status="200"} 1`)
}
