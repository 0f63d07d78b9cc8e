package server

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func gzipBytes(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	_, err := gw.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	return buf.Bytes()
}

func TestGzipRequestDecompress(t *testing.T) {
	router := gin.New()
	router.Use(GzipRequestDecompress())
	router.POST("/test", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"body": string(body)})
	})

	tests := []struct {
		name            string
		body            []byte
		contentEncoding string
		want            struct {
			statusCode int
			body       string
		}
	}{
		{
			name: "uncompressed request",
			body: []byte("Hello, World!"),
			want: struct {
				statusCode int
				body       string
			}{statusCode: http.StatusOK, body: "Hello, World!"},
		},
		{
			name:            "gzip compressed request",
			body:            gzipBytes(t, "Hello, World!"),
			contentEncoding: "gzip",
			want: struct {
				statusCode int
				body       string
			}{statusCode: http.StatusOK, body: "Hello, World!"},
		},
		{
			name:            "invalid gzip request",
			body:            []byte("not gzip at all"),
			contentEncoding: "gzip",
			want: struct {
				statusCode int
				body       string
			}{statusCode: http.StatusBadRequest},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewReader(tt.body))
			if tt.contentEncoding != "" {
				req.Header.Set("Content-Encoding", tt.contentEncoding)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.want.statusCode, rec.Code)
			if tt.want.body != "" {
				assert.Contains(t, rec.Body.String(), tt.want.body)
			}
		})
	}
}

func TestGzipResponseCompress(t *testing.T) {
	large := strings.Repeat("x", 4*minCompressSize)
	router := gin.New()
	router.Use(GzipResponseCompress())
	router.GET("/small", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"v": "small"}) })
	router.GET("/large", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"v": large}) })
	router.GET("/binary", func(c *gin.Context) { c.Data(http.StatusOK, "application/octet-stream", []byte(large)) })

	tests := []struct {
		name           string
		path           string
		acceptEncoding string
		want           struct {
			gzipped bool
		}
	}{
		{name: "large json with gzip accepted", path: "/large", acceptEncoding: "gzip, deflate", want: struct{ gzipped bool }{gzipped: true}},
		{name: "large json without gzip accepted", path: "/large"},
		{name: "small json stays plain", path: "/small", acceptEncoding: "gzip"},
		{name: "binary stays plain", path: "/binary", acceptEncoding: "gzip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			if !tt.want.gzipped {
				assert.Empty(t, rec.Header().Get("Content-Encoding"))
				return
			}
			assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
			assert.Contains(t, rec.Header().Get("Vary"), "Accept-Encoding")
			gr, err := gzip.NewReader(rec.Body)
			require.NoError(t, err)
			body, err := io.ReadAll(gr)
			require.NoError(t, err)
			assert.Contains(t, string(body), large)
		})
	}
}

func TestGzipResponseCompressSmallBodyIsComplete(t *testing.T) {
	router := gin.New()
	router.Use(GzipResponseCompress())
	router.GET("/small", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"v": "small"}) })

	req := httptest.NewRequest(http.MethodGet, "/small", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.JSONEq(t, `{"v":"small"}`, rec.Body.String())
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	router := gin.New()
	router.Use(RequestLogger(zap.New(core)))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, path := range []string{"/ok", "/boom"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "/ok", entries[0].ContextMap()["path"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.EqualValues(t, http.StatusInternalServerError, entries[1].ContextMap()["status"])
}
