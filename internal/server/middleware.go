package server

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"problemtracker/internal/domain/errors"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"
)

// RequestLogger writes one structured entry per request.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		fields := []zap.Field{
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.Request.URL.Path),
			zap.Int("status", ctx.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(ctx.Errors) > 0 {
			fields = append(fields, zap.String("errors", ctx.Errors.String()))
		}
		switch {
		case ctx.Writer.Status() >= http.StatusInternalServerError:
			log.Error("request", fields...)
		case ctx.Writer.Status() >= http.StatusBadRequest:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

type gzipBody struct {
	io.Reader
	gz   io.Closer
	body io.Closer
}

func (b *gzipBody) Close() error {
	gzErr := b.gz.Close()
	if err := b.body.Close(); err != nil {
		return err
	}
	return gzErr
}

// GzipRequestDecompress inflates request bodies sent with Content-Encoding: gzip.
func GzipRequestDecompress() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !strings.Contains(strings.ToLower(ctx.GetHeader("Content-Encoding")), "gzip") {
			ctx.Next()
			return
		}
		gr, err := gzip.NewReader(ctx.Request.Body)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": errors.ErrInvalidGzipRequest.Error()})
			return
		}
		ctx.Request.Body = &gzipBody{Reader: gr, gz: gr, body: ctx.Request.Body}
		ctx.Request.Header.Del("Content-Encoding")
		ctx.Request.Header.Del("Content-Length")
		ctx.Request.ContentLength = -1
		ctx.Next()
	}
}

// Bodies shorter than this go out uncompressed.
const minCompressSize = 1024

var compressibleTypes = []string{
	"application/json",
	"application/javascript",
	"text/html",
	"text/css",
	"text/plain",
}

// gzipWriter buffers up to minCompressSize bytes before deciding whether to compress.
type gzipWriter struct {
	gin.ResponseWriter
	gw  *gzip.Writer
	buf bytes.Buffer
}

func (w *gzipWriter) Write(data []byte) (int, error) {
	if w.gw != nil {
		if _, err := w.gw.Write(data); err != nil {
			return 0, errors.ErrGzipCompressionFailed
		}
		return len(data), nil
	}
	w.buf.Write(data)
	if w.buf.Len() >= minCompressSize && w.compressible() {
		w.startGzip()
		if _, err := w.gw.Write(w.buf.Bytes()); err != nil {
			return 0, errors.ErrGzipCompressionFailed
		}
		w.buf.Reset()
	}
	return len(data), nil
}

func (w *gzipWriter) WriteString(s string) (int, error) { return w.Write([]byte(s)) }

func (w *gzipWriter) compressible() bool {
	if w.Header().Get("Content-Encoding") != "" {
		return false
	}
	switch w.ResponseWriter.Status() {
	case http.StatusNoContent, http.StatusNotModified, http.StatusPartialContent:
		return false
	}
	ct := strings.ToLower(w.Header().Get("Content-Type"))
	for _, prefix := range compressibleTypes {
		if strings.HasPrefix(ct, prefix) {
			return true
		}
	}
	return false
}

func (w *gzipWriter) startGzip() {
	w.Header().Del("Content-Length")
	w.Header().Set("Content-Encoding", "gzip")
	w.gw = gzip.NewWriter(w.ResponseWriter)
}

func (w *gzipWriter) Flush() {
	if w.gw != nil {
		_ = w.gw.Flush()
	} else if w.buf.Len() > 0 {
		_, _ = w.ResponseWriter.Write(w.buf.Bytes())
		w.buf.Reset()
	}
	w.ResponseWriter.Flush()
}

func (w *gzipWriter) finish() error {
	if w.gw != nil {
		return w.gw.Close()
	}
	if w.buf.Len() > 0 {
		_, err := w.ResponseWriter.Write(w.buf.Bytes())
		w.buf.Reset()
		return err
	}
	return nil
}

// GzipResponseCompress compresses large textual responses for clients that accept gzip.
func GzipResponseCompress() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.Request.Method == http.MethodHead ||
			!strings.Contains(strings.ToLower(ctx.GetHeader("Accept-Encoding")), "gzip") {
			ctx.Next()
			return
		}

		addVary(ctx.Writer.Header())
		gw := &gzipWriter{ResponseWriter: ctx.Writer}
		ctx.Writer = gw
		ctx.Next()

		if err := gw.finish(); err != nil {
			_ = ctx.Error(errors.ErrGzipCompressionFailed)
		}
	}
}

func addVary(h http.Header) {
	vary := h.Get("Vary")
	switch {
	case vary == "":
		h.Set("Vary", "Accept-Encoding")
	case !strings.Contains(vary, "Accept-Encoding"):
		h.Set("Vary", vary+", Accept-Encoding")
	}
}
