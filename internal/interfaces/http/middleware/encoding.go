package middleware

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// EnsureUTF8Body 讨论主题和消息在 Windows 终端里经 curl 提交时常是 GBK
// 非 UTF-8 的请求体按 GBK 解码后替换，解码失败或结果仍非法时原样放行
// multipart 等二进制请求体不处理
func EnsureUTF8Body() gin.HandlerFunc {
	return func(c *gin.Context) {
		req := c.Request
		if req.Body == nil || req.ContentLength == 0 || binaryContent(req.Header.Get("Content-Type")) {
			c.Next()
			return
		}

		raw, err := io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			req.Body = io.NopCloser(bytes.NewReader(raw))
			c.Next()
			return
		}

		body := raw
		if !utf8.Valid(raw) {
			if decoded, ok := decodeGBK(raw); ok {
				body = decoded
			}
		}
		req.Body = io.NopCloser(bytes.NewReader(body))
		req.ContentLength = int64(len(body))
		c.Next()
	}
}

func binaryContent(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.HasPrefix(ct, "multipart/") || strings.HasPrefix(ct, "application/octet-stream")
}

func decodeGBK(raw []byte) ([]byte, bool) {
	out, err := io.ReadAll(transform.NewReader(bytes.NewReader(raw), simplifiedchinese.GBK.NewDecoder()))
	if err != nil || !utf8.Valid(out) {
		return nil, false
	}
	return out, true
}
