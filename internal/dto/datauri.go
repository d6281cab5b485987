package dto

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const (
	// DefaultImageContentType 未声明MIME类型时的默认值
	DefaultImageContentType = "image/jpeg"

	dataURIPrefix    = "data:"
	dataURISeparator = ";base64,"
)

// ErrInvalidImagePayload 图片载荷不是合法的 base64 / data URI
var ErrInvalidImagePayload = errors.New("invalid image payload")

// EncodeDataURI 将二进制图片编码为 data URI
//
// 输出形如 data:image/png;base64,xxxx，可直接内嵌到JSON响应。
func EncodeDataURI(data []byte, contentType string) string {
	if contentType == "" {
		contentType = DefaultImageContentType
	}
	return dataURIPrefix + contentType + dataURISeparator + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURI 解析入站图片载荷为二进制数据和MIME类型
//
// 兼容两种格式：
//   - data:<mime>;base64,<payload>
//   - 裸base64（MIME类型按 image/jpeg 处理）
func DecodeDataURI(s string) ([]byte, string, error) {
	contentType := DefaultImageContentType
	payload := s

	if strings.HasPrefix(s, dataURIPrefix) {
		rest := strings.TrimPrefix(s, dataURIPrefix)
		idx := strings.Index(rest, dataURISeparator)
		if idx < 0 {
			return nil, "", ErrInvalidImagePayload
		}
		if mime := rest[:idx]; mime != "" {
			contentType = mime
		}
		payload = rest[idx+len(dataURISeparator):]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidImagePayload, err)
	}
	return data, contentType, nil
}
