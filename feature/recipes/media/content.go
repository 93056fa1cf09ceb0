package media

import (
	"encoding/base64"
	"net/http"
	"strings"

	rerrors "recipe-manager/core/errors"
)

// DecodeContent accepts a base64 data-url or a raw base64 string.
func DecodeContent(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		comma := strings.IndexByte(s, ',')
		if comma < 0 || !strings.HasSuffix(s[:comma], ";base64") {
			return nil, rerrors.New(rerrors.ErrCodeInvalidRequest, "media content is not a base64 data url")
		}
		s = s[comma+1:]
	}

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, rerrors.Wrap(rerrors.ErrCodeInvalidRequest, "media content is not valid base64", err)
	}
	return data, nil
}

// EncodeDataURL renders data as data:<mime>;base64,<payload>.
func EncodeDataURL(data []byte) string {
	return "data:" + http.DetectContentType(data) + ";base64," + base64.StdEncoding.EncodeToString(data)
}
