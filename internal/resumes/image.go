package resumes

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

const maxImageBytes = 5 << 20 // 5MB

// EncodeImage converts uploaded image bytes into an embedded data URL.
// The content type is sniffed from the bytes; the declared type is only a
// fallback when sniffing is inconclusive. A failure here never leaves a
// partially written image value: the caller stores the result only on nil
// error.
func EncodeImage(data []byte, declaredType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty image upload", ErrInvalidInput)
	}
	if len(data) > maxImageBytes {
		return "", fmt.Errorf("%w: image exceeds %d bytes", ErrInvalidInput, maxImageBytes)
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		if !strings.HasPrefix(declaredType, "image/") {
			return "", fmt.Errorf("%w: not an image (%s)", ErrInvalidInput, contentType)
		}
		contentType = declaredType
	}

	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
