package image

import (
	"bytes"
	"encoding/base64"
	"fmt"
	stdimage "image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

func DecodeBase64(s string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decoding base64 image: %w", err)
	}
	return data, nil
}

// Validate reports the image format of data, or an error if data is not an image.
func Validate(data []byte) (string, error) {
	cfg, format, err := stdimage.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("invalid image: %w", err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return "", fmt.Errorf("invalid image: empty %s", format)
	}
	return format, nil
}

func ContentType(format string) string {
	return "image/" + format
}
