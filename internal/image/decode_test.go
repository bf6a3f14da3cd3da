package image

import (
	"bytes"
	"encoding/base64"
	stdimage "image"
	"image/color"
	"image/png"
	"testing"
)

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := stdimage.NewRGBA(stdimage.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecodeAndValidate(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString(testPNG(t))

	data, err := DecodeBase64(encoded)
	if err != nil {
		t.Fatal(err)
	}
	format, err := Validate(data)
	if err != nil {
		t.Fatal(err)
	}
	if format != "png" {
		t.Errorf("format = %q, want png", format)
	}
	if got := ContentType(format); got != "image/png" {
		t.Errorf("ContentType = %q, want image/png", got)
	}
}

func TestDecodeBase64Invalid(t *testing.T) {
	if _, err := DecodeBase64("not base64!"); err == nil {
		t.Error("expected error, got nil")
	}
}

func TestValidateRejectsNonImage(t *testing.T) {
	if _, err := Validate([]byte("hello, world")); err == nil {
		t.Error("expected error, got nil")
	}
}
