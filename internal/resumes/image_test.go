package resumes

import (
	"bytes"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func TestEncodeImageRoundTrip(t *testing.T) {
	url, err := EncodeImage(pngHeader, "")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Fatalf("url prefix = %q", url[:min(len(url), 30)])
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, "data:image/png;base64,"))
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if !bytes.Equal(decoded, pngHeader) {
		t.Fatal("payload does not round-trip")
	}
}

func TestEncodeImageRejectsNonImage(t *testing.T) {
	_, err := EncodeImage([]byte("plain text, definitely not pixels"), "text/plain")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestEncodeImageDeclaredTypeFallback(t *testing.T) {
	// bytes that sniff as octet-stream but arrive with an image content type
	data := []byte{0x00, 0x01, 0x02, 0x03}
	url, err := EncodeImage(data, "image/webp")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.HasPrefix(url, "data:image/webp;base64,") {
		t.Fatalf("url prefix = %q", url)
	}
}

func TestEncodeImageRejectsOversize(t *testing.T) {
	data := append(append([]byte{}, pngHeader...), make([]byte, maxImageBytes)...)
	_, err := EncodeImage(data, "image/png")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestEncodeImageRejectsEmpty(t *testing.T) {
	_, err := EncodeImage(nil, "image/png")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}
