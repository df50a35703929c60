package model

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// MaxImageSize bounds attachments read from disk.
const MaxImageSize = 20 << 20

var ErrNotImage = errors.New("file is not a supported image")

// Image is an attachment picked by the user.
type Image struct {
	Name     string
	Data     []byte
	MIMEType string
}

// LoadImage reads path and sniffs its content type.
func LoadImage(path string) (*Image, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat image: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s: %w", path, ErrNotImage)
	}
	if info.Size() > MaxImageSize {
		return nil, fmt.Errorf("image %s is %d bytes, limit is %d", filepath.Base(path), info.Size(), MaxImageSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	return NewImage(filepath.Base(path), data)
}

// NewImage wraps raw bytes, rejecting anything that does not sniff as an image.
func NewImage(name string, data []byte) (*Image, error) {
	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("%s (%s): %w", name, mimeType, ErrNotImage)
	}
	return &Image{Name: name, Data: data, MIMEType: mimeType}, nil
}

// Base64 returns the standard base64 encoding of the image bytes.
func (img *Image) Base64() string {
	return base64.StdEncoding.EncodeToString(img.Data)
}

// DataURL returns the image as a data: URL.
func (img *Image) DataURL() string {
	return "data:" + img.MIMEType + ";base64," + img.Base64()
}
