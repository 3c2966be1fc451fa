package catalog

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/iudanet/shopfront/internal/validation"
)

// ImageDataURI validates raw image bytes and encodes them as a data URI
func ImageDataURI(data []byte) (string, error) {
	contentType := http.DetectContentType(data)
	if err := validation.ValidateImage(contentType, len(data)); err != nil {
		return "", err
	}
	return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data)), nil
}

// LoadImage reads an image file and returns its data URI and base name
func LoadImage(path string) (uri, name string, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to stat image: %w", err)
	}
	// Проверяем размер до чтения файла в память
	if info.Size() > validation.MaxImageSize {
		return "", "", validation.ValidateImage("image/png", int(info.Size()))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read image: %w", err)
	}

	uri, err = ImageDataURI(data)
	if err != nil {
		return "", "", err
	}
	return uri, filepath.Base(path), nil
}
