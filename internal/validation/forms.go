package validation

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
)

// Сообщения, которые показываются пользователю как есть
const (
	MsgRequiredFields = "Please fill all required fields"
	MsgInvalidPrice   = "Please enter a valid price"
	MsgInvalidName    = "Invalid Name"
	MsgInvalidEmail   = "Invalid email"
	MsgInvalidImage   = "Please upload a valid image (PNG, JPEG, JPG)"
	MsgImageTooLarge  = "Image size should be less than 2MB"
)

// MaxImageSize максимальный размер изображения товара
const MaxImageSize = 2 * 1024 * 1024

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("validation failed")

// Error carries a user-facing message
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap allows errors.Is(err, ErrInvalid)
func (e *Error) Unwrap() error {
	return ErrInvalid
}

func invalid(msg string) error {
	return &Error{Message: msg}
}

var (
	// NamePattern допускает только латинские буквы, пробелы и '+'
	NamePattern = regexp.MustCompile(`^[A-Za-z+\s]+$`)

	// EmailPattern повторяет проверку формы регистрации
	EmailPattern = regexp.MustCompile(`^([a-z0-9_(.)-]+)@([\da-z(.)-]+)(.)([a-z(.)]{2,6})$`)

	pricePattern = regexp.MustCompile(`[^0-9.]`)
)

// ValidateName проверяет имя пользователя при регистрации
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" || !NamePattern.MatchString(name) {
		return invalid(MsgInvalidName)
	}
	return nil
}

// ValidateEmail проверяет формат email
func ValidateEmail(email string) error {
	if !EmailPattern.MatchString(email) {
		return invalid(MsgInvalidEmail)
	}
	return nil
}

// ValidatePassword проверяет, что пароль задан
func ValidatePassword(password string) error {
	if password == "" {
		return invalid("Password is required")
	}
	return nil
}

// RequireFilled returns an error when any of the values is blank
func RequireFilled(values ...string) error {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return invalid(MsgRequiredFields)
		}
	}
	return nil
}

// SanitizePrice удаляет из ввода всё, кроме цифр и точки
func SanitizePrice(input string) string {
	return pricePattern.ReplaceAllString(input, "")
}

// ParsePrice sanitizes the input and parses it as a price
func ParsePrice(input string) (float64, error) {
	clean := SanitizePrice(input)
	if clean == "" {
		return 0, invalid(MsgRequiredFields)
	}

	price, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, invalid(MsgInvalidPrice)
	}

	return price, nil
}

// ValidateImage проверяет тип и размер загружаемого изображения
func ValidateImage(contentType string, size int) error {
	switch contentType {
	case "image/png", "image/jpeg", "image/jpg":
	default:
		return invalid(MsgInvalidImage)
	}

	if size > MaxImageSize {
		return invalid(MsgImageTooLarge)
	}

	return nil
}

// ValidateImageDataURI проверяет сохраняемое изображение товара:
// "data:<type>;base64,<payload>", где payload распознаётся как PNG или JPEG
// и не превышает MaxImageSize.
func ValidateImageDataURI(uri string) error {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return invalid(MsgInvalidImage)
	}
	meta, payload, found := strings.Cut(rest, ",")
	if !found || !strings.HasSuffix(meta, ";base64") {
		return invalid(MsgInvalidImage)
	}

	// размер проверяем до декодирования
	if base64.StdEncoding.DecodedLen(len(payload))-2 > MaxImageSize {
		return invalid(MsgImageTooLarge)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(data) == 0 {
		return invalid(MsgInvalidImage)
	}

	return ValidateImage(http.DetectContentType(data), len(data))
}

// Message returns the user-facing message of a validation error,
// or a generic description for any other error
func Message(err error) string {
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Message
	}
	return fmt.Sprintf("unexpected error: %v", err)
}
