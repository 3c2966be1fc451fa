package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns the hex SHA256 of data.
// Используется для определения, изменился ли объединённый каталог
func Fingerprint(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
