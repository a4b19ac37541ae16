package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// ErrInvalidSignature возвращается, если подпись отсутствует, не совпадает
// или для шлюза не настроен секрет.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// Sign возвращает hex HMAC-SHA256 тела.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature проверяет подпись тела секретом шлюза.
func VerifySignature(secret string, body []byte, signature string) error {
	if secret == "" || signature == "" {
		return ErrInvalidSignature
	}
	expected := Sign(secret, body)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(strings.TrimSpace(signature)))) {
		return ErrInvalidSignature
	}
	return nil
}
