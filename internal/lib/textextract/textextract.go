// Package textextract извлекает простой текст из загруженных документов (.pdf, .txt, .md).
package textextract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// ErrUnsupportedFormat возвращается для расширений, отличных от .pdf, .txt, .md.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ErrInvalidEncoding возвращается для текстовых файлов не в UTF-8.
var ErrInvalidEncoding = errors.New("text is not valid UTF-8")

// ErrUnreadable возвращается, когда документ не удаётся разобрать.
var ErrUnreadable = errors.New("file could not be read")

// Supported сообщает, поддерживается ли расширение файла.
func Supported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf", ".txt", ".md":
		return true
	}
	return false
}

// Extract возвращает текст документа по его имени и содержимому.
func Extract(filename string, data []byte) (string, error) {
	const op = "textextract.Extract"
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".md":
		data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%s: %w", op, ErrInvalidEncoding)
		}
		return normalize(string(data)), nil
	case ".pdf":
		text, err := extractPDF(data)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		return normalize(text), nil
	default:
		return "", fmt.Errorf("%s: %w", op, ErrUnsupportedFormat)
	}
}

func extractPDF(data []byte) (text string, err error) {
	// ledongthuc/pdf паникует на некоторых повреждённых файлах
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: malformed pdf: %v", ErrUnreadable, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	return buf.String(), nil
}

// Truncate обрезает текст до limit символов по границе руны.
func Truncate(text string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit])
}

// normalize приводит текст к виду, который принимает столбец TEXT в Postgres:
// без NUL и только валидный UTF-8.
func normalize(s string) string {
	s = strings.ToValidUTF8(s, "")
	s = strings.ReplaceAll(s, "\x00", "")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.TrimSpace(s)
}
