// Package codec преобразует байты порта в текст и обратно.
package codec

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"serialterm/internal/domain/models"
)

// UTF8 — имя кодировки по умолчанию.
const UTF8 = "utf-8"

// Часто встречающиеся в терминалах однобайтовые кодировки.
// Остальные ищутся по метке через charset.Lookup.
var aliases = map[string]*charmap.Charmap{
	"cp1251": charmap.Windows1251,
	"cp866":  charmap.CodePage866,
	"koi8r":  charmap.KOI8R,
	"cp1252": charmap.Windows1252,
}

// Codec декодирует принятые строки и кодирует отправляемые.
// Для UTF-8 декодирование строгое: невалидные байты дают ErrDecode.
type Codec struct {
	name string
	enc  encoding.Encoding // nil для UTF-8
}

// New возвращает кодек по метке кодировки ("" означает UTF-8).
func New(label string) (*Codec, error) {
	key := strings.ToLower(strings.TrimSpace(label))
	switch key {
	case "", "utf-8", "utf8":
		return &Codec{name: UTF8}, nil
	}

	if cm, ok := aliases[strings.ReplaceAll(key, "-", "")]; ok {
		return &Codec{name: cm.String(), enc: cm}, nil
	}

	enc, name := charset.Lookup(key)
	if enc == nil {
		return nil, fmt.Errorf("%w: unknown encoding %q", models.ErrInvalidConfig, label)
	}
	if name == UTF8 {
		return &Codec{name: UTF8}, nil
	}
	return &Codec{name: name, enc: enc}, nil
}

// MustNew как New, но паникует при ошибке. Для значений по умолчанию и тестов.
func MustNew(label string) *Codec {
	c, err := New(label)
	if err != nil {
		panic(err)
	}
	return c
}

// Name возвращает каноническое имя кодировки.
func (c *Codec) Name() string {
	return c.name
}

// Decode переводит байты в строку.
func (c *Codec) Decode(b []byte) (string, error) {
	if c.enc == nil {
		if !utf8.Valid(b) {
			return "", fmt.Errorf("%w: invalid utf-8 at byte %d of %d", models.ErrDecode, invalidOffset(b), len(b))
		}
		return string(b), nil
	}

	res, _, err := transform.Bytes(c.enc.NewDecoder(), b)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", models.ErrDecode, c.name, err)
	}
	return string(res), nil
}

// invalidOffset возвращает смещение первого байта, не образующего символ UTF-8.
func invalidOffset(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return len(b)
}

// Encode переводит строку в байты для записи в порт.
func (c *Codec) Encode(s string) ([]byte, error) {
	if c.enc == nil {
		return []byte(s), nil
	}

	res, _, err := transform.Bytes(c.enc.NewEncoder(), []byte(s))
	if err != nil {
		return nil, fmt.Errorf("encode to %s: %w", c.name, err)
	}
	return res, nil
}
