package storage

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/filedock/service/internal/errs"
)

func TestNewKey(t *testing.T) {
	at := time.UnixMilli(1700000000000)

	assert.Equal(t, "1700000000000-report.pdf", NewKey("report.pdf", at))
	assert.Equal(t, "1700000000000-my file (1).txt", NewKey("my file (1).txt", at))
	assert.Equal(t, "1700000000000-file", NewKey("", at))
}

func TestNewKey_TruncatesLongNames(t *testing.T) {
	at := time.UnixMilli(1700000000000)

	key := NewKey(strings.Repeat("ж", 400), at)
	assert.LessOrEqual(t, len(key), maxKeyLength)
	assert.True(t, utf8.ValidString(key))
	assert.NoError(t, ValidateKey(key))
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"report.pdf", "report.pdf"},
		{"../../etc/passwd", "__etc_passwd"},
		{`..\windows\system.ini`, "_windows_system.ini"},
		{"a\x00b.txt", "ab.txt"},
		{"...", "file"},
		{"  ", "file"},
		{"v1..2.txt", "v12.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		valid bool
	}{
		{"generated key", "1700000000000-report.pdf", true},
		{"spaces and unicode", "1-отчёт 2024.pdf", true},
		{"empty", "", false},
		{"too long", strings.Repeat("a", maxKeyLength+1), false},
		{"slash", "a/b", false},
		{"backslash", `a\b`, false},
		{"traversal", "../etc/passwd", false},
		{"double dot only", "..", false},
		{"null byte", "a\x00b", false},
		{"dotfile", ".env", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKey(tt.key)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errs.IsInvalidInput(err))
		})
	}
}
