package storage

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/filedock/service/internal/errs"
)

// maxKeyLength keeps "<key>.json" within the 255-byte NAME_MAX of common filesystems.
const maxKeyLength = 255 - len(metadataExt)

// NewKey builds the key for an upload of filename at time now:
// "<unix-milliseconds>-<sanitized filename>".
func NewKey(filename string, now time.Time) string {
	prefix := strconv.FormatInt(now.UnixMilli(), 10) + "-"
	name := SanitizeFilename(filename)
	for len(prefix)+len(name) > maxKeyLength {
		_, size := utf8.DecodeLastRuneInString(name)
		name = name[:len(name)-size]
	}
	return prefix + name
}

// SanitizeFilename strips everything from a client-supplied filename that
// could escape the files directory.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\x00", "")
	name = strings.ReplaceAll(name, "..", "")
	name = strings.NewReplacer("/", "_", `\`, "_").Replace(name)
	name = strings.TrimSpace(name)
	if name == "" || name == "." {
		return "file"
	}
	return name
}

// ValidateKey rejects keys that are not a single safe path segment.
func ValidateKey(key string) error {
	switch {
	case key == "":
		return errs.New(errs.ErrKindInvalidInput, "key cannot be empty")
	case len(key) > maxKeyLength:
		return errs.New(errs.ErrKindInvalidInput, "key too long")
	case strings.ContainsAny(key, `/\`):
		return errs.New(errs.ErrKindInvalidInput, "key contains a path separator")
	case strings.Contains(key, ".."):
		return errs.New(errs.ErrKindInvalidInput, "key contains '..'")
	case strings.ContainsRune(key, 0):
		return errs.New(errs.ErrKindInvalidInput, "key contains a null byte")
	case strings.HasPrefix(key, "."):
		return errs.New(errs.ErrKindInvalidInput, "key cannot start with '.'")
	}
	return nil
}
