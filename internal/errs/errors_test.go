package errs

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Message(t *testing.T) {
	plain := New(ErrKindInvalidInput, "invalid key")
	assert.Equal(t, "[invalid_input] invalid key", plain.Error())

	wrapped := Wrap(ErrKindIO, "write file", os.ErrPermission)
	assert.Equal(t, "[io_error] write file: permission denied", wrapped.Error())
}

func TestError_UnwrapKeepsCause(t *testing.T) {
	err := Wrap(ErrKindNotFound, "stat file", os.ErrNotExist)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"not found", New(ErrKindNotFound, "x"), IsNotFound},
		{"init", New(ErrKindInitFailed, "x"), IsInitFailed},
		{"io", New(ErrKindIO, "x"), IsIO},
		{"invalid input", New(ErrKindInvalidInput, "x"), IsInvalidInput},
		{"timeout", New(ErrKindTimeout, "x"), IsTimeout},
		{"connection", New(ErrKindConnectionFailed, "x"), IsConnectionFailed},
		{"permission", New(ErrKindPermissionDenied, "x"), IsPermissionDenied},
		{"wrapped by fmt", fmt.Errorf("save: %w", New(ErrKindIO, "x")), IsIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.check(tt.err))
		})
	}
}

func TestKindOf_ForeignError(t *testing.T) {
	assert.Equal(t, ErrKindUnknown, KindOf(errors.New("boom")))
	assert.Equal(t, ErrKindUnknown, KindOf(nil))
	assert.False(t, IsNotFound(os.ErrNotExist))
}
