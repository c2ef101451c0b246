package gen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescriptorError(t *testing.T) {
	cause := errors.New("boom")
	err := NewDescriptorError("CreateUser", "UserId", "bad parameter", cause)

	assert.Equal(t, "dacgen: descriptor error on CreateUser parameter UserId: bad parameter: boom", err.Error())
	assert.ErrorIs(t, err, ErrInvalidDescriptor)
	assert.Equal(t, cause, errors.Unwrap(err))
	assert.True(t, IsDescriptorError(err))
	assert.False(t, IsConfigError(err))
}

func TestDescriptorErrorMinimal(t *testing.T) {
	err := NewDescriptorError("", "", "command is missing a name", nil)
	assert.Equal(t, "dacgen: descriptor error: command is missing a name", err.Error())
}

func TestConfigError(t *testing.T) {
	err := NewConfigError("Workers", -1, "must be positive")
	assert.Equal(t, `dacgen: config error for "Workers" (value: -1): must be positive`, err.Error())
	assert.ErrorIs(t, err, ErrMissingConfig)
	assert.True(t, IsConfigError(err))

	bare := NewConfigError("Package", nil, "missing generated package import path")
	assert.Equal(t, `dacgen: config error for "Package": missing generated package import path`, bare.Error())
}

func TestGenerationError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewGenerationError("write", "create_user_params.go", "write file", cause)

	assert.Equal(t, "dacgen: generation error in phase write (file: create_user_params.go): write file: disk full", err.Error())
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.Equal(t, cause, errors.Unwrap(err))
	assert.True(t, IsGenerationError(err))
	assert.False(t, IsDescriptorError(err))
}

func TestErrorHelpersOnWrappedErrors(t *testing.T) {
	inner := NewConfigError("Package", nil, "missing")
	wrapped := errors.Join(errors.New("outer"), inner)
	assert.True(t, IsConfigError(wrapped))
	assert.ErrorIs(t, wrapped, ErrMissingConfig)
}
