package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	e := New(CategoryToolchain, SeverityError, "latexmk exited non-zero")
	assert.Equal(t, "toolchain (error): latexmk exited non-zero", e.Error())

	cause := stderrors.New("exit status 1")
	w := Wrap(cause, CategoryToolchain, SeverityError, "latexmk exited non-zero")
	assert.Contains(t, w.Error(), "exit status 1")
	assert.Equal(t, cause, stderrors.Unwrap(w))
}

func TestCategoryHelpers(t *testing.T) {
	e := EnvironmentUnavailable("docker daemon not responding", nil)
	require.True(t, IsCategory(e, CategoryEnvironment))
	assert.Equal(t, CategoryEnvironment, GetCategory(e))
	assert.Equal(t, CategoryInternal, GetCategory(stderrors.New("plain")))
	assert.False(t, IsCategory(stderrors.New("plain"), CategoryEnvironment))
}

func TestWithContext(t *testing.T) {
	e := BuildTimeout("latexmk", 600)
	require.NotNil(t, e.Context)
	assert.Equal(t, "latexmk", e.Context["command"])
	assert.Equal(t, float64(600), e.Context["timeout_seconds"])
	assert.Equal(t, CategoryTimeout, e.Category)
}
