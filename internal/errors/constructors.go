package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *TexkitError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigInvalid(path string, cause error) *TexkitError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "configuration file invalid").
		WithContext("path", path)
}

// Execution environment errors

// EnvironmentUnavailable signals that the sandbox runtime (or local binary)
// cannot be reached at all. Fatal before any invocation is attempted.
func EnvironmentUnavailable(detail string, cause error) *TexkitError {
	return Wrap(cause, CategoryEnvironment, SeverityFatal, detail)
}

func ToolchainFailed(command string, cause error) *TexkitError {
	return Wrap(cause, CategoryToolchain, SeverityError, "toolchain invocation failed").
		WithContext("command", command)
}

func BuildTimeout(command string, seconds float64) *TexkitError {
	return New(CategoryTimeout, SeverityError, "toolchain invocation timed out").
		WithContext("command", command).
		WithContext("timeout_seconds", seconds)
}

// Local operation errors

func FileOpError(operation, path string, cause error) *TexkitError {
	return Wrap(cause, CategoryFileSystem, SeverityWarning, "file operation failed").
		WithContext("operation", operation).
		WithContext("path", path)
}

func GitResetError(cause error) *TexkitError {
	return Wrap(cause, CategoryGit, SeverityWarning, "git history reset failed")
}

func InternalError(message string, cause error) *TexkitError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
