package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *EngineError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigInvalid(path string, cause error) *EngineError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "configuration file is invalid").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *EngineError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Content errors

func ContentLoadFailed(root string, cause error) *EngineError {
	return Wrap(cause, CategoryContent, SeverityFatal, "content load failed").
		WithContext("root", root)
}

func RebuildFailed(trigger string, cause error) *EngineError {
	return WrapRetryable(cause, CategoryContent, SeverityError, "content rebuild failed").
		WithContext("trigger", trigger)
}

func DocumentNotFound(path string) *EngineError {
	return New(CategoryNotFound, SeverityError, "document not found").
		WithContext("path", path)
}

func FileSystemError(operation, path string, cause error) *EngineError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "filesystem operation failed").
		WithContext("operation", operation).
		WithContext("path", path)
}

// Runtime errors

func ServerFailed(name string, cause error) *EngineError {
	return Wrap(cause, CategoryRuntime, SeverityFatal, "server stopped unexpectedly").
		WithContext("server", name)
}

// Internal errors

func InternalError(message string, cause error) *EngineError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
