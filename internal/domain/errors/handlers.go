package errors

// IsClientError reports whether err is an AppError in the 4xx range.
func IsClientError(err error) bool {
	appErr, ok := AsAppError(err)
	if !ok {
		return false
	}

	return appErr.HTTPCode() >= 400 && appErr.HTTPCode() < 500
}
