package customerr

// ValidationError reports malformed, missing or out-of-range input.
type ValidationError struct {
	Err string
}

func (e *ValidationError) Error() string {
	return e.Err
}

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Err string
}

func (e *NotFoundError) Error() string {
	return e.Err
}

// StoreError reports an underlying persistence failure.
type StoreError struct {
	Err   string
	Cause error
}

func (e *StoreError) Error() string {
	if e.Cause != nil {
		return e.Err + ": " + e.Cause.Error()
	}
	return e.Err
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}
