package calibration

import "errors"

var (
	// ErrUserCancelled is returned when a FieldSource was dismissed without
	// confirming its values.
	ErrUserCancelled = errors.New("user cancelled")
)
