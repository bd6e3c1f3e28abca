package events

import "encoding/json"

// Event name constants
const (
	CalibrationRead = "calibration.read"
)

// Event is a generic SSE event from daemon.
type Event struct {
	Name string          // SSE event name
	Data json.RawMessage // Raw JSON payload
}

// CalibrationReadEvent is the typed payload for calibration.read.
type CalibrationReadEvent struct {
	Path   string `json:"path"`
	Result string `json:"result"`
	// Missing lists the fields that were NaN after the read.
	Missing []string `json:"missing,omitempty"`
	Ts      int64    `json:"ts"`
}

// DecodeAs decodes the event payload into the caller-specified generic type T.
// It ignores the event name and simply unmarshals Data into T. If Data is empty,
// it returns the zero value of T with a nil error.
func DecodeAs[T any](e Event) (T, error) {
	var zero T
	if len(e.Data) == 0 {
		return zero, nil
	}
	var v T
	if err := json.Unmarshal(e.Data, &v); err != nil {
		return zero, err
	}
	return v, nil
}
