package types

// ReadRequest asks the daemon to read the calibration of a description.
// This struct is shared between the daemon and client packages.
type ReadRequest struct {
	// Description is the image description text. It may be empty.
	Description string `json:"description"`
	// Overrides answers the fields the daemon would otherwise fill with
	// defaults, keyed by field label such as "Zero_StagePosition_X-coordinate".
	Overrides map[string]float64 `json:"overrides,omitempty"`
	// Cancel behaves like a user dismissing the input form.
	Cancel bool `json:"cancel,omitempty"`
}
