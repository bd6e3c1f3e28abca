package config

import (
	"github.com/sirupsen/logrus"

	"github.com/palmtools/palminfo/pkg/calibration"
)

type Config interface {
	// Defaults returns the values offered when a field has to be typed in.
	Defaults() calibration.Defaults
	SetDefaults(calibration.Defaults)

	// Charset is the character set used to decode descriptions.
	Charset() string
	SetCharset(string)

	LogrusFields() logrus.Fields

	// Load reads the configuration from the source.
	Load() error
	// Save saves the configuration to the source.
	Save() error
}
