package calibration

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Point is an (x, y) pair. Its unit depends on what it holds.
type Point struct {
	X float64
	Y float64
}

// NewPoint returns the point (x, y).
func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

type pointJSON struct {
	X Float `json:"x"`
	Y Float `json:"y"`
}

func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal(pointJSON{X: Float(p.X), Y: Float(p.Y)})
}

func (p *Point) UnmarshalJSON(b []byte) error {
	var v pointJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	p.X, p.Y = float64(v.X), float64(v.Y)
	return nil
}

// Float is a float64 whose JSON form carries NaN and ±Inf as the strings
// "NaN", "+Inf" and "-Inf".
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return []byte(`"NaN"`), nil
	case math.IsInf(v, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Inf"`), nil
	}
	return []byte(strconv.FormatFloat(v, 'g', -1, 64)), nil
}

func (f *Float) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q: %w", s, err)
		}
		*f = Float(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

// RawFields holds the measurements a calibration is derived from.
type RawFields struct {
	// Image width and height, in microns.
	SizeXMicrons Float `json:"sizeXMicrons"`
	SizeYMicrons Float `json:"sizeYMicrons"`
	// Image width and height, in pixels.
	SizeXPixels Float `json:"sizeXPixels"`
	SizeYPixels Float `json:"sizeYPixels"`
	// Stage position.
	StagePositionX Float `json:"stagePositionX"`
	StagePositionY Float `json:"stagePositionY"`
	// Zero stage position. Never part of the image metadata.
	ZeroStagePositionX Float `json:"zeroStagePositionX"`
	ZeroStagePositionY Float `json:"zeroStagePositionY"`
}

// Derived holds the values computed from RawFields.
type Derived struct {
	// Stage position.
	Position Point `json:"position"`
	// Image dimensions, in pixels.
	ImageDimensions Point `json:"imageDimensions"`
	// Image calibration, in microns/pixel.
	Calibration Point `json:"calibration"`
	// Zero stage position.
	ZeroPosition Point `json:"zeroPosition"`
}

// Derive computes the derived values. Division follows IEEE 754, so a zero
// pixel size gives ±Inf and NaN stays NaN.
func Derive(r RawFields) Derived {
	return Derived{
		Position:        NewPoint(float64(r.StagePositionX), float64(r.StagePositionY)),
		ImageDimensions: NewPoint(float64(r.SizeXPixels), float64(r.SizeYPixels)),
		Calibration: NewPoint(
			float64(r.SizeXMicrons)/float64(r.SizeXPixels),
			float64(r.SizeYMicrons)/float64(r.SizeYPixels),
		),
		ZeroPosition: NewPoint(float64(r.ZeroStagePositionX), float64(r.ZeroStagePositionY)),
	}
}

// Defaults are the values offered when a field has to be typed in.
type Defaults RawFields

// DefaultDefaults returns the values of a typical PALM acquisition.
func DefaultDefaults() Defaults {
	return Defaults{
		SizeXMicrons:       248.1,
		SizeYMicrons:       185.7,
		SizeXPixels:        1388,
		SizeYPixels:        1038,
		StagePositionX:     68220.0,
		StagePositionY:     36565.0,
		ZeroStagePositionX: 118,
		ZeroStagePositionY: -30,
	}
}

// Path tells where the raw fields of a pass came from.
type Path string

const (
	PathMetadata Path = "metadata"
	PathManual   Path = "manual"
)

// Result is a completed pass.
type Result struct {
	Path Path      `json:"path"`
	Raw  RawFields `json:"raw"`
	Derived
}
