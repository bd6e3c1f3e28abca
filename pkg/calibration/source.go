package calibration

import (
	"context"
)

// Labels used when asking a FieldSource for values.
const (
	FieldSizeXMicrons       = "SizeX_(microns)"
	FieldSizeYMicrons       = "SizeY_(microns)"
	FieldSizeXPixels        = "SizeX_(pixels)"
	FieldSizeYPixels        = "SizeY_(pixels)"
	FieldStagePositionX     = "StagePosition_X-coordinate"
	FieldStagePositionY     = "StagePosition_Y-coordinate"
	FieldZeroStagePositionX = "Zero_StagePosition_X-coordinate"
	FieldZeroStagePositionY = "Zero_StagePosition_Y-coordinate"
)

// FieldNames lists every field label in request order.
var FieldNames = []string{
	FieldSizeXMicrons,
	FieldSizeYMicrons,
	FieldSizeXPixels,
	FieldSizeYPixels,
	FieldStagePositionX,
	FieldStagePositionY,
	FieldZeroStagePositionX,
	FieldZeroStagePositionY,
}

// Decimals is how many decimals a FieldSource should display. Values are
// returned at full precision regardless.
const Decimals = 3

// Field is a single value requested from a FieldSource.
type Field struct {
	Label    string
	Default  float64
	Decimals int
}

// FieldSource supplies values the image metadata does not carry, typically by
// asking the user.
//
// Request returns one value per field, in the order of fields, or
// ErrUserCancelled. It may block until the user answers.
type FieldSource interface {
	Request(ctx context.Context, fields []Field) ([]float64, error)
}

// FieldSourceFunc adapts a function to a FieldSource.
type FieldSourceFunc func(ctx context.Context, fields []Field) ([]float64, error)

func (f FieldSourceFunc) Request(ctx context.Context, fields []Field) ([]float64, error) {
	return f(ctx, fields)
}

var _ FieldSource = &ValueSource{}

// ValueSource is a non-interactive FieldSource. It answers with Values for
// the labels it knows and with the offered default for the others.
type ValueSource struct {
	Values map[string]float64
	// Cancel makes every request fail with ErrUserCancelled.
	Cancel bool
}

func (s *ValueSource) Request(ctx context.Context, fields []Field) ([]float64, error) {
	if s.Cancel {
		return nil, ErrUserCancelled
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ret := make([]float64, len(fields))
	for i, f := range fields {
		if v, ok := s.Values[f.Label]; ok {
			ret[i] = v
		} else {
			ret[i] = f.Default
		}
	}
	return ret, nil
}

// fieldRefs pairs each field label with the RawFields member it fills.
func fieldRefs(r *RawFields) []*Float {
	return []*Float{
		&r.SizeXMicrons,
		&r.SizeYMicrons,
		&r.SizeXPixels,
		&r.SizeYPixels,
		&r.StagePositionX,
		&r.StagePositionY,
		&r.ZeroStagePositionX,
		&r.ZeroStagePositionY,
	}
}

// Set assigns the field with the given request label.
func (r *RawFields) Set(label string, v float64) bool {
	refs := fieldRefs(r)
	for i, name := range FieldNames {
		if name == label {
			*refs[i] = Float(v)
			return true
		}
	}
	return false
}

// Get returns the field with the given request label.
func (r RawFields) Get(label string) (float64, bool) {
	refs := fieldRefs(&r)
	for i, name := range FieldNames {
		if name == label {
			return float64(*refs[i]), true
		}
	}
	return 0, false
}
