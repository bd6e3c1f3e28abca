package calibration

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/palmtools/palminfo/pkg/metadata"
)

// imageFields maps each metadata label to the request label of the same
// measurement.
var imageFields = []struct {
	label string
	field string
}{
	{metadata.LabelSizeXMicrons, FieldSizeXMicrons},
	{metadata.LabelSizeYMicrons, FieldSizeYMicrons},
	{metadata.LabelSizeXPixels, FieldSizeXPixels},
	{metadata.LabelSizeYPixels, FieldSizeYPixels},
	{metadata.LabelStagePositionX, FieldStagePositionX},
	{metadata.LabelStagePositionY, FieldStagePositionY},
}

// Builder reads the calibration of an image.
//
// A Builder keeps the values of its last pass and offers them as defaults the
// next time a FieldSource is asked. It is not safe for concurrent use.
type Builder struct {
	source FieldSource

	raw     RawFields
	derived Derived
	path    Path
	valid   bool
}

// NewBuilder returns a Builder seeded with defaults that asks source for
// anything the image does not provide.
func NewBuilder(defaults Defaults, source FieldSource) *Builder {
	if source == nil {
		panic("field source cannot be nil")
	}

	return &Builder{
		source: source,
		raw:    RawFields(defaults),
	}
}

// DetectPath tells which path Read takes for description.
func DetectPath(description string) Path {
	if metadata.HasMarker(description) {
		return PathMetadata
	}
	return PathManual
}

// Read fills the calibration from description, which may be empty.
//
// If description carries the PALM marker, the image fields are read from it
// and only the zero stage position is requested from the FieldSource.
// Otherwise every field is requested. Read returns ErrUserCancelled when the
// FieldSource was dismissed, in which case Result reports no valid result.
func (b *Builder) Read(ctx context.Context, description string) error {
	b.valid = false

	b.path = DetectPath(description)
	fromImage := b.path == PathMetadata
	if fromImage {
		b.readParametersFromImage(metadata.Clean(description))
	} else {
		logrus.Debug("no PALM metadata found, asking for all fields")
	}

	if err := b.requestFields(ctx, !fromImage); err != nil {
		return err
	}

	b.valid = true
	return nil
}

func (b *Builder) readParametersFromImage(description string) {
	var missing []string
	for _, f := range imageFields {
		v := metadata.ReadNumber(description, f.label)
		if math.IsNaN(v) {
			missing = append(missing, f.field)
		}
		b.raw.Set(f.field, v)
	}
	if len(missing) > 0 {
		logrus.WithField("fields", missing).Debug("fields missing from PALM metadata")
	}

	b.convertParameters()
}

// requestFields asks the FieldSource for the zero stage position and, if all
// is set, for every other field too.
func (b *Builder) requestFields(ctx context.Context, all bool) error {
	names := FieldNames
	if !all {
		names = []string{FieldZeroStagePositionX, FieldZeroStagePositionY}
	}

	fields := make([]Field, len(names))
	for i, name := range names {
		v, _ := b.raw.Get(name)
		fields[i] = Field{Label: name, Default: v, Decimals: Decimals}
	}

	values, err := b.source.Request(ctx, fields)
	if err != nil {
		return err
	}
	if len(values) != len(fields) {
		return fmt.Errorf("field source returned %d values for %d fields", len(values), len(fields))
	}

	for i, name := range names {
		b.raw.Set(name, values[i])
	}

	b.convertParameters()
	return nil
}

func (b *Builder) convertParameters() {
	b.derived = Derive(b.raw)
}

// Result returns the outcome of the last successful Read. ok is false if
// no Read has succeeded since the last failure.
func (b *Builder) Result() (r Result, ok bool) {
	if !b.valid {
		return Result{}, false
	}
	return b.result(), true
}

func (b *Builder) result() Result {
	return Result{
		Path:    b.path,
		Raw:     b.raw,
		Derived: b.derived,
	}
}

// Raw returns the current raw fields, including those of a failed pass.
func (b *Builder) Raw() RawFields {
	return b.raw
}
