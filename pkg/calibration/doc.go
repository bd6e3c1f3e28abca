// Package calibration turns PALM image metadata into the geometric values used
// to map ROIs between image pixels and stage coordinates. It contains:
//
//   - RawFields: the eight measurements read from the image or typed in
//   - Point: an (x, y) pair used for every derived value
//   - Derived: position, image dimensions, micron/pixel calibration and zero
//     stage position computed from RawFields
//   - Builder: reads RawFields from a description text, falling back to a
//     FieldSource when the text carries no PALM metadata
//
// NaN is a legitimate value everywhere in this package. A field that could
// not be read is NaN and propagates through derivation unchanged.
package calibration
