// Package metadata reads calibration fields out of the description text that
// the PALM acquisition software writes into its images.
//
// The description is a loosely tagged blob such as
//
//	<SizeX Type="Pixel">1388</SizeX><StagePosition Type="X-coordinate">68220.0</StagePosition>...PALMRobo
//
// Fields are located with plain substring searches. A field that cannot be
// found or parsed is reported as an empty string or NaN, never as an error.
package metadata
