package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/fatih/color"

	"github.com/palmtools/palminfo/pkg/calibration"
)

func bold(format string, a ...interface{}) string {
	return color.New(color.Bold).Sprintf(format, a...)
}

func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return color.YellowString("%v", f)
	}
	return bold("%.4f", f)
}

func formatPoint(p calibration.Point) string {
	return fmt.Sprintf("(%s, %s)", formatFloat(p.X), formatFloat(p.Y))
}

func printResult(w io.Writer, r *calibration.Result, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	source := "image metadata"
	if r.Path == calibration.PathManual {
		source = "manual input"
	}
	fmt.Fprintf(w, "Source: %s\n", bold("%s", source))
	fmt.Fprintf(w, "Calibration (µm/pixel): %s\n", formatPoint(r.Calibration))
	fmt.Fprintf(w, "Image dimensions (pixels): %s\n", formatPoint(r.ImageDimensions))
	fmt.Fprintf(w, "Stage position: %s\n", formatPoint(r.Position))
	fmt.Fprintf(w, "Zero stage position: %s\n", formatPoint(r.ZeroPosition))
	return nil
}
