package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/palmtools/palminfo/pkg/calibration"
	"github.com/palmtools/palminfo/pkg/metadata"
)

// parseAssignments parses "label=value" pairs given with --set.
func parseAssignments(pairs []string) (map[string]float64, error) {
	ret := make(map[string]float64, len(pairs))
	for _, p := range pairs {
		label, value, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("invalid assignment %q, expected label=value", p)
		}
		label = strings.TrimSpace(label)
		if _, known := (calibration.RawFields{}).Get(label); !known {
			return nil, fmt.Errorf("unknown field %q, expected one of %s", label, strings.Join(calibration.FieldNames, ", "))
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: %v", label, err)
		}
		ret[label] = v
	}
	return ret, nil
}

// readDescription reads a description file and decodes it. An empty path
// means no description is available.
func readDescription(path, charset string) (string, error) {
	if path == "" {
		return "", nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read description: %w", err)
	}

	return metadata.Decode(b, charset)
}

// overrideSource answers the fields set on the command line and asks next
// for the others.
type overrideSource struct {
	values map[string]float64
	next   calibration.FieldSource
}

func (s *overrideSource) Request(ctx context.Context, fields []calibration.Field) ([]float64, error) {
	var ask []calibration.Field
	for _, f := range fields {
		if _, ok := s.values[f.Label]; !ok {
			ask = append(ask, f)
		}
	}

	var answers []float64
	if len(ask) > 0 {
		var err error
		answers, err = s.next.Request(ctx, ask)
		if err != nil {
			return nil, err
		}
		if len(answers) != len(ask) {
			return nil, fmt.Errorf("field source returned %d values for %d fields", len(answers), len(ask))
		}
	}

	ret := make([]float64, len(fields))
	for i, f := range fields {
		if v, ok := s.values[f.Label]; ok {
			ret[i] = v
			continue
		}
		ret[i], answers = answers[0], answers[1:]
	}
	return ret, nil
}
