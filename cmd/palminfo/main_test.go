package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"

	"github.com/palmtools/palminfo/pkg/calibration"
	"github.com/palmtools/palminfo/pkg/config"
	"github.com/palmtools/palminfo/pkg/events"
)

const palmDescription = `<SizeX Type="Pixel">1388</SizeX><SizeY Type="Pixel">1038</SizeY>` +
	`<SizeX Type="µm">248.1</SizeX><SizeY Type="µm">185.7</SizeY>` +
	`<StagePosition Type="X-coordinate">68220.0</StagePosition>` +
	`<StagePosition Type="Y-coordinate">36565.0</StagePosition>PALMRobo`

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, content, 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestReadCommandJSON(t *testing.T) {
	conf := filepath.Join(t.TempDir(), "palminfo.json")
	desc := writeFile(t, "desc.txt", []byte(palmDescription))

	out, err := runCommand(t, "--config", conf, "read", desc, "--json", "--non-interactive",
		"--set", "Zero_StagePosition_X-coordinate=1.5")
	if err != nil {
		t.Fatalf("read failed: %v\n%s", err, out)
	}

	var r calibration.Result
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("failed to decode output %q: %v", out, err)
	}
	if r.Path != calibration.PathMetadata {
		t.Fatalf("unexpected path %s", r.Path)
	}
	if r.ZeroPosition != calibration.NewPoint(1.5, -30) {
		t.Fatalf("unexpected zero position %v", r.ZeroPosition)
	}
	if r.ImageDimensions != calibration.NewPoint(1388, 1038) {
		t.Fatalf("unexpected image dimensions %v", r.ImageDimensions)
	}
}

func TestReadCommandUTF16(t *testing.T) {
	conf := filepath.Join(t.TempDir(), "palminfo.json")
	text := `<SizeX Type="Pixel">512</SizeX>PALMRobo`
	b := []byte{0xFF, 0xFE}
	for _, c := range []byte(text) {
		b = append(b, c, 0)
	}
	desc := writeFile(t, "desc16.txt", b)

	out, err := runCommand(t, "--config", conf, "read", desc, "--json", "--non-interactive")
	if err != nil {
		t.Fatalf("read failed: %v\n%s", err, out)
	}
	var r calibration.Result
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatal(err)
	}
	if r.ImageDimensions.X != 512 {
		t.Fatalf("unexpected image dimensions %v", r.ImageDimensions)
	}
}

func TestReadCommandRemember(t *testing.T) {
	confPath := filepath.Join(t.TempDir(), "palminfo.json")

	_, err := runCommand(t, "--config", confPath, "read", "--non-interactive", "--remember",
		"--set", "SizeX_(pixels)=2048")
	if err != nil {
		t.Fatal(err)
	}

	conf, err := config.NewFile(confPath)
	if err != nil {
		t.Fatal(err)
	}
	want := calibration.DefaultDefaults()
	want.SizeXPixels = 2048
	if diff := cmp.Diff(want, conf.Defaults()); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestReadCommandBadAssignment(t *testing.T) {
	conf := filepath.Join(t.TempDir(), "palminfo.json")
	for _, a := range []string{"nope", "Unknown=1", "SizeX_(pixels)=abc"} {
		if _, err := runCommand(t, "--config", conf, "read", "--non-interactive", "--set", a); err == nil {
			t.Errorf("expected an error for --set %s", a)
		}
	}
}

func TestFieldCommand(t *testing.T) {
	desc := writeFile(t, "desc.txt", []byte(`<SizeY Type="`+"\xb5"+`m"> 185.7 </SizeY>`))

	out, err := runCommand(t, "field", desc, `SizeY Type="µm"`, "--charset", "utf-8")
	if err != nil {
		t.Fatalf("field failed: %v", err)
	}
	if out != "185.7\n" {
		t.Fatalf("unexpected output %q", out)
	}

	if _, err := runCommand(t, "field", desc, `SizeX Type="Pixel"`); err == nil {
		t.Fatalf("expected an error for a missing field")
	}
}

func TestConfigCommand(t *testing.T) {
	conf := filepath.Join(t.TempDir(), "palminfo.json")

	if _, err := runCommand(t, "--config", conf, "config", "set", "--", "Zero_StagePosition_Y-coordinate", "-12"); err != nil {
		t.Fatalf("config set failed: %v", err)
	}
	if _, err := runCommand(t, "--config", conf, "config", "set", "charset", "latin1"); err != nil {
		t.Fatalf("config set charset failed: %v", err)
	}
	if _, err := runCommand(t, "--config", conf, "config", "set", "charset", "klingon"); err == nil {
		t.Fatalf("expected an error for an unknown charset")
	}
	if _, err := runCommand(t, "--config", conf, "config", "set", "Nope", "1"); err == nil {
		t.Fatalf("expected an error for an unknown field")
	}
	for _, v := range []string{"NaN", "Inf", "-Inf"} {
		if _, err := runCommand(t, "--config", conf, "config", "set", "--", "SizeX_(microns)", v); err == nil {
			t.Fatalf("expected an error for the non-finite value %s", v)
		}
	}

	out, err := runCommand(t, "--config", conf, "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Zero_StagePosition_Y-coordinate") || !strings.Contains(out, "-12.000") {
		t.Fatalf("unexpected output %q", out)
	}
	if !strings.Contains(out, "latin1") {
		t.Fatalf("charset missing from output %q", out)
	}
}

type cancelSource struct{}

func (cancelSource) Request(_ context.Context, _ []calibration.Field) ([]float64, error) {
	return nil, calibration.ErrUserCancelled
}

func TestOverrideSource(t *testing.T) {
	fields := []calibration.Field{
		{Label: calibration.FieldZeroStagePositionX, Default: 118},
		{Label: calibration.FieldZeroStagePositionY, Default: -30},
	}

	src := &overrideSource{
		values: map[string]float64{calibration.FieldZeroStagePositionY: 7},
		next:   &calibration.ValueSource{Values: map[string]float64{calibration.FieldZeroStagePositionX: 3}},
	}
	got, err := src.Request(context.Background(), fields)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]float64{3, 7}, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	// Nothing is asked when every field is overridden.
	src = &overrideSource{
		values: map[string]float64{
			calibration.FieldZeroStagePositionX: 1,
			calibration.FieldZeroStagePositionY: 2,
		},
		next: cancelSource{},
	}
	if _, err := src.Request(context.Background(), fields); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	src.values = nil
	if _, err := src.Request(context.Background(), fields); !errors.Is(err, calibration.ErrUserCancelled) {
		t.Fatalf("expected ErrUserCancelled, got %v", err)
	}
}

func TestFormatReadEvent(t *testing.T) {
	color.NoColor = true

	got := formatReadEvent(events.CalibrationReadEvent{
		Path:    "metadata",
		Result:  "ok",
		Missing: []string{calibration.FieldSizeXMicrons},
	})
	if !strings.Contains(got, "ok from metadata, missing: SizeX_(microns)") {
		t.Fatalf("unexpected output %q", got)
	}
}
