package metadata

import (
	"math"
	"testing"
)

const sample = `<SizeX Type="Pixel">1388</SizeX><SizeY Type="Pixel">1038</SizeY>` +
	`<SizeX Type="µm">248.1</SizeX><SizeY Type="µm">185.7</SizeY>` +
	`<StagePosition Type="X-coordinate">68220.0</StagePosition>` +
	`<StagePosition Type="Y-coordinate">36565.0</StagePosition>PALMRobo`

func TestExtractField(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		label string
		want  string
	}{
		{"pixel x", sample, LabelSizeXPixels, "1388"},
		{"pixel y", sample, LabelSizeYPixels, "1038"},
		{"micron x", sample, LabelSizeXMicrons, "248.1"},
		{"stage y", sample, LabelStagePositionY, "36565.0"},
		{"plain label", "<Name>PALM</Name>", "Name", "PALM"},
		{"empty value", "<Name></Name>", "Name", ""},
		{"missing open tag", "1388</SizeX>", LabelSizeXPixels, ""},
		{"missing close tag", `<SizeX Type="Pixel">1388`, LabelSizeXPixels, ""},
		{"close tag only before open", `</SizeX><SizeX Type="Pixel">1388`, LabelSizeXPixels, ""},
		{"nearest close tag wins", `<SizeX Type="Pixel">1</SizeX>2</SizeX>`, LabelSizeXPixels, "1"},
		{"first open tag wins", `<A>1</A><A>2</A>`, "A", "1"},
		{"empty text", "", LabelSizeXPixels, ""},
		{"truncate at first space", `<A b c>v</A>`, "A b c", "v"},
		{"not closed by last word", `<A b c>v</A b>`, "A b c", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractField(tt.text, tt.label); got != tt.want {
				t.Fatalf("ExtractField(%q, %q) = %q, want %q", tt.text, tt.label, got, tt.want)
			}
		})
	}
}

func TestExtractFieldIsPure(t *testing.T) {
	text := sample
	first := ExtractField(text, LabelStagePositionX)
	second := ExtractField(text, LabelStagePositionX)
	if first != second {
		t.Fatalf("results differ: %q vs %q", first, second)
	}
	if text != sample {
		t.Fatalf("input was modified")
	}
}

func TestExtractFieldTolerant(t *testing.T) {
	garbled := `<SizeX Type="` + string(ReplacementChar) + `m">248.1</SizeX>`

	if got := ExtractField(garbled, LabelSizeXMicrons); got != "" {
		t.Fatalf("canonical label matched garbled text: %q", got)
	}
	if got := ExtractFieldTolerant(garbled, LabelSizeXMicrons); got != "248.1" {
		t.Fatalf("tolerant extraction = %q, want 248.1", got)
	}

	// The canonical spelling is preferred when both are present.
	both := `<SizeX Type="µm">1</SizeX>` + garbled
	if got := ExtractFieldTolerant(both, LabelSizeXMicrons); got != "1" {
		t.Fatalf("tolerant extraction = %q, want 1", got)
	}

	// ASCII labels are not retried.
	if got := ExtractFieldTolerant(garbled, LabelSizeXPixels); got != "" {
		t.Fatalf("ascii label matched: %q", got)
	}
}

func TestGarble(t *testing.T) {
	if got, want := Garble(LabelSizeYMicrons), `SizeY Type="`+"�"+`m"`; got != want {
		t.Fatalf("Garble = %q, want %q", got, want)
	}
	if got := Garble(LabelSizeYPixels); got != LabelSizeYPixels {
		t.Fatalf("Garble changed an ascii label: %q", got)
	}
}

func TestHasMarker(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"", false},
		{"no marker here", false},
		{"PALMRobo", true},
		{"xx PALM Robo xx", true},
		{" P A L M R o b o ", true},
		{"P\x00A\x00L\x00M\x00R\x00o\x00b\x00o\x00", true},
		{"PALMrobo", false},
		{"PALM\tRobo", false},
		{"PALM\nRobo", false},
		{"PALM\x00Robo", true},
	}

	for _, tt := range tests {
		if got := HasMarker(tt.text); got != tt.want {
			t.Errorf("HasMarker(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestClean(t *testing.T) {
	if got := Clean("<A\x00 b>1\x00</A>"); got != "<A b>1</A>" {
		t.Fatalf("Clean = %q", got)
	}
	// NUL never survives into a field value, so UTF-16 digits read back whole.
	if got := ReadNumber(Clean(`<SizeX Type="Pixel">1`+"\x00"+`38</SizeX>`), LabelSizeXPixels); got != 138 {
		t.Fatalf("ReadNumber = %v, want 138", got)
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1388", 1388},
		{" 248.1\r\n", 248.1},
		{"-30", -30},
		{"1e3", 1000},
		{"1e400", math.Inf(1)},
		{"-1e400", math.Inf(-1)},
	}
	for _, tt := range tests {
		if got := ParseNumber(tt.in); got != tt.want {
			t.Errorf("ParseNumber(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, in := range []string{"", "   ", "abc", "12,5", "1.2.3"} {
		if got := ParseNumber(in); !math.IsNaN(got) {
			t.Errorf("ParseNumber(%q) = %v, want NaN", in, got)
		}
	}
}

func TestReadNumber(t *testing.T) {
	if got := ReadNumber(sample, LabelSizeXMicrons); got != 248.1 {
		t.Fatalf("ReadNumber = %v", got)
	}
	if got := ReadNumber(sample, "Missing"); !math.IsNaN(got) {
		t.Fatalf("ReadNumber of missing field = %v, want NaN", got)
	}
	if got := ReadNumber(`<SizeX Type="Pixel">n/a</SizeX>`, LabelSizeXPixels); !math.IsNaN(got) {
		t.Fatalf("ReadNumber of malformed field = %v, want NaN", got)
	}
}
