package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const convertScript = `[Script Info]
; converted with care
Title: Convert Sample
ScriptType: v4.00+

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, Bold
Style: Default,Arial,48,&H00FFFFFF,0
Style: Shout,Impact,72,&H000000FF,-1

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
Dialogue: 0,0:00:01.00,0:00:02.00,Default,,0,0,0,,Plain {\b1}bold{\b0} text
Comment: 0,0:00:02.00,0:00:03.00,Default,,0,0,0,,editor note
Dialogue: 0,0:00:03.00,0:00:04.00,Shout,Alice,0,0,0,,{\pos(960,540)}Hey!
`

func TestConvertASSToASSKeepsScript(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.ass")
	out := filepath.Join(dir, "out.ass")
	if err := os.WriteFile(in, []byte(convertScript), 0644); err != nil {
		t.Fatal(err)
	}

	rootCmd.SetArgs([]string{"convert", in, "-f", "ass", "-o", out})
	defer rootCmd.SetArgs(nil)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("convert failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)

	for _, want := range []string{
		"Plain {\\b1}bold {\\b0}text",
		"{\\pos(960,540)}",
		"Comment: 0,0:00:02.00,0:00:03.00,Default,,0,0,0,,editor note",
		"Style: Shout,Impact,72,&H000000FF,-1",
		"; converted with care",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q", want)
		}
	}
}
