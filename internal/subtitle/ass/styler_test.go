package ass

import (
	"regexp"
	"testing"
	"time"

	"github.com/typesub/typesub/internal/subtitle"
)

func plainSegment(texts []string, start, step float64) subtitle.Segment {
	var words []subtitle.Word
	cursor := time.Duration(start * float64(time.Second))
	stepD := time.Duration(step * float64(time.Second))
	for _, text := range texts {
		words = append(words, subtitle.Word{
			Text:  text,
			Start: cursor,
			End:   cursor + stepD,
		})
		cursor += stepD
	}
	return subtitle.Segment{Words: words}
}

func TestStylerWordRule(t *testing.T) {
	config := DefaultEngineConfig()
	config.Rules = []StyleRule{{
		Name:     "highlight",
		ApplyTo:  TargetWord,
		Pattern:  regexp.MustCompile("line"),
		Override: &TagBlock{Blur: floatPtr(3)},
	}}
	styler := NewStyler(config)

	seg := styler.ProcessSegment(
		plainSegment([]string{"Test", "line", "now!"}, 0, 0.5), "Default")

	if got := seg.RenderText(); got != "Test {\\blur3}line{\\r} now!" {
		t.Errorf("got %q", got)
	}
}

func TestStylerNegatedFirstChar(t *testing.T) {
	isFirst := true
	config := DefaultEngineConfig()
	config.Rules = []StyleRule{{
		Name:    "tail",
		ApplyTo: TargetWord,
		Pattern: regexp.MustCompile("now"),
		Operators: []RuleOperator{{
			Target:  TargetChar,
			IsFirst: &isFirst,
			Negate:  true,
		}},
		Override: &TagBlock{Blur: floatPtr(1)},
	}}
	styler := NewStyler(config)

	seg := styler.ProcessSegment(plainSegment([]string{"now!"}, 0, 1), "Default")

	if got := seg.RenderText(); got != "n{\\blur1}ow!{\\r}" {
		t.Errorf("got %q", got)
	}
}

func TestStylerCharRule(t *testing.T) {
	config := DefaultEngineConfig()
	config.Rules = []StyleRule{{
		Name:     "punct",
		ApplyTo:  TargetChar,
		Pattern:  regexp.MustCompile(`[!?]`),
		Override: &TagBlock{PrimaryColor: "&H0000FF&"},
	}}
	styler := NewStyler(config)

	seg := styler.ProcessSegment(plainSegment([]string{"Wow!"}, 0, 1), "Default")

	if got := seg.RenderText(); got != "Wow{\\c&H0000FF&}!{\\r}" {
		t.Errorf("got %q", got)
	}
}

func TestStylerPriorityOrder(t *testing.T) {
	config := DefaultEngineConfig()
	config.Rules = []StyleRule{
		{
			Name:     "low",
			Priority: 1,
			ApplyTo:  TargetWord,
			Override: &TagBlock{Blur: floatPtr(1)},
		},
		{
			Name:     "high",
			Priority: 10,
			ApplyTo:  TargetWord,
			Override: &TagBlock{Blur: floatPtr(9)},
		},
	}
	styler := NewStyler(config)

	seg := styler.ProcessSegment(plainSegment([]string{"word"}, 0, 1), "Default")

	if got := seg.RenderText(); got != "{\\blur9}word{\\r}" {
		t.Errorf("higher priority rule must win: %q", got)
	}
}

func TestStylerRunConsolidation(t *testing.T) {
	config := DefaultEngineConfig()
	config.Rules = []StyleRule{{
		Name:     "all",
		ApplyTo:  TargetWord,
		Override: &TagBlock{Bold: boolPtr(true)},
	}}
	styler := NewStyler(config)

	seg := styler.ProcessSegment(
		plainSegment([]string{"one", "two", "three"}, 0, 0.5), "Default")

	// identical tags across the whole line produce one opening block and
	// one reset, not per-word noise
	if got := seg.RenderText(); got != "{\\b1}one two three{\\r}" {
		t.Errorf("got %q", got)
	}
}

func TestStylerLineRuleStyleName(t *testing.T) {
	config := DefaultEngineConfig()
	config.Rules = []StyleRule{{
		Name:      "shout",
		ApplyTo:   TargetLine,
		Pattern:   regexp.MustCompile(`!$`),
		StyleName: "Loud",
	}}
	styler := NewStyler(config)

	loud := styler.ProcessSegment(plainSegment([]string{"Hey!"}, 0, 1), "Default")
	if loud.StyleName != "Loud" {
		t.Errorf("style: got %q", loud.StyleName)
	}

	calm := styler.ProcessSegment(plainSegment([]string{"Hey."}, 0, 1), "Default")
	if calm.StyleName != "Default" {
		t.Errorf("style: got %q", calm.StyleName)
	}
}

func TestStylerTimeWindow(t *testing.T) {
	from := 10 * time.Second
	to := 20 * time.Second
	config := DefaultEngineConfig()
	config.Rules = []StyleRule{{
		Name:     "intro",
		ApplyTo:  TargetWord,
		TimeFrom: &from,
		TimeTo:   &to,
		Override: &TagBlock{Italic: boolPtr(true)},
	}}
	styler := NewStyler(config)

	inside := styler.ProcessSegment(plainSegment([]string{"word"}, 15, 1), "Default")
	if got := inside.RenderText(); got != "{\\i1}word{\\r}" {
		t.Errorf("inside window: %q", got)
	}

	before := styler.ProcessSegment(plainSegment([]string{"word"}, 5, 1), "Default")
	if got := before.RenderText(); got != "word" {
		t.Errorf("before window: %q", got)
	}

	// the window is half-open, a word starting exactly at the end is out
	atEnd := styler.ProcessSegment(plainSegment([]string{"word"}, 20, 1), "Default")
	if got := atEnd.RenderText(); got != "word" {
		t.Errorf("at window end: %q", got)
	}
}

func TestStylerSpeakerMatch(t *testing.T) {
	config := DefaultEngineConfig()
	config.Rules = []StyleRule{{
		Name:      "alice",
		ApplyTo:   TargetLine,
		Speaker:   "Alice",
		StyleName: "AliceStyle",
	}}
	styler := NewStyler(config)

	seg := styler.ProcessSegment(plainSegment([]string{"hi"}, 0, 1), "Default")
	if seg.StyleName != "Default" {
		t.Errorf("no actor set, style: %q", seg.StyleName)
	}

	styled := FromSegment(plainSegment([]string{"hi"}, 0, 1))
	styled.ActorName = "alice"
	rule := config.Rules[0]
	if !rule.matchesLine(styled) {
		t.Error("speaker match must be case insensitive")
	}
}

func TestStylerEffectPlaceholders(t *testing.T) {
	config := DefaultEngineConfig()
	config.Effects = map[string]string{
		"pop": "{\\fad(<duration_ms>,0)}",
	}
	config.Rules = []StyleRule{{
		Name:    "pop all",
		ApplyTo: TargetWord,
		Effect:  "pop",
	}}
	styler := NewStyler(config)

	seg := styler.ProcessSegment(plainSegment([]string{"word"}, 0, 0.5), "Default")

	if got := seg.RenderText(); got != "{\\fad(500,0)}word{\\r}" {
		t.Errorf("got %q", got)
	}
}

func TestStylerTransforms(t *testing.T) {
	start, end := 0, 500
	config := DefaultEngineConfig()
	config.Rules = []StyleRule{{
		Name:    "grow",
		ApplyTo: TargetWord,
		Transforms: []Transform{{
			Start: &start,
			End:   &end,
			Tags:  TagBlock{ScaleX: floatPtr(120), ScaleY: floatPtr(120)},
		}},
	}}
	styler := NewStyler(config)

	seg := styler.ProcessSegment(plainSegment([]string{"word"}, 0, 1), "Default")

	want := "{\\t(0,500,\\fscx120\\fscy120)}word{\\r}"
	if got := seg.RenderText(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestStylerKaraoke(t *testing.T) {
	config := DefaultEngineConfig()
	config.Karaoke = &KaraokeSettings{Type: "k"}
	styler := NewStyler(config)

	seg := styler.ProcessSegment(
		plainSegment([]string{"Hello", "world"}, 0, 0.5), "Default")

	if got := seg.RenderText(); got != "{\\k50}Hello {\\k50}world" {
		t.Errorf("got %q", got)
	}
	if !seg.HasKaraoke() {
		t.Error("segment must report karaoke timing")
	}
}

func TestStylerKaraokeStyleName(t *testing.T) {
	config := DefaultEngineConfig()
	config.Karaoke = &KaraokeSettings{Type: "kf", StyleName: "Kara"}
	styler := NewStyler(config)

	seg := styler.ProcessSegment(plainSegment([]string{"la"}, 0, 1), "Default")
	if seg.StyleName != "Kara" {
		t.Errorf("style: %q", seg.StyleName)
	}
	if got := seg.RenderText(); got != "{\\kf100}la" {
		t.Errorf("got %q", got)
	}
}

func TestStylerNoRules(t *testing.T) {
	styler := NewStyler(DefaultEngineConfig())
	seg := styler.ProcessSegment(plainSegment([]string{"plain", "text"}, 0, 1), "Default")
	if got := seg.RenderText(); got != "plain text" {
		t.Errorf("got %q", got)
	}
	if seg.StyleName != "Default" {
		t.Errorf("style: %q", seg.StyleName)
	}
}

func TestTransformRender(t *testing.T) {
	accel := 0.5
	tr := Transform{Accel: &accel, Tags: TagBlock{Blur: floatPtr(2)}}
	if got := tr.Render(); got != "0.5,\\blur2" {
		t.Errorf("got %q", got)
	}

	bare := Transform{Tags: TagBlock{Blur: floatPtr(2)}}
	if got := bare.Render(); got != "\\blur2" {
		t.Errorf("got %q", got)
	}
}
