package ass

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/typesub/typesub/internal/subtitle"
)

// RuleTarget names what a style rule applies to.
type RuleTarget string

const (
	TargetLine     RuleTarget = "line"
	TargetWord     RuleTarget = "word"
	TargetChar     RuleTarget = "char"
	TargetSyllable RuleTarget = "syllable"
)

// RuleOperator is an extra positional predicate on a rule. Target picks
// the coordinate space ("char" or "word"), the unset conditions are
// ignored, and Negate flips the combined result.
type RuleOperator struct {
	Target  RuleTarget
	IsFirst *bool
	IsLast  *bool
	Index   *int
	Negate  bool
}

// Transform describes one \t(...) animation built from typed tags.
type Transform struct {
	// Start and End are offsets in milliseconds, optional.
	Start *int
	End   *int
	Accel *float64
	Tags  TagBlock
}

// Render produces the transform body without the \t( ) wrapper.
func (t Transform) Render() string {
	var parts []string
	if t.Start != nil && t.End != nil {
		parts = append(parts, strconv.Itoa(*t.Start), strconv.Itoa(*t.End))
	}
	if t.Accel != nil {
		parts = append(parts, formatTagNumber(*t.Accel))
	}
	parts = append(parts, t.Tags.tags())
	return strings.Join(parts, ",")
}

// StyleRule is one conditional styling rule. Higher priority rules are
// evaluated first; on ties, config order decides.
type StyleRule struct {
	Name     string
	Priority int

	ApplyTo RuleTarget
	Pattern *regexp.Regexp
	// [TimeFrom, TimeTo) window on the word (or line) start time.
	TimeFrom *time.Duration
	TimeTo   *time.Duration
	Speaker  string
	Layer    *int

	Operators []RuleOperator

	StyleName  string
	Override   *TagBlock
	Transforms []Transform
	Effect     string
}

// KaraokeSettings turns on automatic karaoke tagging.
type KaraokeSettings struct {
	// Type is the tag to emit: k, kf, ko or K.
	Type string
	// StyleName overrides the line style for karaoke segments.
	StyleName string
}

// EngineConfig is the resolved style engine configuration.
type EngineConfig struct {
	ScriptInfo []ScriptInfoEntry
	Styles     []ConfigStyle
	Rules      []StyleRule
	// Effects maps a name to a tag template. <duration_ms> and
	// <duration_cs> are substituted with the word duration.
	Effects map[string]string
	Karaoke *KaraokeSettings
}

// DefaultStyleName returns the first configured style's name.
func (c EngineConfig) DefaultStyleName() string {
	if len(c.Styles) > 0 && c.Styles[0].Name() != "" {
		return c.Styles[0].Name()
	}
	return "Default"
}

// Styler applies rule-based styling to segments. Patterns are compiled
// once at construction and the engine itself is stateless per call, so
// one instance can style any number of segments.
type Styler struct {
	config    EngineConfig
	lineRules []StyleRule
	wordRules []StyleRule
}

func NewStyler(config EngineConfig) *Styler {
	rules := make([]StyleRule, len(config.Rules))
	copy(rules, config.Rules)
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})

	s := &Styler{config: config}
	for _, rule := range rules {
		if rule.ApplyTo == TargetLine {
			s.lineRules = append(s.lineRules, rule)
		} else {
			s.wordRules = append(s.wordRules, rule)
		}
	}
	return s
}

func (s *Styler) Config() EngineConfig {
	return s.config
}

// charContext carries the position of one character for rule matching.
// Inter-word separators get no context.
type charContext struct {
	char          rune
	charIndexLine int
	charIndexWord int
	wordIndexLine int
	wordIndex     int // same as wordIndexLine, word slot in the segment
	isFirstChar   bool
	isLastChar    bool
	isFirstWord   bool
	isLastWord    bool
	word          *Word
}

func charContexts(words []Word) []charContext {
	// count real text words first
	textWords := 0
	for _, w := range words {
		if w.Text != "" {
			textWords++
		}
	}

	var contexts []charContext
	lineIndex := 0
	wordIndex := -1
	for wi := range words {
		w := &words[wi]
		if w.Text == "" {
			continue
		}
		wordIndex++
		runes := []rune(w.Text)
		for ci, r := range runes {
			contexts = append(contexts, charContext{
				char:          r,
				charIndexLine: lineIndex,
				charIndexWord: ci,
				wordIndexLine: wordIndex,
				wordIndex:     wi,
				isFirstChar:   ci == 0,
				isLastChar:    ci == len(runes)-1,
				isFirstWord:   wordIndex == 0,
				isLastWord:    wordIndex == textWords-1,
				word:          w,
			})
			lineIndex++
		}
	}
	return contexts
}

func (r StyleRule) matchesWindow(t time.Duration) bool {
	if r.TimeFrom != nil && t < *r.TimeFrom {
		return false
	}
	if r.TimeTo != nil && t >= *r.TimeTo {
		return false
	}
	return true
}

func (r StyleRule) matchesLine(seg Segment) bool {
	if !r.matchesWindow(seg.Start()) {
		return false
	}
	if r.Speaker != "" && !strings.EqualFold(r.Speaker, seg.ActorName) {
		return false
	}
	if r.Layer != nil && *r.Layer != seg.Layer {
		return false
	}
	if r.Pattern != nil && !r.Pattern.MatchString(seg.Text()) {
		return false
	}
	return true
}

func (r StyleRule) matchesChar(ctx charContext) bool {
	if !r.matchesWindow(ctx.word.Start) {
		return false
	}
	switch r.ApplyTo {
	case TargetChar:
		if r.Pattern != nil && !r.Pattern.MatchString(string(ctx.char)) {
			return false
		}
	default:
		// word and syllable rules match on the owning word's text
		if r.Pattern != nil && !r.Pattern.MatchString(ctx.word.Text) {
			return false
		}
	}
	for _, op := range r.Operators {
		if !op.matches(ctx) {
			return false
		}
	}
	return true
}

func (o RuleOperator) matches(ctx charContext) bool {
	var first, last bool
	var index int
	if o.Target == TargetWord {
		first, last, index = ctx.isFirstWord, ctx.isLastWord, ctx.wordIndexLine
	} else {
		first, last, index = ctx.isFirstChar, ctx.isLastChar, ctx.charIndexWord
	}

	ok := true
	if o.IsFirst != nil && *o.IsFirst != first {
		ok = false
	}
	if o.IsLast != nil && *o.IsLast != last {
		ok = false
	}
	if o.Index != nil && *o.Index != index {
		ok = false
	}
	if o.Negate {
		return !ok
	}
	return ok
}

// appliedTags resolves the first matching word rule for a character
// into the tag block to open there, plus its serialized signature used
// for run consolidation. Word duration feeds the effect placeholders.
func (s *Styler) appliedTags(ctx charContext) (TagBlock, string) {
	for _, rule := range s.wordRules {
		if !rule.matchesChar(ctx) {
			continue
		}

		block := TagBlock{}
		if rule.Override != nil {
			block = *rule.Override
		}
		for _, tr := range rule.Transforms {
			block.Transforms = append(block.Transforms, tr.Render())
		}
		if rule.Effect != "" {
			if template, ok := s.config.Effects[rule.Effect]; ok {
				effectBlock, _ := ParseTagBlock(expandEffect(template, *ctx.word))
				block = block.Merge(effectBlock)
			}
		}

		return block, block.String()
	}
	return TagBlock{}, ""
}

func expandEffect(template string, w Word) string {
	d := w.End - w.Start
	ms := strconv.FormatInt(int64(d/time.Millisecond), 10)
	cs := strconv.Itoa(durationCentis(d))
	out := strings.ReplaceAll(template, "<duration_ms>", ms)
	out = strings.ReplaceAll(out, "<duration_cs>", cs)
	out = strings.TrimPrefix(out, "{")
	out = strings.TrimSuffix(out, "}")
	return out
}

func durationCentis(d time.Duration) int {
	return int((d + 5*time.Millisecond) / (10 * time.Millisecond))
}

var resetBlock = TagBlock{Unknown: []string{"r"}}

// ProcessSegment styles one plain segment. The result is a new styled
// segment; neither the input nor the engine is mutated.
func (s *Styler) ProcessSegment(seg subtitle.Segment, defaultStyle string) Segment {
	styled := FromSegment(seg)
	styled.StyleName = defaultStyle

	for _, rule := range s.lineRules {
		if rule.matchesLine(styled) {
			if rule.StyleName != "" {
				styled.StyleName = rule.StyleName
			}
			break
		}
	}

	s.applyWordRules(&styled)

	if s.config.Karaoke != nil {
		if s.config.Karaoke.StyleName != "" {
			styled.StyleName = s.config.Karaoke.StyleName
		}
		applyKaraoke(&styled, s.config.Karaoke.Type)
	}

	return styled
}

// applyWordRules walks character contexts in line order and merges runs
// of identical applied tags into a single opening block plus one {\r}
// reset where the style changes.
func (s *Styler) applyWordRules(seg *Segment) {
	contexts := charContexts(seg.Words)
	if len(contexts) == 0 {
		return
	}

	openSig := ""
	for i, ctx := range contexts {
		block, sig := s.appliedTags(ctx)
		if sig == openSig {
			continue
		}

		if openSig != "" {
			// close the run right after the previous character
			prev := contexts[i-1]
			prev.word.Styles = append(prev.word.Styles, StyleRange{
				StartChar: prev.charIndexWord + 1,
				EndChar:   prev.charIndexWord + 1,
				Tags:      resetBlock,
			})
		}
		if sig != "" {
			ctx.word.Styles = append(ctx.word.Styles, StyleRange{
				StartChar: ctx.charIndexWord,
				EndChar:   ctx.word.RuneLen(),
				Tags:      block,
			})
		}
		openSig = sig
	}

	if openSig != "" {
		last := contexts[len(contexts)-1]
		last.word.Styles = append(last.word.Styles, StyleRange{
			StartChar: last.charIndexWord + 1,
			EndChar:   last.charIndexWord + 1,
			Tags:      resetBlock,
		})
	}
}

// applyKaraoke prepends a karaoke timing tag to every word. The tag
// duration is the word duration in centiseconds.
func applyKaraoke(seg *Segment, tagType string) {
	if tagType == "" {
		tagType = "k"
	}
	for i := range seg.Words {
		w := &seg.Words[i]
		if w.Text == "" {
			continue
		}
		kara := StyleRange{
			StartChar: 0,
			EndChar:   utf8.RuneCountInString(w.Text),
			Tags: TagBlock{Karaoke: &Karaoke{
				Type:     tagType,
				Duration: durationCentis(w.End - w.Start),
			}},
		}
		w.Styles = append([]StyleRange{kara}, w.Styles...)
	}
}
