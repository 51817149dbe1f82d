package ass

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"time"
)

// canonical [V4+ Styles] column order, used to order style fields that
// arrive as JSON objects
var canonicalStyleColumns = []string{
	"Name", "Fontname", "Fontsize",
	"PrimaryColour", "SecondaryColour", "OutlineColour", "BackColour",
	"Bold", "Italic", "Underline", "StrikeOut",
	"ScaleX", "ScaleY", "Spacing", "Angle",
	"BorderStyle", "Outline", "Shadow", "Alignment",
	"MarginL", "MarginR", "MarginV", "Encoding",
}

// canonical [Script Info] key order for config-supplied maps
var canonicalScriptInfoKeys = []string{
	"Title", "ScriptType", "WrapStyle", "ScaledBorderAndShadow",
	"Collisions", "PlayResX", "PlayResY",
}

// StyleField is one column of a configured base style.
type StyleField struct {
	Key   string
	Value string
}

// ConfigStyle is an ordered base style definition mirroring the
// [V4+ Styles] columns.
type ConfigStyle []StyleField

func (cs ConfigStyle) Name() string {
	for _, f := range cs {
		if f.Key == "Name" {
			return f.Value
		}
	}
	return ""
}

func (cs ConfigStyle) Get(key string) (string, bool) {
	for _, f := range cs {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// JSON schema for the style engine configuration document.

type overrideSchema struct {
	Bold      *bool `json:"bold,omitempty"`
	Italic    *bool `json:"italic,omitempty"`
	Underline *bool `json:"underline,omitempty"`
	Strikeout *bool `json:"strikeout,omitempty"`

	Alignment *int     `json:"alignment,omitempty"`
	PositionX *float64 `json:"position_x,omitempty"`
	PositionY *float64 `json:"position_y,omitempty"`
	OriginX   *float64 `json:"origin_x,omitempty"`
	OriginY   *float64 `json:"origin_y,omitempty"`

	FontName string   `json:"font_name,omitempty"`
	FontSize *float64 `json:"font_size,omitempty"`

	PrimaryColor   string `json:"primary_color,omitempty"`
	SecondaryColor string `json:"secondary_color,omitempty"`
	OutlineColor   string `json:"outline_color,omitempty"`
	ShadowColor    string `json:"shadow_color,omitempty"`
	Alpha          string `json:"alpha,omitempty"`

	Spacing *float64 `json:"spacing,omitempty"`
	ScaleX  *float64 `json:"scale_x,omitempty"`
	ScaleY  *float64 `json:"scale_y,omitempty"`

	RotationX *float64 `json:"rotation_x,omitempty"`
	RotationY *float64 `json:"rotation_y,omitempty"`
	// angle is the common shorthand for rotation_z
	Angle     *float64 `json:"angle,omitempty"`
	RotationZ *float64 `json:"rotation_z,omitempty"`

	Border *float64 `json:"border,omitempty"`
	Shadow *float64 `json:"shadow,omitempty"`
	Blur   *float64 `json:"blur,omitempty"`
}

func (o overrideSchema) toTagBlock() TagBlock {
	block := TagBlock{
		Bold:           o.Bold,
		Italic:         o.Italic,
		Underline:      o.Underline,
		Strikeout:      o.Strikeout,
		Alignment:      o.Alignment,
		PositionX:      o.PositionX,
		PositionY:      o.PositionY,
		OriginX:        o.OriginX,
		OriginY:        o.OriginY,
		FontName:       o.FontName,
		FontSize:       o.FontSize,
		PrimaryColor:   o.PrimaryColor,
		SecondaryColor: o.SecondaryColor,
		OutlineColor:   o.OutlineColor,
		ShadowColor:    o.ShadowColor,
		Alpha:          o.Alpha,
		Spacing:        o.Spacing,
		ScaleX:         o.ScaleX,
		ScaleY:         o.ScaleY,
		RotationX:      o.RotationX,
		RotationY:      o.RotationY,
		RotationZ:      o.RotationZ,
		Border:         o.Border,
		Shadow:         o.Shadow,
		Blur:           o.Blur,
	}
	if block.RotationZ == nil {
		block.RotationZ = o.Angle
	}
	return block
}

type operatorSchema struct {
	Target  string `json:"target"`
	IsFirst *bool  `json:"is_first,omitempty"`
	IsLast  *bool  `json:"is_last,omitempty"`
	Index   *int   `json:"index,omitempty"`
	Negate  bool   `json:"negate,omitempty"`
}

type transformSchema struct {
	Start *int           `json:"start,omitempty"`
	End   *int           `json:"end,omitempty"`
	Accel *float64       `json:"accel,omitempty"`
	Tags  overrideSchema `json:"tags"`
}

type ruleSchema struct {
	Name     string   `json:"name"`
	Priority int      `json:"priority"`
	Pattern  string   `json:"pattern,omitempty"`
	ApplyTo  string   `json:"apply_to"`
	TimeFrom *float64 `json:"time_from,omitempty"`
	TimeTo   *float64 `json:"time_to,omitempty"`
	Speaker  string   `json:"speaker,omitempty"`
	Layer    *int     `json:"layer,omitempty"`

	Operators []operatorSchema `json:"operators,omitempty"`

	StyleName  string            `json:"style_name,omitempty"`
	Override   *overrideSchema   `json:"style_override,omitempty"`
	Transforms []transformSchema `json:"transforms,omitempty"`
	Effect     string            `json:"effect,omitempty"`
}

type karaokeSchema struct {
	Type      string `json:"type,omitempty"`
	StyleName string `json:"style_name,omitempty"`
}

type configSchema struct {
	ScriptInfo map[string]any    `json:"script_info,omitempty"`
	Styles     []map[string]any  `json:"styles"`
	Rules      []ruleSchema      `json:"rules"`
	Effects    map[string]string `json:"effects,omitempty"`
	Karaoke    *karaokeSchema    `json:"karaoke,omitempty"`
}

// DefaultScriptInfo is used when a config omits the script_info block.
func DefaultScriptInfo() []ScriptInfoEntry {
	return []ScriptInfoEntry{
		{"Title", "typesub generated subtitles"},
		{"ScriptType", "v4.00+"},
		{"WrapStyle", "0"},
		{"ScaledBorderAndShadow", "yes"},
		{"Collisions", "Normal"},
		{"PlayResX", "1920"},
		{"PlayResY", "1080"},
	}
}

// DefaultEngineConfig is a minimal single-style configuration used when
// no style config file is supplied.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		ScriptInfo: DefaultScriptInfo(),
		Styles: []ConfigStyle{{
			{"Name", "Default"},
			{"Fontname", "Arial"},
			{"Fontsize", "48"},
			{"PrimaryColour", "&H00FFFFFF"},
			{"SecondaryColour", "&H000000FF"},
			{"OutlineColour", "&H00000000"},
			{"BackColour", "&H00000000"},
			{"Bold", "0"},
			{"Italic", "0"},
			{"Underline", "0"},
			{"StrikeOut", "0"},
			{"ScaleX", "100"},
			{"ScaleY", "100"},
			{"Spacing", "0"},
			{"Angle", "0"},
			{"BorderStyle", "1"},
			{"Outline", "2"},
			{"Shadow", "1"},
			{"Alignment", "2"},
			{"MarginL", "10"},
			{"MarginR", "10"},
			{"MarginV", "30"},
			{"Encoding", "1"},
		}},
		Effects: map[string]string{},
	}
}

// LoadEngineConfig reads and validates a JSON style config document.
func LoadEngineConfig(path string) (EngineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return EngineConfig{}, fmt.Errorf("failed to read style config: %w", err)
	}
	return ParseEngineConfig(data)
}

// ParseEngineConfig builds the resolved config. Rule patterns are
// compiled here, once, so styling never recompiles them per segment.
func ParseEngineConfig(data []byte) (EngineConfig, error) {
	var schema configSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return EngineConfig{}, fmt.Errorf("failed to parse style config: %w", err)
	}

	config := EngineConfig{
		Effects: schema.Effects,
	}
	if config.Effects == nil {
		config.Effects = map[string]string{}
	}

	if len(schema.ScriptInfo) == 0 {
		config.ScriptInfo = DefaultScriptInfo()
	} else {
		config.ScriptInfo = orderedEntries(schema.ScriptInfo, canonicalScriptInfoKeys)
	}

	for _, styleMap := range schema.Styles {
		entries := orderedEntries(styleMap, canonicalStyleColumns)
		style := make(ConfigStyle, 0, len(entries))
		for _, e := range entries {
			style = append(style, StyleField{Key: e.Key, Value: e.Value})
		}
		config.Styles = append(config.Styles, style)
	}

	for _, rs := range schema.Rules {
		rule, err := rs.toDomain()
		if err != nil {
			return EngineConfig{}, err
		}
		config.Rules = append(config.Rules, rule)
	}

	if schema.Karaoke != nil {
		typ := schema.Karaoke.Type
		if typ == "" {
			typ = "k"
		}
		config.Karaoke = &KaraokeSettings{
			Type:      typ,
			StyleName: schema.Karaoke.StyleName,
		}
	}

	return config, nil
}

func (rs ruleSchema) toDomain() (StyleRule, error) {
	rule := StyleRule{
		Name:      rs.Name,
		Priority:  rs.Priority,
		ApplyTo:   RuleTarget(rs.ApplyTo),
		Speaker:   rs.Speaker,
		Layer:     rs.Layer,
		StyleName: rs.StyleName,
		Effect:    rs.Effect,
	}
	if rule.ApplyTo == "" {
		rule.ApplyTo = TargetWord
	}
	switch rule.ApplyTo {
	case TargetLine, TargetWord, TargetChar, TargetSyllable:
	default:
		return StyleRule{}, fmt.Errorf(
			"rule %q: unknown apply_to %q", rs.Name, rs.ApplyTo)
	}

	if rs.Pattern != "" {
		pattern, err := regexp.Compile(rs.Pattern)
		if err != nil {
			return StyleRule{}, fmt.Errorf(
				"rule %q: invalid pattern: %w", rs.Name, err)
		}
		rule.Pattern = pattern
	}
	if rs.TimeFrom != nil {
		d := secondsToDuration(*rs.TimeFrom)
		rule.TimeFrom = &d
	}
	if rs.TimeTo != nil {
		d := secondsToDuration(*rs.TimeTo)
		rule.TimeTo = &d
	}

	for _, op := range rs.Operators {
		target := RuleTarget(op.Target)
		if target == "" {
			target = TargetChar
		}
		rule.Operators = append(rule.Operators, RuleOperator{
			Target:  target,
			IsFirst: op.IsFirst,
			IsLast:  op.IsLast,
			Index:   op.Index,
			Negate:  op.Negate,
		})
	}

	if rs.Override != nil {
		block := rs.Override.toTagBlock()
		rule.Override = &block
	}
	for _, tr := range rs.Transforms {
		rule.Transforms = append(rule.Transforms, Transform{
			Start: tr.Start,
			End:   tr.End,
			Accel: tr.Accel,
			Tags:  tr.Tags.toTagBlock(),
		})
	}

	return rule, nil
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// orderedEntries flattens a JSON object into key-value entries, known
// keys first in canonical order, the rest alphabetically.
func orderedEntries(m map[string]any, canonical []string) []ScriptInfoEntry {
	var entries []ScriptInfoEntry
	seen := map[string]bool{}

	for _, key := range canonical {
		if v, ok := m[key]; ok {
			entries = append(entries, ScriptInfoEntry{Key: key, Value: jsonScalar(v)})
			seen[key] = true
		}
	}

	var rest []string
	for key := range m {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		entries = append(entries, ScriptInfoEntry{Key: key, Value: jsonScalar(m[key])})
	}
	return entries
}

// jsonScalar renders a JSON value as an ASS field, -1/0 for booleans
// and no trailing .0 on whole numbers.
func jsonScalar(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		if t {
			return "-1"
		}
		return "0"
	case float64:
		return formatTagNumber(t)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}
