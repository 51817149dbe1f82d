package ass

import (
	"fmt"
	"strconv"
	"strings"
)

// Fade holds the \fad(in,out) durations in milliseconds.
type Fade struct {
	In  int
	Out int
}

// Karaoke holds a single karaoke timing tag.
type Karaoke struct {
	// Type is one of "k", "kf", "ko" or "K".
	Type string
	// Duration in centiseconds.
	Duration int
}

// TagBlock represents one {...} override block. Unset fields are nil
// pointers (or empty strings for the opaque string attributes) and are
// omitted on serialization. Unrecognized fragments are kept verbatim in
// Unknown so unfamiliar tags survive a parse and re-emit cycle.
type TagBlock struct {
	// boolean styles
	Bold      *bool
	Italic    *bool
	Underline *bool
	Strikeout *bool

	// layout and alignment
	Alignment *int
	PositionX *float64
	PositionY *float64
	OriginX   *float64
	OriginY   *float64
	MoveX1    *float64
	MoveY1    *float64
	MoveX2    *float64
	MoveY2    *float64
	MoveT1    *int
	MoveT2    *int

	// font properties
	FontName string
	FontSize *float64

	// colors and alpha, opaque &H..& hex tokens
	PrimaryColor   string
	SecondaryColor string
	OutlineColor   string
	ShadowColor    string
	Alpha          string

	// spacing and scaling
	Spacing *float64
	ScaleX  *float64
	ScaleY  *float64

	// rotation
	RotationX *float64
	RotationY *float64
	RotationZ *float64

	// border, shadow, blur
	Border *float64
	Shadow *float64
	Blur   *float64

	Fade    *Fade
	Karaoke *Karaoke

	// literal \t(...) bodies, kept as raw fragments
	Transforms []string

	// unrecognized fragments, backslash stripped
	Unknown []string
}

// IsZero reports whether no field is set.
func (t TagBlock) IsZero() bool {
	return t.String() == ""
}

// formatTagNumber drops a trailing .0 so whole values render as ints.
func formatTagNumber(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func boolTag(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

// String serializes the block including surrounding braces. The tag
// order is fixed so parse and serialize cycles are stable. An empty
// block renders as "" rather than "{}".
func (t TagBlock) String() string {
	body := t.tags()
	if body == "" {
		return ""
	}
	return "{" + body + "}"
}

func (t TagBlock) tags() string {
	var sb strings.Builder

	pair := func(tag string, x, y *float64) {
		if x != nil && y != nil {
			sb.WriteString(fmt.Sprintf("\\%s(%s,%s)",
				tag, formatTagNumber(*x), formatTagNumber(*y)))
		}
	}

	pair("pos", t.PositionX, t.PositionY)
	pair("org", t.OriginX, t.OriginY)

	if t.MoveX1 != nil && t.MoveY1 != nil && t.MoveX2 != nil && t.MoveY2 != nil {
		parts := []string{
			formatTagNumber(*t.MoveX1),
			formatTagNumber(*t.MoveY1),
			formatTagNumber(*t.MoveX2),
			formatTagNumber(*t.MoveY2),
		}
		if t.MoveT1 != nil && t.MoveT2 != nil {
			parts = append(parts,
				strconv.Itoa(*t.MoveT1), strconv.Itoa(*t.MoveT2))
		}
		sb.WriteString("\\move(" + strings.Join(parts, ",") + ")")
	}

	if t.Alignment != nil {
		sb.WriteString("\\an" + strconv.Itoa(*t.Alignment))
	}
	if t.FontName != "" {
		sb.WriteString("\\fn" + t.FontName)
	}
	if t.FontSize != nil {
		sb.WriteString("\\fs" + formatTagNumber(*t.FontSize))
	}
	if t.Bold != nil {
		sb.WriteString("\\b" + boolTag(*t.Bold))
	}
	if t.Italic != nil {
		sb.WriteString("\\i" + boolTag(*t.Italic))
	}
	if t.Underline != nil {
		sb.WriteString("\\u" + boolTag(*t.Underline))
	}
	if t.Strikeout != nil {
		sb.WriteString("\\s" + boolTag(*t.Strikeout))
	}
	if t.PrimaryColor != "" {
		sb.WriteString("\\c" + t.PrimaryColor)
	}
	if t.SecondaryColor != "" {
		sb.WriteString("\\2c" + t.SecondaryColor)
	}
	if t.OutlineColor != "" {
		sb.WriteString("\\3c" + t.OutlineColor)
	}
	if t.ShadowColor != "" {
		sb.WriteString("\\4c" + t.ShadowColor)
	}
	if t.Alpha != "" {
		sb.WriteString("\\alpha" + t.Alpha)
	}
	if t.Spacing != nil {
		sb.WriteString("\\fsp" + formatTagNumber(*t.Spacing))
	}
	if t.ScaleX != nil {
		sb.WriteString("\\fscx" + formatTagNumber(*t.ScaleX))
	}
	if t.ScaleY != nil {
		sb.WriteString("\\fscy" + formatTagNumber(*t.ScaleY))
	}
	if t.RotationZ != nil {
		sb.WriteString("\\frz" + formatTagNumber(*t.RotationZ))
	}
	if t.RotationX != nil {
		sb.WriteString("\\frx" + formatTagNumber(*t.RotationX))
	}
	if t.RotationY != nil {
		sb.WriteString("\\fry" + formatTagNumber(*t.RotationY))
	}
	if t.Border != nil {
		sb.WriteString("\\bord" + formatTagNumber(*t.Border))
	}
	if t.Shadow != nil {
		sb.WriteString("\\shad" + formatTagNumber(*t.Shadow))
	}
	if t.Blur != nil {
		sb.WriteString("\\blur" + formatTagNumber(*t.Blur))
	}
	if t.Fade != nil {
		sb.WriteString(fmt.Sprintf("\\fad(%d,%d)", t.Fade.In, t.Fade.Out))
	}
	if t.Karaoke != nil {
		sb.WriteString(fmt.Sprintf("\\%s%d", t.Karaoke.Type, t.Karaoke.Duration))
	}
	for _, tr := range t.Transforms {
		sb.WriteString("\\t(" + tr + ")")
	}
	for _, u := range t.Unknown {
		sb.WriteString("\\" + u)
	}

	return sb.String()
}

// Merge returns a copy of t with unset fields filled from other.
// Transforms and Unknown are concatenated.
func (t TagBlock) Merge(other TagBlock) TagBlock {
	out := t

	fillBool := func(dst **bool, src *bool) {
		if *dst == nil {
			*dst = src
		}
	}
	fillFloat := func(dst **float64, src *float64) {
		if *dst == nil {
			*dst = src
		}
	}
	fillInt := func(dst **int, src *int) {
		if *dst == nil {
			*dst = src
		}
	}
	fillStr := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}

	fillBool(&out.Bold, other.Bold)
	fillBool(&out.Italic, other.Italic)
	fillBool(&out.Underline, other.Underline)
	fillBool(&out.Strikeout, other.Strikeout)
	fillInt(&out.Alignment, other.Alignment)
	fillFloat(&out.PositionX, other.PositionX)
	fillFloat(&out.PositionY, other.PositionY)
	fillFloat(&out.OriginX, other.OriginX)
	fillFloat(&out.OriginY, other.OriginY)
	fillFloat(&out.MoveX1, other.MoveX1)
	fillFloat(&out.MoveY1, other.MoveY1)
	fillFloat(&out.MoveX2, other.MoveX2)
	fillFloat(&out.MoveY2, other.MoveY2)
	fillInt(&out.MoveT1, other.MoveT1)
	fillInt(&out.MoveT2, other.MoveT2)
	fillStr(&out.FontName, other.FontName)
	fillFloat(&out.FontSize, other.FontSize)
	fillStr(&out.PrimaryColor, other.PrimaryColor)
	fillStr(&out.SecondaryColor, other.SecondaryColor)
	fillStr(&out.OutlineColor, other.OutlineColor)
	fillStr(&out.ShadowColor, other.ShadowColor)
	fillStr(&out.Alpha, other.Alpha)
	fillFloat(&out.Spacing, other.Spacing)
	fillFloat(&out.ScaleX, other.ScaleX)
	fillFloat(&out.ScaleY, other.ScaleY)
	fillFloat(&out.RotationX, other.RotationX)
	fillFloat(&out.RotationY, other.RotationY)
	fillFloat(&out.RotationZ, other.RotationZ)
	fillFloat(&out.Border, other.Border)
	fillFloat(&out.Shadow, other.Shadow)
	fillFloat(&out.Blur, other.Blur)
	if out.Fade == nil {
		out.Fade = other.Fade
	}
	if out.Karaoke == nil {
		out.Karaoke = other.Karaoke
	}
	out.Transforms = append(append([]string{}, t.Transforms...), other.Transforms...)
	out.Unknown = append(append([]string{}, t.Unknown...), other.Unknown...)
	return out
}

// Scale returns a copy with coordinates and pixel sizes scaled to a new
// resolution. ScaleX/ScaleY and spacing are percentages and stay put,
// Y-dependent sizes (font, border, shadow, blur) follow the Y factor.
func (t TagBlock) Scale(sx, sy float64) TagBlock {
	out := t

	mul := func(v *float64, f float64) *float64 {
		if v == nil {
			return nil
		}
		r := *v * f
		return &r
	}

	out.PositionX = mul(t.PositionX, sx)
	out.PositionY = mul(t.PositionY, sy)
	out.OriginX = mul(t.OriginX, sx)
	out.OriginY = mul(t.OriginY, sy)
	out.MoveX1 = mul(t.MoveX1, sx)
	out.MoveY1 = mul(t.MoveY1, sy)
	out.MoveX2 = mul(t.MoveX2, sx)
	out.MoveY2 = mul(t.MoveY2, sy)
	out.FontSize = mul(t.FontSize, sy)
	out.Border = mul(t.Border, sy)
	out.Shadow = mul(t.Shadow, sy)
	out.Blur = mul(t.Blur, sy)
	return out
}
