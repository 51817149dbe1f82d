package ass

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTagBlock parses the body of a {...} override block (braces
// already stripped) into a TagBlock. Unrecognized fragments land in
// Unknown verbatim. Recoverable oddities are reported as warnings.
func ParseTagBlock(body string) (TagBlock, []string) {
	var block TagBlock
	var warnings []string

	for _, frag := range splitTagFragments(body) {
		parseTagFragment(&block, frag, &warnings)
	}
	return block, warnings
}

// splitTagFragments splits "b1\fs48\t(0,100,\fscx200)" into fragments
// at backslashes outside parentheses, stripping the backslash.
func splitTagFragments(body string) []string {
	var fragments []string
	depth := 0
	start := 0

	flush := func(end int) {
		frag := body[start:end]
		frag = strings.TrimPrefix(frag, "\\")
		if frag != "" {
			fragments = append(fragments, frag)
		}
	}

	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case '\\':
			if depth == 0 && i > start {
				flush(i)
				start = i
			}
		}
	}
	flush(len(body))
	return fragments
}

func parseTagFragment(block *TagBlock, frag string, warnings *[]string) {
	parenBody := func(prefix string) (string, bool) {
		if strings.HasPrefix(frag, prefix) {
			rest := frag[len(prefix):]
			return strings.TrimSuffix(rest, ")"), true
		}
		return "", false
	}

	if body, ok := parenBody("t("); ok {
		block.Transforms = append(block.Transforms, body)
		return
	}
	if body, ok := parenBody("move("); ok {
		parseMove(block, body, warnings)
		return
	}
	if body, ok := parenBody("pos("); ok {
		if x, y, ok := parseCoordPair(body); ok {
			block.PositionX, block.PositionY = x, y
			return
		}
	}
	if body, ok := parenBody("org("); ok {
		if x, y, ok := parseCoordPair(body); ok {
			block.OriginX, block.OriginY = x, y
			return
		}
	}
	if body, ok := parenBody("fad("); ok {
		parts := strings.Split(body, ",")
		if len(parts) == 2 {
			in, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
			out, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
			if err1 == nil && err2 == nil {
				block.Fade = &Fade{In: in, Out: out}
				return
			}
		}
	}

	// paren forms that match no known tag (\clip, \iclip, \fade) must
	// not fall through to the prefix cases below, where \clip would be
	// swallowed by the bare c color tag. Keep them verbatim instead.
	if strings.Contains(frag, "(") {
		block.Unknown = append(block.Unknown, frag)
		return
	}

	// simple value tags, longest prefixes first
	type numTarget struct {
		prefix string
		dest   **float64
	}
	numeric := []numTarget{
		{"fscx", &block.ScaleX},
		{"fscy", &block.ScaleY},
		{"fsp", &block.Spacing},
		{"frx", &block.RotationX},
		{"fry", &block.RotationY},
		{"frz", &block.RotationZ},
		{"bord", &block.Border},
		{"blur", &block.Blur},
		{"shad", &block.Shadow},
		{"fs", &block.FontSize},
	}
	for _, nt := range numeric {
		if strings.HasPrefix(frag, nt.prefix) {
			if v, err := strconv.ParseFloat(frag[len(nt.prefix):], 64); err == nil {
				*nt.dest = &v
				return
			}
		}
	}

	switch {
	case strings.HasPrefix(frag, "alpha"):
		block.Alpha = frag[len("alpha"):]
		return
	case strings.HasPrefix(frag, "an"):
		if v, err := strconv.Atoi(frag[2:]); err == nil {
			block.Alignment = &v
			return
		}
	case strings.HasPrefix(frag, "fn"):
		block.FontName = frag[2:]
		return
	case strings.HasPrefix(frag, "1c"):
		block.PrimaryColor = frag[2:]
		return
	case strings.HasPrefix(frag, "2c"):
		block.SecondaryColor = frag[2:]
		return
	case strings.HasPrefix(frag, "3c"):
		block.OutlineColor = frag[2:]
		return
	case strings.HasPrefix(frag, "4c"):
		block.ShadowColor = frag[2:]
		return
	case strings.HasPrefix(frag, "c"):
		block.PrimaryColor = frag[1:]
		return
	}

	if done := parseBoolTag(block, frag); done {
		return
	}
	if done := parseKaraokeTag(block, frag); done {
		return
	}

	block.Unknown = append(block.Unknown, frag)
}

func parseBoolTag(block *TagBlock, frag string) bool {
	if len(frag) != 2 {
		return false
	}
	var v bool
	switch frag[1] {
	case '1':
		v = true
	case '0':
		v = false
	default:
		return false
	}
	switch frag[0] {
	case 'b':
		block.Bold = &v
	case 'i':
		block.Italic = &v
	case 'u':
		block.Underline = &v
	case 's':
		block.Strikeout = &v
	default:
		return false
	}
	return true
}

func parseKaraokeTag(block *TagBlock, frag string) bool {
	for _, typ := range []string{"kf", "ko", "K", "k"} {
		if strings.HasPrefix(frag, typ) {
			rest := frag[len(typ):]
			if rest == "" {
				block.Karaoke = &Karaoke{Type: typ}
				return true
			}
			if v, err := strconv.Atoi(rest); err == nil {
				block.Karaoke = &Karaoke{Type: typ, Duration: v}
				return true
			}
		}
	}
	return false
}

func parseCoordPair(body string) (*float64, *float64, bool) {
	parts := strings.Split(body, ",")
	if len(parts) != 2 {
		return nil, nil, false
	}
	x, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	y, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return nil, nil, false
	}
	return &x, &y, true
}

// parseMove accepts 4 or 6 parameters. Anything else is dropped with a
// warning so a bad move tag cannot poison the rest of the block.
func parseMove(block *TagBlock, body string, warnings *[]string) {
	parts := strings.Split(body, ",")
	if len(parts) != 4 && len(parts) != 6 {
		*warnings = append(*warnings, fmt.Sprintf(
			"ignoring \\move tag with %d parameters", len(parts)))
		return
	}

	coords := make([]float64, 4)
	for i := 0; i < 4; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			*warnings = append(*warnings, fmt.Sprintf(
				"ignoring \\move tag with bad coordinate %q", parts[i]))
			return
		}
		coords[i] = v
	}
	block.MoveX1, block.MoveY1 = &coords[0], &coords[1]
	block.MoveX2, block.MoveY2 = &coords[2], &coords[3]

	if len(parts) == 6 {
		t1, err1 := strconv.Atoi(strings.TrimSpace(parts[4]))
		t2, err2 := strconv.Atoi(strings.TrimSpace(parts[5]))
		if err1 != nil || err2 != nil {
			*warnings = append(*warnings, "ignoring \\move timing parameters")
			block.MoveX1, block.MoveY1 = nil, nil
			block.MoveX2, block.MoveY2 = nil, nil
			return
		}
		block.MoveT1, block.MoveT2 = &t1, &t2
	}
}
