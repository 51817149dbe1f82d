package ass

import (
	"fmt"
	"sort"
	"strconv"
)

const defaultLineHeight = 48.0

type verticalZone int

const (
	zoneBottom verticalZone = iota
	zoneMiddle
	zoneTop
)

func (s Segment) zone() verticalZone {
	for _, w := range s.Words {
		for _, sr := range w.Styles {
			if sr.Tags.Alignment != nil {
				switch an := *sr.Tags.Alignment; {
				case an >= 7:
					return zoneTop
				case an >= 4:
					return zoneMiddle
				}
				return zoneBottom
			}
		}
	}
	return zoneBottom
}

// ResolveCollisions stacks time-overlapping lines by bumping MarginV so
// they render above one another instead of being repositioned by the
// player. Lines anchored to different screen zones never collide.
func (f *File) ResolveCollisions() {
	byZone := map[verticalZone][]int{}
	for i, seg := range f.Segments {
		if seg.IsComment {
			continue
		}
		z := f.Segments[i].zone()
		byZone[z] = append(byZone[z], i)
	}

	for _, indices := range byZone {
		sort.SliceStable(indices, func(a, b int) bool {
			return f.Segments[indices[a]].Start() < f.Segments[indices[b]].Start()
		})

		type active struct {
			index  int
			margin int
		}
		var stack []active

		for _, i := range indices {
			seg := &f.Segments[i]

			live := stack[:0]
			for _, a := range stack {
				if f.Segments[a.index].End() > seg.Start() {
					live = append(live, a)
				}
			}
			stack = live

			if len(stack) > 0 {
				highest := 0
				for _, a := range stack {
					if a.margin > highest {
						highest = a.margin
					}
				}
				seg.MarginV = highest + int(f.lineHeight(seg.StyleName))
			}
			stack = append(stack, active{index: i, margin: seg.MarginV})
		}
	}
}

func (f *File) lineHeight(styleName string) float64 {
	for _, style := range f.Styles {
		if style.Name != styleName {
			continue
		}
		if raw, ok := style.Values["Fontsize"]; ok {
			if size, err := strconv.ParseFloat(raw, 64); err == nil && size > 0 {
				return size
			}
		}
	}
	return defaultLineHeight
}

var resampledStyleFields = map[string]byte{
	"Fontsize": 'y',
	"Outline":  'y',
	"Shadow":   'y',
	"Spacing":  'x',
	"MarginL":  'x',
	"MarginR":  'x',
	"MarginV":  'y',
}

// ResampleResolution rescales every size and position in the script to
// a new playback resolution. The script must declare PlayResX and
// PlayResY for the source resolution.
func (f *File) ResampleResolution(targetX, targetY int) error {
	srcX, errX := strconv.Atoi(f.ScriptInfoValue("PlayResX"))
	srcY, errY := strconv.Atoi(f.ScriptInfoValue("PlayResY"))
	if errX != nil || errY != nil || srcX <= 0 || srcY <= 0 {
		return fmt.Errorf("cannot resample: script has no valid PlayResX/PlayResY")
	}
	if targetX <= 0 || targetY <= 0 {
		return fmt.Errorf("cannot resample to %dx%d", targetX, targetY)
	}

	sx := float64(targetX) / float64(srcX)
	sy := float64(targetY) / float64(srcY)

	for si := range f.Styles {
		for field, axis := range resampledStyleFields {
			raw, ok := f.Styles[si].Values[field]
			if !ok {
				continue
			}
			value, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				continue
			}
			scale := sx
			if axis == 'y' {
				scale = sy
			}
			f.Styles[si].Values[field] = formatTagNumber(value * scale)
		}
	}

	for i := range f.Segments {
		seg := &f.Segments[i]
		seg.MarginL = int(float64(seg.MarginL)*sx + 0.5)
		seg.MarginR = int(float64(seg.MarginR)*sx + 0.5)
		seg.MarginV = int(float64(seg.MarginV)*sy + 0.5)
		for wi := range seg.Words {
			for ri := range seg.Words[wi].Styles {
				seg.Words[wi].Styles[ri].Tags = seg.Words[wi].Styles[ri].Tags.Scale(sx, sy)
			}
		}
	}

	f.SetScriptInfo("PlayResX", strconv.Itoa(targetX))
	f.SetScriptInfo("PlayResY", strconv.Itoa(targetY))
	return nil
}
