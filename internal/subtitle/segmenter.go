package subtitle

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

// SegmenterConfig exposes the cost-model tuning knobs. The defaults are
// calibrated for ~42-character lines at conversational reading speed.
type SegmenterConfig struct {
	// CharLimit is the hard cap on rendered segment length.
	CharLimit int
	// TargetCPS is the reading speed above which a penalty accrues.
	TargetCPS float64
	// MaxCPS is the hard reading-speed ceiling. Candidates above it are
	// rejected outright. Zero disables the ceiling.
	MaxCPS float64
	// BaseCost is charged per segment to discourage fragmentation.
	BaseCost float64
	// UnderfillPenalty is charged per character left under CharLimit.
	UnderfillPenalty float64
	// CPSPenalty scales the squared excess over TargetCPS.
	CPSPenalty float64
	// PunctuationBonuses maps a segment-final rune to a negative cost.
	PunctuationBonuses map[rune]float64
	// SilenceThreshold is the minimum gap treated as a real pause.
	SilenceThreshold time.Duration
	// SilenceCap bounds the gap size credited by SilenceReward.
	SilenceCap time.Duration
	// SilenceReward is the negative cost per (capped) second of pause.
	SilenceReward float64
	// FlickerPenalty is charged per second of gap shortfall when a break
	// lands inside a near-contiguous word run.
	FlickerPenalty float64
	// OverflowBase and OverflowPerChar penalize a single word that alone
	// exceeds CharLimit, keeping the optimization finite.
	OverflowBase    float64
	OverflowPerChar float64
}

func DefaultSegmenterConfig() SegmenterConfig {
	return SegmenterConfig{
		CharLimit:        42,
		TargetCPS:        20,
		MaxCPS:           21,
		BaseCost:         15,
		UnderfillPenalty: 0.5,
		CPSPenalty:       50,
		PunctuationBonuses: map[rune]float64{
			'.': -60,
			'!': -60,
			'?': -60,
			':': -30,
			';': -30,
			',': -25,
			'-': -15,
		},
		SilenceThreshold: 100 * time.Millisecond,
		SilenceCap:       time.Second,
		SilenceReward:    100,
		FlickerPenalty:   100,
		OverflowBase:     10000,
		OverflowPerChar:  10,
	}
}

// Segmenter partitions a timed word stream into subtitle segments by
// minimizing a cumulative cost over all break placements.
type Segmenter struct {
	cfg SegmenterConfig
}

func NewSegmenter(cfg SegmenterConfig) *Segmenter {
	if cfg.CharLimit <= 0 {
		cfg.CharLimit = DefaultSegmenterConfig().CharLimit
	}
	return &Segmenter{cfg: cfg}
}

// Segment partitions words into cues. Every valid input word appears
// in exactly one output segment, in order. Words with blank text or an
// end before their start are dropped. Words must be sorted by start.
func (s *Segmenter) Segment(words []Word) []Segment {
	words = filterWords(words)
	if len(words) == 0 {
		return nil
	}

	n := len(words)
	dp := make([]float64, n+1)
	breaks := make([]int, n+1)

	for i := n - 1; i >= 0; i-- {
		minTotal := math.Inf(1)
		bestJ := i + 1

		for j := i; j < n; j++ {
			cost, overLimit := s.cost(words, i, j)
			if overLimit {
				// char count only grows with j, nothing further fits
				break
			}
			if math.IsInf(cost, 1) {
				continue
			}

			total := cost + dp[j+1]
			if total < minTotal {
				minTotal = total
				bestJ = j + 1
			}
		}

		if math.IsInf(minTotal, 1) {
			// every candidate was rejected, force a single-word break
			dp[i] = 1e6
			bestJ = i + 1
		} else {
			dp[i] = minTotal
		}
		breaks[i] = bestJ
	}

	var segments []Segment
	for curr := 0; curr < n; {
		next := breaks[curr]
		seg := Segment{Words: make([]Word, next-curr)}
		copy(seg.Words, words[curr:next])
		segments = append(segments, seg)
		curr = next
	}
	return segments
}

// cost scores the candidate segment words[i..j]. The overLimit return
// signals that the joined text exceeds CharLimit for a multi-word run,
// which lets the caller stop extending j.
func (s *Segmenter) cost(words []Word, i, j int) (float64, bool) {
	charCount := joinedLength(words[i : j+1])

	if charCount > s.cfg.CharLimit {
		if i == j {
			overflow := float64(charCount - s.cfg.CharLimit)
			return s.cfg.OverflowBase + overflow*s.cfg.OverflowPerChar, false
		}
		return math.Inf(1), true
	}

	cost := s.cfg.BaseCost

	// prefer filling lines up to the limit
	cost += float64(s.cfg.CharLimit-charCount) * s.cfg.UnderfillPenalty

	// reading speed
	duration := (words[j].End - words[i].Start).Seconds()
	if duration > 0 {
		cps := float64(charCount) / duration
		if s.cfg.MaxCPS > 0 && cps > s.cfg.MaxCPS {
			return math.Inf(1), false
		}
		if cps > s.cfg.TargetCPS {
			excess := cps - s.cfg.TargetCPS
			cost += excess * excess * s.cfg.CPSPenalty
		}
	}

	// punctuation at the break point
	last := strings.TrimSpace(words[j].Text)
	if last != "" {
		r, _ := utf8.DecodeLastRuneInString(last)
		cost += s.cfg.PunctuationBonuses[r]
	}

	// silence after the break point
	if j < len(words)-1 {
		gap := words[j+1].Start - words[j].End
		if gap > s.cfg.SilenceThreshold {
			credited := gap
			if credited > s.cfg.SilenceCap {
				credited = s.cfg.SilenceCap
			}
			cost -= credited.Seconds() * s.cfg.SilenceReward
		} else if gap > 0 {
			cost += (s.cfg.SilenceThreshold - gap).Seconds() * s.cfg.FlickerPenalty
		}
	}

	return cost, false
}

// filterWords drops words that carry no usable text or timing.
func filterWords(words []Word) []Word {
	out := make([]Word, 0, len(words))
	for _, w := range words {
		if strings.TrimSpace(w.Text) == "" || w.End < w.Start {
			continue
		}
		out = append(out, w)
	}
	return out
}

func joinedLength(words []Word) int {
	count := 0
	for idx, w := range words {
		if idx > 0 {
			count++
		}
		count += utf8.RuneCountInString(w.Text)
	}
	return count
}
