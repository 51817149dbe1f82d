package subtitle

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type SRTFile struct {
	subs *Subtitles
}

type srtCue struct {
	start time.Duration
	end   time.Duration
	text  string
}

func parseSRTFile(path string) (*SRTFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SRT file: %w", err)
	}
	defer file.Close()

	var cues []srtCue
	scanner := bufio.NewScanner(file)

	timestampRegex := regexp.MustCompile(
		`(\d{2}):(\d{2}):(\d{2}),(\d{3})\s*-->\s*(\d{2}):(\d{2}):(\d{2}),(\d{3})`,
	)

	var current *srtCue
	var textLines []string
	lineNum := 0

	flush := func() {
		if current != nil && current.start >= 0 && len(textLines) > 0 {
			current.text = strings.Join(textLines, "\n")
			cues = append(cues, *current)
		}
		current = nil
		textLines = nil
	}

	for scanner.Scan() {
		line := scanner.Text()
		lineNum++

		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\uFEFF")
		}

		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}

		if current == nil {
			// cue index line, value itself is ignored
			if _, err := strconv.Atoi(strings.TrimSpace(line)); err == nil {
				current = &srtCue{start: -1, end: -1}
				continue
			}
		}

		if current != nil && current.start < 0 {
			matches := timestampRegex.FindStringSubmatch(line)
			if len(matches) == 9 {
				startTime, err := clockTimestamp(
					matches[1], matches[2], matches[3], matches[4],
				)
				if err != nil {
					return nil, fmt.Errorf(
						"invalid start timestamp at line %d: %w", lineNum, err,
					)
				}
				endTime, err := clockTimestamp(
					matches[5], matches[6], matches[7], matches[8],
				)
				if err != nil {
					return nil, fmt.Errorf(
						"invalid end timestamp at line %d: %w", lineNum, err,
					)
				}
				current.start = startTime
				current.end = endTime
				continue
			}
		}

		if current != nil {
			textLines = append(textLines, line)
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading SRT file: %w", err)
	}

	return &SRTFile{subs: cuesToSubtitles(cues)}, nil
}

func cuesToSubtitles(cues []srtCue) *Subtitles {
	subs := &Subtitles{}
	for _, c := range cues {
		words := DistributeWords(c.text, c.start, c.end)
		if len(words) == 0 {
			continue
		}
		subs.Segments = append(subs.Segments, Segment{Words: words})
	}
	return subs
}

// clockTimestamp builds a duration from HH/MM/SS/mmm components.
func clockTimestamp(
	hours, minutes, seconds, millis string,
) (time.Duration, error) {
	h, err := strconv.Atoi(hours)
	if err != nil {
		return 0, err
	}
	m, err := strconv.Atoi(minutes)
	if err != nil {
		return 0, err
	}
	s, err := strconv.Atoi(seconds)
	if err != nil {
		return 0, err
	}
	ms, err := strconv.Atoi(millis)
	if err != nil {
		return 0, err
	}

	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(ms)*time.Millisecond, nil
}

func (f *SRTFile) Format() Format {
	return FormatSRT
}

func (f *SRTFile) Subtitles() *Subtitles {
	return f.subs
}

func (f *SRTFile) SetText(index int, text string) error {
	if index < 0 || index >= len(f.subs.Segments) {
		return fmt.Errorf(
			"index %d out of range (0-%d)", index, len(f.subs.Segments)-1,
		)
	}
	seg := &f.subs.Segments[index]
	seg.Words = DistributeWords(text, seg.Start(), seg.End())
	return nil
}

func (f *SRTFile) Write(path string) error {
	writer, err := NewWriter(FormatSRT)
	if err != nil {
		return err
	}
	return writer.Write(f.subs, path)
}
