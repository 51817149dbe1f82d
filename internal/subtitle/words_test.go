package subtitle

import (
	"testing"
	"time"
)

func TestDistributeWords(t *testing.T) {
	words := DistributeWords("ab cd", 0, 2*time.Second)
	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(words))
	}
	// equal rune counts split the span evenly
	if words[0].Start != 0 || words[0].End != time.Second {
		t.Errorf("first word: %v-%v", words[0].Start, words[0].End)
	}
	if words[1].Start != time.Second || words[1].End != 2*time.Second {
		t.Errorf("second word: %v-%v", words[1].Start, words[1].End)
	}
}

func TestDistributeWordsProportional(t *testing.T) {
	// 6 runes vs 2 runes over 4 seconds: 3s and 1s
	words := DistributeWords("abcdef gh", time.Second, 5*time.Second)
	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(words))
	}
	if words[0].End != 4*time.Second {
		t.Errorf("first word end: %v", words[0].End)
	}
	if words[1].End != 5*time.Second {
		t.Errorf("last word must end at the cue end, got %v", words[1].End)
	}
}

func TestDistributeWordsContiguous(t *testing.T) {
	words := DistributeWords("one two three four five", 0, 3*time.Second)
	for i := 1; i < len(words); i++ {
		if words[i].Start != words[i-1].End {
			t.Errorf("gap between word %d and %d: %v vs %v",
				i-1, i, words[i-1].End, words[i].Start)
		}
	}
	if words[len(words)-1].End != 3*time.Second {
		t.Errorf("final end: %v", words[len(words)-1].End)
	}
}

func TestDistributeWordsMultiline(t *testing.T) {
	words := DistributeWords("top\nbottom line", 0, time.Second)
	if len(words) != 3 {
		t.Fatalf("expected 3 words, got %d", len(words))
	}
	if words[0].Text != "top" || words[1].Text != "bottom" {
		t.Errorf("texts: %q %q", words[0].Text, words[1].Text)
	}
}

func TestDistributeWordsEmpty(t *testing.T) {
	if got := DistributeWords("   ", 0, time.Second); got != nil {
		t.Errorf("expected nil for blank text, got %v", got)
	}
}

func TestDistributeWordsInvertedRange(t *testing.T) {
	words := DistributeWords("a b", 2*time.Second, time.Second)
	for _, w := range words {
		if w.Start != 2*time.Second || w.End != 2*time.Second {
			t.Errorf("inverted range must collapse to start: %+v", w)
		}
	}
}
