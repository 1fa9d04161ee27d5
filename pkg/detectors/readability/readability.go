package readability

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"

	"github.com/novalearn/safegate/pkg/domain/moderation"
)

const (
	// ReasonBelowMinimumAge is reported when the declared age is under the
	// platform floor, regardless of text.
	ReasonBelowMinimumAge = "content requires a higher minimum age"

	DefaultMinimumAge = 7
)

// AgeTier caps the difficulty score allowed for readers up to MaxAge.
type AgeTier struct {
	MaxAge  int
	Ceiling float64
}

// DefaultAgeTiers gives younger readers stricter ceilings. The last tier is
// the catch-all for older readers.
func DefaultAgeTiers() []AgeTier {
	return []AgeTier{
		{MaxAge: 8, Ceiling: 40},
		{MaxAge: 10, Ceiling: 55},
		{MaxAge: 13, Ceiling: 70},
		{MaxAge: 17, Ceiling: 85},
	}
}

// Evaluator scores text complexity against the reader's declared age bracket.
// It is advisory: its signal never exceeds mild severity, so an
// age-appropriateness failure alone can never block content.
type Evaluator struct {
	logger     *logrus.Logger
	minimumAge int
	tiers      []AgeTier
}

func NewEvaluator(logger *logrus.Logger, minimumAge int, tiers []AgeTier) *Evaluator {
	if minimumAge <= 0 {
		minimumAge = DefaultMinimumAge
	}
	if len(tiers) == 0 {
		tiers = DefaultAgeTiers()
	}
	return &Evaluator{
		logger:     logger,
		minimumAge: minimumAge,
		tiers:      tiers,
	}
}

// Evaluate returns a pass/fail signal for the given declared age. Age zero or
// negative means no age was declared and the check is skipped.
func (e *Evaluator) Evaluate(text string, age int) moderation.Signal {
	signal := moderation.NeutralSignal(moderation.DetectorReadability)
	if age <= 0 {
		return signal
	}

	if age < e.minimumAge {
		signal.Triggered = true
		signal.Severity = moderation.SeverityMild
		signal.Reason = ReasonBelowMinimumAge
		signal.Categories = []string{"age_restriction"}
		return signal
	}

	score := DifficultyScore(text)
	ceiling := e.ceilingFor(age)
	if score <= ceiling {
		return signal
	}

	signal.Triggered = true
	signal.Severity = moderation.SeverityMild
	signal.Reason = fmt.Sprintf("text difficulty %.1f exceeds ceiling %.1f for age %d", score, ceiling, age)
	signal.Categories = []string{"reading_level"}
	return signal
}

func (e *Evaluator) ceilingFor(age int) float64 {
	for _, tier := range e.tiers {
		if age <= tier.MaxAge {
			return tier.Ceiling
		}
	}
	return e.tiers[len(e.tiers)-1].Ceiling
}

// DifficultyScore inverts a Flesch-Reading-Ease style formula so that higher
// output means harder text, clamped to [0,100].
func DifficultyScore(text string) float64 {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}

	sentences := countSentences(text)
	syllables := 0
	for _, w := range words {
		syllables += countSyllables(w)
	}

	ease := 206.835 - 1.015*(float64(len(words))/float64(sentences)) - 84.6*(float64(syllables)/float64(len(words)))
	difficulty := 100 - ease
	if difficulty < 0 {
		return 0
	}
	if difficulty > 100 {
		return 100
	}
	return difficulty
}

// countSentences counts runs of terminator punctuation, so an ellipsis or a
// "?!" combination ends one sentence, not several.
func countSentences(text string) int {
	count := 0
	inRun := false
	for _, r := range text {
		terminator := r == '.' || r == '!' || r == '?'
		if terminator && !inRun {
			count++
		}
		inRun = terminator
	}
	if count == 0 {
		return 1
	}
	return count
}

// countSyllables approximates syllables as vowel clusters, with a floor of
// one per word.
func countSyllables(word string) int {
	count := 0
	prevVowel := false
	for _, r := range strings.ToLower(word) {
		vowel := isVowel(r)
		if vowel && !prevVowel {
			count++
		}
		prevVowel = vowel
	}
	if count == 0 {
		return 1
	}
	return count
}

func isVowel(r rune) bool {
	switch unicode.ToLower(r) {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}
