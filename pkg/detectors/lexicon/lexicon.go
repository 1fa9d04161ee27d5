package lexicon

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"

	"github.com/novalearn/safegate/pkg/domain/moderation"
)

const MaskToken = "***"

// wordPattern tokenizes on letter/digit runs so matching is word-bounded and
// cannot be defeated by surrounding punctuation.
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}']+`)

// Term is one lexicon entry with its severity tier.
type Term struct {
	Word     string
	Severity moderation.Severity
}

// Scanner matches text against a curated term list. The term table is built
// once and read-only afterwards, safe for concurrent use.
type Scanner struct {
	logger      *logrus.Logger
	terms       map[string]moderation.Severity
	notifyTiers map[moderation.Severity]bool
}

// NewScanner compiles the given term list. notifyTiers marks the severity
// tiers whose matches require a guardian alert.
func NewScanner(logger *logrus.Logger, terms []Term, notifyTiers map[moderation.Severity]bool) *Scanner {
	table := make(map[string]moderation.Severity, len(terms))
	for _, t := range terms {
		table[strings.ToLower(t.Word)] = t.Severity
	}
	return &Scanner{
		logger:      logger,
		terms:       table,
		notifyTiers: notifyTiers,
	}
}

// Scan matches the text case-insensitively and word-bounded against the term
// table. Every matched span is replaced with the fixed-length mask token so
// the mask never leaks word length. Multiple matches take the highest
// severity found.
func (s *Scanner) Scan(text string) moderation.Signal {
	signal := moderation.NeutralSignal(moderation.DetectorLexicon)

	locs := wordPattern.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return signal
	}

	var b strings.Builder
	last := 0
	highest := moderation.SeverityNone
	var matched []string

	for _, loc := range locs {
		word := text[loc[0]:loc[1]]
		severity, ok := s.terms[strings.ToLower(word)]
		if !ok {
			continue
		}
		b.WriteString(text[last:loc[0]])
		b.WriteString(MaskToken)
		last = loc[1]
		matched = append(matched, strings.ToLower(word))
		if severity.Rank() > highest.Rank() {
			highest = severity
		}
	}

	if len(matched) == 0 {
		return signal
	}
	b.WriteString(text[last:])

	signal.Triggered = true
	signal.Severity = highest
	signal.Categories = matched
	signal.Transformed = b.String()
	signal.NotifyGuardian = s.notifyTiers[highest]
	return signal
}

// AutoCorrect normalizes exaggerated typing: runs of 3+ repeated characters
// collapse to 2, and runs of 3+ punctuation marks collapse to 2. It must be
// applied after masking, never before, so repetition inside a flagged word
// cannot evade the term match. The mask token itself is left intact.
func (s *Scanner) AutoCorrect(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	runes := []rune(text)
	for i := 0; i < len(runes); {
		r := runes[i]

		// identical-rune run
		j := i
		for j < len(runes) && runes[j] == r {
			j++
		}
		runLen := j - i

		if runLen >= 3 && r != '*' {
			b.WriteRune(r)
			b.WriteRune(r)
			i = j
			continue
		}

		// mixed punctuation run ("?!?!?!" style)
		if isCollapsiblePunct(r) {
			k := i
			for k < len(runes) && isCollapsiblePunct(runes[k]) {
				k++
			}
			if k-i >= 3 {
				b.WriteRune(runes[i])
				b.WriteRune(runes[i+1])
				i = k
				continue
			}
		}

		for ; i < j; i++ {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// '*' is excluded so the mask token survives normalization and a masked text
// is a fixed point of the whole transform chain.
func isCollapsiblePunct(r rune) bool {
	return r != '*' && r != '[' && r != ']' && (unicode.IsPunct(r) || unicode.IsSymbol(r))
}
