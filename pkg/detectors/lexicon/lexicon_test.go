package lexicon_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/novalearn/safegate/pkg/detectors/lexicon"
	"github.com/novalearn/safegate/pkg/domain/moderation"
)

func newScanner() *lexicon.Scanner {
	return lexicon.NewScanner(logrus.New(), lexicon.DefaultTerms(), lexicon.DefaultNotifyTiers())
}

func TestScan_MasksMatchedWord(t *testing.T) {
	scanner := newScanner()

	signal := scanner.Scan("you are an idiot")

	assert.True(t, signal.Triggered)
	assert.Equal(t, moderation.SeverityMild, signal.Severity)
	assert.Equal(t, "you are an ***", signal.Transformed)
	assert.Equal(t, []string{"idiot"}, signal.Categories)
	assert.False(t, signal.NotifyGuardian)
}

func TestScan_CaseInsensitive(t *testing.T) {
	scanner := newScanner()

	signal := scanner.Scan("you are an IDIOT")

	assert.True(t, signal.Triggered)
	assert.Equal(t, "you are an ***", signal.Transformed)
}

func TestScan_WordBounded(t *testing.T) {
	scanner := newScanner()

	// "die" must not match inside "diet".
	signal := scanner.Scan("I am on a diet")

	assert.False(t, signal.Triggered)
	assert.Equal(t, moderation.SeverityNone, signal.Severity)
	assert.Empty(t, signal.Transformed)
}

func TestScan_SurroundingPunctuation(t *testing.T) {
	scanner := newScanner()

	signal := scanner.Scan("idiot!!!")

	assert.True(t, signal.Triggered)
	assert.Equal(t, "***!!!", signal.Transformed)
}

func TestScan_HighestSeverityWins(t *testing.T) {
	scanner := newScanner()

	signal := scanner.Scan("you idiot, I will kill you")

	assert.True(t, signal.Triggered)
	assert.Equal(t, moderation.SeveritySevere, signal.Severity)
	assert.Equal(t, []string{"idiot", "kill"}, signal.Categories)
	assert.True(t, signal.NotifyGuardian)
	assert.Equal(t, "you ***, I will *** you", signal.Transformed)
}

func TestScan_MaskLengthIsFixed(t *testing.T) {
	scanner := newScanner()

	short := scanner.Scan("die")
	long := scanner.Scan("suicide")

	assert.Equal(t, lexicon.MaskToken, short.Transformed)
	assert.Equal(t, lexicon.MaskToken, long.Transformed)
}

func TestScan_CleanText(t *testing.T) {
	scanner := newScanner()

	signal := scanner.Scan("I like turtles and drawing")

	assert.False(t, signal.Triggered)
	assert.Empty(t, signal.Categories)
}

func TestAutoCorrect_CollapsesRepeatedRunes(t *testing.T) {
	scanner := newScanner()

	assert.Equal(t, "soo cool", scanner.AutoCorrect("sooooo cool"))
	assert.Equal(t, "yess", scanner.AutoCorrect("yessss"))
}

func TestAutoCorrect_CollapsesPunctuationRuns(t *testing.T) {
	scanner := newScanner()

	assert.Equal(t, "what?!", scanner.AutoCorrect("what?!?!?!"))
	assert.Equal(t, "no!!", scanner.AutoCorrect("no!!!!!"))
}

func TestAutoCorrect_PreservesMaskToken(t *testing.T) {
	scanner := newScanner()

	assert.Equal(t, "you are an ***", scanner.AutoCorrect("you are an ***"))
	assert.Equal(t, "[PHONE]", scanner.AutoCorrect("[PHONE]"))
}

func TestAutoCorrect_Idempotent(t *testing.T) {
	scanner := newScanner()

	inputs := []string{
		"sooooo cool!!!!",
		"you are an ***",
		"what?!?!?!",
		"plain text with no repeats.",
	}
	for _, in := range inputs {
		once := scanner.AutoCorrect(in)
		twice := scanner.AutoCorrect(once)
		assert.Equal(t, once, twice, "autocorrect must be a fixed point for %q", in)
	}
}
