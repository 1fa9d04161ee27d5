package pii

import (
	"regexp"

	"github.com/sirupsen/logrus"

	"github.com/novalearn/safegate/pkg/domain/moderation"
)

// Category names reported on the PII signal and stored on the record.
const (
	CategoryEmail      = "email"
	CategoryPhone      = "phone"
	CategoryNationalID = "national_id"
	CategoryAddress    = "address"
)

type entity struct {
	category    string
	pattern     *regexp.Regexp
	placeholder string
}

// Detection order matters: emails first so their digit-bearing local parts
// are consumed before the phone and id-number patterns see them, phones
// before bare digit runs.
var entities = []entity{
	{
		category:    CategoryEmail,
		pattern:     regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		placeholder: "[EMAIL]",
	},
	{
		category:    CategoryPhone,
		pattern:     regexp.MustCompile(`(\+\d{1,3}[\s.-]?)?\b\d{9,10}\b|\+\d{1,3}[\s.-]\d{1,4}([\s.-]\d{2,4}){1,4}`),
		placeholder: "[PHONE]",
	},
	{
		category:    CategoryNationalID,
		pattern:     regexp.MustCompile(`\b\d{11,15}\b`),
		placeholder: "[ID_NUMBER]",
	},
	{
		category:    CategoryAddress,
		pattern:     regexp.MustCompile(`(?i)\b\d{1,5}\s+(?:[a-z]+\s+){0,3}(?:street|st|avenue|ave|road|rd|boulevard|blvd|lane|ln|drive|dr|rue|allée|chemin|impasse)\b`),
		placeholder: "[ADDRESS]",
	},
}

// Detector finds structural personally-identifiable patterns and replaces
// each match with a category-specific placeholder. Pattern tables are
// read-only and safe for concurrent use.
type Detector struct {
	logger *logrus.Logger
}

func NewDetector(logger *logrus.Logger) *Detector {
	return &Detector{logger: logger}
}

// Detect runs every pattern matcher, accumulating all matched categories
// rather than stopping at the first. It never fails on malformed input; a
// text with no pattern is the trivial negative case.
func (d *Detector) Detect(text string) moderation.Signal {
	signal := moderation.NeutralSignal(moderation.DetectorPII)
	if text == "" {
		return signal
	}

	masked := text
	var categories []string

	for _, e := range entities {
		if !e.pattern.MatchString(masked) {
			continue
		}
		masked = e.pattern.ReplaceAllString(masked, e.placeholder)
		categories = append(categories, e.category)
	}

	if len(categories) == 0 {
		return signal
	}

	signal.Triggered = true
	signal.Severity = moderation.SeverityModerate
	signal.Categories = categories
	signal.Transformed = masked
	// Exposed PII from a child account always warrants a guardian alert.
	signal.NotifyGuardian = true
	return signal
}
