package lexicon

import "github.com/novalearn/safegate/pkg/domain/moderation"

// DefaultTerms is the compiled-in term list used when no custom list is
// configured. Deliberately small; the production lexicon is loaded from
// configuration.
func DefaultTerms() []Term {
	return []Term{
		{Word: "idiot", Severity: moderation.SeverityMild},
		{Word: "stupid", Severity: moderation.SeverityMild},
		{Word: "dumb", Severity: moderation.SeverityMild},
		{Word: "loser", Severity: moderation.SeverityMild},
		{Word: "hate", Severity: moderation.SeverityModerate},
		{Word: "ugly", Severity: moderation.SeverityModerate},
		{Word: "freak", Severity: moderation.SeverityModerate},
		{Word: "crap", Severity: moderation.SeverityModerate},
		{Word: "damn", Severity: moderation.SeverityModerate},
		{Word: "kill", Severity: moderation.SeveritySevere},
		{Word: "hurt", Severity: moderation.SeveritySevere},
		{Word: "die", Severity: moderation.SeveritySevere},
		{Word: "suicide", Severity: moderation.SeverityCritical},
		{Word: "weapon", Severity: moderation.SeverityCritical},
		{Word: "drugs", Severity: moderation.SeverityCritical},
	}
}

// DefaultNotifyTiers requests a guardian alert for severe and critical
// lexicon matches; mild and moderate are handled by masking alone.
func DefaultNotifyTiers() map[moderation.Severity]bool {
	return map[moderation.Severity]bool{
		moderation.SeveritySevere:   true,
		moderation.SeverityCritical: true,
	}
}
