package moderation

// Severity is the ordered risk level assigned per detector signal and fused
// across signals by taking the maximum.
type Severity string

const (
	SeverityNone     Severity = "none"
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
	SeverityCritical Severity = "critical"
)

var severityRank = map[Severity]int{
	SeverityNone:     0,
	SeverityMild:     1,
	SeverityModerate: 2,
	SeveritySevere:   3,
	SeverityCritical: 4,
}

func (s Severity) Rank() int {
	return severityRank[s]
}

// ParseSeverity validates a configured severity name.
func ParseSeverity(s string) (Severity, bool) {
	severity := Severity(s)
	_, ok := severityRank[severity]
	return severity, ok
}

func (s Severity) AtLeast(other Severity) bool {
	return s.Rank() >= other.Rank()
}

// MaxSeverity returns the highest severity among the given values. One
// critical signal makes the whole verdict critical; there is no averaging.
func MaxSeverity(severities ...Severity) Severity {
	result := SeverityNone
	for _, s := range severities {
		if s.Rank() > result.Rank() {
			result = s
		}
	}
	return result
}

// Action is the enforcement decision derived from the fused severity,
// possibly escalated by PII presence.
type Action string

const (
	ActionAllow  Action = "allow"
	ActionWarn   Action = "warn"
	ActionFlag   Action = "flag"
	ActionFilter Action = "filter"
	ActionBlock  Action = "block"
)

var actionRank = map[Action]int{
	ActionAllow:  0,
	ActionWarn:   1,
	ActionFlag:   2,
	ActionFilter: 3,
	ActionBlock:  4,
}

func (a Action) Rank() int {
	return actionRank[a]
}

// ParseAction validates a configured action name.
func ParseAction(s string) (Action, bool) {
	action := Action(s)
	_, ok := actionRank[action]
	return action, ok
}

func (a Action) AtLeast(other Action) bool {
	return a.Rank() >= other.Rank()
}

// MaxAction returns the stricter of two actions.
func MaxAction(a, b Action) Action {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// Status is the review state stored on a moderation record.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusFlagged  Status = "FLAGGED"
	StatusRejected Status = "REJECTED"
)

// StatusForAction maps the enforcement action to the record status. Allow and
// warn keep the content visible, flag and filter mark it for review, block
// rejects it outright.
func StatusForAction(action Action) Status {
	switch action {
	case ActionAllow, ActionWarn:
		return StatusApproved
	case ActionFlag, ActionFilter:
		return StatusFlagged
	case ActionBlock:
		return StatusRejected
	default:
		return StatusPending
	}
}
