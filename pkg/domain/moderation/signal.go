package moderation

// Detector names used in signals and logs.
const (
	DetectorLexicon     = "lexicon"
	DetectorPII         = "pii"
	DetectorReadability = "readability"
	DetectorClassifier  = "classifier"
)

// Signal is the independent output of one detector for one request.
type Signal struct {
	Detector   string
	Triggered  bool
	Severity   Severity
	Categories []string
	// Transformed carries the detector's masked variant of the input, empty
	// when the detector does not transform text or found nothing to mask.
	Transformed string
	Reason      string
	// Confidence is set only by the external classifier; nil means the call
	// was skipped or failed.
	Confidence *float64
	// NotifyGuardian is set when the detector's own policy requests a
	// guardian alert for this tier.
	NotifyGuardian bool
}

// NeutralSignal is the no-op contribution of a detector that found nothing
// or could not run.
func NeutralSignal(detector string) Signal {
	return Signal{
		Detector: detector,
		Severity: SeverityNone,
	}
}
