package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevInfo is for informational diagnostics; they never block synthesis.
	SevInfo Severity = iota
	// SevWarning is informational with emphasis (e.g. conflicting
	// dependency narratives); it never blocks synthesis either.
	SevWarning
	// SevError is a hard error: synthesis of the affected feature aborts.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Blocks reports whether the severity aborts synthesis.
func (s Severity) Blocks() bool {
	return s >= SevError
}
