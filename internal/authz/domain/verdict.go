package domain

// Verdict is the outcome of evaluating a policy against a principal.
type Verdict int

const (
	// VerdictAllow lets the request proceed to the next handler.
	VerdictAllow Verdict = iota
	// VerdictChallenge asks the client to (re-)authenticate; issued when
	// requirements are unmet and the principal holds no authenticated identity.
	VerdictChallenge
	// VerdictForbid denies an authenticated-but-unauthorized principal.
	VerdictForbid
)

// String returns the verdict name for logging and metrics labels.
func (v Verdict) String() string {
	switch v {
	case VerdictAllow:
		return "allow"
	case VerdictChallenge:
		return "challenge"
	case VerdictForbid:
		return "forbid"
	default:
		return "unknown"
	}
}
