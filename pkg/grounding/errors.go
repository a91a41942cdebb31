package grounding

import "github.com/pkg/errors"

// ErrorTag identifies the specific validation failure a construction or
// grounding operation raised. Callers should branch on the tag via TagOf
// (or errors.Is against a *TaggedError carrying it) rather than
// string-matching error text.
type ErrorTag string

const (
	// MultipleClauses is raised when a formula's negation does not reduce
	// to a single disjunctive clause.
	MultipleClauses ErrorTag = "MultipleClauses"
	// UnboundVariable is raised when a clause variable never occurs in the
	// argument position of a queried positive literal over a Standard
	// predicate, leaving its domain unenumerable.
	UnboundVariable ErrorTag = "UnboundVariable"
	// GroundFormula is raised when a formula has no variables at all.
	GroundFormula ErrorTag = "GroundFormula"
	// NotQueriable is raised when a clause cannot be mapped to a
	// conjunctive query over its free variables.
	NotQueriable ErrorTag = "NotQueriable"
	// UnknownTermKind is raised when a term is neither a Variable nor a
	// GroundTerm; this indicates a broken internal invariant.
	UnknownTermKind ErrorTag = "UnknownTermKind"
	// CloneUnsupported names the refusal to duplicate a rule kernel, which
	// is identity-stable. RuleKernel has no Clone method, so no operation
	// in this package returns this tag.
	CloneUnsupported ErrorTag = "CloneUnsupported"
)

// TaggedError carries one of the ErrorTag constants plus a human-readable
// message. Construction errors from the formula/clause pipeline are always
// of this type so callers can branch on Tag.
type TaggedError struct {
	Tag     ErrorTag
	Message string
	cause   error
}

func (e *TaggedError) Error() string {
	if e.cause != nil {
		return string(e.Tag) + ": " + e.Message + ": " + e.cause.Error()
	}
	return string(e.Tag) + ": " + e.Message
}

// Unwrap exposes the wrapped cause, if any, for errors.Is/As.
func (e *TaggedError) Unwrap() error { return e.cause }

func newTaggedError(tag ErrorTag, message string) *TaggedError {
	return &TaggedError{Tag: tag, Message: message}
}

func wrapTaggedError(tag ErrorTag, message string, cause error) *TaggedError {
	return &TaggedError{Tag: tag, Message: message, cause: cause}
}

// Is reports whether target is a *TaggedError naming the same ErrorTag,
// enabling errors.Is(err, &TaggedError{Tag: MultipleClauses}) style
// checks; TagOf is the more convenient form when only the tag is needed.
func (e *TaggedError) Is(target error) bool {
	tagged, ok := target.(*TaggedError)
	if !ok {
		return false
	}
	return e.Tag == tagged.Tag
}

// TagOf returns the ErrorTag of err if it (or something it wraps) is a
// *TaggedError, and ok=false otherwise.
func TagOf(err error) (ErrorTag, bool) {
	var tagged *TaggedError
	if errors.As(err, &tagged) {
		return tagged.Tag, true
	}
	return "", false
}

// QueryError wraps a failure surfaced by the data store during
// execute_query. Store failures propagate to the caller unchanged — the
// grounder performs no retries — with the grounding call site attached
// alongside the root cause.
func QueryError(context string, cause error) error {
	return errors.Wrapf(cause, "grounding: query failed during %s", context)
}
