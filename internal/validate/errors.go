package validate

import "fmt"

// ErrorKind classifies a validation failure. Every kind excludes the
// offending candidate from the catalog.
type ErrorKind string

const (
	NotForeignAbi         ErrorKind = "NotForeignAbi"
	IsConst               ErrorKind = "IsConst"
	IsAsync               ErrorKind = "IsAsync"
	IsUnsafe              ErrorKind = "IsUnsafe"
	HasVariadic           ErrorKind = "HasVariadic"
	HasGenericTypeParam   ErrorKind = "HasGenericTypeParam"
	HasLifetimeParam      ErrorKind = "HasLifetimeParam"
	HasConstParam         ErrorKind = "HasConstParam"
	MissingInlineMarker   ErrorKind = "MissingInlineMarker"
	MissingNoPanicMarker  ErrorKind = "MissingNoPanicMarker"
	UnsupportedReturnType ErrorKind = "UnsupportedReturnType"
	UnsupportedArgType    ErrorKind = "UnsupportedArgType"

	// InvalidIdentifier is not part of the rule table: it marks an empty
	// identifier reaching categorization, an internal invariant violation.
	InvalidIdentifier ErrorKind = "InvalidIdentifier"
)

// Error is one recorded validation failure. Errors are collected, never
// individually fatal: the candidate is excluded but the run continues.
type Error struct {
	Kind    ErrorKind
	Ident   string
	Message string
}

// Error renders the diagnostic line for this failure.
func (e *Error) Error() string {
	return fmt.Sprintf("[error]: Function %q %s", e.Ident, e.Message)
}
