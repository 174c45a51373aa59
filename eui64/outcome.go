package eui64

// An Outcome is the result of a calculation in a form suitable for handing to
// a presentation layer: it is always exactly one of Success or Failure, so
// callers type switch on it rather than probing for an error.
type Outcome interface {
	outcome()
}

// A Success is an Outcome carrying the rendered interface identifier and
// full address.
type Success struct {
	InterfaceID string
	FullIP      string
}

// A Failure is an Outcome carrying the Kind and message of the error which
// stopped a calculation.
type Failure struct {
	Kind    Kind
	Message string
}

func (Success) outcome() {}
func (Failure) outcome() {}

// NewOutcome converts the return values of Calculate into an Outcome. Errors
// which are not *Error values produce a Failure with Kind 0.
func NewOutcome(r Result, err error) Outcome {
	if err != nil {
		return Failure{
			Kind:    KindOf(err),
			Message: err.Error(),
		}
	}

	return Success{
		InterfaceID: r.InterfaceID.String(),
		FullIP:      r.Addr.String(),
	}
}

// NewFailure converts a validation error into a *Failure, or nil if err is
// nil.
func NewFailure(err error) *Failure {
	if err == nil {
		return nil
	}

	return &Failure{Kind: KindOf(err), Message: err.Error()}
}
