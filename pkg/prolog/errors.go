package prolog

import "fmt"

// ISO error kinds (§4.3.8). Each constructor below builds the standard
// `error(Formal, Context)` compound so thrown terms can be caught by
// ordinary catch/3 patterns as well as inspected from Go via ErrorTerm.

// InstantiationError builds error(instantiation_error, Context).
func InstantiationError(context Term) Term {
	return isoError(Intern("instantiation_error"), context)
}

// TypeError builds error(type_error(Type, Culprit), Context).
func TypeError(expectedType string, culprit Term, context Term) Term {
	return isoError(NewCompound("type_error", Intern(expectedType), culprit), context)
}

// DomainError builds error(domain_error(Domain, Culprit), Context).
func DomainError(domain string, culprit Term, context Term) Term {
	return isoError(NewCompound("domain_error", Intern(domain), culprit), context)
}

// ExistenceError builds error(existence_error(ObjectType, Culprit), Context).
func ExistenceError(objectType string, culprit Term, context Term) Term {
	return isoError(NewCompound("existence_error", Intern(objectType), culprit), context)
}

// EvaluationError builds error(evaluation_error(What), Context).
func EvaluationError(what string, context Term) Term {
	return isoError(NewCompound("evaluation_error", Intern(what)), context)
}

// RepresentationError builds error(representation_error(What), Context).
func RepresentationError(what string, context Term) Term {
	return isoError(NewCompound("representation_error", Intern(what)), context)
}

// PermissionError builds error(permission_error(Op, PermType, Culprit), Context).
func PermissionError(op, permType string, culprit Term, context Term) Term {
	return isoError(NewCompound("permission_error", Intern(op), Intern(permType), culprit), context)
}

func isoError(formal Term, context Term) Term {
	if context == nil {
		context = NewVariable("")
	}
	return NewCompound("error", formal, context)
}

// ErrorTerm adapts a thrown Term to Go's error interface (SPEC_FULL.md
// A.2) so an embedder's Go caller can use errors.As on an uncaught
// Prolog exception the same way it would on any other error. A
// foreign predicate may also return one; the resolver then throws its
// Term, so catch/3 can intercept it.
type ErrorTerm struct {
	Term Term
}

func (e *ErrorTerm) Error() string {
	return fmt.Sprintf("prolog exception: %s", e.Term.String())
}

// Unwrap always returns nil: an ErrorTerm carries only a Term and wraps
// no further Go error.
func (e *ErrorTerm) Unwrap() error {
	return nil
}
