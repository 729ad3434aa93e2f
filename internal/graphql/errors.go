package graphql

import (
	"birthdays/internal/sharing"
)

// resolverError carries the sharing error kind to clients through the
// GraphQL "extensions" member.
type resolverError struct {
	err  *sharing.Error
	kind sharing.Kind
}

func newResolverError(err error) error {
	return &resolverError{err: sharing.AsError(err), kind: sharing.KindOf(err)}
}

// newPublicError is newResolverError for anonymous callers.
func newPublicError(err error) error {
	return &resolverError{err: sharing.AsError(err), kind: sharing.PublicKind(err)}
}

func (e *resolverError) Error() string {
	if e.kind == sharing.KindInternal {
		return sharing.ErrInternal.Message
	}
	return e.err.Message
}

func (e *resolverError) Unwrap() error {
	return e.err
}

// Extensions implements gqlerrors.ExtendedError.
func (e *resolverError) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"kind": string(e.kind)}
	switch e.kind {
	case sharing.KindRateLimited:
		if secs := e.err.RetryAfterSeconds(); secs > 0 {
			ext["retryAfter"] = secs
		}
	case sharing.KindValidation:
		fields := make([]map[string]interface{}, len(e.err.Fields))
		for i, f := range e.err.Fields {
			fields[i] = map[string]interface{}{"field": f.Field, "message": f.Message}
		}
		ext["fields"] = fields
	}
	return ext
}
