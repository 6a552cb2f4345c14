package graphqlapi

import (
	"errors"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
)

// ErrAbsentRelation marks a resolver error that only means "this optional
// relation is not set". Traversing into such a field yields a null object,
// which the executor still reports as an error entry. Those entries carry
// no information the client can act on, so they are stripped from the
// response before it goes out.
var ErrAbsentRelation = errors.New("relation is not set on this object")

// ShouldMaskError reports whether the formatted error originates from a
// traversal into an absent relation. Anything else (syntax errors, type
// errors, real resolver failures) must stay visible to the client.
func ShouldMaskError(ferr gqlerrors.FormattedError) bool {
	err := ferr.OriginalError()
	for err != nil {
		if errors.Is(err, ErrAbsentRelation) {
			return true
		}

		// the executor wraps resolver errors in *gqlerrors.Error which
		// does not implement Unwrap, hop over it manually
		var gqlErr *gqlerrors.Error
		if errors.As(err, &gqlErr) && gqlErr.OriginalError != nil && gqlErr.OriginalError != err {
			err = gqlErr.OriginalError
			continue
		}

		return false
	}

	return false
}

// MaskResult removes absent-relation errors from the result in place.
// When nothing is left the error list becomes nil, so the response shape
// matches a query that never touched the missing relation.
func MaskResult(result *graphql.Result) {
	if result == nil || len(result.Errors) == 0 {
		return
	}

	kept := make([]gqlerrors.FormattedError, 0, len(result.Errors))
	for _, ferr := range result.Errors {
		if ShouldMaskError(ferr) {
			continue
		}

		kept = append(kept, ferr)
	}

	if len(kept) == 0 {
		result.Errors = nil
		return
	}

	result.Errors = kept
}
