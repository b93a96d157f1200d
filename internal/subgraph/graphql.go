package subgraph

import (
	"context"
	"strings"

	"tickerhub/internal/errors"
	"tickerhub/internal/request"
	"tickerhub/pkg/exception"

	"github.com/bytedance/sonic"
)

// Envelope is the standard GraphQL response shape.
type Envelope[T any] struct {
	Data   *T            `json:"data"`
	Errors []GraphQLError `json:"errors,omitempty"`
}

type GraphQLError struct {
	Message string `json:"message"`
}

type queryBody struct {
	Query string `json:"query"`
}

// Query posts query to url and returns the decoded data field. GraphQL level
// errors and a missing data field are fetch failures like any transport
// error.
func Query[T any](ctx context.Context, client request.Client, url, query string) (T, error) {
	var (
		zero T
		env  Envelope[T]
	)

	if err := client.Do(ctx, request.PostJSON(url, queryBody{Query: query}), &env); err != nil {
		return zero, err
	}

	if len(env.Errors) != 0 {
		msgs := make([]string, 0, len(env.Errors))
		for _, e := range env.Errors {
			msgs = append(msgs, e.Message)
		}
		return zero, errors.Mark(exception.ErrFetchFailed, nil, "graphql "+url+": "+strings.Join(msgs, "; "))
	}

	if env.Data == nil {
		return zero, errors.Mark(exception.ErrFetchFailed, nil, "graphql "+url+": empty data")
	}

	return *env.Data, nil
}

// StringList renders values as a GraphQL list of string literals.
func StringList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}

	s, err := sonic.MarshalString(values)
	if err != nil {
		return "", errors.Wrap(err, "marshal graphql string list")
	}

	return s, nil
}
