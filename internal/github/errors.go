package github

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/cli/go-gh/v2/pkg/api"
)

var (
	ErrUnauthorized = errors.New("invalid or expired GitHub token")
	ErrRateLimited  = errors.New("GitHub API rate limit exceeded or permission denied")
	ErrNotFound     = errors.New("resource not found")
	ErrTimeout      = errors.New("request timed out")
)

// APIError is the single error type returned for any transport failure
type APIError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %v (HTTP %d)", e.Op, e.Err, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// wrapError translates go-gh and network errors into *APIError
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}

	var httpErr *api.HTTPError
	if errors.As(err, &httpErr) {
		apiErr := &APIError{Op: op, StatusCode: httpErr.StatusCode}
		switch httpErr.StatusCode {
		case http.StatusUnauthorized:
			apiErr.Err = ErrUnauthorized
		case http.StatusForbidden, http.StatusTooManyRequests:
			apiErr.Err = ErrRateLimited
		case http.StatusNotFound:
			apiErr.Err = ErrNotFound
		default:
			apiErr.Err = fmt.Errorf("GitHub API error: %s", httpErr.Message)
		}
		return apiErr
	}

	var gqlErr *api.GraphQLError
	if errors.As(err, &gqlErr) {
		for _, item := range gqlErr.Errors {
			if item.Type == "NOT_FOUND" {
				return &APIError{Op: op, Err: fmt.Errorf("%w: %s", ErrNotFound, item.Message)}
			}
		}
		return &APIError{Op: op, Err: fmt.Errorf("GitHub GraphQL error: %w", gqlErr)}
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &APIError{Op: op, Err: ErrTimeout}
	}
	if errors.Is(err, context.Canceled) {
		return &APIError{Op: op, Err: err}
	}
	return &APIError{Op: op, Err: fmt.Errorf("failed to reach GitHub API: %w", err)}
}
