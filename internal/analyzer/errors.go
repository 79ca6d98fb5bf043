package analyzer

import "errors"

// ErrInvalidPullRequest is returned when the snapshot lacks identity fields
var ErrInvalidPullRequest = errors.New("invalid pull request")
