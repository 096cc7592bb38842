// Package errors provides sentinel errors and custom error types for the diffstack application.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common conditions
var (
	// ErrUsage indicates invalid flags or arguments
	ErrUsage = errors.New("usage error")

	// ErrInvalidCommit indicates that a commit specifier did not resolve
	ErrInvalidCommit = errors.New("invalid commit")

	// ErrInvalidReviewID indicates a malformed review identifier
	ErrInvalidReviewID = errors.New("invalid review identifier")

	// ErrAmbiguousReview indicates a title search yielded more than one candidate
	ErrAmbiguousReview = errors.New("ambiguous review")

	// ErrNoReviewFound indicates a required review lookup yielded nothing
	ErrNoReviewFound = errors.New("no review found")

	// ErrRemoteCall indicates a review service call failed
	ErrRemoteCall = errors.New("remote call failed")

	// ErrDirtyWorkingTree indicates the working tree has uncommitted changes
	ErrDirtyWorkingTree = errors.New("working tree is not clean")
)

// InvalidCommitError represents a commit or range specifier that does not resolve
type InvalidCommitError struct {
	Spec string
	Err  error
}

func (e *InvalidCommitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid commit %q: %v", e.Spec, e.Err)
	}
	return fmt.Sprintf("invalid commit %q", e.Spec)
}

func (e *InvalidCommitError) Unwrap() error {
	return e.Err
}

// Is returns true if the target error is ErrInvalidCommit
func (e *InvalidCommitError) Is(target error) bool {
	return target == ErrInvalidCommit
}

// NewInvalidCommitError creates a new InvalidCommitError
func NewInvalidCommitError(spec string, err error) *InvalidCommitError {
	return &InvalidCommitError{Spec: spec, Err: err}
}

// InvalidReviewIDError represents a review identifier whose lexical form is
// not D<positive-integer>
type InvalidReviewIDError struct {
	ID string
}

func (e *InvalidReviewIDError) Error() string {
	return fmt.Sprintf("invalid review identifier %q (want D<number>)", e.ID)
}

// Is returns true if the target error is ErrInvalidReviewID
func (e *InvalidReviewIDError) Is(target error) bool {
	return target == ErrInvalidReviewID
}

// NewInvalidReviewIDError creates a new InvalidReviewIDError
func NewInvalidReviewIDError(id string) *InvalidReviewIDError {
	return &InvalidReviewIDError{ID: id}
}

// AmbiguousReviewError represents a title search that matched more than one
// open review. Candidates holds every matching identifier.
type AmbiguousReviewError struct {
	Subject    string
	Candidates []string
}

func (e *AmbiguousReviewError) Error() string {
	return fmt.Sprintf("commit %q matches multiple open reviews: %s",
		e.Subject, strings.Join(e.Candidates, ", "))
}

// Is returns true if the target error is ErrAmbiguousReview
func (e *AmbiguousReviewError) Is(target error) bool {
	return target == ErrAmbiguousReview
}

// NewAmbiguousReviewError creates a new AmbiguousReviewError
func NewAmbiguousReviewError(subject string, candidates []string) *AmbiguousReviewError {
	return &AmbiguousReviewError{Subject: subject, Candidates: candidates}
}

// NoReviewFoundError represents a mandatory review lookup that found nothing
type NoReviewFoundError struct {
	Subject string
}

func (e *NoReviewFoundError) Error() string {
	return fmt.Sprintf("no review found for commit %q", e.Subject)
}

// Is returns true if the target error is ErrNoReviewFound
func (e *NoReviewFoundError) Is(target error) bool {
	return target == ErrNoReviewFound
}

// NewNoReviewFoundError creates a new NoReviewFoundError
func NewNoReviewFoundError(subject string) *NoReviewFoundError {
	return &NoReviewFoundError{Subject: subject}
}

// RemoteCallError represents a failed call against the review service
type RemoteCallError struct {
	Method string
	Err    error
}

func (e *RemoteCallError) Error() string {
	return fmt.Sprintf("%s: %v", e.Method, e.Err)
}

func (e *RemoteCallError) Unwrap() error {
	return e.Err
}

// Is returns true if the target error is ErrRemoteCall
func (e *RemoteCallError) Is(target error) bool {
	return target == ErrRemoteCall
}

// NewRemoteCallError creates a new RemoteCallError
func NewRemoteCallError(method string, err error) *RemoteCallError {
	return &RemoteCallError{Method: method, Err: err}
}

// GitCommandError represents an error from a git command execution
type GitCommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("%s command failed", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", e.Stdout)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// NewGitCommandError creates a new GitCommandError
func NewGitCommandError(command string, args []string, stdout, stderr string, err error) *GitCommandError {
	return &GitCommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}
