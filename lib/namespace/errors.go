// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package namespace

import (
	"errors"
	"fmt"

	"github.com/bureau-foundation/kvdir/lib/kvstore"
	"github.com/bureau-foundation/kvdir/lib/nspath"
)

var (
	// ErrPathNotFound matches every *PathNotFoundError.
	ErrPathNotFound = errors.New("no such directory")

	// ErrQuery matches every *QueryError.
	ErrQuery = errors.New("namespace query failed")

	// ErrRootRange is returned when the content range of the root is
	// requested.
	ErrRootRange = kvstore.ErrRootRange
)

// PathNotFoundError reports a path that names no directory.
type PathNotFoundError struct {
	Path nspath.Path
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("No such directory: %s", e.Path)
}

func (e *PathNotFoundError) Is(target error) bool {
	return target == ErrPathNotFound
}

// QueryError wraps a backend failure with the operation and path that
// triggered it.
type QueryError struct {
	Op    string
	Path  nspath.Path
	Cause error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Cause)
}

func (e *QueryError) Is(target error) bool {
	return target == ErrQuery
}

func (e *QueryError) Unwrap() error {
	return e.Cause
}

// classify turns a raw error from a View call into the package's error
// vocabulary.
func classify(op string, path nspath.Path, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, kvstore.ErrDirectoryNotFound):
		return &PathNotFoundError{Path: path}
	case errors.Is(err, ErrRootRange):
		return fmt.Errorf("%s %s: %w", op, path, ErrRootRange)
	}
	var notFound *PathNotFoundError
	if errors.As(err, &notFound) {
		return err
	}
	return &QueryError{Op: op, Path: path, Cause: err}
}
