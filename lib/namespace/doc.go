// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package namespace answers questions about the directory tree of a
// [kvstore.Store]: which children a path has, whether a path exists,
// which key range it owns, and what rows live inside that range.
//
// Every method runs inside one [kvstore.Store.View] call, so the
// answer reflects a single snapshot and is retried automatically on
// transient lock conflicts. Methods that return rows collect them
// inside the transaction closure and reset the collection at the top
// of the closure, so a retried attempt never sees rows from an earlier
// one.
//
// Errors fall into three groups:
//
//   - [*PathNotFoundError] (matches [ErrPathNotFound]) when the path
//     names no directory.
//   - [ErrRootRange] when a content range is requested for the root,
//     which holds only directories.
//   - [*QueryError] (matches [ErrQuery]) for everything the backend
//     reports, wrapping the underlying cause.
package namespace
