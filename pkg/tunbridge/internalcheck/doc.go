// Package internalcheck holds source policy tests for the tunbridge module.
//
// The tests load the module with golang.org/x/tools/go/packages and fail on
// patterns that would break the ownership rules of the bridge: cgo outside
// internal/bindings, or tunnel configurations passed to a logger.
//
// # Internal Use Only
//
// This package exports nothing and must not be imported.
package internalcheck
