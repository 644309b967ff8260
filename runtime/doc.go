// Package runtime holds the backend compiler runtime handles managed by the
// bridge. A runtime owns a metadata handle table and, once materialized, a
// backend compiler object obtained either from the natively loaded library
// or from an embedded compiler factory.
package runtime
