// Package metadata implements the per-runtime metadata handle table.
//
// Each backend runtime tracks references to class and method metadata that
// require garbage-collection coordination. The table supports two GC-driven
// operations: visiting every live reference (root scanning) and purging
// references whose metadata was unloaded.
//
// Handle reuse follows a free list; handle 0 is reserved and always invalid.
package metadata
