// Package storedobject provides a small typed document store backed by a
// single JSON file.
//
// # Overview
//
// A [Store] owns one file whose content conforms to a [schema.Node]. [Open]
// creates the file with schema-derived defaults when it does not exist, or
// loads and validates the existing content. [Store.Write] persists the
// in-memory value, [Store.Reload] refreshes it from disk, and [Store.Reset]
// restores a value and persists it.
//
// # Reference preservation
//
// Reload and Reset never replace the in-memory value wholesale: they merge
// the new content onto the existing maps in place, so a reference obtained
// from [Store.Data] (or to any nested object that survives the update) keeps
// observing live values without re-fetching. Root arrays are read through
// [Store.Array] on each access since Go slices do not alias through
// reassignment.
//
// # Concurrency: per-path FIFO lock
//
// All file-touching operations on one absolute path are serialized in
// submission order through a shared [LockRegistry], even across independent
// Store handles on the same path. A failed operation surfaces its error to
// its caller and does not block later operations. The registry is
// process-local only; it provides no cross-process mutual exclusion.
//
// The live value itself is built for one goroutine mutating data between
// operations. When another goroutine drives Reload or Reset — most commonly
// [Store.Watch] — concurrent readers must use [Store.Snapshot] rather than
// a held Data reference.
package storedobject
