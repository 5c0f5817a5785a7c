// Package engine implements the structural JSON compression pipeline: a
// field-code dictionary, a flatten/unflatten transform, and a columnar
// tabular encoder with optional value deduplication, driven by a single
// configuration model.
//
// The engine operates on already-parsed JSON values. Objects are represented
// by the insertion-ordered Object type so that identical inputs always
// produce byte-identical output; ordinary map[string]any inputs are accepted
// and normalized with sorted key order.
//
// Every call allocates its own field-code table and column builders, so the
// engine holds no process-wide state and is safe for concurrent use.
package engine
