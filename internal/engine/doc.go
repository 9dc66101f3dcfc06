// Package engine contains the office simulation core: the state manager
// that owns the stress and boss alert counters, drives their background
// drift, and serves breaks to concurrent callers.
package engine
