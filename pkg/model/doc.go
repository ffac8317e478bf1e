// Package model exposes the snapshot and event types that builders emit and
// the session model folds. The implementation lives in internal/model; this
// package re-exports the types so integrators can implement sinks, decorators
// and renderers without importing internal code.
//
// Every event payload is a full snapshot. Consumers overwrite stored state by
// id, which keeps replay idempotent and avoids delta merging.
package model
