// Package memstore provides in-memory implementations of the store
// interfaces. The stores hold deep copies behind a mutex and are safe for
// concurrent use, but nothing survives a restart. They back the test suite
// and the ephemeral server mode.
package memstore
