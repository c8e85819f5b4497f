// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the scheduling core, allowing the review, session, and sync services to
// remain independent of specific database technologies.
package store
