// Package remote implements the HTTP client for the sync remote replica.
// The remote is a dumb snapshot store: GET returns the last pushed snapshot
// (404 when none exists yet) and PUT replaces it wholesale.
package remote
