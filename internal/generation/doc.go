// Package generation defines the boundary between the application core and
// external language-model services used to enrich vocabulary entries.
package generation
