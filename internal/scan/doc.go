// Package scan discovers audio input files for a book and derives titles
// from directory names.
package scan
