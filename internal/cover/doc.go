// Package cover resolves, downloads, and normalizes book cover artwork.
package cover
