// Package books looks up book metadata from the Google Books volumes API
// and ranks candidates against the requested title and author.
package books
