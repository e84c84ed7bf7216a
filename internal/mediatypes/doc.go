// Package mediatypes holds the file classification shared by the thumbnail
// generator and the duration scanner.
//
// It has no dependencies beyond the standard library so every other package
// can import it.
//
//	mediatypes.IsVideo("clip.MOV")             // true
//	mediatypes.ThumbnailName("clip.mov")       // "clip.jpg"
//	mediatypes.SlashPath(`lofi\a.opus`)        // "lofi/a.opus"
package mediatypes
