// Package types defines the Library interface, the media entity types, the
// ordinal ordering of playlist members, and the standard error values for the
// Songbird library reader.
package types
