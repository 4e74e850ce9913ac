// Package contains error strings for common errors
package errors

const (
	EmptyInputFile    = "Input file is empty"
	ReadFailure       = "Could not read from the input file"
	MissingSequenceId = "Expected a sequence id, none was found"
	InvalidIndexRange = "Invalid index record range"
	IndexOutBounds    = "Index record out of bounds"
	IndexNoFile       = "Index file is missing"
	InvalidIndexFile  = "Invalid index file"
)
