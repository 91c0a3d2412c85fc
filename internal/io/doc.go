// Package ioutils provides file system utilities and field cleaning for
// mgnify-downloader output.
//
// # Shared Output Files
//
// AppendLines opens, writes and closes a file in one call. Only the
// coordinating goroutine appends to shared files, so no locking is needed:
//
//	err := ioutils.AppendLines(path, row)
//
// # Input
//
//	ids, dupes, err := ioutils.ReadAnalysisIDsFile("analyses.txt")
//
// # Cleaning
//
// Sample descriptions, species and metadata units arrive in a few messy
// shapes; CleanDescription, CleanSpecies and FormatUnit normalise them, and
// TSVField keeps any value from breaking a tab-separated row:
//
//	ioutils.CleanDescription("line one\r\nline  two") // "line one line two"
//	ioutils.FormatUnit("&#176;C")                      // "°C"
package ioutils
