// Package output lays out and writes the downloader's results.
//
// Layout names every path. Aggregator turns fetch outcomes into the per-study
// and per-sample files, the tab-separated summary tables and the error files,
// writing each study and sample once. AssemblyList writes the enumerator's
// analysis and assembly list.
//
// Both writers are meant to be driven by one coordinating goroutine; they do
// no locking of their own.
package output
