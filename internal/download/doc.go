// Package download runs the two pipelines of the downloader.
//
// # Manager
//
// The Manager fetches a list of analyses:
//
//  1. Read analysis ids from the input file
//  2. Fetch each analysis with its sample, study and downloads
//  3. Download the selected artifacts into analyses_assemblies/{id}/
//  4. Write studies and samples once each, analyses rows and error lines
//
// Steps 2 and 3 run on a bounded pool of workers; step 4 runs on the calling
// goroutine as results arrive.
//
// # Basic Usage
//
//	labels, _, err := model.ParseArtifactCodes([]int{1, 7})
//	manager := download.NewManager(settings, labels, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	if err := manager.Initialize(ctx, "analyses.txt"); err != nil {
//	    log.Fatal(err)
//	}
//
//	summary, err := manager.StartDownloads(ctx)
//
// # Enumerator
//
// The Enumerator pages through the analyses listing and writes one
// "analysis, type, assembly" line per analysis with an assembly:
//
//	summary, err := download.NewEnumerator(settings, onProgress).Run(ctx)
//
// # Concurrency
//
// Pool sizes come from settings:
//   - MaxConcurrentAnalyses: analyses fetched in parallel
//   - MaxConcurrentPages: listing pages fetched in parallel
//
// # Failures
//
// No failure of a single analysis, artifact or page stops a run. Each is
// reported as a ProgressEvent and written to the matching error file.
package download
