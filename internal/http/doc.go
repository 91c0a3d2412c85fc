// Package http provides an HTTP client configured for MGnify API requests.
//
// The Client in this package handles:
//   - User-Agent headers
//   - JSON document retrieval
//   - File downloads with progress tracking
//   - Timeout handling
//   - Classification of failures into typed errors
//
// # Basic Usage
//
//	client := http.NewClient(http.WithTimeout(30 * time.Second))
//
//	// Fetch a JSON document
//	err := client.GetJSON(ctx, url, &doc)
//
//	// Download file with progress callback
//	n, err := client.DownloadFile(ctx, url, "/path/to/file.gz", func(written, total int64) {
//	    fmt.Printf("%.1f%%\n", float64(written)/float64(total)*100)
//	})
//
// # Errors
//
// Every failure is an *Error with a Kind:
//
//	switch http.KindOf(err) {
//	case http.KindNotFound:  // 404 from the server
//	case http.KindLocalIO:   // could not write the local file
//	case http.KindTransient: // anything else on the network side
//	}
//
// errors.Is also works against ErrNotFound, ErrTransient and ErrLocalIO.
package http
