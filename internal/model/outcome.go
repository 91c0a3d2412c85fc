package model

// FetchError records one failure during a fetch task.
//
// Analysis level failures have an empty URL; artifact level failures carry
// the URL of the artifact that could not be downloaded.
type FetchError struct {
	AnalysisID string
	URL        string
	Err        error
}

// Error implements error.
func (e *FetchError) Error() string {
	if e.URL != "" {
		return e.AnalysisID + " " + e.URL + ": " + e.Err.Error()
	}

	return e.AnalysisID + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Outcome is the result of processing one analysis id.
//
// Exactly one of Analysis and Err is set. DownloadErrors may be non-empty
// even when Analysis is set: partial downloads are normal.
type Outcome struct {
	AnalysisID string

	Analysis *Analysis
	Sample   *Sample
	Study    *Study

	// Files are the local paths of successfully downloaded artifacts.
	Files []string

	// Bytes is the total size of Files.
	Bytes int64

	Err            *FetchError
	DownloadErrors []*FetchError
}

// Failed reports whether the analysis itself could not be retrieved.
func (o *Outcome) Failed() bool {
	return o.Err != nil
}
