package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "mgnify-downloader"
)

// Client wraps HTTP operations with MGnify-specific configuration.
//
// Client provides:
//   - Configured User-Agent header
//   - Timeout handling
//   - JSON retrieval with typed errors
//   - Streaming file download with progress tracking
//
// Every error returned is an *Error classifying the failure as not found,
// transient or local I/O.
//
// Example usage:
//
//	client := NewClient()
//
//	// Fetch a JSON document
//	var doc map[string]any
//	err := client.GetJSON(ctx, "https://www.ebi.ac.uk/metagenomics/api/v1/analyses/MGYA1", &doc)
//
//	// Download a file
//	n, err := client.DownloadFile(ctx, url, "/data/MGYA1/ERZ1_FASTA.fasta.gz", nil)
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout. Zero or negative keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithHTTPClient replaces the underlying *http.Client. Used by tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a new HTTP client.
//
// Without options the client is configured with:
//   - 60 second timeout
//   - "mgnify-downloader" User-Agent header
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		userAgent: defaultUserAgent,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ProgressWriter wraps a writer to track download progress.
//
// Use this to monitor large downloads by providing an OnUpdate callback
// that receives the current bytes written and total expected bytes.
//
// Example:
//
//	pw := &ProgressWriter{
//	    Writer: file,
//	    Total:  contentLength,
//	    OnUpdate: func(written, total int64) {
//	        fmt.Printf("%d / %d bytes\n", written, total)
//	    },
//	}
//	io.Copy(pw, response.Body)
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes (from Content-Length header).
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with current progress.
	// Parameters are (bytesWritten, totalExpected).
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

// Get performs a GET request and returns the response body as bytes.
//
// The request includes the configured User-Agent header.
//
// Returns an *Error if:
//   - The request fails (KindTransient)
//   - The response status is 404 (KindNotFound)
//   - The response status is anything else but 200 OK (KindTransient)
//   - Reading the body fails (KindTransient)
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.do(ctx, "GET", url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newError(KindTransient, "GET", url, resp.StatusCode, err)
	}

	return body, nil
}

// GetJSON performs a GET request and decodes the JSON body into v.
//
// A body that is not valid JSON for v is reported as KindTransient: the
// service answered, but not with something usable.
//
// Example:
//
//	var page listing
//	err := client.GetJSON(ctx, base+"/analyses?page=2&page_size=100", &page)
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	body, err := c.Get(ctx, url)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, v); err != nil {
		return newError(KindTransient, "decode", url, http.StatusOK, err)
	}

	return nil
}

// DownloadFile downloads a file to the specified path with optional progress callback.
//
// The content is streamed to destPath+".part" and renamed into place once
// the copy completes, so an interrupted download never leaves a truncated
// file under the final name.
//
// Parameters:
//   - ctx: Context for cancellation
//   - url: URL to download from
//   - destPath: Local file path to save to
//   - onProgress: Optional callback called with (bytesWritten, totalBytes)
//     Pass nil to disable progress tracking
//
// Returns the number of bytes written. Failures to create, write or rename
// the local file are KindLocalIO; everything on the network side is
// classified as for Get.
func (c *Client) DownloadFile(ctx context.Context, url, destPath string, onProgress func(written, total int64)) (int64, error) {
	resp, err := c.do(ctx, "download", url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	partPath := destPath + ".part"

	file, err := os.Create(partPath)
	if err != nil {
		return 0, newError(KindLocalIO, "download", url, resp.StatusCode, err)
	}

	fw := &fileWriter{w: file}

	var writer io.Writer = fw
	if onProgress != nil {
		writer = &ProgressWriter{
			Writer:   fw,
			Total:    resp.ContentLength,
			OnUpdate: onProgress,
		}
	}

	n, copyErr := io.Copy(writer, resp.Body)
	closeErr := file.Close()

	switch {
	case copyErr != nil && fw.err != nil:
		err = newError(KindLocalIO, "download", url, resp.StatusCode, copyErr)
	case copyErr != nil:
		err = newError(KindTransient, "download", url, resp.StatusCode, copyErr)
	case closeErr != nil:
		err = newError(KindLocalIO, "download", url, resp.StatusCode, closeErr)
	}

	if err == nil {
		if renameErr := os.Rename(partPath, destPath); renameErr != nil {
			err = newError(KindLocalIO, "download", url, resp.StatusCode, renameErr)
		}
	}

	if err != nil {
		os.Remove(partPath) //nolint:errcheck

		return 0, err
	}

	return n, nil
}

// do sends a GET request and checks the status code. On success the caller
// owns resp.Body.
func (c *Client) do(ctx context.Context, op, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, newError(KindTransient, op, url, 0, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json, */*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, newError(KindTransient, op, url, 0, err)
	}

	if resp.StatusCode == http.StatusOK {
		return resp, nil
	}

	resp.Body.Close()

	statusErr := fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	if resp.StatusCode == http.StatusNotFound {
		return nil, newError(KindNotFound, op, url, resp.StatusCode, statusErr)
	}

	return nil, newError(KindTransient, op, url, resp.StatusCode, statusErr)
}

// fileWriter remembers the first write error so DownloadFile can tell a
// failing disk from a failing connection.
type fileWriter struct {
	w   io.Writer
	err error
}

func (f *fileWriter) Write(p []byte) (int, error) {
	n, err := f.w.Write(p)
	if err != nil && f.err == nil {
		f.err = err
	}

	return n, err
}

// IsCanceled reports whether err was caused by context cancellation.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
