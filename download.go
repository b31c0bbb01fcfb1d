package models

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
)

// fetcher downloads the pretrained weights over HTTP.
type fetcher struct {
	// url is the source of the weights.
	url string

	// httpClient is used for the request.
	httpClient HTTPClient

	// logger receives diagnostic messages. May be nil.
	logger Logger
}

// newFetcher creates a fetcher for the given source URL.
func newFetcher(url string, client HTTPClient, logger Logger) *fetcher {
	return &fetcher{
		url:        url,
		httpClient: client,
		logger:     logger,
	}
}

// fetch streams the weights to dest. The body is written to a temp file
// beside dest and renamed into place only after the full response has been
// read and, when checksum is non-empty, verified against it. On any failure
// the temp file is removed and dest is left untouched.
func (f *fetcher) fetch(ctx context.Context, dest, checksum string, progressFn func(FetchProgress)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %v: %w", f.url, err, ErrNetworkError)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("fetching %s: %w", f.url, ErrModelNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching %s: status %d: %w", f.url, resp.StatusCode, ErrNetworkError)
	}

	total := resp.ContentLength
	var completed int64

	var reader io.Reader = resp.Body
	if progressFn != nil {
		reader = &progressReader{reader: resp.Body, onProgress: func(delta int64) {
			completed += delta
			progressFn(FetchProgress{BytesTotal: total, BytesCompleted: completed})
		}}
	}

	tmp := dest + ".partial"
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("%w: failed to create %s: %v", ErrStorageError, tmp, err)
	}

	hasher := sha256.New()
	written, err := io.Copy(io.MultiWriter(out, hasher), reader)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("reading %s: %v: %w", f.url, err, ErrNetworkError)
	}

	if checksum != "" {
		actual := hex.EncodeToString(hasher.Sum(nil))
		if actual != checksum {
			os.Remove(tmp)
			return fmt.Errorf("weights %s: got sha256 %s: %w", dest, actual, ErrHashMismatch)
		}
	}

	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: failed to rename %s: %v", ErrStorageError, tmp, err)
	}

	if f.logger != nil {
		f.logger.Debug("weights downloaded", "url", f.url, "bytes", written)
	}

	return nil
}

// progressReader wraps an io.Reader and reports progress as bytes are read.
type progressReader struct {
	reader     io.Reader
	onProgress func(delta int64)
}

func (pr *progressReader) Read(p []byte) (n int, err error) {
	n, err = pr.reader.Read(p)
	if n > 0 && pr.onProgress != nil {
		pr.onProgress(int64(n))
	}
	return
}
