// pkg/source/source.go
package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/inhies/go-bytesize"

	"github.com/NivBraz/speller/pkg/wordset"
)

// Fetcher retrieves remote documents.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Reader streams a word list or document and counts the bytes handed out.
type Reader struct {
	Location string
	Size     bytesize.ByteSize

	rc        io.ReadCloser
	bytesRead int64
	onRead    func(n int)
}

// IsRemote reports whether location should be fetched over HTTP.
func IsRemote(location string) bool {
	u, err := url.Parse(location)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}

// Open resolves location to a local file or, for http(s) URLs, a fetched body.
// Failures wrap wordset.ErrSourceUnavailable.
func Open(ctx context.Context, location string, f Fetcher) (*Reader, error) {
	if IsRemote(location) {
		if f == nil {
			return nil, fmt.Errorf("%w: no fetcher for %s", wordset.ErrSourceUnavailable, location)
		}
		body, err := f.Fetch(ctx, location)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", wordset.ErrSourceUnavailable, err)
		}
		return &Reader{
			Location: location,
			Size:     bytesize.New(float64(len(body))),
			rc:       io.NopCloser(bytes.NewReader(body)),
		}, nil
	}

	file, err := os.Open(location)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", wordset.ErrSourceUnavailable, err)
	}
	fi, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("%w: %w", wordset.ErrSourceUnavailable, err)
	}
	if fi.IsDir() {
		file.Close()
		return nil, fmt.Errorf("%w: %s is a directory", wordset.ErrSourceUnavailable, location)
	}

	return &Reader{
		Location: location,
		Size:     bytesize.New(float64(fi.Size())),
		rc:       file,
	}, nil
}

// ReadAll opens location and returns its whole content.
func ReadAll(ctx context.Context, location string, f Fetcher) ([]byte, error) {
	r, err := Open(ctx, location, f)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", wordset.ErrSourceUnavailable, err)
	}
	return data, nil
}

// OnRead registers fn to be told the size of every successful read.
func (r *Reader) OnRead(fn func(n int)) {
	r.onRead = fn
}

// Read satisfies io.Reader
func (r *Reader) Read(buffer []byte) (int, error) {
	n, err := r.rc.Read(buffer)
	if n > 0 {
		r.bytesRead += int64(n)
		if r.onRead != nil {
			r.onRead(n)
		}
	}
	return n, err
}

// BytesRead returns how much of the source has been consumed.
func (r *Reader) BytesRead() bytesize.ByteSize {
	return bytesize.New(float64(r.bytesRead))
}

func (r *Reader) Close() error {
	return r.rc.Close()
}
