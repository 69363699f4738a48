package source

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/inhies/go-bytesize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NivBraz/speller/pkg/wordset"
)

type stubFetcher struct {
	body []byte
	err  error
	urls []string
}

func (s *stubFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	s.urls = append(s.urls, url)
	return s.body, s.err
}

func TestIsRemote(t *testing.T) {
	tests := []struct {
		location string
		want     bool
	}{
		{"https://example.com/words.txt", true},
		{"HTTP://example.com/words.txt", true},
		{"dictionaries/large", false},
		{"/usr/share/dict/words", false},
		{"file:///usr/share/dict/words", false},
		{"http://", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsRemote(tt.location), tt.location)
	}
}

func TestOpenLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "small")
	require.NoError(t, os.WriteFile(path, []byte("cat\ncaterpillar\n"), 0o644))

	r, err := Open(context.Background(), path, nil)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, bytesize.New(16), r.Size)

	var reported int
	r.OnRead(func(n int) { reported += n })

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "cat\ncaterpillar\n", string(data))
	assert.Equal(t, 16, reported)
	assert.Equal(t, bytesize.New(16), r.BytesRead())
}

func TestOpenErrors(t *testing.T) {
	ctx := context.Background()

	_, err := Open(ctx, filepath.Join(t.TempDir(), "missing"), nil)
	assert.ErrorIs(t, err, wordset.ErrSourceUnavailable)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Open(ctx, t.TempDir(), nil)
	assert.ErrorIs(t, err, wordset.ErrSourceUnavailable)

	_, err = Open(ctx, "https://example.com/words", nil)
	assert.ErrorIs(t, err, wordset.ErrSourceUnavailable)

	boom := errors.New("boom")
	_, err = Open(ctx, "https://example.com/words", &stubFetcher{err: boom})
	assert.ErrorIs(t, err, wordset.ErrSourceUnavailable)
	assert.ErrorIs(t, err, boom)
}

func TestReadAllRemote(t *testing.T) {
	f := &stubFetcher{body: []byte("apple banana")}

	data, err := ReadAll(context.Background(), "https://example.com/words", f)
	require.NoError(t, err)
	assert.Equal(t, "apple banana", string(data))
	assert.Equal(t, []string{"https://example.com/words"}, f.urls)
}
