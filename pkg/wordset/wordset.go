// pkg/wordset/wordset.go
package wordset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	DefaultBuckets       = 10000
	DefaultMaxWordLength = 45
)

// end of chain / empty bucket
const nilEntry = -1

// Config holds the construction-time parameters of a WordSet.
type Config struct {
	Buckets       int
	MaxWordLength int
	// MaxEntries caps the number of entries a load may store. Zero means no cap.
	MaxEntries int
}

type entry struct {
	word string
	next int
}

// WordSet is a fixed-bucket hash set of words compared without regard to
// ASCII case. It is loaded once, queried any number of times, then unloaded.
//
// A WordSet has no internal locking. Check, Size and Stats may be called
// concurrently once Load has returned and until Unload begins.
//
// Use New to build a WordSet. The zero value has no buckets: Check reports
// false for every word and Load accepts nothing.
type WordSet struct {
	config  Config
	heads   []int
	entries []entry
	loaded  bool
}

func New(config Config) (*WordSet, error) {
	if config.Buckets < 0 {
		return nil, fmt.Errorf("bucket count must not be negative, got %d", config.Buckets)
	}
	if config.MaxWordLength < 0 {
		return nil, fmt.Errorf("max word length must not be negative, got %d", config.MaxWordLength)
	}
	if config.MaxEntries < 0 {
		return nil, fmt.Errorf("max entries must not be negative, got %d", config.MaxEntries)
	}
	if config.Buckets == 0 {
		config.Buckets = DefaultBuckets
	}
	if config.MaxWordLength == 0 {
		config.MaxWordLength = DefaultMaxWordLength
	}

	ws := &WordSet{
		config: config,
		heads:  make([]int, config.Buckets),
	}
	ws.clearBuckets()
	return ws, nil
}

// Buckets returns the fixed bucket count N.
func (ws *WordSet) Buckets() int {
	return ws.config.Buckets
}

// MaxWordLength returns the longest word Load accepts.
func (ws *WordSet) MaxWordLength() int {
	return ws.config.MaxWordLength
}

// Hash maps word to its bucket index in [0, Buckets()). It returns 0 when
// the set has no buckets.
func (ws *WordSet) Hash(word string) int {
	if ws.config.Buckets <= 0 {
		return 0
	}
	return int(Sum(word) % uint64(ws.config.Buckets))
}

// LoadFile opens the word list at path and loads it.
func (ws *WordSet) LoadFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return &LoadError{Op: "open", Index: -1, Err: fmt.Errorf("%w: %w", ErrSourceUnavailable, err)}
	}
	defer file.Close()

	return ws.Load(file)
}

// Load reads whitespace-delimited words from r and stores each of them.
// The first failing word aborts the load; words stored before it remain
// in place until Unload.
func (ws *WordSet) Load(r io.Reader) error {
	if ws.loaded {
		return &LoadError{Op: "load", Index: -1, Err: ErrAlreadyLoaded}
	}
	ws.loaded = true

	scanner := bufio.NewScanner(r)
	maxToken := bufio.MaxScanTokenSize
	if ws.config.MaxWordLength+1 > maxToken {
		maxToken = ws.config.MaxWordLength + 1
	}
	scanner.Buffer(make([]byte, 0, 4096), maxToken)
	scanner.Split(scanWords)

	index := 0
	for scanner.Scan() {
		word := scanner.Text()
		if err := ws.insert(word); err != nil {
			return &LoadError{Op: "insert", Word: word, Index: index, Err: err}
		}
		index++
	}

	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return &LoadError{Op: "read", Index: index, Err: fmt.Errorf("%w: token exceeds %d bytes", ErrWordTooLong, maxToken)}
		}
		return &LoadError{Op: "read", Index: index, Err: fmt.Errorf("%w: %w", ErrSourceUnavailable, err)}
	}

	return nil
}

func (ws *WordSet) insert(word string) error {
	if len(ws.heads) == 0 {
		return fmt.Errorf("%w: word set has no buckets", ErrAllocation)
	}
	if len(word) > ws.config.MaxWordLength {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrWordTooLong, len(word), ws.config.MaxWordLength)
	}
	if ws.config.MaxEntries > 0 && len(ws.entries) >= ws.config.MaxEntries {
		return fmt.Errorf("%w: entry limit %d reached", ErrAllocation, ws.config.MaxEntries)
	}

	bucket := ws.Hash(word)
	ws.entries = append(ws.entries, entry{
		word: word,
		next: ws.heads[bucket],
	})
	ws.heads[bucket] = len(ws.entries) - 1
	return nil
}

// Check reports whether word was loaded, ignoring ASCII case.
func (ws *WordSet) Check(word string) bool {
	if len(ws.heads) == 0 {
		return false
	}
	for i := ws.heads[ws.Hash(word)]; i != nilEntry; i = ws.entries[i].next {
		if equalFold(ws.entries[i].word, word) {
			return true
		}
	}
	return false
}

// Size returns the number of stored words, duplicates included.
func (ws *WordSet) Size() int {
	return len(ws.entries)
}

// Unload releases every entry and returns the set to its empty state.
// Unloading an empty set is a no-op.
func (ws *WordSet) Unload() {
	for b, head := range ws.heads {
		for i := head; i != nilEntry; {
			next := ws.entries[i].next
			ws.entries[i] = entry{next: nilEntry}
			i = next
		}
		ws.heads[b] = nilEntry
	}
	ws.entries = nil
	ws.loaded = false
}

func (ws *WordSet) clearBuckets() {
	for i := range ws.heads {
		ws.heads[i] = nilEntry
	}
}
