package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"github.com/NivBraz/speller/internal/config"
	"github.com/NivBraz/speller/internal/metrics"
	"github.com/NivBraz/speller/internal/models"
	"github.com/NivBraz/speller/pkg/fetcher"
	"github.com/NivBraz/speller/pkg/parser"
	"github.com/NivBraz/speller/pkg/source"
	"github.com/NivBraz/speller/pkg/wordset"
)

// App represents the main application
type App struct {
	config   *config.Config
	fetcher  *fetcher.Fetcher
	parser   *parser.Parser
	wordSet  *wordset.WordSet
	recorder metrics.Recorder
	logger   *slog.Logger
	progress io.Writer
	loadTime time.Duration
}

type Option func(*App)

func WithRecorder(r metrics.Recorder) Option {
	return func(a *App) { a.recorder = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(a *App) { a.logger = l }
}

// WithProgressOutput sets where the dictionary load progress bar is drawn.
func WithProgressOutput(w io.Writer) Option {
	return func(a *App) { a.progress = w }
}

// New creates the application and loads the configured dictionary.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	ws, err := wordset.New(wordset.Config{
		Buckets:       cfg.WordSet.Buckets,
		MaxWordLength: cfg.WordSet.MaxWordLength,
		MaxEntries:    cfg.WordSet.MaxEntries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create word set: %w", err)
	}

	a := &App{
		config: cfg,
		fetcher: fetcher.New(fetcher.FetcherConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
			Timeout:           time.Duration(cfg.HTTPClient.Timeout) * time.Second,
			UserAgent:         cfg.HTTPClient.UserAgent,
			MaxRetries:        cfg.HTTPClient.MaxRetries,
			MaxBodyBytes:      cfg.HTTPClient.MaxBodyBytes,
		}),
		parser:   parser.New(ws.MaxWordLength()),
		wordSet:  ws,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
		progress: os.Stderr,
	}
	for _, opt := range opts {
		opt(a)
	}

	if err := a.loadDictionary(ctx); err != nil {
		a.wordSet.Unload()
		return nil, fmt.Errorf("failed to load dictionary %s: %w", cfg.Dictionary.Location, err)
	}

	return a, nil
}

func (a *App) loadDictionary(ctx context.Context) error {
	location := a.config.Dictionary.Location
	start := time.Now()

	r, err := source.Open(ctx, location, a.fetcher)
	if err != nil {
		return err
	}
	defer r.Close()

	a.logger.Info("Loading dictionary", "location", location, "size", r.Size.String())

	total := int64(r.Size)
	if total == 0 {
		total = -1
	}
	bar := progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(a.progress),
		progressbar.OptionSetDescription("Loading dictionary..."),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
	r.OnRead(func(n int) { _ = bar.Add(n) })

	err = a.wordSet.Load(r)
	_ = bar.Finish()
	a.loadTime = time.Since(start)
	if err != nil {
		return err
	}

	stats := a.wordSet.Stats()
	a.recorder.ObservePhaseDuration(metrics.PhaseLoad, a.loadTime)
	a.recorder.AddWordsLoaded(stats.Entries)
	a.recorder.SetTableStats(stats)
	a.logger.Info("Dictionary loaded",
		"words", stats.Entries,
		"read", r.BytesRead().String(),
		"buckets", stats.Buckets,
		"used_buckets", stats.UsedBuckets,
		"longest_chain", stats.LongestChain,
		"load_factor", stats.LoadFactor,
		"duration", a.loadTime)
	return nil
}

// Check reports whether word is in the loaded dictionary.
func (a *App) Check(word string) bool {
	return a.wordSet.Check(word)
}

// Run spell-checks every text concurrently. Texts that fail are reported in
// the result and in the returned error; the rest still complete.
func (a *App) Run(ctx context.Context, texts []string) (*models.Result, error) {
	startTime := time.Now()

	results := make([]models.TextResult, len(texts))
	var checkNanos int64
	var wg sync.WaitGroup

	semaphore := make(chan struct{}, a.config.Concurrency)
	for i, location := range texts {
		wg.Add(1)
		go func(i int, location string) {
			defer wg.Done()

			// Acquire semaphore
			select {
			case semaphore <- struct{}{}:
			case <-ctx.Done():
				results[i] = models.TextResult{Source: location, Error: ctx.Err().Error()}
				a.recorder.IncTextResult(false)
				return
			}
			defer func() { <-semaphore }()

			res, elapsed, err := a.processText(ctx, location)
			atomic.AddInt64(&checkNanos, int64(elapsed))
			if err != nil {
				a.logger.Error("Error processing text", "source", location, "error", err)
				res.Error = err.Error()
			}
			a.recorder.IncTextResult(err == nil)
			results[i] = res
		}(i, location)
	}
	wg.Wait()

	sizeStart := time.Now()
	dictionaryWords := a.wordSet.Size()
	sizeTime := time.Since(sizeStart)

	checkTime := time.Duration(atomic.LoadInt64(&checkNanos))
	a.recorder.ObservePhaseDuration(metrics.PhaseCheck, checkTime)
	a.recorder.ObservePhaseDuration(metrics.PhaseSize, sizeTime)

	result := &models.Result{
		RunID:      uuid.NewString(),
		Dictionary: a.config.Dictionary.Location,
		Texts:      results,
	}

	frequencies := make(map[string]int)
	var errs []error
	for i, r := range results {
		if r.Error != "" {
			errs = append(errs, fmt.Errorf("failed to process %s: %s", texts[i], r.Error))
		}
		for _, w := range r.Misspelled {
			frequencies[strings.ToLower(w)]++
		}
		result.Stats.WordsMisspelled += r.WordsMisspelled
		result.Stats.WordsInText += r.WordsInText
		if !a.config.Output.ListMisspelled {
			result.Texts[i].Misspelled = nil
		}
	}

	result.TopMisspelled = getTopWords(frequencies, a.config.Output.TopMisspelledCount)
	result.Stats.WordsInDictionary = dictionaryWords
	result.Stats.TimeLoad = a.loadTime.Seconds()
	result.Stats.TimeCheck = checkTime.Seconds()
	result.Stats.TimeSize = sizeTime.Seconds()
	result.Stats.TimeTotal = a.loadTime.Seconds() + checkTime.Seconds() + sizeTime.Seconds()
	result.Stats.Table = a.wordSet.Stats()

	a.logger.Debug("Run finished", "texts", len(texts), "elapsed", time.Since(startTime))

	if len(errs) > 0 {
		return result, fmt.Errorf("encountered %d errors during processing: %w", len(errs), errors.Join(errs...))
	}

	return result, nil
}

// processText reads, parses and checks a single text. The returned duration
// covers only the dictionary lookups.
func (a *App) processText(ctx context.Context, location string) (models.TextResult, time.Duration, error) {
	res := models.TextResult{Source: location}

	format, err := parser.ParseFormat(a.config.Texts.Format, location)
	if err != nil {
		return res, 0, err
	}
	res.Format = string(format)

	content, err := source.ReadAll(ctx, location, a.fetcher)
	if err != nil {
		return res, 0, fmt.Errorf("failed to read text: %w", err)
	}

	words, err := a.parser.Parse(format, content)
	if err != nil {
		return res, 0, fmt.Errorf("failed to parse text: %w", err)
	}

	start := time.Now()
	for _, word := range words {
		if !a.wordSet.Check(word) {
			res.Misspelled = append(res.Misspelled, word)
		}
	}
	elapsed := time.Since(start)

	res.WordsInText = len(words)
	res.WordsMisspelled = len(res.Misspelled)
	a.recorder.AddChecks(res.WordsInText-res.WordsMisspelled, res.WordsMisspelled)
	return res, elapsed, nil
}

// Close unloads the dictionary and returns how long that took.
func (a *App) Close() time.Duration {
	start := time.Now()
	a.wordSet.Unload()
	elapsed := time.Since(start)
	a.recorder.ObservePhaseDuration(metrics.PhaseUnload, elapsed)
	return elapsed
}

// Helper functions

func validateConfig(cfg *config.Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is required")
	}
	if cfg.Dictionary.Location == "" {
		return fmt.Errorf("dictionary location is required")
	}
	if cfg.Concurrency <= 0 {
		return fmt.Errorf("invalid concurrency: must be positive")
	}
	return nil
}

func getTopWords(frequencies map[string]int, n int) []models.WordCount {
	// Convert map to slice for sorting
	words := make([]models.WordCount, 0, len(frequencies))
	for word, count := range frequencies {
		words = append(words, models.WordCount{
			Word:  word,
			Count: count,
		})
	}

	// Sort by frequency (descending) and alphabetically for ties
	parser.SortWordCounts(words)

	// Return top N words
	if n >= 0 && len(words) > n {
		return words[:n]
	}
	return words
}
