package metrics

import (
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/NivBraz/speller/pkg/wordset"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry      *prom.Registry
	phaseDuration *prom.HistogramVec
	wordsLoaded   prom.Counter
	checks        *prom.CounterVec
	textResults   *prom.CounterVec
	buckets       prom.Gauge
	usedBuckets   prom.Gauge
	longestChain  prom.Gauge
	loadFactor    prom.Gauge
}

// NewPrometheusRecorder constructs and registers the speller metrics on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		registry: reg,
		phaseDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "speller",
			Name:      "phase_duration_seconds",
			Help:      "Duration of load, check, size and unload phases",
			Buckets:   prom.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"phase"}),
		wordsLoaded: prom.NewCounter(prom.CounterOpts{
			Namespace: "speller",
			Name:      "dictionary_words_loaded_total",
			Help:      "Words stored in the dictionary table",
		}),
		checks: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "speller",
			Name:      "checks_total",
			Help:      "Word lookups by result",
		}, []string{"result"}),
		textResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "speller",
			Name:      "texts_total",
			Help:      "Checked texts by outcome",
		}, []string{"result"}),
		buckets: prom.NewGauge(prom.GaugeOpts{
			Namespace: "speller",
			Name:      "table_buckets",
			Help:      "Bucket count of the dictionary table",
		}),
		usedBuckets: prom.NewGauge(prom.GaugeOpts{
			Namespace: "speller",
			Name:      "table_used_buckets",
			Help:      "Buckets holding at least one entry",
		}),
		longestChain: prom.NewGauge(prom.GaugeOpts{
			Namespace: "speller",
			Name:      "table_longest_chain",
			Help:      "Length of the longest bucket chain",
		}),
		loadFactor: prom.NewGauge(prom.GaugeOpts{
			Namespace: "speller",
			Name:      "table_load_factor",
			Help:      "Entries per bucket",
		}),
	}
	reg.MustRegister(pr.phaseDuration, pr.wordsLoaded, pr.checks, pr.textResults,
		pr.buckets, pr.usedBuckets, pr.longestChain, pr.loadFactor)
	return pr
}

func (p *PrometheusRecorder) ObservePhaseDuration(phase Phase, d time.Duration) {
	if p == nil {
		return
	}
	p.phaseDuration.WithLabelValues(string(phase)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) AddWordsLoaded(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.wordsLoaded.Add(float64(n))
}

func (p *PrometheusRecorder) AddChecks(hits, misses int) {
	if p == nil {
		return
	}
	p.checks.WithLabelValues("hit").Add(float64(hits))
	p.checks.WithLabelValues("miss").Add(float64(misses))
}

func (p *PrometheusRecorder) IncTextResult(success bool) {
	if p == nil {
		return
	}
	res := "failed"
	if success {
		res = "success"
	}
	p.textResults.WithLabelValues(res).Inc()
}

func (p *PrometheusRecorder) SetTableStats(s wordset.Stats) {
	if p == nil {
		return
	}
	p.buckets.Set(float64(s.Buckets))
	p.usedBuckets.Set(float64(s.UsedBuckets))
	p.longestChain.Set(float64(s.LongestChain))
	p.loadFactor.Set(s.LoadFactor)
}

// WriteTextfile writes the registry in the node exporter textfile format.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, p.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
