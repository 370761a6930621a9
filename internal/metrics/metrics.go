package metrics

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
)

// Small in-process registry that renders the Prometheus text format.
// Counters and count/sum summaries only, keyed by a sorted label string.

type labelsKey string

func makeKey(lbls map[string]string) labelsKey {
	if len(lbls) == 0 {
		return ""
	}
	keys := make([]string, 0, len(lbls))
	for k := range lbls {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteString(`="`)
		b.WriteString(strings.ReplaceAll(lbls[k], `"`, `\"`))
		b.WriteByte('"')
	}
	return labelsKey(b.String())
}

type CounterVec struct {
	Name string
	Help string

	mu     sync.RWMutex
	values map[labelsKey]float64
}

func NewCounterVec(name, help string) *CounterVec {
	return &CounterVec{Name: name, Help: help, values: make(map[labelsKey]float64)}
}

func (cv *CounterVec) Inc(lbls map[string]string) {
	key := makeKey(lbls)
	cv.mu.Lock()
	cv.values[key]++
	cv.mu.Unlock()
}

// Value returns the current count for lbls.
func (cv *CounterVec) Value(lbls map[string]string) float64 {
	key := makeKey(lbls)
	cv.mu.RLock()
	defer cv.mu.RUnlock()
	return cv.values[key]
}

func (cv *CounterVec) write(w io.Writer) {
	fmt.Fprintf(w, "# HELP %s %s\n", cv.Name, cv.Help)
	fmt.Fprintf(w, "# TYPE %s counter\n", cv.Name)
	cv.mu.RLock()
	defer cv.mu.RUnlock()
	for _, key := range sortedKeys(cv.values) {
		fmt.Fprintf(w, "%s%s %g\n", cv.Name, braces(key), cv.values[key])
	}
}

// SummaryVec keeps count and sum, exported as name_count and name_sum.
type SummaryVec struct {
	Name string
	Help string

	mu    sync.RWMutex
	count map[labelsKey]float64
	sum   map[labelsKey]float64
}

func NewSummaryVec(name, help string) *SummaryVec {
	return &SummaryVec{Name: name, Help: help, count: make(map[labelsKey]float64), sum: make(map[labelsKey]float64)}
}

func (sv *SummaryVec) Observe(lbls map[string]string, v float64) {
	key := makeKey(lbls)
	sv.mu.Lock()
	sv.count[key]++
	sv.sum[key] += v
	sv.mu.Unlock()
}

func (sv *SummaryVec) Count(lbls map[string]string) float64 {
	key := makeKey(lbls)
	sv.mu.RLock()
	defer sv.mu.RUnlock()
	return sv.count[key]
}

func (sv *SummaryVec) write(w io.Writer) {
	fmt.Fprintf(w, "# HELP %s %s\n", sv.Name, sv.Help)
	fmt.Fprintf(w, "# TYPE %s summary\n", sv.Name)
	sv.mu.RLock()
	defer sv.mu.RUnlock()
	for _, key := range sortedKeys(sv.count) {
		fmt.Fprintf(w, "%s_sum%s %g\n", sv.Name, braces(key), sv.sum[key])
		fmt.Fprintf(w, "%s_count%s %g\n", sv.Name, braces(key), sv.count[key])
	}
}

func sortedKeys(m map[labelsKey]float64) []labelsKey {
	keys := make([]labelsKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func braces(key labelsKey) string {
	if key == "" {
		return ""
	}
	return "{" + string(key) + "}"
}

var (
	HTTPRequests = NewCounterVec("askai_http_requests_total", "Total HTTP requests by method, path and status")
	HTTPDuration = NewSummaryVec("askai_http_request_seconds", "HTTP request duration seconds")

	LLMAsks   = NewCounterVec("askai_llm_asks_total", "Questions sent to the model by provider and outcome")
	LLMAskDur = NewSummaryVec("askai_llm_ask_seconds", "Model round trip duration seconds")
)

// ServeHTTP exposes all metrics in Prometheus text format.
func ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	HTTPRequests.write(w)
	HTTPDuration.write(w)
	LLMAsks.write(w)
	LLMAskDur.write(w)
}
