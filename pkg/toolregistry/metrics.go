package toolregistry

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// toolMetrics accumulates process-lifetime statistics for one tool.
// Mutated only under Registry.mu.
type toolMetrics struct {
	usage         int64
	errors        int64
	totalDuration time.Duration
	lastExecution *LastExecution
	lastError     *LastError
}

// LastExecution records the outcome of a tool's most recent call.
type LastExecution struct {
	Timestamp     time.Time `json:"timestamp"`
	Success       bool      `json:"success"`
	CorrelationID string    `json:"correlation_id"`
}

// LastError records detail of a tool's most recent failure.
type LastError struct {
	Message   string    `json:"message"`
	Detail    string    `json:"detail"`
	Timestamp time.Time `json:"timestamp"`
}

// ToolMetricsSnapshot is a point-in-time copy of one tool's metrics.
type ToolMetricsSnapshot struct {
	Usage                int64          `json:"usage"`
	Errors               int64          `json:"errors"`
	TotalExecutionTime   time.Duration  `json:"total_execution_time"`
	AverageExecutionTime time.Duration  `json:"average_execution_time"`
	LastExecution        *LastExecution `json:"last_execution,omitempty"`
	LastError            *LastError     `json:"last_error,omitempty"`
}

// MetricsSnapshot aggregates the registry's metrics across all tools
// for export to an external observability pipeline.
type MetricsSnapshot struct {
	Executions           int64                     `json:"executions"`
	Errors               int64                     `json:"errors"`
	ToolUsage            map[string]int64          `json:"tool_usage"`
	AverageExecutionTime map[string]time.Duration  `json:"average_execution_time"`
	TotalExecutionTime   map[string]time.Duration  `json:"total_execution_time"`
	LastExecution        map[string]*LastExecution `json:"last_execution"`
	LastError            map[string]*LastError     `json:"last_error"`
	SuccessRate          float64                   `json:"success_rate"`
	RegisteredTools      []string                  `json:"registered_tools"`
	ToolCount            int                       `json:"tool_count"`
	Timestamp            time.Time                 `json:"timestamp"`
}

func (r *Registry) recordSuccess(name string, duration time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m := r.ensureMetrics(name)
	m.usage++
	m.totalDuration += duration
	m.lastExecution = &LastExecution{
		Timestamp:     time.Now(),
		Success:       true,
		CorrelationID: uuid.NewString(),
	}
}

func (r *Registry) recordFailure(name string, duration time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	m := r.ensureMetrics(name)
	m.usage++
	m.errors++
	m.totalDuration += duration
	m.lastExecution = &LastExecution{
		Timestamp:     now,
		Success:       false,
		CorrelationID: uuid.NewString(),
	}
	m.lastError = &LastError{
		Message:   err.Error(),
		Detail:    fmt.Sprintf("%+v", err),
		Timestamp: now,
	}
}

func (r *Registry) ensureMetrics(name string) *toolMetrics {
	m, ok := r.metrics[name]
	if !ok {
		m = &toolMetrics{}
		r.metrics[name] = m
	}
	return m
}

// ToolMetrics returns a snapshot for one tool, or nil if the tool has
// never been registered.
func (r *Registry) ToolMetrics(name string) *ToolMetricsSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.metrics[name]
	if !ok {
		return nil
	}
	return m.snapshot()
}

func (m *toolMetrics) snapshot() *ToolMetricsSnapshot {
	snap := &ToolMetricsSnapshot{
		Usage:              m.usage,
		Errors:             m.errors,
		TotalExecutionTime: m.totalDuration,
		LastExecution:      m.lastExecution,
		LastError:          m.lastError,
	}
	if m.usage > 0 {
		snap.AverageExecutionTime = m.totalDuration / time.Duration(m.usage)
	}
	return snap
}

// Metrics returns an aggregate snapshot across all known tools.
func (r *Registry) Metrics() *MetricsSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := &MetricsSnapshot{
		ToolUsage:            make(map[string]int64, len(r.metrics)),
		AverageExecutionTime: make(map[string]time.Duration, len(r.metrics)),
		TotalExecutionTime:   make(map[string]time.Duration, len(r.metrics)),
		LastExecution:        make(map[string]*LastExecution, len(r.metrics)),
		LastError:            make(map[string]*LastError, len(r.metrics)),
		Timestamp:            time.Now(),
	}

	for name, m := range r.metrics {
		ts := m.snapshot()
		snap.Executions += m.usage
		snap.Errors += m.errors
		snap.ToolUsage[name] = m.usage
		snap.AverageExecutionTime[name] = ts.AverageExecutionTime
		snap.TotalExecutionTime[name] = m.totalDuration
		if m.lastExecution != nil {
			snap.LastExecution[name] = m.lastExecution
		}
		if m.lastError != nil {
			snap.LastError[name] = m.lastError
		}
	}

	if snap.Executions > 0 {
		snap.SuccessRate = float64(snap.Executions-snap.Errors) / float64(snap.Executions)
	}

	for name := range r.tools {
		snap.RegisteredTools = append(snap.RegisteredTools, name)
	}
	sort.Strings(snap.RegisteredTools)
	snap.ToolCount = len(r.tools)

	return snap
}

// ClearMetrics resets all counters to zero while preserving the set
// of known tool names.
func (r *Registry) ClearMetrics() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name := range r.metrics {
		r.metrics[name] = &toolMetrics{}
	}
}
