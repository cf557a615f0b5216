// Package report summarizes batch runs: parse outcomes combined with
// the resource usage of the current process over the run interval.
package report

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/oarkflow/json"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/oarkflow/edi835/pkg/elements"
	"github.com/oarkflow/edi835/pkg/remit"
)

// Monitor samples resource usage of the current process.
type Monitor struct {
	proc *process.Process
}

// New returns a Monitor for the current process.
func New() (*Monitor, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("create process monitor: %w", err)
	}
	return &Monitor{proc: proc}, nil
}

// Usage is one resource snapshot.
type Usage struct {
	Timestamp time.Time
	CPUTime   float64
	MemoryRSS uint64
	Threads   int32
	HeapAlloc uint64
}

// Snapshot collects the current usage.
func (m *Monitor) Snapshot() (*Usage, error) {
	cpuTimes, err := m.proc.Times()
	if err != nil {
		return nil, err
	}
	memInfo, err := m.proc.MemoryInfo()
	if err != nil {
		return nil, err
	}
	threads, err := m.proc.NumThreads()
	if err != nil {
		return nil, err
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	return &Usage{
		Timestamp: time.Now(),
		CPUTime:   cpuTimes.User + cpuTimes.System,
		MemoryRSS: memInfo.RSS,
		Threads:   threads,
		HeapAlloc: ms.HeapAlloc,
	}, nil
}

// RunReport is the outcome of one batch run.
type RunReport struct {
	Files         int           `json:"files"`
	Parsed        int           `json:"parsed"`
	Failed        int           `json:"failed"`
	Claims        int           `json:"claims"`
	Services      int           `json:"services"`
	TotalCharged  float64       `json:"total_charged"`
	TotalPaid     float64       `json:"total_paid"`
	Duration      time.Duration `json:"duration"`
	CPUPercent    float64       `json:"cpu_percent"`
	MemoryDiff    int64         `json:"memory_diff"`
	ThreadsDiff   int32         `json:"threads_diff"`
	HeapAllocDiff int64         `json:"heap_alloc_diff"`
}

// Summarize folds batch results and the run's usage interval into one
// report. Claim amounts that do not parse as numbers are left out of
// the totals.
func Summarize(start, end *Usage, results []remit.FileResult) *RunReport {
	r := &RunReport{Files: len(results)}
	for _, result := range results {
		if result.Err != nil {
			r.Failed++
			continue
		}
		r.Parsed++
		r.Claims += len(result.Document.Claims)
		r.Services += result.Document.ServiceCount()
		for _, claim := range result.Document.Claims {
			if charged, ok := elements.DecimalValue(claim.Claim.ChargeAmount); ok {
				r.TotalCharged += charged
			}
			if paid, ok := elements.DecimalValue(claim.Claim.PaymentAmount); ok {
				r.TotalPaid += paid
			}
		}
	}

	r.Duration = end.Timestamp.Sub(start.Timestamp)
	if seconds := r.Duration.Seconds(); seconds > 0 {
		r.CPUPercent = (end.CPUTime - start.CPUTime) / seconds * 100
	}
	r.MemoryDiff = int64(end.MemoryRSS) - int64(start.MemoryRSS)
	r.ThreadsDiff = end.Threads - start.Threads
	r.HeapAllocDiff = int64(end.HeapAlloc) - int64(start.HeapAlloc)
	return r
}

// ToString renders a human-readable summary.
func (r *RunReport) ToString() string {
	return fmt.Sprintf(
		"Files: %d (parsed %d, failed %d)\nClaims/Services: %d/%d\nCharged/Paid: %.2f/%.2f\nDuration: %v\nCPU: %.2f%%\nMemory: %s\nHeapAlloc: %s",
		r.Files, r.Parsed, r.Failed,
		r.Claims, r.Services,
		r.TotalCharged, r.TotalPaid,
		r.Duration,
		r.CPUPercent,
		FormatBytes(r.MemoryDiff),
		FormatBytes(r.HeapAllocDiff),
	)
}

// ToJSON renders the report as indented JSON.
func (r *RunReport) ToJSON() string {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}

// FormatBytes converts a byte difference (possibly negative) to a
// human-readable string.
func FormatBytes(diff int64) string {
	sign := ""
	if diff > 0 {
		sign = "+"
	}
	absDiff := diff
	if diff < 0 {
		sign = "-"
		absDiff = -diff
	}

	var value float64
	unit := "B"
	switch {
	case absDiff >= 1<<30:
		value = float64(absDiff) / (1 << 30)
		unit = "GB"
	case absDiff >= 1<<20:
		value = float64(absDiff) / (1 << 20)
		unit = "MB"
	case absDiff >= 1<<10:
		value = float64(absDiff) / (1 << 10)
		unit = "KB"
	default:
		value = float64(absDiff)
	}
	return fmt.Sprintf("%s%.2f %s", sign, value, unit)
}
