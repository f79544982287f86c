package reconcile

import "fmt"

// Result accumulates batch outcomes across rows and chunks.
type Result struct {
	Created    int // persons created
	Updated    int // persons updated
	Households int // households created
	Skipped    int // rows filtered out before matching
	Queued     int // shift rows parked in the unmatched queue
	Credited   int // shift rows credited to a household
	Failed     int // rows that errored and were recorded as warnings
	Warnings   []string
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *Result) merge(other Result) {
	r.Created += other.Created
	r.Updated += other.Updated
	r.Households += other.Households
	r.Skipped += other.Skipped
	r.Queued += other.Queued
	r.Credited += other.Credited
	r.Failed += other.Failed
	r.Warnings = append(r.Warnings, other.Warnings...)
}
