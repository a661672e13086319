package telemetry

import (
	"sync"
)

type Report struct {
	Kind   string
	ID     string
	Params []any
	Count  int64
}

// Recorder keeps every report in memory, it is meant for asserting on
// telemetry in tests.
type Recorder struct {
	lock    *sync.Mutex
	reports *[]Report
}

func NewRecorder() Recorder {
	return Recorder{
		lock:    &sync.Mutex{},
		reports: &[]Report{},
	}
}

func (r Recorder) push(report Report) {
	r.lock.Lock()
	defer r.lock.Unlock()
	*r.reports = append(*r.reports, report)
}

func (r Recorder) ReportBroken(id string, params ...any) {
	r.push(Report{Kind: "broken", ID: id, Params: params})
}

func (r Recorder) ReportWarning(id string, params ...any) {
	r.push(Report{Kind: "warning", ID: id, Params: params})
}

func (r Recorder) ReportCount(id string, count int64) {
	r.push(Report{Kind: "count", ID: id, Count: count})
}

// Reports returns a copy of everything reported so far.
func (r Recorder) Reports() []Report {
	r.lock.Lock()
	defer r.lock.Unlock()
	out := make([]Report, len(*r.reports))
	copy(out, *r.reports)
	return out
}

// IDs returns the ids of the reports of the given kind, in order.
func (r Recorder) IDs(kind string) []string {
	var ids []string
	for _, rep := range r.Reports() {
		if rep.Kind == kind {
			ids = append(ids, rep.ID)
		}
	}
	return ids
}
