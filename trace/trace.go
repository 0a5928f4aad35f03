// Package trace records one search run as zstd-compressed JSONL: a header
// entry with run metadata, one entry per periodic driver status, and a
// final outcome entry. Files are written under a run directory and named
// by run id.
package trace

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"github.com/pdrpinto/gridplan"
)

// Recorder appends entries to one run file. Safe for concurrent use.
type Recorder struct {
	RunID string
	Path  string

	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

type header struct {
	Kind       string    `json:"kind"`
	RunID      string    `json:"run_id"`
	Level      string    `json:"level"`
	Strategy   string    `json:"strategy"`
	RecordedAt time.Time `json:"recorded_at"`
}

type statusEntry struct {
	Kind      string        `json:"kind"`
	Expanded  int           `json:"expanded"`
	Frontier  int           `json:"frontier"`
	Generated int           `json:"generated"`
	ElapsedMS int64         `json:"elapsed_ms"`
	MemUsed   uint64        `json:"mem_used"`
	Phase     gridplan.Phase `json:"phase"`
}

type outcomeEntry struct {
	Kind       string        `json:"kind"`
	Found      bool          `json:"found"`
	PlanLength int           `json:"plan_length"`
	Expanded   int           `json:"expanded"`
	Generated  int           `json:"generated"`
	ElapsedMS  int64         `json:"elapsed_ms"`
	Phase      gridplan.Phase `json:"phase"`
	Error      string        `json:"error,omitempty"`
}

// NewRecorder opens <dir>/<run-id>.jsonl.zst and writes the header entry.
func NewRecorder(dir, levelName, strategy string) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	id := uuid.NewString()
	path := filepath.Join(dir, id+".jsonl.zst")
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	r := &Recorder{
		RunID: id,
		Path:  path,
		f:     f,
		enc:   enc,
		w:     bufio.NewWriter(enc),
	}
	return r, r.Record(header{
		Kind:       "run",
		RunID:      id,
		Level:      levelName,
		Strategy:   strategy,
		RecordedAt: time.Now().UTC(),
	})
}

// Record appends one JSON entry.
func (r *Recorder) Record(v any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.w == nil {
		return fmt.Errorf("trace recorder %s is closed", r.RunID)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := r.w.Write(b); err != nil {
		return err
	}
	return r.w.WriteByte('\n')
}

// Status records one driver progress report.
func (r *Recorder) Status(st gridplan.Status) error {
	return r.Record(statusEntry{
		Kind:      "status",
		Expanded:  st.Expanded,
		Frontier:  st.Frontier,
		Generated: st.Generated,
		ElapsedMS: st.Elapsed.Milliseconds(),
		MemUsed:   st.MemUsed,
		Phase:     st.Phase,
	})
}

// Finish records the terminal outcome.
func (r *Recorder) Finish(res gridplan.Result, searchErr error) error {
	entry := outcomeEntry{
		Kind:       "outcome",
		Found:      res.Found,
		PlanLength: len(res.Plan),
		Expanded:   res.Expanded,
		Generated:  res.Generated,
		ElapsedMS:  res.Elapsed.Milliseconds(),
		Phase:      res.Phase,
	}
	if searchErr != nil {
		entry.Error = searchErr.Error()
	}
	return r.Record(entry)
}

// Close flushes and closes the run file.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.w == nil {
		return nil
	}
	if err := r.w.Flush(); err != nil {
		return err
	}
	if err := r.enc.Close(); err != nil {
		return err
	}
	r.w = nil
	return r.f.Close()
}
