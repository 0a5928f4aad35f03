package trace

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdrpinto/gridplan"
)

func TestRecorderRoundTrip(t *testing.T) {
	dir := t.TempDir()
	rec, err := NewRecorder(dir, "MAPF00", "astar")
	require.NoError(t, err)
	assert.NotEmpty(t, rec.RunID)

	require.NoError(t, rec.Status(gridplan.Status{
		Expanded:  10000,
		Frontier:  2500,
		Generated: 12500,
		Elapsed:   3 * time.Second,
		MemUsed:   1 << 20,
		Phase:     gridplan.PhaseExpanding,
	}))
	require.NoError(t, rec.Finish(gridplan.Result{
		Found:    true,
		Expanded: 20000,
		Phase:    gridplan.PhaseGoalFound,
	}, nil))
	require.NoError(t, rec.Close())

	f, err := os.Open(rec.Path)
	require.NoError(t, err)
	defer f.Close()
	zr, err := zstd.NewReader(f)
	require.NoError(t, err)
	defer zr.Close()

	var kinds []string
	sc := bufio.NewScanner(zr)
	for sc.Scan() {
		var entry struct {
			Kind  string `json:"kind"`
			RunID string `json:"run_id"`
			Phase string `json:"phase"`
		}
		require.NoError(t, json.Unmarshal(sc.Bytes(), &entry))
		kinds = append(kinds, entry.Kind)
		if entry.Kind == "run" {
			assert.Equal(t, rec.RunID, entry.RunID)
		}
		if entry.Kind == "outcome" {
			assert.Equal(t, string(gridplan.PhaseGoalFound), entry.Phase)
		}
	}
	require.NoError(t, sc.Err())
	assert.Equal(t, []string{"run", "status", "outcome"}, kinds)
}

func TestRecorderRecordsErrors(t *testing.T) {
	rec, err := NewRecorder(t.TempDir(), "big", "dfs")
	require.NoError(t, err)
	require.NoError(t, rec.Finish(gridplan.Result{Phase: gridplan.PhaseOutOfBudget},
		errors.New("search budget exceeded")))
	require.NoError(t, rec.Close())

	assert.Error(t, rec.Record(map[string]int{"x": 1}), "closed recorder rejects writes")
	require.NoError(t, rec.Close(), "double close is fine")
}
