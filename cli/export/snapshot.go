package export

import (
	"fmt"
	"os"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/pithecene-io/cdxq/types"
)

// snapshotVersion is bumped when the snapshot layout changes incompatibly.
const snapshotVersion = 1

// Snapshot is a saved batch: the outcome records plus enough of the query
// configuration to interpret them later. Serialized as msgpack.
type Snapshot struct {
	Version   int                   `msgpack:"version"`
	CreatedAt time.Time             `msgpack:"created_at"`
	BatchID   string                `msgpack:"batch_id"`
	Endpoint  string                `msgpack:"endpoint"`
	MatchType string                `msgpack:"match_type"`
	Records   []types.OutcomeRecord `msgpack:"records"`
}

// NewSnapshot builds a snapshot from a finished batch.
func NewSnapshot(batchID string, cfg *types.QueryConfig, batch *types.ResultBatch) *Snapshot {
	return &Snapshot{
		Version:   snapshotVersion,
		CreatedAt: time.Now().UTC(),
		BatchID:   batchID,
		Endpoint:  cfg.Endpoint,
		MatchType: string(cfg.Match),
		Records:   batch.Records(),
	}
}

// SaveSnapshot writes the snapshot to path as msgpack.
func SaveSnapshot(path string, snap *Snapshot) error {
	data, err := msgpack.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot %q: %w", path, err)
	}
	return nil
}

// LoadSnapshot reads a msgpack snapshot from path.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("snapshot not found: %s", path)
		}
		return nil, fmt.Errorf("reading snapshot %q: %w", path, err)
	}

	var snap Snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot %q: %w", path, err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d in %q", snap.Version, path)
	}
	return &snap, nil
}

// Batch rebuilds a ResultBatch from the snapshot records.
func (s *Snapshot) Batch() *types.ResultBatch {
	batch := types.NewResultBatch()
	batch.Append(s.Records...)
	return batch
}
