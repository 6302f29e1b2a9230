package turn

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/pierrec/lz4/v4"
)

// ArchiveRecord is the durable, replayable snapshot written once per
// completed turn for audit purposes (§4.H digest/replay); Digest covers the
// same fields but is a fixed-size fingerprint, not a replayable record.
type ArchiveRecord struct {
	TurnNumber int64  `json:"turnNumber"`
	StartTime  int64  `json:"startTime"` // UnixNano
	Digest     string `json:"digest"`
}

// CompressSnapshot JSON-encodes s and compresses it with LZ4, the same
// compress-before-persist idiom Vitadek-OwnWorld's utils.go uses for its
// world-state snapshots, applied here to the much smaller per-turn archive
// record instead of a full world dump.
func CompressSnapshot(s *State) ([]byte, error) {
	rec := ArchiveRecord{
		TurnNumber: s.TurnNumber,
		StartTime:  s.StartTime.UnixNano(),
		Digest:     s.Digest,
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecompressSnapshot reverses CompressSnapshot, for audit tooling that
// reads archived turn records back out.
func DecompressSnapshot(compressed []byte) (ArchiveRecord, error) {
	zr := lz4.NewReader(bytes.NewReader(compressed))
	raw, err := io.ReadAll(zr)
	if err != nil {
		return ArchiveRecord{}, err
	}
	var rec ArchiveRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return ArchiveRecord{}, err
	}
	return rec, nil
}
