package turn

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressSnapshot_RoundTrips(t *testing.T) {
	s := &State{
		TurnNumber: 42,
		StartTime:  time.Unix(0, 1700000000000000000),
	}
	s.Digest = Digest(s.TurnNumber, s.StartTime)

	compressed, err := CompressSnapshot(s)
	require.NoError(t, err)
	assert.NotEmpty(t, compressed)

	rec, err := DecompressSnapshot(compressed)
	require.NoError(t, err)
	assert.Equal(t, s.TurnNumber, rec.TurnNumber)
	assert.Equal(t, s.StartTime.UnixNano(), rec.StartTime)
	assert.Equal(t, s.Digest, rec.Digest)
}

func TestDecompressSnapshot_RejectsGarbage(t *testing.T) {
	_, err := DecompressSnapshot([]byte("not lz4 data"))
	assert.Error(t, err)
}
