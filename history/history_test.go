package history

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(msg string) Record {
	return Record{Address: "0xA", Timestamp: time.Unix(1700000000, 0), Message: msg}
}

func TestAppendShowsNewestFirst(t *testing.T) {
	t.Parallel()

	s := New()
	s.Append(rec("first"))
	s.Append(rec("second"))

	snap := s.SnapshotReversed()
	require.Len(t, snap, 2)
	assert.Equal(t, "second", snap[0].Message)
	assert.Equal(t, "first", snap[1].Message)
}

func TestReplaceAllThenReversed(t *testing.T) {
	t.Parallel()

	s := New()
	s.Append(rec("stale"))
	s.ReplaceAll([]Record{rec("x"), rec("y"), rec("z")})

	snap := s.SnapshotReversed()
	require.Len(t, snap, 3)
	assert.Equal(t, []string{"z", "y", "x"}, []string{snap[0].Message, snap[1].Message, snap[2].Message})
}

func TestSnapshotDoesNotChangeStorageOrder(t *testing.T) {
	t.Parallel()

	s := New()
	s.ReplaceAll([]Record{rec("a"), rec("b")})
	_ = s.SnapshotReversed()
	s.Append(rec("c"))

	snap := s.SnapshotReversed()
	assert.Equal(t, "c", snap[0].Message)
	assert.Equal(t, "a", snap[2].Message)
}

func TestReplaceAllCopiesInput(t *testing.T) {
	t.Parallel()

	in := []Record{rec("a")}
	s := New()
	s.ReplaceAll(in)
	in[0].Message = "mutated"

	assert.Equal(t, "a", s.SnapshotReversed()[0].Message)
}

func TestSnapshotIsACopy(t *testing.T) {
	t.Parallel()

	s := New()
	s.Append(rec("a"))
	snap := s.SnapshotReversed()
	snap[0].Message = "mutated"

	assert.Equal(t, "a", s.SnapshotReversed()[0].Message)
}

func TestEmptyStore(t *testing.T) {
	t.Parallel()

	s := New()
	assert.Empty(t, s.SnapshotReversed())
	assert.Equal(t, 0, s.Len())
}

func TestNewRecord(t *testing.T) {
	t.Parallel()

	r := NewRecord("0xabc", big.NewInt(1700000000), "hi")
	assert.Equal(t, "0xabc", r.Address)
	assert.Equal(t, int64(1700000000), r.Timestamp.Unix())
	assert.Equal(t, "hi", r.Message)

	assert.True(t, NewRecord("0xabc", nil, "").Timestamp.IsZero())
}

func TestNewRecordOutOfRangeTimestamp(t *testing.T) {
	t.Parallel()

	huge := new(big.Int).Lsh(big.NewInt(1), 70)
	assert.True(t, NewRecord("0xabc", huge, "far future").Timestamp.IsZero())

	negative := new(big.Int).Neg(huge)
	assert.True(t, NewRecord("0xabc", negative, "").Timestamp.IsZero())
}
