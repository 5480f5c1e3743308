package translate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openrazer/razerctl/translate"
)

func TestSetAndLookup(t *testing.T) {
	r := translate.NewRegistry(nil)

	// Two bindings for device 7: key 2 -> 0x1E, key 3 -> 0x30.
	outcome, err := r.Set(7, []byte{0x02, 0x00, 0x1E, 0x00, 0x03, 0x00, 0x30, 0x00})
	require.NoError(t, err)
	assert.Equal(t, translate.Replaced, outcome)

	got, ok := r.Lookup(7, 2)
	require.True(t, ok)
	assert.Equal(t, translate.KeyTranslation{From: 2, To: 0x1E}, got)

	got, ok = r.Lookup(7, 3)
	require.True(t, ok)
	assert.Equal(t, translate.KeyTranslation{From: 3, To: 0x30}, got)

	_, ok = r.Lookup(7, 99)
	assert.False(t, ok)

	// Other devices are untouched.
	_, ok = r.Lookup(8, 2)
	assert.False(t, ok)
}

func TestDeleteSentinel(t *testing.T) {
	r := translate.NewRegistry(nil)

	_, err := r.Set(7, []byte{0x02, 0x00, 0x1E, 0x00})
	require.NoError(t, err)

	tests := []struct {
		name    string
		payload []byte
	}{
		{name: "zero byte", payload: []byte{0x00}},
		{name: "nonzero byte", payload: []byte{0xFF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, err := r.Set(7, tt.payload)
			require.NoError(t, err)
			assert.Equal(t, translate.Deleted, outcome)

			buf := make([]byte, 16)
			n := r.Get(7, buf)
			assert.Equal(t, 1, n)
			assert.Equal(t, byte(0), buf[0])

			_, ok := r.Lookup(7, 2)
			assert.False(t, ok)
		})
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	r := translate.NewRegistry(nil)

	// Deleting bindings that never existed still reports Deleted.
	outcome, err := r.Set(42, translate.DeleteSentinel)
	require.NoError(t, err)
	assert.Equal(t, translate.Deleted, outcome)
}

func TestInvalidLengthLeavesStateUntouched(t *testing.T) {
	r := translate.NewRegistry(nil)

	_, err := r.Set(7, []byte{0x02, 0x00, 0x1E, 0x00})
	require.NoError(t, err)

	for _, n := range []int{2, 3, 5, 6, 7, 9} {
		_, err := r.Set(7, make([]byte, n))
		assert.ErrorIs(t, err, translate.ErrInvalidLength, "length %d", n)
	}

	got, ok := r.Lookup(7, 2)
	require.True(t, ok)
	assert.Equal(t, uint16(0x1E), got.To)
	assert.Equal(t, 1, r.Count(7))
}

func TestGetRoundTrip(t *testing.T) {
	r := translate.NewRegistry(nil)

	payload := []byte{
		0x10, 0x00, 0x20, 0x00,
		0x11, 0x00, 0x21, 0x00,
		0x12, 0x00, 0x22, 0x00,
	}
	_, err := r.Set(3, payload)
	require.NoError(t, err)

	buf := make([]byte, 64)
	n := r.Get(3, buf)
	assert.Equal(t, len(payload), n)
	assert.Equal(t, payload, buf[:n])
}

func TestRebindDifferentCount(t *testing.T) {
	r := translate.NewRegistry(nil)

	_, err := r.Set(7, []byte{0x02, 0x00, 0x1E, 0x00, 0x03, 0x00, 0x30, 0x00})
	require.NoError(t, err)
	assert.Equal(t, 2, r.Count(7))

	// Replace with a single different binding; the old ones must be gone.
	_, err = r.Set(7, []byte{0x09, 0x00, 0x04, 0x00})
	require.NoError(t, err)
	assert.Equal(t, 1, r.Count(7))

	_, ok := r.Lookup(7, 2)
	assert.False(t, ok)
	_, ok = r.Lookup(7, 3)
	assert.False(t, ok)

	got, ok := r.Lookup(7, 9)
	require.True(t, ok)
	assert.Equal(t, uint16(4), got.To)
}

func TestRebindSameCountReplacesInPlace(t *testing.T) {
	r := translate.NewRegistry(nil)

	_, err := r.Set(7, []byte{0x02, 0x00, 0x1E, 0x00})
	require.NoError(t, err)

	_, err = r.Set(7, []byte{0x02, 0x00, 0x05, 0x00})
	require.NoError(t, err)

	got, ok := r.Lookup(7, 2)
	require.True(t, ok)
	assert.Equal(t, uint16(5), got.To)
	assert.Equal(t, 1, r.Count(7))
}

func TestLookupFirstMatchWins(t *testing.T) {
	r := translate.NewRegistry(nil)

	// Duplicate From values: insertion order decides.
	_, err := r.Set(7, []byte{
		0x02, 0x00, 0x1E, 0x00,
		0x02, 0x00, 0x30, 0x00,
	})
	require.NoError(t, err)

	got, ok := r.Lookup(7, 2)
	require.True(t, ok)
	assert.Equal(t, uint16(0x1E), got.To)
}

func TestEmptyBulkWriteRemovesTable(t *testing.T) {
	r := translate.NewRegistry(nil)

	_, err := r.Set(7, []byte{0x02, 0x00, 0x1E, 0x00})
	require.NoError(t, err)

	// Zero entries is a valid multiple of the pair size but an empty table
	// is never retained.
	outcome, err := r.Set(7, []byte{})
	require.NoError(t, err)
	assert.Equal(t, translate.Replaced, outcome)

	buf := make([]byte, 8)
	assert.Equal(t, 1, r.Get(7, buf))
	assert.Equal(t, byte(0), buf[0])
}

func TestClose(t *testing.T) {
	r := translate.NewRegistry(nil)

	for id := uint16(1); id <= 5; id++ {
		_, err := r.Set(id, []byte{0x02, 0x00, 0x1E, 0x00})
		require.NoError(t, err)
	}
	r.Close()

	for id := uint16(1); id <= 5; id++ {
		assert.Equal(t, 0, r.Count(id))
	}

	// Still usable after teardown.
	_, err := r.Set(1, []byte{0x02, 0x00, 0x1E, 0x00})
	require.NoError(t, err)
	assert.Equal(t, 1, r.Count(1))
}

func TestEncodeDecodePayload(t *testing.T) {
	pairs := []translate.KeyTranslation{
		{From: 2, To: 0x1E},
		{From: 0x0102, To: 0xA0B0},
	}

	buf := translate.EncodePairs(pairs)
	assert.Equal(t, []byte{0x02, 0x00, 0x1E, 0x00, 0x02, 0x01, 0xB0, 0xA0}, buf)

	decoded, err := translate.DecodePayload(buf)
	require.NoError(t, err)
	assert.Equal(t, pairs, decoded)
}

func TestDecodePayloadSentinelAndErrors(t *testing.T) {
	decoded, err := translate.DecodePayload([]byte{0x00})
	require.NoError(t, err)
	assert.Empty(t, decoded)

	_, err = translate.DecodePayload([]byte{0x01, 0x02, 0x03})
	assert.ErrorIs(t, err, translate.ErrInvalidLength)
}
