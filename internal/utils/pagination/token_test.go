package pagination

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeSequenceToken(t *testing.T) {
	for _, seq := range []int64{0, 1, 42, 9_007_199_254_740_993} {
		token := EncodeSequenceToken(seq)
		assert.NotEmpty(t, token, "Token should not be empty")

		decoded, err := DecodeSequenceToken(token)
		assert.NoError(t, err, "Decoding should not return an error")
		assert.Equal(t, seq, decoded)
	}
}

func TestDecodeSequenceToken_Invalid(t *testing.T) {
	_, err := DecodeSequenceToken("!!not-base64!!")
	assert.Error(t, err)

	_, err = DecodeSequenceToken(EncodeMultiFieldToken("seq"))
	assert.Error(t, err, "Missing sequence field should fail")

	_, err = DecodeSequenceToken(EncodeMultiFieldToken("cursor", "10"))
	assert.Error(t, err, "Wrong prefix should fail")

	_, err = DecodeSequenceToken(EncodeMultiFieldToken("seq", "ten"))
	assert.Error(t, err, "Non numeric sequence should fail")
}

func TestMultiFieldToken(t *testing.T) {
	token := EncodeMultiFieldToken("a", "b", "c")
	parts, err := DecodeMultiFieldToken(token)
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, parts)
}

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, NormalizeLimit(0))
	assert.Equal(t, DefaultLimit, NormalizeLimit(-3))
	assert.Equal(t, 10, NormalizeLimit(10))
	assert.Equal(t, MaxLimit, NormalizeLimit(10_000))
}

func TestSequenceCursor(t *testing.T) {
	upper, err := SequenceCursor(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), upper)

	token := EncodeSequenceToken(17)
	upper, err = SequenceCursor(&token)
	require.NoError(t, err)
	assert.Equal(t, int64(17), upper)

	bad := "%%%"
	_, err = SequenceCursor(&bad)
	assert.Error(t, err)
}

func TestTrimSequencePage(t *testing.T) {
	seqs := []int64{9, 8, 7}
	page, next := TrimSequencePage(seqs, 2, func(s int64) int64 { return s })
	assert.Equal(t, []int64{9, 8}, page)
	require.NotNil(t, next)
	cursor, err := DecodeSequenceToken(*next)
	require.NoError(t, err)
	assert.Equal(t, int64(8), cursor)

	page, next = TrimSequencePage(seqs, 3, func(s int64) int64 { return s })
	assert.Len(t, page, 3)
	assert.Nil(t, next)
}
