package format

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{18060000, "18,060,000"},
		{1234567890, "1,234,567,890"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatNumber(tt.in))
	}
}

func TestParseHex(t *testing.T) {
	n, err := ParseHexUint64("0x1122f10")
	require.NoError(t, err)
	assert.EqualValues(t, 17968912, n)

	n, err = ParseHexUint64("0x")
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = ParseHexUint64("0xzz")
	require.Error(t, err)

	_, err = ParseHexUint64("0x10000000000000000")
	require.Error(t, err)
}

func TestParseQuantity(t *testing.T) {
	v, err := ParseQuantity("1000000000000000000")
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000", v.String())

	v, err = ParseQuantity("0xde0b6b3a7640000")
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000", v.String())

	_, err = ParseQuantity("12eth")
	require.Error(t, err)
}

func TestFormatEth(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{1234.5678, "1234.57"},
		{1.5, "1.5000"},
		{0.0123456, "0.012346"},
		{0.000012345678, "0.00001235"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatEth(tt.in))
	}
}

func TestFormatWei(t *testing.T) {
	assert.Equal(t, "1.0000", FormatWei("1000000000000000000"))
	assert.Equal(t, "1.0000", FormatWei("0xde0b6b3a7640000"))
	assert.Equal(t, "0", FormatWei("not a number"))
	assert.Equal(t, "0", FormatWei("0"))
}

func TestFormatGwei(t *testing.T) {
	assert.Equal(t, "-", FormatGwei(nil))
	assert.Equal(t, "12.50 gwei", FormatGwei(big.NewInt(12_500_000_000)))
}

func TestTruncateHash(t *testing.T) {
	assert.Equal(t, "0xd8dA6B...A96045", TruncateHash("0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045"))
	assert.Equal(t, "0x1234", TruncateHash("0x1234"))
}

func TestFormatTimestamp(t *testing.T) {
	now := time.Date(2024, 9, 25, 12, 0, 0, 0, time.UTC)
	ts := uint64(now.Add(-90 * time.Minute).Unix())
	assert.Equal(t, "2024-09-25 10:30:00 UTC (1h ago)", FormatTimestamp(ts, now))

	ts = uint64(now.Add(-3 * 24 * time.Hour).Unix())
	assert.Equal(t, "2024-09-22 12:00:00 UTC (3d ago)", FormatTimestamp(ts, now))
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "2.0 KB", FormatBytes(2048))
	assert.Equal(t, "1.5 MB", FormatBytes(3*512*1024))
}
