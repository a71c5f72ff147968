package audio

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/longreader/errors"
)

func TestDecodePCM16(t *testing.T) {
	pcm := []byte{
		0x00, 0x00, // 0
		0xff, 0x7f, // 32767
		0x00, 0x80, // -32768
		0x00, 0x40, // 16384
	}
	got, err := DecodePCM16(pcm)
	require.NoError(t, err)

	want := []float32{0, 32767.0 / 32768, -1, 0.5}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-6)); diff != "" {
		t.Fatalf("samples mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodePCM16_Empty(t *testing.T) {
	got, err := DecodePCM16(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDecodePCM16_OddLength(t *testing.T) {
	_, err := DecodePCM16([]byte{0x01, 0x02, 0x03})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOddLength)
	assert.True(t, errors.IsCode(err, errors.ErrCodeEncoding))
}

func TestDecodeFloat32(t *testing.T) {
	// 1.0 and -0.5 in f32le.
	raw := []byte{0x00, 0x00, 0x80, 0x3f, 0x00, 0x00, 0x00, 0xbf}
	got, err := decodeFloat32(raw)
	require.NoError(t, err)
	if diff := cmp.Diff([]float32{1, -0.5}, got); diff != "" {
		t.Fatalf("samples mismatch (-want +got):\n%s", diff)
	}

	_, err = decodeFloat32(raw[:5])
	assert.ErrorIs(t, err, ErrOddLength)
}

func TestConcat_PreservesOrder(t *testing.T) {
	got := Concat([][]float32{{0.1, 0.2}, {}, {0.3}, {0.4, 0.5}})
	if diff := cmp.Diff([]float32{0.1, 0.2, 0.3, 0.4, 0.5}, got); diff != "" {
		t.Fatalf("concat mismatch (-want +got):\n%s", diff)
	}
}

func TestConcat_Empty(t *testing.T) {
	assert.Empty(t, Concat(nil))
}

func TestToPCM16_Clamps(t *testing.T) {
	assert.Equal(t, int16(32767), toPCM16(1.5))
	assert.Equal(t, int16(-32767), toPCM16(-2))
	assert.Equal(t, int16(0), toPCM16(0))
}

func TestDuration(t *testing.T) {
	assert.InDelta(t, 1.5, Duration(36000, 24000), 1e-9)
	assert.Zero(t, Duration(10, 0))
}
