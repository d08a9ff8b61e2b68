package sourcefield

import (
	"bytes"
	"encoding/binary"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlowRoundTrip(t *testing.T) {
	flow := NewFlowField(3, 2)
	flow.Set(0, 0, 1.5, -2)
	flow.Set(2, 1, -0.25, 8)

	var buf bytes.Buffer
	require.NoError(t, WriteFlow(&buf, flow))
	assert.Equal(t, 16+3*2*8, buf.Len())
	assert.Equal(t, "flow_sV", string(buf.Bytes()[:7]))

	got, err := ReadFlow(&buf)
	require.NoError(t, err)
	assert.Equal(t, flow, got)
}

func TestFlowFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forward.sVflow")
	flow := uniformFlow(4, 4, 1, 1)

	require.NoError(t, WriteFlowFile(path, flow))
	got, err := ReadFlowFile(path)
	require.NoError(t, err)
	assert.Equal(t, flow, got)

	_, err = ReadFlowFile(filepath.Join(t.TempDir(), "missing.sVflow"))
	assert.Error(t, err)
}

func header(magic string, version uint8, width, height int32) []byte {
	var buf bytes.Buffer
	buf.WriteString(magic)
	buf.WriteByte(version)
	_ = binary.Write(&buf, binary.LittleEndian, width)
	_ = binary.Write(&buf, binary.LittleEndian, height)
	return buf.Bytes()
}

func TestReadFlowErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"BadMagic", header("flow_xx", 1, 1, 1), ErrBadMagic},
		{"Version", header("flow_sV", 2, 1, 1), ErrUnsupportedVersion},
		{"ZeroWidth", header("flow_sV", 1, 0, 1), ErrInvalidSize},
		{"NegativeHeight", header("flow_sV", 1, 1, -4), ErrInvalidSize},
		{"Huge", header("flow_sV", 1, 1<<20, 1<<20), ErrInvalidSize},
		{"ShortHeader", []byte("flow"), io.ErrUnexpectedEOF},
		{"NoVectors", header("flow_sV", 1, 2, 2), io.ErrUnexpectedEOF},
		{"ShortVectors", append(header("flow_sV", 1, 1, 1), 0, 0, 0, 0), io.ErrUnexpectedEOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFlow(bytes.NewReader(tt.data))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestWriteFlowRejectsEmpty(t *testing.T) {
	err := WriteFlow(io.Discard, NewFlowField(0, 3))
	assert.ErrorIs(t, err, ErrInvalidSize)
}
