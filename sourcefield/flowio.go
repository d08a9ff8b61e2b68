package sourcefield

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	flowMagic   = "flow_sV"
	flowVersion = 1

	// Keeps a corrupt header from asking for a huge allocation.
	maxFlowDimension = 1 << 15
)

var (
	ErrBadMagic           = errors.New("not a flow file")
	ErrUnsupportedVersion = errors.New("unsupported flow file version")
	ErrInvalidSize        = errors.New("invalid flow field size")
)

type flowHeader struct {
	Magic   [7]byte
	Version uint8
	Width   int32
	Height  int32
}

// ReadFlow decodes a flow field. The layout is little endian: the magic
// "flow_sV", a version byte, int32 width and height, then width*height
// float32 (dx, dy) pairs in row-major order.
func ReadFlow(r io.Reader) (*FlowField, error) {
	br := bufio.NewReader(r)

	var header flowHeader
	if err := binary.Read(br, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("reading flow header: %w", err)
	}

	if string(header.Magic[:]) != flowMagic {
		return nil, ErrBadMagic
	}

	if header.Version != flowVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, header.Version)
	}

	if header.Width <= 0 || header.Height <= 0 ||
		header.Width > maxFlowDimension || header.Height > maxFlowDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, header.Width, header.Height)
	}

	flow := NewFlowField(int(header.Width), int(header.Height))
	if err := binary.Read(br, binary.LittleEndian, flow.data); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("reading flow vectors: %w", err)
	}

	return flow, nil
}

func WriteFlow(w io.Writer, flow *FlowField) error {
	if flow.width <= 0 || flow.height <= 0 ||
		flow.width > maxFlowDimension || flow.height > maxFlowDimension {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, flow.width, flow.height)
	}

	header := flowHeader{
		Version: flowVersion,
		Width:   int32(flow.width),
		Height:  int32(flow.height),
	}
	copy(header.Magic[:], flowMagic)

	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, &header); err != nil {
		return err
	}

	if err := binary.Write(bw, binary.LittleEndian, flow.data); err != nil {
		return err
	}

	return bw.Flush()
}

func ReadFlowFile(path string) (*FlowField, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	flow, err := ReadFlow(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return flow, nil
}

func WriteFlowFile(path string, flow *FlowField) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := WriteFlow(f, flow); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
