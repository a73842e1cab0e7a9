// Package spz reads compressed Gaussian splat containers in the SPZ format.
package spz

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"

	"github.com/TASallin/JSpz/pkg/splat"
)

// SPZ format errors.
var (
	ErrInvalidMagic       = errors.New("invalid SPZ magic: expected 'NGSP'")
	ErrUnsupportedVersion = errors.New("unsupported SPZ version")
	ErrTruncatedData      = errors.New("truncated SPZ data")
	ErrDecompression      = errors.New("corrupt SPZ stream")
	ErrConsistency        = errors.New("inconsistent SPZ attribute data")
)

const (
	// Magic is the SPZ header magic, "NGSP" in little-endian byte order.
	Magic = 0x5053474e

	headerSize = 16

	// FlagAntialiased marks splats baked with an antialiasing kernel.
	FlagAntialiased = 1 << 0
)

// Header is the fixed 16-byte SPZ container header.
type Header struct {
	Version        uint32
	PointCount     uint32
	SHDegree       uint8
	FractionalBits uint8
	Flags          uint8
}

// Antialiased reports whether the antialiased flag is set.
func (h Header) Antialiased() bool {
	return h.Flags&FlagAntialiased != 0
}

// positionSize returns the per-component position encoding size in bytes.
// Version 1 stores half floats, version 2 stores 24-bit fixed point.
func (h Header) positionSize() int {
	if h.Version == 1 {
		return 2
	}
	return 3
}

// Container is a parsed SPZ file: the header plus the raw quantized
// attribute blocks, still in their packed byte encodings.
type Container struct {
	Header Header

	positions []byte
	alphas    []byte
	colors    []byte
	scales    []byte
	rotations []byte
	sh        []byte
}

// Parse inflates and parses an SPZ byte stream into a Container. The whole
// container is one gzip stream; the inflated payload is the header followed
// by the attribute blocks in fixed order.
func Parse(data []byte) (*Container, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompression, err)
	}
	defer zr.Close()

	payload, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompression, err)
	}
	return parsePayload(payload)
}

// ParseFile reads and parses an SPZ file from disk.
func ParseFile(path string) (*Container, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading SPZ file: %w", err)
	}
	return Parse(data)
}

func parsePayload(payload []byte) (*Container, error) {
	if len(payload) < headerSize {
		return nil, fmt.Errorf("%w: header needs %d bytes, have %d",
			ErrTruncatedData, headerSize, len(payload))
	}

	if magic := binary.LittleEndian.Uint32(payload); magic != Magic {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrInvalidMagic, magic)
	}

	h := Header{
		Version:        binary.LittleEndian.Uint32(payload[4:]),
		PointCount:     binary.LittleEndian.Uint32(payload[8:]),
		SHDegree:       payload[12],
		FractionalBits: payload[13],
		Flags:          payload[14],
	}

	if h.Version < 1 || h.Version > 2 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}
	if reserved := payload[15]; reserved != 0 {
		return nil, fmt.Errorf("%w: reserved header byte is 0x%02x", ErrUnsupportedVersion, reserved)
	}
	if splat.SHCoeffs(int(h.SHDegree)) < 0 {
		return nil, fmt.Errorf("%w: header declares degree %d", splat.ErrUnsupportedDegree, h.SHDegree)
	}

	c := &Container{Header: h}
	n := int(h.PointCount)

	// Attribute blocks follow the header back to back.
	rest := payload[headerSize:]
	offset := headerSize
	take := func(kind string, size int) ([]byte, error) {
		if len(rest) < size {
			return nil, fmt.Errorf("%w: %s block at offset %d needs %d bytes, %d remaining",
				ErrTruncatedData, kind, offset, size, len(rest))
		}
		block := rest[:size:size]
		rest = rest[size:]
		offset += size
		return block, nil
	}

	var err error
	if c.positions, err = take("position", n*3*h.positionSize()); err != nil {
		return nil, err
	}
	if c.alphas, err = take("alpha", n); err != nil {
		return nil, err
	}
	if c.colors, err = take("color", n*3); err != nil {
		return nil, err
	}
	if c.scales, err = take("scale", n*3); err != nil {
		return nil, err
	}
	if c.rotations, err = take("rotation", n*3); err != nil {
		return nil, err
	}
	if c.sh, err = take("spherical harmonics", n*splat.SHCoeffs(int(h.SHDegree))*3); err != nil {
		return nil, err
	}

	return c, nil
}
