// Copyright 2026 The avail-light Authors
// This file is part of avail-light.
//
// avail-light is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// avail-light is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with avail-light. If not, see <http://www.gnu.org/licenses/>.

package types

import (
	"encoding/binary"
	"errors"
	"math/bits"
)

// SCALE codec primitives, limited to what headers and consensus digests need.
// Reference: https://docs.substrate.io/reference/scale-codec/

var (
	// ErrUnexpectedEOF is returned when the input ends in the middle of a value.
	ErrUnexpectedEOF = errors.New("scale: unexpected end of input")

	// ErrBadCompact is returned for a malformed compact-encoded integer.
	ErrBadCompact = errors.New("scale: malformed compact integer")
)

// AppendCompact appends the SCALE compact encoding of v to b.
func AppendCompact(b []byte, v uint64) []byte {
	switch {
	case v < 1<<6:
		return append(b, byte(v)<<2)
	case v < 1<<14:
		return binary.LittleEndian.AppendUint16(b, uint16(v)<<2|0b01)
	case v < 1<<30:
		return binary.LittleEndian.AppendUint32(b, uint32(v)<<2|0b10)
	default:
		n := (bits.Len64(v) + 7) / 8
		b = append(b, byte(n-4)<<2|0b11)
		for i := 0; i < n; i++ {
			b = append(b, byte(v>>(8*i)))
		}
		return b
	}
}

// Reader is a cursor over SCALE-encoded input.
type Reader struct {
	data []byte
	pos  int
}

// NewReader returns a Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.data) - r.pos }

// ReadByte consumes one byte.
func (r *Reader) ReadByte() (byte, error) {
	if r.Remaining() < 1 {
		return 0, ErrUnexpectedEOF
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadBytes consumes exactly n bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, ErrUnexpectedEOF
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadUint32LE consumes a little-endian uint32.
func (r *Reader) ReadUint32LE() (uint32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadUint64LE consumes a little-endian uint64.
func (r *Reader) ReadUint64LE() (uint64, error) {
	b, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadCompact decodes a SCALE compact-encoded integer. Values wider than 64
// bits are rejected.
func (r *Reader) ReadCompact() (uint64, error) {
	first, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	switch first & 0b11 {
	case 0b00:
		return uint64(first >> 2), nil
	case 0b01:
		second, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		v := uint64(first)>>2 | uint64(second)<<6
		if v < 1<<6 {
			return 0, ErrBadCompact
		}
		return v, nil
	case 0b10:
		rest, err := r.ReadBytes(3)
		if err != nil {
			return 0, err
		}
		v := uint64(first) >> 2
		for i, b := range rest {
			v |= uint64(b) << (6 + 8*i)
		}
		if v < 1<<14 {
			return 0, ErrBadCompact
		}
		return v, nil
	default:
		n := int(first>>2) + 4
		if n > 8 {
			return 0, ErrBadCompact
		}
		rest, err := r.ReadBytes(n)
		if err != nil {
			return 0, err
		}
		var v uint64
		for i, b := range rest {
			v |= uint64(b) << (8 * i)
		}
		if v < 1<<30 || rest[n-1] == 0 {
			return 0, ErrBadCompact
		}
		return v, nil
	}
}
