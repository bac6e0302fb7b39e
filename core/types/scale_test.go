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
	"bytes"
	"math"
	"testing"
)

func TestCompactRoundTrip(t *testing.T) {
	values := []uint64{
		0, 1, 42, 63, 64, 255, 256, 16383, 16384,
		1<<30 - 1, 1 << 30, 1 << 32, 1<<40 + 7, math.MaxUint64,
	}
	for _, v := range values {
		enc := AppendCompact(nil, v)
		r := NewReader(enc)
		got, err := r.ReadCompact()
		if err != nil {
			t.Fatalf("value %d: %v", v, err)
		}
		if got != v {
			t.Errorf("value %d: decoded %d", v, got)
		}
		if r.Remaining() != 0 {
			t.Errorf("value %d: %d trailing bytes", v, r.Remaining())
		}
	}
}

func TestCompactKnownEncodings(t *testing.T) {
	tests := []struct {
		v   uint64
		enc []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x04}},
		{42, []byte{0xa8}},
		{69, []byte{0x15, 0x01}},
		{16383, []byte{0xfd, 0xff}},
		{16384, []byte{0x02, 0x00, 0x01, 0x00}},
		{1 << 32, []byte{0x07, 0x00, 0x00, 0x00, 0x00, 0x01}},
	}
	for _, test := range tests {
		if got := AppendCompact(nil, test.v); !bytes.Equal(got, test.enc) {
			t.Errorf("value %d: encoded %x, want %x", test.v, got, test.enc)
		}
	}
}

func TestCompactRejectsNonMinimal(t *testing.T) {
	// 1 encoded with the two-byte mode.
	if _, err := NewReader([]byte{0x05, 0x00}).ReadCompact(); err == nil {
		t.Error("two-byte encoding of 1 accepted")
	}
	// 1 encoded with the four-byte mode.
	if _, err := NewReader([]byte{0x06, 0x00, 0x00, 0x00}).ReadCompact(); err == nil {
		t.Error("four-byte encoding of 1 accepted")
	}
	// big-integer mode with a zero top byte.
	if _, err := NewReader([]byte{0x03, 0x01, 0x00, 0x00, 0x00, 0x00}).ReadCompact(); err == nil {
		t.Error("non-minimal big-integer encoding accepted")
	}
}

func TestCompactTruncated(t *testing.T) {
	for _, enc := range [][]byte{{}, {0x01}, {0x02, 0x00}, {0x03, 0x01, 0x02}} {
		if _, err := NewReader(enc).ReadCompact(); err == nil {
			t.Errorf("truncated input %x accepted", enc)
		}
	}
}

func TestReaderBounds(t *testing.T) {
	r := NewReader([]byte{1, 2, 3})
	if _, err := r.ReadBytes(4); err == nil {
		t.Error("read past end accepted")
	}
	if _, err := r.ReadBytes(3); err != nil {
		t.Errorf("exact read failed: %v", err)
	}
	if _, err := r.ReadByte(); err == nil {
		t.Error("read past end accepted")
	}
}
