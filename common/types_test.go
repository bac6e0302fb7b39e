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

package common

import (
	"encoding/json"
	"testing"
)

func TestHashSetBytes(t *testing.T) {
	// Short input is left-padded.
	h := BytesToHash([]byte{1, 2})
	if h[30] != 1 || h[31] != 2 || !BytesToHash(nil).IsZero() {
		t.Errorf("unexpected padding: %s", h)
	}
	// Long input is cropped from the left.
	long := make([]byte, 40)
	long[39] = 7
	if got := BytesToHash(long); got[31] != 7 {
		t.Errorf("unexpected cropping: %s", got)
	}
}

func TestHashHexRoundTrip(t *testing.T) {
	in := "0x00010203040506070809000102030405060708090001020304050607080900aa"
	h := HexToHash(in)
	if h.Hex() != in {
		t.Errorf("got %s, want %s", h.Hex(), in)
	}
}

func TestHashJSON(t *testing.T) {
	h := HexToHash("0xff00000000000000000000000000000000000000000000000000000000000001")
	enc, err := json.Marshal(h)
	if err != nil {
		t.Fatal(err)
	}
	var back Hash
	if err := json.Unmarshal(enc, &back); err != nil {
		t.Fatal(err)
	}
	if back != h {
		t.Errorf("got %s, want %s", back, h)
	}
	if err := json.Unmarshal([]byte(`"0x01"`), &back); err == nil {
		t.Error("short hash accepted")
	}
}
