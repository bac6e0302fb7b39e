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

package babe

// Candidate summarizes a candidate best block for chain selection: its slot
// number and the cumulative count of primary slot claims along its ancestry
// from the fork point. No header data is needed.
type Candidate struct {
	SlotNumber   uint64
	PrimaryCount uint64
}

// CompareCandidates ranks two candidate best blocks sharing a fork point.
// The block with the higher slot number wins; on equal slots the one whose
// ancestry claimed more primary slots wins. Returns +1 if a is better, -1 if
// b is better, and 0 on a full tie, which the caller resolves with its own
// policy such as first-seen.
func CompareCandidates(a, b Candidate) int {
	switch {
	case a.SlotNumber > b.SlotNumber:
		return 1
	case a.SlotNumber < b.SlotNumber:
		return -1
	case a.PrimaryCount > b.PrimaryCount:
		return 1
	case a.PrimaryCount < b.PrimaryCount:
		return -1
	default:
		return 0
	}
}
