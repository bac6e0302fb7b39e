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

import "math"

// SlotNumberToEpoch turns a slot number into an epoch number:
//
//	epoch = (slotNumber - block1SlotNumber + 1) / slotsPerEpoch
//
// so the first epoch ends one slot before block1SlotNumber + slotsPerEpoch.
// The genesis block has no slot, and block #1 belongs to epoch 0 by
// definition regardless of this formula; callers handle those two cases
// before reaching for the arithmetic.
//
// Returns ErrSlotBeforeBlockOne when slotNumber precedes block1SlotNumber
// and ErrSlotNumberOverflow when the intermediate addition overflows. It
// never panics.
func SlotNumberToEpoch(slotNumber uint64, config *GenesisConfig, block1SlotNumber uint64) (uint64, error) {
	if config.SlotsPerEpoch == 0 {
		return 0, errZeroSlotsPerEpoch
	}
	if slotNumber < block1SlotNumber {
		return 0, ErrSlotBeforeBlockOne
	}
	diff := slotNumber - block1SlotNumber
	if diff == math.MaxUint64 {
		return 0, ErrSlotNumberOverflow
	}
	return (diff + 1) / config.SlotsPerEpoch, nil
}
