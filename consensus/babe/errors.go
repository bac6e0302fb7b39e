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

import "errors"

// Verification errors. All of them are local to the single header under
// test: the importing layer treats any of them as "do not extend the chain
// with this block", never as a reason to abort the process.
var (
	// ErrBadHeader is returned when the BABE digests cannot be read from
	// the header under verification.
	ErrBadHeader = errors.New("bad header")

	// ErrBadParentHeader is returned when the BABE digests cannot be read
	// from the parent header. The parent is assumed to have been verified
	// before, so this is a caller contract violation, surfaced as an error
	// rather than a panic.
	ErrBadParentHeader = errors.New("bad parent header")

	// ErrSlotNumberNotIncreasing is returned when a block's slot number is
	// not strictly greater than its parent's.
	ErrSlotNumberNotIncreasing = errors.New("slot number not strictly increasing")

	// ErrUnexpectedEpochChangeLog is returned when a header carries an
	// epoch-change digest but its epoch equals its parent's.
	ErrUnexpectedEpochChangeLog = errors.New("unexpected epoch change digest")

	// ErrMissingEpochChangeLog is returned when a header's epoch differs
	// from its parent's but no epoch-change digest is present.
	ErrMissingEpochChangeLog = errors.New("missing epoch change digest")

	// ErrMissingBlock1SlotNumber is returned when a header beyond block #1
	// is verified without the slot number of block #1. This is a caller
	// precondition violation.
	ErrMissingBlock1SlotNumber = errors.New("slot number of block #1 not provided")

	// ErrSlotBeforeBlockOne is returned when a slot number is lower than
	// the slot number of block #1, which would underflow the epoch formula.
	ErrSlotBeforeBlockOne = errors.New("slot number lower than slot of block #1")

	// ErrSlotNumberOverflow is returned when the epoch formula overflows.
	ErrSlotNumberOverflow = errors.New("slot number overflows epoch computation")

	// ErrAuthorityIndexOutOfRange is returned when a slot claim indexes
	// past the end of the epoch's authority list.
	ErrAuthorityIndexOutOfRange = errors.New("authority index out of range")

	// ErrBadVrfProof is returned when the VRF proof of a primary or
	// secondary-VRF claim does not verify against the claiming authority's
	// public key.
	ErrBadVrfProof = errors.New("invalid VRF proof")

	// ErrVrfThresholdExceeded is returned when the VRF output of a primary
	// claim is not below the authority's weight-derived threshold.
	ErrVrfThresholdExceeded = errors.New("VRF output above primary claim threshold")

	// ErrBadSecondaryAuthor is returned when a secondary claim comes from
	// an authority other than the one assigned to the slot.
	ErrBadSecondaryAuthor = errors.New("secondary claim by unassigned authority")

	// ErrSecondarySlotsDisabled is returned when a secondary claim appears
	// on a chain whose configuration does not allow that claim kind.
	ErrSecondarySlotsDisabled = errors.New("secondary slot claims not allowed")

	// ErrMissingSeal is returned when the header's trailing digest item is
	// not a BABE seal.
	ErrMissingSeal = errors.New("header is missing the seal digest")

	// ErrBadSealSignature is returned when the seal signature does not
	// verify over the pre-seal hash.
	ErrBadSealSignature = errors.New("invalid seal signature")
)
