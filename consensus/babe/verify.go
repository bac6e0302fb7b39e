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

import (
	"fmt"
	"time"

	"github.com/baraiya21/avail-light/core/types"
	"github.com/baraiya21/avail-light/crypto/sr25519"
)

// VerifyConfig is the input of StartVerifyHeader.
type VerifyConfig struct {
	// Header is the header of the block to verify.
	Header *types.Header

	// ParentHeader is the header of the block's parent, whose hash must be
	// Header.ParentHash. It is assumed to have been successfully verified
	// before.
	ParentHeader *types.Header

	// Config is the chain-wide BABE configuration from the genesis block.
	Config *GenesisConfig

	// Block1SlotNumber is the slot number of block #1. Must be set unless
	// the block being verified is block #1 itself.
	Block1SlotNumber *uint64

	// Now is the current time, reserved for checking a claimed slot
	// against the wall clock. Unused by validation for the time being.
	Now time.Time
}

// VerifySuccess is the outcome of a successful verification.
type VerifySuccess struct {
	// SlotNumber is the slot the block belongs to.
	SlotNumber uint64

	// EpochChange, if non-nil, describes the epoch after the one this
	// block belongs to. The caller must remember it and supply it back
	// through PendingVerify.Finish when verifying that epoch's blocks.
	EpochChange *EpochInformation
}

// PendingVerify is a verification suspended on the epoch information of the
// block's epoch, which the caller must fetch. It borrows its inputs, holds
// no other state, and may be dropped without cleanup if verification is
// abandoned.
type PendingVerify struct {
	config      VerifyConfig
	epochNumber uint64
}

// EpochNumber returns the epoch the block under verification belongs to,
// which is the epoch whose EpochInformation Finish expects.
func (p *PendingVerify) EpochNumber() uint64 { return p.epochNumber }

// StartVerifyHeader begins verifying that a block header provides a correct
// proof of authorship legitimacy.
//
// For blocks of epochs 0 and 1, whose authority sets come from the genesis
// configuration, verification completes in one step and a VerifySuccess is
// returned. For later epochs a PendingVerify is returned instead: the caller
// must look up the EpochInformation of PendingVerify.EpochNumber (announced
// by an earlier block) and pass it to Finish.
//
// Exactly one of the three results is non-nil.
func StartVerifyHeader(config VerifyConfig) (*VerifySuccess, *PendingVerify, error) {
	digests, err := ExtractBabeDigests(config.Header)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}

	epochNumber, parentEpochNumber, parentSlot, err := computeEpochNumbers(&config, &digests)
	if err != nil {
		return nil, nil, err
	}

	if err := checkEpochChangeLog(&digests, epochNumber, parentEpochNumber); err != nil {
		return nil, nil, err
	}

	// Epochs 0 and 1 are announced by no block; their information comes
	// from the genesis configuration, so the claim can be checked right
	// away.
	if epochNumber <= 1 {
		success, err := finishVerify(&config, &digests, epochNumber, parentSlot, config.Config.genesisEpochInformation())
		if err != nil {
			return nil, nil, err
		}
		return success, nil, nil
	}

	return nil, &PendingVerify{config: config, epochNumber: epochNumber}, nil
}

// Finish completes a suspended verification using the information about the
// epoch the block belongs to. It is a pure function of the PendingVerify and
// epochInfo: calling it twice with the same inputs yields the same result.
func (p *PendingVerify) Finish(epochInfo *EpochInformation) (*VerifySuccess, error) {
	digests, err := ExtractBabeDigests(p.config.Header)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}

	// Re-derive the epoch numbers and re-run the structural check, so that
	// the outcome does not depend on which phase performed it.
	epochNumber, parentEpochNumber, parentSlot, err := computeEpochNumbers(&p.config, &digests)
	if err != nil {
		return nil, err
	}
	if err := checkEpochChangeLog(&digests, epochNumber, parentEpochNumber); err != nil {
		return nil, err
	}

	return finishVerify(&p.config, &digests, epochNumber, parentSlot, epochInfo)
}

// computeEpochNumbers determines the epoch of the block under verification
// and of its parent, along with the parent's slot number (nil for genesis,
// which has no slot). The parent's digests are decoded here, once, and not
// again later. Genesis and block #1 are bootstrap cases pinned to epoch 0;
// everything else goes through the slot arithmetic and requires the slot
// number of block #1.
func computeEpochNumbers(config *VerifyConfig, digests *BabeDigests) (epochNumber, parentEpochNumber uint64, parentSlot *uint64, err error) {
	switch {
	case config.Header.Number == 1:
		epochNumber = 0
	case config.Block1SlotNumber == nil:
		return 0, 0, nil, ErrMissingBlock1SlotNumber
	default:
		epochNumber, err = SlotNumberToEpoch(digests.PreDigest.SlotNumber, config.Config, *config.Block1SlotNumber)
		if err != nil {
			return 0, 0, nil, err
		}
	}

	if config.ParentHeader.Number > 0 {
		parentDigests, err := ExtractBabeDigests(config.ParentHeader)
		if err != nil {
			return 0, 0, nil, fmt.Errorf("%w: %v", ErrBadParentHeader, err)
		}
		slot := parentDigests.PreDigest.SlotNumber
		parentSlot = &slot

		if config.ParentHeader.Number > 1 {
			if config.Block1SlotNumber == nil {
				return 0, 0, nil, ErrMissingBlock1SlotNumber
			}
			parentEpochNumber, err = SlotNumberToEpoch(slot, config.Config, *config.Block1SlotNumber)
			if err != nil {
				return 0, 0, nil, err
			}
		}
	}
	return epochNumber, parentEpochNumber, parentSlot, nil
}

// checkEpochChangeLog enforces the structural invariant that an epoch-change
// digest is present if and only if the block's epoch differs from its
// parent's.
func checkEpochChangeLog(digests *BabeDigests, epochNumber, parentEpochNumber uint64) error {
	epochChanged := epochNumber != parentEpochNumber
	switch {
	case digests.NextEpoch != nil && !epochChanged:
		return ErrUnexpectedEpochChangeLog
	case digests.NextEpoch == nil && epochChanged:
		return ErrMissingEpochChangeLog
	}
	return nil
}

// finishVerify runs the checks needing the epoch information: slot ordering
// against the parent, the slot claim itself, and the seal signature over the
// pre-seal hash.
func finishVerify(config *VerifyConfig, digests *BabeDigests, epochNumber uint64, parentSlot *uint64, epochInfo *EpochInformation) (*VerifySuccess, error) {
	claim := &digests.PreDigest

	// Genesis is timeless and has no slot to compare against.
	if parentSlot != nil && claim.SlotNumber <= *parentSlot {
		return nil, ErrSlotNumberNotIncreasing
	}

	// The seal signature commits to the header with the seal itself
	// removed.
	unsealed, sealItem, err := config.Header.StripSeal()
	if err != nil {
		return nil, ErrMissingSeal
	}
	if sealItem.Engine != types.BabeEngineID || len(sealItem.Data) != sr25519.SignatureLength {
		return nil, ErrMissingSeal
	}
	var seal sr25519.Signature
	copy(seal[:], sealItem.Data)

	if err := verifySlotClaim(claim, epochInfo, epochNumber, config.Config, unsealed.Hash(), seal); err != nil {
		return nil, err
	}

	success := &VerifySuccess{SlotNumber: claim.SlotNumber}
	if digests.NextEpoch != nil {
		success.EpochChange = &EpochInformation{
			Authorities: digests.NextEpoch.Authorities,
			Randomness:  digests.NextEpoch.Randomness,
		}
	}
	return success, nil
}
