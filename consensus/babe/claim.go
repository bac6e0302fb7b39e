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
	"encoding/binary"
	"fmt"
	"math"
	"math/big"

	"github.com/gtank/merlin"
	"github.com/holiman/uint256"
	"golang.org/x/crypto/blake2b"

	"github.com/baraiya21/avail-light/common"
	"github.com/baraiya21/avail-light/crypto/sr25519"
)

// vrfContext is the byte context under which the 128-bit lottery value is
// derived from a VRF input/output pair.
var vrfContext = []byte("substrate-babe-vrf")

// ClaimTranscript builds the transcript a slot claim's VRF is evaluated
// over: the epoch randomness, the slot number and the epoch number under the
// "BABE" label. Block producers evaluate their VRF over the same transcript.
func ClaimTranscript(randomness [32]byte, slotNumber, epochNumber uint64) *merlin.Transcript {
	t := sr25519.NewTranscript([]byte("BABE"))
	sr25519.AppendUint64(t, []byte("slot number"), slotNumber)
	sr25519.AppendUint64(t, []byte("current epoch"), epochNumber)
	t.AppendMessage([]byte("chain randomness"), randomness[:])
	return t
}

// verifySlotClaim checks a decoded slot claim against the epoch's authority
// set and randomness, then checks the seal signature over the pre-seal hash.
// Any failure invalidates only the block under test.
func verifySlotClaim(claim *PreDigest, info *EpochInformation, epochNumber uint64, config *GenesisConfig, preSealHash common.Hash, seal sr25519.Signature) error {
	if uint64(claim.AuthorityIndex) >= uint64(len(info.Authorities)) {
		return fmt.Errorf("%w: %d of %d", ErrAuthorityIndexOutOfRange, claim.AuthorityIndex, len(info.Authorities))
	}
	authority := info.Authorities[claim.AuthorityIndex]

	switch claim.Kind {
	case PreDigestPrimary:
		if err := verifyPrimaryClaim(claim, info, epochNumber, config, authority); err != nil {
			return err
		}
	case PreDigestSecondaryPlain:
		if config.AllowedSlots != PrimaryAndSecondaryPlainSlots {
			return ErrSecondarySlotsDisabled
		}
		if err := verifySecondaryAssignment(claim, info); err != nil {
			return err
		}
	case PreDigestSecondaryVRF:
		if config.AllowedSlots != PrimaryAndSecondaryVRFSlots {
			return ErrSecondarySlotsDisabled
		}
		if err := verifySecondaryAssignment(claim, info); err != nil {
			return err
		}
		if err := verifyVrfProof(claim, info, epochNumber, authority); err != nil {
			return err
		}
	}

	ok, err := sr25519.Verify(authority.PublicKey, seal, preSealHash.Bytes())
	if err != nil || !ok {
		return ErrBadSealSignature
	}
	return nil
}

func verifyVrfProof(claim *PreDigest, info *EpochInformation, epochNumber uint64, authority Authority) error {
	t := ClaimTranscript(info.Randomness, claim.SlotNumber, epochNumber)
	ok, err := sr25519.VerifyVrf(authority.PublicKey, t, claim.VrfOutput, claim.VrfProof)
	if err != nil || !ok {
		return ErrBadVrfProof
	}
	return nil
}

func verifyPrimaryClaim(claim *PreDigest, info *EpochInformation, epochNumber uint64, config *GenesisConfig, authority Authority) error {
	if err := verifyVrfProof(claim, info, epochNumber, authority); err != nil {
		return err
	}

	// The lottery value is 16 bytes derived from the VRF input/output pair,
	// interpreted as a little-endian u128.
	t := ClaimTranscript(info.Randomness, claim.SlotNumber, epochNumber)
	raw, err := sr25519.VrfBytes(authority.PublicKey, t, claim.VrfOutput, vrfContext, 16)
	if err != nil || len(raw) != 16 {
		return ErrBadVrfProof
	}
	value := leUint128(raw)

	threshold := calculatePrimaryThreshold(config.C1, config.C2, authority.Weight, info.totalWeight())
	if value.Cmp(threshold) >= 0 {
		return ErrVrfThresholdExceeded
	}
	return nil
}

// calculatePrimaryThreshold computes T = 2^128 * (1 - (1-c)^(w/W)) where
// c = c1/c2 is the chain-wide primary claim probability, w the authority's
// weight and W the epoch's total weight. A higher weight share yields a
// higher threshold and so more claimable slots.
func calculatePrimaryThreshold(c1, c2, weight, totalWeight uint64) *uint256.Int {
	if c2 == 0 || c1 > c2 || weight == 0 || totalWeight == 0 {
		return uint256.NewInt(0)
	}
	c := float64(c1) / float64(c2)
	theta := float64(weight) / float64(totalWeight)
	p := 1 - math.Pow(1-c, theta)

	shift := new(big.Float).SetInt(new(big.Int).Lsh(big.NewInt(1), 128))
	scaled, _ := new(big.Float).Mul(big.NewFloat(p), shift).Int(nil)
	threshold, overflow := uint256.FromBig(scaled)
	if overflow {
		// p rounds to 1; every lottery value wins.
		return new(uint256.Int).Lsh(uint256.NewInt(1), 128)
	}
	return threshold
}

// verifySecondaryAssignment checks that the claiming authority is the one
// deterministically assigned to the slot: the Blake2b hash of the epoch
// randomness concatenated with the little-endian slot number, reduced
// modulo the authority count.
func verifySecondaryAssignment(claim *PreDigest, info *EpochInformation) error {
	expected := secondarySlotAuthor(claim.SlotNumber, info.Randomness, len(info.Authorities))
	if claim.AuthorityIndex != expected {
		return fmt.Errorf("%w: index %d, assigned %d", ErrBadSecondaryAuthor, claim.AuthorityIndex, expected)
	}
	return nil
}

func secondarySlotAuthor(slotNumber uint64, randomness [32]byte, numAuthorities int) uint32 {
	input := make([]byte, 0, 40)
	input = append(input, randomness[:]...)
	input = binary.LittleEndian.AppendUint64(input, slotNumber)
	hash := blake2b.Sum256(input)

	rand := new(uint256.Int).SetBytes(hash[:])
	idx := new(uint256.Int).Mod(rand, uint256.NewInt(uint64(numAuthorities)))
	return uint32(idx.Uint64())
}

// leUint128 interprets b (up to 16 bytes) as a little-endian unsigned
// integer.
func leUint128(b []byte) *uint256.Int {
	be := make([]byte, len(b))
	for i, v := range b {
		be[len(b)-1-i] = v
	}
	return new(uint256.Int).SetBytes(be)
}
