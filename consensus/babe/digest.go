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
	"errors"
	"fmt"

	"github.com/baraiya21/avail-light/core/types"
	"github.com/baraiya21/avail-light/crypto/sr25519"
)

// PreDigestKind is the SCALE enum index of a BABE pre-runtime digest
// variant.
type PreDigestKind byte

const (
	// PreDigestPrimary is a slot claimed through the VRF lottery.
	PreDigestPrimary PreDigestKind = 1
	// PreDigestSecondaryPlain is a slot claimed through the deterministic
	// fallback assignment.
	PreDigestSecondaryPlain PreDigestKind = 2
	// PreDigestSecondaryVRF is a fallback claim that additionally carries
	// a VRF output, contributing verifiable randomness without primary
	// priority.
	PreDigestSecondaryVRF PreDigestKind = 3
)

// PreDigest is the decoded slot claim found in the pre-runtime digest of
// every non-genesis header. VrfOutput and VrfProof are only meaningful for
// the Primary and SecondaryVRF kinds.
type PreDigest struct {
	Kind           PreDigestKind
	AuthorityIndex uint32
	SlotNumber     uint64
	VrfOutput      sr25519.VrfOutput
	VrfProof       sr25519.VrfProof
}

// IsPrimary reports whether the claim is a primary slot claim.
func (d *PreDigest) IsPrimary() bool { return d.Kind == PreDigestPrimary }

// HasVrf reports whether the claim carries a VRF output and proof.
func (d *PreDigest) HasVrf() bool { return d.Kind != PreDigestSecondaryPlain }

// NextEpochDigest is the epoch-change announcement found in the first header
// of an epoch. It describes the epoch after the one the header belongs to.
type NextEpochDigest struct {
	Authorities []Authority
	Randomness  [32]byte
}

// BabeDigests is everything BABE-related read out of one header: the
// mandatory slot claim and the optional epoch-change announcement.
type BabeDigests struct {
	PreDigest PreDigest
	NextEpoch *NextEpochDigest
}

// BABE consensus digest payload variants.
const (
	consensusNextEpochData  = 1
	consensusOnDisabled     = 2
	consensusNextConfigData = 3
)

var (
	errNoPreRuntimeDigest        = errors.New("no BABE pre-runtime digest")
	errMultiplePreRuntimeDigests = errors.New("multiple BABE pre-runtime digests")
	errMultipleEpochDigests      = errors.New("multiple epoch change digests")
	errBadPreDigestKind          = errors.New("unknown pre-runtime digest kind")
	errBadConsensusKind          = errors.New("unknown consensus digest kind")
	errDigestTrailingBytes       = errors.New("trailing bytes in digest payload")
)

// ExtractBabeDigests reads the BABE pre-runtime digest and the optional
// epoch-change consensus digest out of a header. Exactly one pre-runtime
// digest must be present; at most one epoch-change announcement.
func ExtractBabeDigests(header *types.Header) (BabeDigests, error) {
	var (
		out      BabeDigests
		havePre  bool
		haveNext bool
	)
	for i := range header.Digest {
		item := &header.Digest[i]
		if item.Engine != types.BabeEngineID {
			continue
		}
		switch item.Kind {
		case types.DigestPreRuntime:
			if havePre {
				return out, errMultiplePreRuntimeDigests
			}
			pre, err := DecodePreDigest(item.Data)
			if err != nil {
				return out, fmt.Errorf("pre-runtime digest: %w", err)
			}
			out.PreDigest = pre
			havePre = true
		case types.DigestConsensus:
			next, err := decodeConsensusDigest(item.Data)
			if err != nil {
				return out, fmt.Errorf("consensus digest: %w", err)
			}
			if next != nil {
				if haveNext {
					return out, errMultipleEpochDigests
				}
				out.NextEpoch = next
				haveNext = true
			}
		}
	}
	if !havePre {
		return out, errNoPreRuntimeDigest
	}
	return out, nil
}

// DecodePreDigest decodes the payload of a BABE pre-runtime digest item.
func DecodePreDigest(data []byte) (PreDigest, error) {
	var d PreDigest
	want := 0
	if len(data) > 0 {
		d.Kind = PreDigestKind(data[0])
		switch d.Kind {
		case PreDigestPrimary, PreDigestSecondaryVRF:
			want = 1 + 4 + 8 + sr25519.VrfOutputLength + sr25519.VrfProofLength
		case PreDigestSecondaryPlain:
			want = 1 + 4 + 8
		default:
			return d, fmt.Errorf("%w: %d", errBadPreDigestKind, data[0])
		}
	}
	if len(data) == 0 || len(data) != want {
		return d, fmt.Errorf("%w (len %d)", types.ErrUnexpectedEOF, len(data))
	}
	d.AuthorityIndex = binary.LittleEndian.Uint32(data[1:5])
	d.SlotNumber = binary.LittleEndian.Uint64(data[5:13])
	if d.HasVrf() {
		copy(d.VrfOutput[:], data[13:13+sr25519.VrfOutputLength])
		copy(d.VrfProof[:], data[13+sr25519.VrfOutputLength:])
	}
	return d, nil
}

// Encode returns the SCALE payload of the pre-digest, the inverse of
// DecodePreDigest.
func (d *PreDigest) Encode() []byte {
	b := make([]byte, 0, 1+4+8+sr25519.VrfOutputLength+sr25519.VrfProofLength)
	b = append(b, byte(d.Kind))
	b = binary.LittleEndian.AppendUint32(b, d.AuthorityIndex)
	b = binary.LittleEndian.AppendUint64(b, d.SlotNumber)
	if d.HasVrf() {
		b = append(b, d.VrfOutput[:]...)
		b = append(b, d.VrfProof[:]...)
	}
	return b
}

// decodeConsensusDigest decodes a BABE consensus digest payload. Only the
// next-epoch-data variant is of interest to verification; the on-disabled
// and next-config-data variants are recognized and skipped.
func decodeConsensusDigest(data []byte) (*NextEpochDigest, error) {
	if len(data) == 0 {
		return nil, types.ErrUnexpectedEOF
	}
	switch data[0] {
	case consensusNextEpochData:
		return decodeNextEpochData(data[1:])
	case consensusOnDisabled, consensusNextConfigData:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %d", errBadConsensusKind, data[0])
	}
}

func decodeNextEpochData(data []byte) (*NextEpochDigest, error) {
	r := types.NewReader(data)
	count, err := r.ReadCompact()
	if err != nil {
		return nil, err
	}
	if count > uint64(r.Remaining()) {
		return nil, types.ErrUnexpectedEOF
	}
	next := &NextEpochDigest{Authorities: make([]Authority, 0, count)}
	for i := uint64(0); i < count; i++ {
		var a Authority
		pk, err := r.ReadBytes(sr25519.PublicKeyLength)
		if err != nil {
			return nil, err
		}
		copy(a.PublicKey[:], pk)
		if a.Weight, err = r.ReadUint64LE(); err != nil {
			return nil, err
		}
		next.Authorities = append(next.Authorities, a)
	}
	rand, err := r.ReadBytes(32)
	if err != nil {
		return nil, err
	}
	copy(next.Randomness[:], rand)
	if r.Remaining() != 0 {
		return nil, errDigestTrailingBytes
	}
	return next, nil
}

// Encode returns the full BABE consensus digest payload announcing this next
// epoch, the inverse of the next-epoch-data branch of ExtractBabeDigests.
func (n *NextEpochDigest) Encode() []byte {
	b := []byte{consensusNextEpochData}
	b = types.AppendCompact(b, uint64(len(n.Authorities)))
	for _, a := range n.Authorities {
		b = append(b, a.PublicKey[:]...)
		b = binary.LittleEndian.AppendUint64(b, a.Weight)
	}
	return append(b, n.Randomness[:]...)
}
