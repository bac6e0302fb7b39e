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

// Package babe verifies block authorship under the BABE slot-based consensus
// algorithm, as needed by a light client that does not execute the runtime.
//
// Time is divided into epochs, themselves divided into slots. Every block
// except genesis claims exactly one slot through a pre-runtime digest in its
// header. A slot is claimed either through a primary claim, where the output
// of a VRF evaluated over the epoch randomness and the slot number falls
// below a threshold derived from the claiming authority's weight, or through
// a secondary claim, where the authority is the one deterministically
// assigned to the slot. Primary claims outrank secondary claims when
// selecting the best chain.
//
// The set of authorities allowed to author blocks, along with the epoch
// randomness, is constant within an epoch. The first block of epoch N
// announces, in an epoch-change consensus digest, the authorities and
// randomness of epoch N+1. Epochs 0 and 1 are special: their authorities and
// randomness come from the chain-wide genesis configuration rather than from
// a prior block's announcement.
//
// Because the information for epoch N (N >= 2) lives in a previously verified
// block, verification is split in two phases. StartVerifyHeader performs all
// structural checks and, for epochs 0 and 1, the full claim validation. For
// later epochs it returns a PendingVerify: the caller looks up the matching
// EpochInformation (from its own store, or a peer) and calls Finish to
// complete the claim validation. A PendingVerify borrows only its inputs and
// may be dropped without cleanup.
//
// Every function in this package is a pure function of its explicit inputs.
// The package holds no mutable state, performs no I/O and never caches epoch
// information; verifying headers of independent forks concurrently is safe.
// Verification along one chain is inherently sequential, since verifying a
// block requires its already-verified parent.
package babe

import "github.com/baraiya21/avail-light/crypto/sr25519"

// Authority is a public key allowed to author blocks during an epoch,
// together with its weight. Weights have no absolute meaning; an authority
// with twice the weight of another can claim twice as many primary slots.
type Authority struct {
	PublicKey sr25519.PublicKey `json:"public_key"`
	Weight    uint64            `json:"weight"`
}

// EpochInformation describes one epoch: the ordered list of authorities
// allowed to sign blocks, and the epoch randomness. Order is significant, as
// slot claims carry an index into the list. For epochs beyond 0 and 1 the
// caller obtains it from the EpochChange of a previously verified block and
// supplies it back through PendingVerify.Finish; it is never cached here.
type EpochInformation struct {
	Authorities []Authority `json:"authorities"`
	Randomness  [32]byte    `json:"randomness"`
}

// totalWeight returns the summed weight of all authorities, saturating on
// overflow.
func (info *EpochInformation) totalWeight() uint64 {
	var sum uint64
	for _, a := range info.Authorities {
		next := sum + a.Weight
		if next < sum {
			return ^uint64(0)
		}
		sum = next
	}
	return sum
}
