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

// Package types holds the Substrate block header model shared across the
// light client.
package types

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/baraiya21/avail-light/common"
)

// ConsensusEngineID identifies the consensus engine a digest item belongs to.
type ConsensusEngineID [4]byte

// BabeEngineID tags digest items produced by the BABE engine.
var BabeEngineID = ConsensusEngineID{'B', 'A', 'B', 'E'}

func (id ConsensusEngineID) String() string { return string(id[:]) }

// DigestKind is the SCALE enum index of a digest item variant.
type DigestKind byte

const (
	// DigestOther holds opaque data put in by the runtime.
	DigestOther DigestKind = 0
	// DigestConsensus carries a message from the runtime to the consensus
	// engine, such as an epoch transition announcement.
	DigestConsensus DigestKind = 4
	// DigestSeal carries the block author's signature and must be the last
	// item of a sealed header.
	DigestSeal DigestKind = 5
	// DigestPreRuntime carries a message from the consensus engine to the
	// runtime, such as a slot claim.
	DigestPreRuntime DigestKind = 6
	// DigestRuntimeEnvironmentUpdated signals a runtime upgrade. It carries
	// no payload.
	DigestRuntimeEnvironmentUpdated DigestKind = 8
)

// DigestItem is a single entry of a header's digest.
type DigestItem struct {
	Kind   DigestKind
	Engine ConsensusEngineID // set for Consensus, Seal and PreRuntime items
	Data   []byte
}

// Digest is the ordered list of digest items of a header. The seal, when
// present, is the trailing item.
type Digest []DigestItem

// Header is a Substrate-style block header. Hashes are Blake2b-256 over the
// SCALE encoding.
type Header struct {
	ParentHash     common.Hash
	Number         uint64
	StateRoot      common.Hash
	ExtrinsicsRoot common.Hash
	Digest         Digest
}

var (
	// ErrNoSealDigest is returned by StripSeal when the header's trailing
	// digest item is not a seal.
	ErrNoSealDigest = errors.New("trailing digest item is not a seal")

	errBadDigestKind = errors.New("unknown digest item kind")
	errTrailingBytes = errors.New("trailing bytes after header")
)

// Encode returns the SCALE encoding of the header.
func (h *Header) Encode() []byte {
	b := make([]byte, 0, 128)
	b = append(b, h.ParentHash.Bytes()...)
	b = AppendCompact(b, h.Number)
	b = append(b, h.StateRoot.Bytes()...)
	b = append(b, h.ExtrinsicsRoot.Bytes()...)
	b = AppendCompact(b, uint64(len(h.Digest)))
	for _, item := range h.Digest {
		b = item.encode(b)
	}
	return b
}

func (item *DigestItem) encode(b []byte) []byte {
	b = append(b, byte(item.Kind))
	switch item.Kind {
	case DigestConsensus, DigestSeal, DigestPreRuntime:
		b = append(b, item.Engine[:]...)
		b = AppendCompact(b, uint64(len(item.Data)))
		b = append(b, item.Data...)
	case DigestOther:
		b = AppendCompact(b, uint64(len(item.Data)))
		b = append(b, item.Data...)
	case DigestRuntimeEnvironmentUpdated:
		// no payload
	}
	return b
}

// DecodeHeader decodes a SCALE-encoded header, rejecting trailing bytes.
func DecodeHeader(data []byte) (*Header, error) {
	r := NewReader(data)
	h, err := decodeHeader(r)
	if err != nil {
		return nil, err
	}
	if r.Remaining() != 0 {
		return nil, errTrailingBytes
	}
	return h, nil
}

func decodeHeader(r *Reader) (*Header, error) {
	h := new(Header)
	b, err := r.ReadBytes(common.HashLength)
	if err != nil {
		return nil, err
	}
	h.ParentHash = common.BytesToHash(b)
	if h.Number, err = r.ReadCompact(); err != nil {
		return nil, err
	}
	if b, err = r.ReadBytes(common.HashLength); err != nil {
		return nil, err
	}
	h.StateRoot = common.BytesToHash(b)
	if b, err = r.ReadBytes(common.HashLength); err != nil {
		return nil, err
	}
	h.ExtrinsicsRoot = common.BytesToHash(b)
	count, err := r.ReadCompact()
	if err != nil {
		return nil, err
	}
	if count > uint64(r.Remaining()) {
		return nil, ErrUnexpectedEOF
	}
	h.Digest = make(Digest, 0, count)
	for i := uint64(0); i < count; i++ {
		item, err := decodeDigestItem(r)
		if err != nil {
			return nil, fmt.Errorf("digest item %d: %w", i, err)
		}
		h.Digest = append(h.Digest, item)
	}
	return h, nil
}

func decodeDigestItem(r *Reader) (DigestItem, error) {
	var item DigestItem
	kind, err := r.ReadByte()
	if err != nil {
		return item, err
	}
	item.Kind = DigestKind(kind)
	switch item.Kind {
	case DigestConsensus, DigestSeal, DigestPreRuntime:
		engine, err := r.ReadBytes(4)
		if err != nil {
			return item, err
		}
		copy(item.Engine[:], engine)
		if item.Data, err = readByteSlice(r); err != nil {
			return item, err
		}
	case DigestOther:
		if item.Data, err = readByteSlice(r); err != nil {
			return item, err
		}
	case DigestRuntimeEnvironmentUpdated:
		// no payload
	default:
		return item, fmt.Errorf("%w: %d", errBadDigestKind, kind)
	}
	return item, nil
}

func readByteSlice(r *Reader) ([]byte, error) {
	n, err := r.ReadCompact()
	if err != nil {
		return nil, err
	}
	if n > uint64(r.Remaining()) {
		return nil, ErrUnexpectedEOF
	}
	b, err := r.ReadBytes(int(n))
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// Hash returns the Blake2b-256 hash of the SCALE-encoded header.
func (h *Header) Hash() common.Hash {
	return common.Hash(blake2b.Sum256(h.Encode()))
}

// Seal returns the header's trailing seal digest item, or nil if the header
// is unsealed.
func (h *Header) Seal() *DigestItem {
	if n := len(h.Digest); n > 0 && h.Digest[n-1].Kind == DigestSeal {
		return &h.Digest[n-1]
	}
	return nil
}

// StripSeal returns a copy of the header with the trailing seal digest item
// removed, along with the removed item. The signature in the seal commits to
// the hash of the stripped header. It is a contract violation to call this on
// a header whose last digest item is not a seal; that condition is reported
// as ErrNoSealDigest rather than a panic.
func (h *Header) StripSeal() (*Header, *DigestItem, error) {
	n := len(h.Digest)
	if n == 0 || h.Digest[n-1].Kind != DigestSeal {
		return nil, nil, ErrNoSealDigest
	}
	seal := h.Digest[n-1]
	unsealed := *h
	unsealed.Digest = make(Digest, n-1)
	copy(unsealed.Digest, h.Digest[:n-1])
	return &unsealed, &seal, nil
}
