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

package chain

import (
	"context"
	"testing"

	"github.com/ledgerwatch/log/v3"
	"github.com/stretchr/testify/require"

	"github.com/baraiya21/avail-light/common"
	"github.com/baraiya21/avail-light/consensus/babe"
	"github.com/baraiya21/avail-light/core/types"
	"github.com/baraiya21/avail-light/crypto/sr25519"
)

// testNet is a one-authority chain setup. With a single authority every
// secondary slot is assigned to index 0, and with c = 1 every primary claim
// passes the lottery, so test blocks can claim any slot either way.
type testNet struct {
	key     *sr25519.Keypair
	config  *babe.GenesisConfig
	genesis *types.Header
}

func newTestNet(t *testing.T) *testNet {
	t.Helper()
	kp, err := sr25519.GenerateKeypair()
	require.NoError(t, err)
	return &testNet{
		key: kp,
		config: &babe.GenesisConfig{
			SlotsPerEpoch:      10,
			SlotDurationMillis: 6000,
			C1:                 1,
			C2:                 1,
			AllowedSlots:       babe.PrimaryAndSecondaryPlainSlots,
			GenesisAuthorities: []babe.Authority{{PublicKey: kp.Public(), Weight: 1}},
			Randomness:         [32]byte{0x11},
		},
		genesis: &types.Header{StateRoot: common.Hash{0x01}},
	}
}

func (tn *testNet) newChain(t *testing.T) *LightChain {
	t.Helper()
	lc, err := NewLightChain(tn.genesis, tn.config, log.New())
	require.NoError(t, err)
	return lc
}

// makeBlock authors a sealed header on top of parent. The randomness is
// what the claim's VRF commits to and what secondary assignment would be
// checked against; for epochs 0 and 1 it is the genesis randomness.
func (tn *testNet) makeBlock(t *testing.T, parent *types.Header, number, slot uint64, kind babe.PreDigestKind,
	epoch uint64, randomness [32]byte, next *babe.NextEpochDigest, salt byte) *types.Header {
	t.Helper()

	pre := babe.PreDigest{Kind: kind, AuthorityIndex: 0, SlotNumber: slot}
	if pre.HasVrf() {
		out, proof, err := tn.key.VrfSign(babe.ClaimTranscript(randomness, slot, epoch))
		require.NoError(t, err)
		pre.VrfOutput = out
		pre.VrfProof = proof
	}

	header := &types.Header{
		ParentHash: parent.Hash(),
		Number:     number,
		StateRoot:  common.Hash{0xaa, salt},
		Digest: types.Digest{
			{Kind: types.DigestPreRuntime, Engine: types.BabeEngineID, Data: pre.Encode()},
		},
	}
	if next != nil {
		header.Digest = append(header.Digest, types.DigestItem{
			Kind:   types.DigestConsensus,
			Engine: types.BabeEngineID,
			Data:   next.Encode(),
		})
	}
	sig, err := tn.key.Sign(header.Hash().Bytes())
	require.NoError(t, err)
	header.Digest = append(header.Digest, types.DigestItem{
		Kind:   types.DigestSeal,
		Engine: types.BabeEngineID,
		Data:   sig[:],
	})
	return header
}

func (tn *testNet) announce(randomness [32]byte) *babe.NextEpochDigest {
	return &babe.NextEpochDigest{
		Authorities: tn.config.GenesisAuthorities,
		Randomness:  randomness,
	}
}

func TestImportChainAcrossEpochs(t *testing.T) {
	tn := newTestNet(t)
	lc := tn.newChain(t)

	epoch2Rand := [32]byte{0x22}
	epoch3Rand := [32]byte{0x33}

	// Epoch 0 runs on slots 100-108, epoch 1 on 109-118, epoch 2 on
	// 119-128.
	block1 := tn.makeBlock(t, tn.genesis, 1, 100, babe.PreDigestPrimary, 0, tn.config.Randomness, nil, 1)
	block2 := tn.makeBlock(t, block1, 2, 109, babe.PreDigestPrimary, 1, tn.config.Randomness, tn.announce(epoch2Rand), 2)
	block3 := tn.makeBlock(t, block2, 3, 119, babe.PreDigestPrimary, 2, epoch2Rand, tn.announce(epoch3Rand), 3)

	require.NoError(t, lc.ImportHeader(block1))
	require.NoError(t, lc.ImportHeader(block2))

	// Block #2 opened epoch 1 and announced epoch 2.
	info, ok := lc.EpochInformation(2)
	require.True(t, ok)
	require.Equal(t, epoch2Rand, info.Randomness)

	// Block #3 is in epoch 2: its verification suspends and is answered
	// from the learned announcement.
	require.NoError(t, lc.ImportHeader(block3))
	require.Equal(t, block3.Hash(), lc.BestHash())
	require.Equal(t, block3, lc.BestHeader())

	info, ok = lc.EpochInformation(3)
	require.True(t, ok)
	require.Equal(t, epoch3Rand, info.Randomness)

	// Re-import is a no-op.
	require.NoError(t, lc.ImportHeader(block2))
	require.Equal(t, block3.Hash(), lc.BestHash())
}

func TestImportUnknownParent(t *testing.T) {
	tn := newTestNet(t)
	lc := tn.newChain(t)

	block1 := tn.makeBlock(t, tn.genesis, 1, 100, babe.PreDigestPrimary, 0, tn.config.Randomness, nil, 1)
	block2 := tn.makeBlock(t, block1, 2, 101, babe.PreDigestSecondaryPlain, 0, tn.config.Randomness, nil, 2)

	err := lc.ImportHeader(block2)
	require.ErrorIs(t, err, ErrUnknownParent)
	require.False(t, lc.HasHeader(block2.Hash()))
}

func TestImportEpochUnknown(t *testing.T) {
	tn := newTestNet(t)
	lc := tn.newChain(t)

	epoch3Rand := [32]byte{0x33}
	block1 := tn.makeBlock(t, tn.genesis, 1, 100, babe.PreDigestPrimary, 0, tn.config.Randomness, nil, 1)
	require.NoError(t, lc.ImportHeader(block1))

	// A block jumping straight from epoch 0 to epoch 3: nothing ever
	// announced epoch 3.
	block2 := tn.makeBlock(t, block1, 2, 130, babe.PreDigestSecondaryPlain, 3, epoch3Rand, tn.announce([32]byte{0x44}), 2)
	err := lc.ImportHeader(block2)
	require.ErrorIs(t, err, ErrEpochUnknown)
	require.False(t, lc.HasHeader(block2.Hash()))

	// Seeding the epoch out of band unblocks the import.
	lc.SetEpochInformation(3, &babe.EpochInformation{
		Authorities: tn.config.GenesisAuthorities,
		Randomness:  epoch3Rand,
	})
	require.NoError(t, lc.ImportHeader(block2))
	require.True(t, lc.HasHeader(block2.Hash()))
}

func TestForkChoice(t *testing.T) {
	tn := newTestNet(t)

	block1 := tn.makeBlock(t, tn.genesis, 1, 100, babe.PreDigestPrimary, 0, tn.config.Randomness, nil, 1)
	// Two siblings claiming the same slot: a primary and a secondary.
	primary := tn.makeBlock(t, block1, 2, 101, babe.PreDigestPrimary, 0, tn.config.Randomness, nil, 2)
	secondary := tn.makeBlock(t, block1, 2, 101, babe.PreDigestSecondaryPlain, 0, tn.config.Randomness, nil, 3)
	// And one claiming a later slot.
	late := tn.makeBlock(t, block1, 2, 105, babe.PreDigestSecondaryPlain, 0, tn.config.Randomness, nil, 4)

	t.Run("primary breaks slot tie", func(t *testing.T) {
		lc := tn.newChain(t)
		require.NoError(t, lc.ImportHeader(block1))
		require.NoError(t, lc.ImportHeader(secondary))
		require.Equal(t, secondary.Hash(), lc.BestHash())
		require.NoError(t, lc.ImportHeader(primary))
		require.Equal(t, primary.Hash(), lc.BestHash())
	})
	t.Run("tie keeps first seen", func(t *testing.T) {
		lc := tn.newChain(t)
		require.NoError(t, lc.ImportHeader(block1))
		require.NoError(t, lc.ImportHeader(primary))
		require.NoError(t, lc.ImportHeader(secondary))
		require.Equal(t, primary.Hash(), lc.BestHash())
	})
	t.Run("higher slot wins", func(t *testing.T) {
		lc := tn.newChain(t)
		require.NoError(t, lc.ImportHeader(block1))
		require.NoError(t, lc.ImportHeader(primary))
		require.NoError(t, lc.ImportHeader(late))
		require.Equal(t, late.Hash(), lc.BestHash())
	})
}

func TestImportRejectsBadSeal(t *testing.T) {
	tn := newTestNet(t)
	lc := tn.newChain(t)

	block1 := tn.makeBlock(t, tn.genesis, 1, 100, babe.PreDigestPrimary, 0, tn.config.Randomness, nil, 1)
	block1.Digest[len(block1.Digest)-1].Data[0] ^= 1

	err := lc.ImportHeader(block1)
	require.ErrorIs(t, err, babe.ErrBadSealSignature)
	require.False(t, lc.HasHeader(block1.Hash()))
	require.Equal(t, tn.genesis.Hash(), lc.BestHash())
}

func TestImportSegments(t *testing.T) {
	tn := newTestNet(t)
	lc := tn.newChain(t)

	block1 := tn.makeBlock(t, tn.genesis, 1, 100, babe.PreDigestPrimary, 0, tn.config.Randomness, nil, 1)
	require.NoError(t, lc.ImportHeader(block1))

	// Two independent forks on top of block #1, each in parent-first
	// order.
	a2 := tn.makeBlock(t, block1, 2, 101, babe.PreDigestSecondaryPlain, 0, tn.config.Randomness, nil, 2)
	a3 := tn.makeBlock(t, a2, 3, 102, babe.PreDigestPrimary, 0, tn.config.Randomness, nil, 3)
	b2 := tn.makeBlock(t, block1, 2, 103, babe.PreDigestSecondaryPlain, 0, tn.config.Randomness, nil, 4)

	err := lc.ImportSegments(context.Background(), [][]*types.Header{{a2, a3}, {b2}})
	require.NoError(t, err)
	for _, h := range []*types.Header{a2, a3, b2} {
		require.True(t, lc.HasHeader(h.Hash()))
	}
	require.Equal(t, b2.Hash(), lc.BestHash())

	// A segment with a verification failure reports it.
	bad := tn.makeBlock(t, b2, 3, 103, babe.PreDigestSecondaryPlain, 0, tn.config.Randomness, nil, 5)
	err = lc.ImportSegments(context.Background(), [][]*types.Header{{bad}})
	require.ErrorIs(t, err, babe.ErrSlotNumberNotIncreasing)
}
