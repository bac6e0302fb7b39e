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

// Package chain is the header-import layer sitting on top of the babe
// verification core. It remembers verified headers and the epoch information
// announced by them, answers the core's Pending phase from that memory, and
// tracks the current best head. All caching lives here; the core stays
// stateless.
package chain

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/ledgerwatch/log/v3"
	"golang.org/x/sync/errgroup"

	"github.com/baraiya21/avail-light/common"
	"github.com/baraiya21/avail-light/consensus/babe"
	"github.com/baraiya21/avail-light/core/types"
)

const (
	// Number of verified headers kept in memory.
	inmemoryHeaders = 4096
	// Number of learned epochs kept in memory.
	inmemoryEpochs = 128
)

var (
	// ErrUnknownParent is returned when importing a header whose parent
	// was never imported. Verification requires the verified parent.
	ErrUnknownParent = errors.New("unknown parent header")

	// ErrEpochUnknown is returned when a header's epoch information was
	// never learned, because the announcing block was not imported.
	ErrEpochUnknown = errors.New("epoch information not known")
)

type headerEntry struct {
	header       *types.Header
	slotNumber   uint64
	epochNumber  uint64
	primaryCount uint64 // cumulative primary claims from genesis
}

// LightChain is an in-memory chain of verified headers, including competing
// forks. Imports of headers on independent forks may run concurrently;
// within one fork the parent must be imported first.
type LightChain struct {
	config *babe.GenesisConfig
	logger log.Logger

	lock        sync.RWMutex
	headers     *lru.Cache[common.Hash, *headerEntry]
	epochs      *lru.Cache[uint64, *babe.EpochInformation]
	block1Slot  *uint64
	bestHash    common.Hash
	bestSummary babe.Candidate
}

// NewLightChain sets up a chain rooted at the given genesis header.
func NewLightChain(genesis *types.Header, config *babe.GenesisConfig, logger log.Logger) (*LightChain, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	headers, err := lru.New[common.Hash, *headerEntry](inmemoryHeaders)
	if err != nil {
		return nil, err
	}
	epochs, err := lru.New[uint64, *babe.EpochInformation](inmemoryEpochs)
	if err != nil {
		return nil, err
	}
	lc := &LightChain{
		config:  config,
		logger:  logger,
		headers: headers,
		epochs:  epochs,
	}
	hash := genesis.Hash()
	lc.headers.Add(hash, &headerEntry{header: genesis})
	lc.bestHash = hash
	return lc, nil
}

// ImportHeader verifies the header against its already-imported parent and,
// on success, records it. Any verification error means the chain is not
// extended with this block.
func (lc *LightChain) ImportHeader(header *types.Header) error {
	hash := header.Hash()

	lc.lock.RLock()
	if _, ok := lc.headers.Get(hash); ok {
		lc.lock.RUnlock()
		return nil
	}
	parent, ok := lc.headers.Get(header.ParentHash)
	block1Slot := lc.block1Slot
	lc.lock.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownParent, header.ParentHash.TerminalString())
	}

	// Verification happens outside the lock; only the commit below needs
	// it.
	success, pending, err := babe.StartVerifyHeader(babe.VerifyConfig{
		Header:           header,
		ParentHeader:     parent.header,
		Config:           lc.config,
		Block1SlotNumber: block1Slot,
		Now:              time.Now(),
	})
	if err != nil {
		lc.logger.Debug("rejecting header", "number", header.Number, "hash", hash.TerminalString(), "err", err)
		return err
	}

	epochNumber := uint64(0)
	if pending != nil {
		epochNumber = pending.EpochNumber()
		info, ok := lc.epochs.Get(epochNumber)
		if !ok {
			return fmt.Errorf("%w: epoch %d", ErrEpochUnknown, epochNumber)
		}
		if success, err = pending.Finish(info); err != nil {
			lc.logger.Debug("rejecting header", "number", header.Number, "hash", hash.TerminalString(), "err", err)
			return err
		}
	} else if header.Number != 1 {
		// Epoch 0 or 1, settled by the start phase.
		if epochNumber, err = babe.SlotNumberToEpoch(success.SlotNumber, lc.config, *block1Slot); err != nil {
			return err
		}
	}

	digests, err := babe.ExtractBabeDigests(header)
	if err != nil {
		return fmt.Errorf("%w: %v", babe.ErrBadHeader, err)
	}

	entry := &headerEntry{
		header:       header,
		slotNumber:   success.SlotNumber,
		epochNumber:  epochNumber,
		primaryCount: parent.primaryCount,
	}
	if digests.PreDigest.IsPrimary() {
		entry.primaryCount++
	}

	lc.lock.Lock()
	defer lc.lock.Unlock()
	if header.Number == 1 && lc.block1Slot == nil {
		slot := success.SlotNumber
		lc.block1Slot = &slot
	}
	if success.EpochChange != nil {
		// The first block of epoch N announces epoch N+1.
		lc.epochs.Add(epochNumber+1, success.EpochChange)
	}
	lc.headers.Add(hash, entry)

	candidate := babe.Candidate{SlotNumber: entry.slotNumber, PrimaryCount: entry.primaryCount}
	if babe.CompareCandidates(candidate, lc.bestSummary) > 0 {
		lc.bestHash = hash
		lc.bestSummary = candidate
	}
	lc.logger.Trace("imported header", "number", header.Number, "hash", hash.TerminalString(),
		"slot", entry.slotNumber, "epoch", entry.epochNumber)
	return nil
}

// ImportSegments imports several fork segments concurrently. Each segment is
// parent-before-child ordered; segments must not depend on each other. The
// first verification failure cancels the remaining work.
func (lc *LightChain) ImportSegments(ctx context.Context, segments [][]*types.Header) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, segment := range segments {
		segment := segment
		g.Go(func() error {
			for _, header := range segment {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				if err := lc.ImportHeader(header); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// HasHeader reports whether the header was imported.
func (lc *LightChain) HasHeader(hash common.Hash) bool {
	lc.lock.RLock()
	defer lc.lock.RUnlock()
	_, ok := lc.headers.Get(hash)
	return ok
}

// BestHash returns the hash of the current best head under the BABE chain
// selection rule; ties keep the earlier head.
func (lc *LightChain) BestHash() common.Hash {
	lc.lock.RLock()
	defer lc.lock.RUnlock()
	return lc.bestHash
}

// BestHeader returns the current best head.
func (lc *LightChain) BestHeader() *types.Header {
	lc.lock.RLock()
	defer lc.lock.RUnlock()
	if entry, ok := lc.headers.Get(lc.bestHash); ok {
		return entry.header
	}
	return nil
}

// EpochInformation returns the learned information of an epoch, if any.
func (lc *LightChain) EpochInformation(epoch uint64) (*babe.EpochInformation, bool) {
	lc.lock.RLock()
	defer lc.lock.RUnlock()
	return lc.epochs.Get(epoch)
}

// SetEpochInformation seeds epoch information obtained out of band, for
// example from a checkpoint or a trusted peer.
func (lc *LightChain) SetEpochInformation(epoch uint64, info *babe.EpochInformation) {
	lc.lock.Lock()
	defer lc.lock.Unlock()
	lc.epochs.Add(epoch, info)
}
