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
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// AllowedSlots selects which kinds of slot claims the chain accepts besides
// primary claims.
type AllowedSlots byte

const (
	// PrimarySlotsOnly allows primary claims only.
	PrimarySlotsOnly AllowedSlots = iota
	// PrimaryAndSecondaryPlainSlots additionally allows plain secondary
	// claims.
	PrimaryAndSecondaryPlainSlots
	// PrimaryAndSecondaryVRFSlots additionally allows secondary claims
	// carrying a VRF output.
	PrimaryAndSecondaryVRFSlots
)

// GenesisConfig is the chain-wide BABE configuration retrieved from the
// genesis block's runtime. It never changes for the lifetime of the chain.
// Constructing it from runtime state is the chain-config collaborator's job;
// this package only consumes it.
type GenesisConfig struct {
	// SlotsPerEpoch is the number of slots in one epoch.
	SlotsPerEpoch uint64 `json:"slots_per_epoch"`

	// SlotDurationMillis is the wall-clock duration of one slot, in
	// milliseconds.
	SlotDurationMillis uint64 `json:"slot_duration_millis"`

	// C1 and C2 define c = C1/C2, the probability that a given slot has at
	// least one primary claimant, from which per-authority thresholds are
	// derived.
	C1 uint64 `json:"c1"`
	C2 uint64 `json:"c2"`

	// GenesisAuthorities is the authority list of epochs 0 and 1, which
	// have no preceding block to announce them.
	GenesisAuthorities []Authority `json:"genesis_authorities"`

	// Randomness is the randomness of epochs 0 and 1.
	Randomness [32]byte `json:"randomness"`

	// AllowedSlots selects the accepted secondary claim kinds.
	AllowedSlots AllowedSlots `json:"allowed_slots"`
}

var (
	errZeroSlotsPerEpoch = errors.New("slots_per_epoch is zero")
	errNoAuthorities     = errors.New("empty genesis authority list")
	errBadClaimRatio     = errors.New("invalid primary claim probability")
)

// Validate checks the configuration for internal consistency.
func (c *GenesisConfig) Validate() error {
	if c.SlotsPerEpoch == 0 {
		return errZeroSlotsPerEpoch
	}
	if len(c.GenesisAuthorities) == 0 {
		return errNoAuthorities
	}
	if c.C2 == 0 || c.C1 > c.C2 {
		return fmt.Errorf("%w: %d/%d", errBadClaimRatio, c.C1, c.C2)
	}
	return nil
}

// ConfigFromJSON parses a genesis configuration and validates it.
func ConfigFromJSON(data []byte) (*GenesisConfig, error) {
	config := new(GenesisConfig)
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// SlotDuration returns the duration of one slot.
func (c *GenesisConfig) SlotDuration() time.Duration {
	return time.Duration(c.SlotDurationMillis) * time.Millisecond
}

// genesisEpochInformation lifts the genesis authorities and randomness into
// the EpochInformation shape used for epochs 0 and 1.
func (c *GenesisConfig) genesisEpochInformation() *EpochInformation {
	return &EpochInformation{
		Authorities: c.GenesisAuthorities,
		Randomness:  c.Randomness,
	}
}
