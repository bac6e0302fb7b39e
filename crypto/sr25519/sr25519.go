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

// Package sr25519 wraps the schnorrkel Ristretto255 signature and VRF scheme
// used by BABE authorities.
package sr25519

import (
	"encoding/binary"

	"github.com/ChainSafe/go-schnorrkel"
	"github.com/gtank/merlin"
)

const (
	// PublicKeyLength is the byte length of an sr25519 public key.
	PublicKeyLength = 32
	// SignatureLength is the byte length of an sr25519 signature.
	SignatureLength = 64
	// VrfOutputLength is the byte length of a VRF pre-output.
	VrfOutputLength = 32
	// VrfProofLength is the byte length of a VRF proof.
	VrfProofLength = 64
)

// SigningContext is the signing context attached to all Substrate seal
// signatures.
var SigningContext = []byte("substrate")

// PublicKey is an encoded Ristretto255 public key.
type PublicKey [PublicKeyLength]byte

// Signature is an encoded schnorrkel signature.
type Signature [SignatureLength]byte

// VrfOutput is an encoded VRF pre-output point.
type VrfOutput [VrfOutputLength]byte

// VrfProof is an encoded VRF proof of correct generation.
type VrfProof [VrfProofLength]byte

func (pk PublicKey) decode() (*schnorrkel.PublicKey, error) {
	key := new(schnorrkel.PublicKey)
	if err := key.Decode(pk); err != nil {
		return nil, err
	}
	return key, nil
}

// NewTranscript returns a fresh merlin transcript under the given label.
// Transcripts are stateful; build a new one per verification.
func NewTranscript(label []byte) *merlin.Transcript {
	return merlin.NewTranscript(string(label))
}

// AppendUint64 appends a little-endian uint64 message to the transcript.
func AppendUint64(t *merlin.Transcript, label []byte, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	t.AppendMessage(label, b[:])
}

// VerifyVrf checks that (out, proof) is a valid VRF evaluation by pub over
// the transcript.
func VerifyVrf(pub PublicKey, t *merlin.Transcript, out VrfOutput, proof VrfProof) (bool, error) {
	key, err := pub.decode()
	if err != nil {
		return false, err
	}
	vrfOut, err := schnorrkel.NewOutput(out)
	if err != nil {
		return false, err
	}
	vrfProof := new(schnorrkel.VrfProof)
	if err := vrfProof.Decode(proof); err != nil {
		return false, err
	}
	return key.VrfVerify(t, vrfOut, vrfProof)
}

// VrfBytes derives size bytes from the VRF input/output pair under the given
// byte context. The transcript must be a fresh copy of the one the VRF was
// evaluated over.
func VrfBytes(pub PublicKey, t *merlin.Transcript, out VrfOutput, context []byte, size int) ([]byte, error) {
	key, err := pub.decode()
	if err != nil {
		return nil, err
	}
	vrfOut, err := schnorrkel.NewOutput(out)
	if err != nil {
		return nil, err
	}
	inout, err := vrfOut.AttachInput(key, t)
	if err != nil {
		return nil, err
	}
	return inout.MakeBytes(size, context)
}

// Verify checks sig over msg under the Substrate signing context.
func Verify(pub PublicKey, sig Signature, msg []byte) (bool, error) {
	key, err := pub.decode()
	if err != nil {
		return false, err
	}
	signature := new(schnorrkel.Signature)
	if err := signature.Decode(sig); err != nil {
		return false, err
	}
	return key.Verify(signature, schnorrkel.NewSigningContext(SigningContext, msg))
}

// Keypair is a schnorrkel keypair. The light client only ever verifies; the
// signing half exists for tests and tooling that author headers.
type Keypair struct {
	secret *schnorrkel.SecretKey
	public *schnorrkel.PublicKey
}

// GenerateKeypair returns a new random keypair.
func GenerateKeypair() (*Keypair, error) {
	secret, public, err := schnorrkel.GenerateKeypair()
	if err != nil {
		return nil, err
	}
	return &Keypair{secret: secret, public: public}, nil
}

// Public returns the encoded public key.
func (kp *Keypair) Public() PublicKey {
	return kp.public.Encode()
}

// Sign signs msg under the Substrate signing context.
func (kp *Keypair) Sign(msg []byte) (Signature, error) {
	sig, err := kp.secret.Sign(schnorrkel.NewSigningContext(SigningContext, msg))
	if err != nil {
		return Signature{}, err
	}
	return sig.Encode(), nil
}

// VrfSign evaluates the VRF over the transcript, returning the pre-output
// and proof.
func (kp *Keypair) VrfSign(t *merlin.Transcript) (VrfOutput, VrfProof, error) {
	inout, proof, err := kp.secret.VrfSign(t)
	if err != nil {
		return VrfOutput{}, VrfProof{}, err
	}
	return inout.Output().Encode(), proof.Encode(), nil
}
