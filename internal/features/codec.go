// Forkcast - Personalized Restaurant Recommendation Service
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

package features

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/forkcast/forkcast/internal/models"
)

// Cache payload layout (little-endian):
//
//	magic    4 bytes  "FCV1"
//	dim      uint32
//	values   dim * float32
//
// The header makes the payload self-describing: a reader reconstructs the
// exact dimension and element order without out-of-band information, and
// anything that fails these checks is treated as a cache miss upstream.
const codecMagic = "FCV1"

const headerLen = 8 // magic + dim

// ErrCorruptPayload indicates a cached value that cannot be decoded.
var ErrCorruptPayload = errors.New("corrupt cache payload")

// EncodeVector serializes a feature vector into the cache payload format.
func EncodeVector(vector models.FeatureVector) []byte {
	buf := make([]byte, headerLen+4*len(vector))
	copy(buf[0:4], codecMagic)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(vector)))
	for i, v := range vector {
		binary.LittleEndian.PutUint32(buf[headerLen+4*i:], math.Float32bits(v))
	}
	return buf
}

// DecodeVector deserializes a cache payload. Any structural inconsistency
// returns ErrCorruptPayload.
func DecodeVector(payload []byte) (models.FeatureVector, error) {
	if len(payload) < headerLen {
		return nil, fmt.Errorf("%w: %d bytes is below header size", ErrCorruptPayload, len(payload))
	}
	if string(payload[0:4]) != codecMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrCorruptPayload, payload[0:4])
	}

	dim := binary.LittleEndian.Uint32(payload[4:8])
	if want := headerLen + 4*int(dim); len(payload) != want {
		return nil, fmt.Errorf("%w: dimension %d implies %d bytes, have %d",
			ErrCorruptPayload, dim, want, len(payload))
	}

	vector := make(models.FeatureVector, dim)
	for i := range vector {
		bits := binary.LittleEndian.Uint32(payload[headerLen+4*i:])
		vector[i] = math.Float32frombits(bits)
	}
	return vector, nil
}
