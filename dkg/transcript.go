// Package dkg provides client-side bookkeeping for DKG rituals: transcript
// shape checks and tracking of in-flight per-phase work.
package dkg

import (
	"errors"
	"fmt"

	"github.com/taco-network/gtaco/params"
)

var ErrTranscriptSize = errors.New("dkg: transcript size mismatch")

// ThresholdFromShares returns the majority threshold for a cohort of the
// given size.
func ThresholdFromShares(shares int) int {
	return shares/2 + 1
}

// TranscriptSize returns the exact byte length of a serialized ritual
// transcript for a cohort of the given size and threshold.
func TranscriptSize(shares, threshold int) int {
	return params.TranscriptHeaderSize +
		(1+shares)*params.G2PointSize +
		threshold*params.G1PointSize
}

// ValidateTranscript checks that transcript has the exact length expected
// for the cohort parameters. It does not verify the cryptographic content.
func ValidateTranscript(transcript []byte, shares, threshold int) error {
	want := TranscriptSize(shares, threshold)
	if len(transcript) != want {
		return fmt.Errorf("%w: have %d bytes, want %d (shares=%d threshold=%d)",
			ErrTranscriptSize, len(transcript), want, shares, threshold)
	}
	return nil
}
