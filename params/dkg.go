package params

// DKG ritual phase ordinals. A ritual accepts transcripts first, then
// aggregations; the pair (ritual id, phase ordinal) keys all per-phase
// bookkeeping.
const (
	PhaseTranscript  = 1
	PhaseAggregation = 2
)

// BLS12-381 point sizes in bytes, as serialized inside ritual transcripts.
const (
	G1PointSize = 48
	G2PointSize = 2 * G1PointSize
)

// TranscriptHeaderSize is the fixed overhead preceding the point data in a
// serialized ritual transcript.
const TranscriptHeaderSize = 40
