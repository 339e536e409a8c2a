package types

// RitualID names one DKG ritual instance tracked by the Coordinator
// contract. It is an alias rather than a distinct type: ritual ids are plain
// integers everywhere in the protocol and carry no behavior of their own.
type RitualID = uint32

// PhaseNumber names a step within a ritual's DKG lifecycle.
type PhaseNumber = uint8

// PhaseID addresses one phase of one ritual. It is an immutable value type
// with field-wise equality, usable as a map key. The field order is fixed
// with the ritual id first; external consumers that serialize the pair rely
// on it.
type PhaseID struct {
	RitualID RitualID
	Phase    PhaseNumber
}
