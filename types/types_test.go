package types

import (
	"math/big"
	"testing"
)

func TestPhaseIDEquality(t *testing.T) {
	a := PhaseID{RitualID: 7, Phase: 1}
	b := PhaseID{RitualID: 7, Phase: 1}
	if a != b {
		t.Fatalf("identical pairs must compare equal: %v != %v", a, b)
	}
	if (PhaseID{RitualID: 7, Phase: 2}) == a {
		t.Fatal("pairs differing in phase must not compare equal")
	}
	if (PhaseID{RitualID: 8, Phase: 1}) == a {
		t.Fatal("pairs differing in ritual id must not compare equal")
	}
}

// Field order matters: (42, 3) and (3, 42) are different phases.
func TestPhaseIDNotSymmetric(t *testing.T) {
	a := PhaseID{RitualID: 42, Phase: 3}
	b := PhaseID{RitualID: 3, Phase: 42}
	if a == b {
		t.Fatal("transposed pairs must not compare equal")
	}
	if a.RitualID != 42 || a.Phase != 3 {
		t.Fatalf("field transposition: got ritual=%d phase=%d", a.RitualID, a.Phase)
	}
}

func TestPhaseIDAsMapKey(t *testing.T) {
	m := map[PhaseID]string{}
	m[PhaseID{RitualID: 7, Phase: 1}] = "transcript"
	m[PhaseID{RitualID: 7, Phase: 2}] = "aggregation"

	if got := m[PhaseID{RitualID: 7, Phase: 1}]; got != "transcript" {
		t.Fatalf("equal keys must address the same entry, got %q", got)
	}
	if len(m) != 2 {
		t.Fatalf("expected 2 distinct entries, got %d", len(m))
	}
	// Overwriting through a separately constructed equal key.
	m[PhaseID{RitualID: 7, Phase: 2}] = "aggregation-2"
	if len(m) != 2 || m[PhaseID{RitualID: 7, Phase: 2}] != "aggregation-2" {
		t.Fatalf("interchangeable keys: %v", m)
	}
}

func TestUnitConstruction(t *testing.T) {
	n := NewNuNits(1_000_000)
	if n.Base() != NewERC20Units(1_000_000) {
		t.Fatal("Base must preserve the value")
	}
	if n.ToBig().Cmp(big.NewInt(1_000_000)) != 0 {
		t.Fatalf("ToBig: got %v", n.ToBig())
	}
	if n.String() != "1000000 NuNit" {
		t.Fatalf("String: got %q", n.String())
	}
}

func TestUnitsFromBig(t *testing.T) {
	// 4e27 NuNit, beyond uint64 range.
	supply, _ := new(big.Int).SetString("4000000000000000000000000000", 10)
	n, overflow := NuNitsFromBig(supply)
	if overflow {
		t.Fatal("256-bit amount must not overflow")
	}
	if n.ToBig().Cmp(supply) != 0 {
		t.Fatalf("round trip: got %v want %v", n.ToBig(), supply)
	}
	if _, over := n.Base().Uint64(); !over {
		t.Fatal("Uint64 must report overflow for amounts above 2^64")
	}

	if _, overflow := TuNitsFromBig(big.NewInt(-1)); !overflow {
		t.Fatal("negative amounts must be rejected")
	}
	toolarge := new(big.Int).Lsh(big.NewInt(1), 256)
	if _, overflow := ERC20UnitsFromBig(toolarge); !overflow {
		t.Fatal("2^256 must overflow")
	}
}

func TestUnitsAreComparable(t *testing.T) {
	// Tagged amounts work as map keys, same as PhaseID.
	balances := map[NuNits]int{
		NewNuNits(1): 1,
		NewNuNits(2): 2,
	}
	if balances[NewNuNits(2)] != 2 {
		t.Fatal("equal amounts must hash identically")
	}
}
