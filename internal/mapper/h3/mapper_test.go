package h3mapper

import (
	"testing"

	h3 "github.com/uber/h3-go/v4"
)

func TestCellForPoint_ResolutionAndContainment(t *testing.T) {
	m := New()
	// São Paulo
	s, err := m.CellForPoint(-23.55, -46.63, 5)
	if err != nil {
		t.Fatalf("CellForPoint: %v", err)
	}
	var c h3.Cell
	if err := c.UnmarshalText([]byte(s)); err != nil {
		t.Fatalf("parse cell %q: %v", s, err)
	}
	if !c.IsValid() {
		t.Fatalf("invalid cell %q", s)
	}
	if c.Resolution() != 5 {
		t.Fatalf("res=%d want 5", c.Resolution())
	}

	again, err := m.CellForPoint(-23.55, -46.63, 5)
	if err != nil || again != s {
		t.Fatalf("not deterministic: %q vs %q (%v)", again, s, err)
	}
}

func TestCellForPoint_DistinctStates(t *testing.T) {
	m := New()
	sp, _ := m.CellForPoint(-23.55, -46.63, 4)
	rj, _ := m.CellForPoint(-22.90, -43.20, 4)
	if sp == "" || rj == "" || sp == rj {
		t.Fatalf("expected distinct cells, got sp=%q rj=%q", sp, rj)
	}
}

func TestCellForPoint_Rejects(t *testing.T) {
	m := New()
	if _, err := m.CellForPoint(0, 0, 16); err == nil {
		t.Fatal("expected error for res 16")
	}
	if _, err := m.CellForPoint(-91, 0, 5); err == nil {
		t.Fatal("expected error for latitude out of range")
	}
}
