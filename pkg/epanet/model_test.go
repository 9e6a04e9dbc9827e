package epanet

import (
	"testing"
)

func TestAddJunctionRejectsDuplicates(t *testing.T) {
	wn := NewNetwork("test")

	if _, err := wn.AddJunction(Junction{ID: "N1"}); err != nil {
		t.Fatalf("AddJunction failed: %v", err)
	}
	if _, err := wn.AddJunction(Junction{ID: "N1"}); err == nil {
		t.Fatalf("expected an error for a duplicate junction ID")
	}
	if _, err := wn.AddJunction(Junction{}); err == nil {
		t.Fatalf("expected an error for an empty junction ID")
	}
}

func TestAddPipeValidatesEndpoints(t *testing.T) {
	wn := NewNetwork("test")
	if _, err := wn.AddJunction(Junction{ID: "N1"}); err != nil {
		t.Fatalf("AddJunction failed: %v", err)
	}
	if _, err := wn.AddJunction(Junction{ID: "N2"}); err != nil {
		t.Fatalf("AddJunction failed: %v", err)
	}

	if _, err := wn.AddPipe(Pipe{ID: "P1", Node1: "N1", Node2: "N2"}); err != nil {
		t.Fatalf("AddPipe failed: %v", err)
	}
	if _, err := wn.AddPipe(Pipe{ID: "P1", Node1: "N1", Node2: "N2"}); err == nil {
		t.Fatalf("expected an error for a duplicate pipe ID")
	}
	if _, err := wn.AddPipe(Pipe{ID: "P2", Node1: "N1", Node2: "N3"}); err == nil {
		t.Fatalf("expected an error for an unknown endpoint")
	}
}

func TestJunctionUpdatesAreVisible(t *testing.T) {
	wn := NewNetwork("test")
	stored, err := wn.AddJunction(Junction{ID: "N1"})
	if err != nil {
		t.Fatalf("AddJunction failed: %v", err)
	}

	stored.Elevation = 12.5
	stored.BaseDemand = 0.002

	got, ok := wn.Junction("N1")
	if !ok {
		t.Fatalf("junction N1 not found")
	}
	if got.Elevation != 12.5 || got.BaseDemand != 0.002 {
		t.Fatalf("junction update not visible: %+v", got)
	}
}

func TestInsertionOrderIsKept(t *testing.T) {
	wn := NewNetwork("test")
	for _, id := range []string{"N3", "N1", "N2"} {
		if _, err := wn.AddJunction(Junction{ID: id}); err != nil {
			t.Fatalf("AddJunction failed: %v", err)
		}
	}

	var ids []string
	for _, j := range wn.Junctions() {
		ids = append(ids, j.ID)
	}
	if len(ids) != 3 || ids[0] != "N3" || ids[1] != "N1" || ids[2] != "N2" {
		t.Fatalf("unexpected junction order: %v", ids)
	}
}
