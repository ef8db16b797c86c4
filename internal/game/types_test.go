package game

import (
	"encoding/json"
	"sort"
	"testing"
)

func TestParseRow(t *testing.T) {
	tests := map[string]Row{
		"FRONT":    RowFront,
		"wise":     RowWise,
		" Support": RowSupport,
		"EFFECTS":  RowEffects,
		"any":      RowAny,
		"":         RowAny,
	}
	for in, want := range tests {
		got, err := ParseRow(in)
		if err != nil {
			t.Errorf("ParseRow(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseRow(%q) = %s, want %s", in, got, want)
		}
	}
	if _, err := ParseRow("BACK"); err == nil {
		t.Error("Expected error for unknown row")
	}
}

func TestRowSortPriority(t *testing.T) {
	rows := []Row{RowEffects, RowFront, RowSupport, RowWise}
	sort.Slice(rows, func(i, j int) bool { return rows[i].SortPriority() > rows[j].SortPriority() })
	want := []Row{RowSupport, RowWise, RowFront, RowEffects}
	for i := range want {
		if rows[i] != want[i] {
			t.Fatalf("Expected %v, got %v", want, rows)
		}
	}
}

func TestCardJSON(t *testing.T) {
	data, err := json.Marshal(Draw2(0))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"name":"DRAW2","strength":2,"row":"EFFECTS","effect":{"kind":"DRAW","count":2}}` {
		t.Errorf("Unexpected encoding %s", data)
	}

	var c Card
	if err := json.Unmarshal([]byte(`{"name":"X","strength":1}`), &c); err != nil {
		t.Fatal(err)
	}
	if c.Restriction() != RowAny || c.IsEffect() {
		t.Errorf("Expected an unrestricted strength card, got %+v", c)
	}
}

func TestSeat(t *testing.T) {
	if Top.Opponent() != Bottom || Bottom.Opponent() != Top {
		t.Error("Opponent mismatch")
	}
	if Top.String() != "top" || Bottom.String() != "bottom" {
		t.Error("Seat names mismatch")
	}
}
