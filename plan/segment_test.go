package plan

import "testing"

func TestCollapseAdjacentMergesFlatRuns(t *testing.T) {
	in := []Segment{
		{StartDepth: 0, EndDepth: 30, GasLabel: "air", Minutes: 3},
		{StartDepth: 30, EndDepth: 30, GasLabel: "air", Minutes: 10},
		{StartDepth: 30, EndDepth: 30, GasLabel: "air", Minutes: 5},
		{StartDepth: 30, EndDepth: 15, GasLabel: "air", Minutes: 2},
		{StartDepth: 15, EndDepth: 15, GasLabel: "50%", Minutes: 4},
	}

	got := CollapseAdjacent(in)

	if len(got) != 4 {
		t.Fatalf("want 4 segments after collapsing; got %d: %+v", len(got), got)
	}
	if got[1].Minutes != 15 {
		t.Errorf("want the two 30m air stops merged to 15 minutes; got %v", got[1].Minutes)
	}
}

func TestCollapseAdjacentLeavesDistinctSegments(t *testing.T) {
	in := []Segment{
		{StartDepth: 30, EndDepth: 30, GasLabel: "air", Minutes: 1},
		{StartDepth: 30, EndDepth: 30, GasLabel: "50%", Minutes: 1},
	}

	got := CollapseAdjacent(in)
	if len(got) != 2 {
		t.Errorf("want segments with different gases left unmerged; got %d", len(got))
	}
}

func TestCollapseAdjacentEmpty(t *testing.T) {
	if got := CollapseAdjacent(nil); len(got) != 0 {
		t.Errorf("want an empty slice back; got %+v", got)
	}
}

func TestIsFlat(t *testing.T) {
	if !(Segment{StartDepth: 10, EndDepth: 10}).IsFlat() {
		t.Error("want a segment with equal depths to be flat")
	}
	if (Segment{StartDepth: 10, EndDepth: 20}).IsFlat() {
		t.Error("want a segment with different depths to not be flat")
	}
}
