package history

import "testing"

// linearGraph builds: 0 - 1 - 2 on branch 0, current at the tip.
func linearGraph(t *testing.T) *Graph {
	t.Helper()
	g := New("init")
	g.Insert("one")
	g.Insert("two")
	return g
}

func TestNewGraph(t *testing.T) {
	g := New("init")

	if g.CurrentState() != 0 || g.CurrentBranch() != 0 {
		t.Fatalf("fresh graph at state %d branch %d, want 0/0", g.CurrentState(), g.CurrentBranch())
	}
	if _, ok := g.ParentOf(0); ok {
		t.Error("root should have no parent")
	}
	if name := g.StateName(0); name != "init" {
		t.Errorf("root name = %q", name)
	}
	if name := g.BranchName(0); name != "Initial" {
		t.Errorf("branch 0 name = %q", name)
	}
}

func TestInsertExtendsBranchAtTip(t *testing.T) {
	g := linearGraph(t)

	if g.CurrentBranch() != 0 {
		t.Fatalf("inserts at the tip should stay on branch 0, got %d", g.CurrentBranch())
	}
	tip, _ := g.LatestOn(0)
	if tip != 2 {
		t.Errorf("branch 0 tip = %d, want 2", tip)
	}
	path := g.CommitPath(tip)
	want := []StateID{0, 1, 2}
	for i, id := range want {
		if path[i] != id {
			t.Fatalf("path = %v, want %v", path, want)
		}
	}
}

func TestInsertAfterUndoForks(t *testing.T) {
	g := linearGraph(t)
	g.Undo() // back to state 1

	id := g.Insert("fork")
	if id != 3 {
		t.Fatalf("forked state id = %d, want 3", id)
	}
	if g.CurrentBranch() != 1 {
		t.Errorf("fork should land on new branch 1, got %d", g.CurrentBranch())
	}
	if b, _ := g.BranchOf(3); b != 1 {
		t.Errorf("BranchOf(3) = %d, want 1", b)
	}
	// Branch ids are monotonically assigned: the next fork gets 2.
	g.Undo()
	g.Insert("fork2")
	if g.CurrentBranch() != 2 {
		t.Errorf("second fork branch = %d, want 2", g.CurrentBranch())
	}

	// Original branch is untouched.
	tip, _ := g.LatestOn(0)
	if tip != 2 {
		t.Errorf("branch 0 tip = %d, want 2", tip)
	}
	children := g.ChildrenOf(1)
	if len(children) != 3 {
		t.Errorf("state 1 children = %v, want state 2 plus both forks", children)
	}
}

func TestUndoRedoClamp(t *testing.T) {
	g := linearGraph(t)

	if !g.Undo() || !g.Undo() {
		t.Fatal("two undos from depth 2 should succeed")
	}
	if g.CurrentState() != 0 {
		t.Fatalf("after undos at state %d, want root", g.CurrentState())
	}
	if g.Undo() {
		t.Error("undo at root should be a no-op")
	}

	if !g.Redo() || !g.Redo() {
		t.Fatal("two redos should succeed")
	}
	if g.CurrentState() != 2 {
		t.Fatalf("after redos at state %d, want tip 2", g.CurrentState())
	}
	if g.Redo() {
		t.Error("redo at tip should be a no-op")
	}
}

func TestRedoFollowsCurrentBranch(t *testing.T) {
	g := linearGraph(t)
	g.Undo()
	g.Insert("fork") // branch 1: 0 - 1 - 3

	g.Undo()
	g.Undo()
	if g.CurrentState() != 0 {
		t.Fatalf("at state %d, want root", g.CurrentState())
	}
	// Redo walks branch 1's lineage, not branch 0's.
	g.Redo()
	g.Redo()
	if g.CurrentState() != 3 {
		t.Errorf("redo landed on %d, want 3 (branch 1 tip)", g.CurrentState())
	}
}

func TestJumpToRetargetsBranch(t *testing.T) {
	g := linearGraph(t)
	g.Undo()
	g.Insert("fork") // now on branch 1

	if !g.JumpTo(2) {
		t.Fatal("JumpTo(2) failed")
	}
	if g.CurrentState() != 2 || g.CurrentBranch() != 0 {
		t.Errorf("after jump: state %d branch %d, want 2/0", g.CurrentState(), g.CurrentBranch())
	}
	if g.JumpTo(99) {
		t.Error("JumpTo unknown state should fail")
	}
}

func TestSwitchBranch(t *testing.T) {
	g := linearGraph(t)
	g.Undo()
	g.Insert("fork")

	if !g.SwitchBranch(0) {
		t.Fatal("SwitchBranch(0) failed")
	}
	if g.CurrentState() != 2 || g.CurrentBranch() != 0 {
		t.Errorf("after switch: state %d branch %d, want 2/0", g.CurrentState(), g.CurrentBranch())
	}
	if g.SwitchBranch(9) {
		t.Error("SwitchBranch unknown branch should fail")
	}
}

func TestDepthIndexing(t *testing.T) {
	g := linearGraph(t)
	g.Undo()
	g.Insert("fork") // branch 1: lineage 0 - 1 - 3

	tests := []struct {
		branch BranchID
		state  StateID
		depth  int
		ok     bool
	}{
		{0, 0, 0, true},
		{0, 2, 2, true},
		{1, 3, 2, true},
		{1, 1, 1, true},  // inherited commit resolves on the fork's lineage
		{1, 2, 0, false}, // branch 0's tip is not on branch 1's lineage
		{9, 0, 0, false},
	}
	for _, tt := range tests {
		d, ok := g.DepthIndexOf(tt.branch, tt.state)
		if ok != tt.ok || (ok && d != tt.depth) {
			t.Errorf("DepthIndexOf(%d, %d) = %d,%v want %d,%v", tt.branch, tt.state, d, ok, tt.depth, tt.ok)
		}
	}

	if s, _ := g.BranchStartDepth(1); s != 2 {
		t.Errorf("branch 1 start depth = %d, want 2", s)
	}
	if e, _ := g.BranchEndDepth(1); e != 2 {
		t.Errorf("branch 1 end depth = %d, want 2", e)
	}
	if s, _ := g.BranchStartDepth(0); s != 0 {
		t.Errorf("branch 0 start depth = %d, want 0", s)
	}
}

func TestRenames(t *testing.T) {
	g := linearGraph(t)

	if !g.RenameState(1, "renamed") || g.StateName(1) != "renamed" {
		t.Errorf("RenameState: name = %q", g.StateName(1))
	}
	if !g.RenameBranch(0, "trunk") || g.BranchName(0) != "trunk" {
		t.Errorf("RenameBranch: name = %q", g.BranchName(0))
	}
	if g.RenameState(99, "x") || g.RenameBranch(9, "x") {
		t.Error("renames of unknown ids should fail")
	}
}
