package store

import "testing"

func TestRestoreIsBitIdentical(t *testing.T) {
	s := New()
	a := NewInt(s, 1)
	b := NewInt64(s, 100)
	c := NewBool(s, false)

	d1 := s.Push()
	a.Set(2)
	b.Set(200)
	c.Set(true)
	a.Set(3) // second write same frame: still only one trailed entry

	d2 := s.Push()
	a.Set(42)

	s.Restore(d2)
	if a.Get() != 3 {
		t.Errorf("after restoring d2, a = %d, want 3", a.Get())
	}

	s.Restore(d1)
	if a.Get() != 1 || b.Get() != 100 || c.Get() != false {
		t.Errorf("after restoring d1, state = (%d,%d,%v), want (1,100,false)", a.Get(), b.Get(), c.Get())
	}
}

// TestTrailedStateResetsAcrossSiblingFrames exercises two sibling branches
// opened at the same (reused) depth: Push returns the same mark both
// times since the first Restore pops depth back down, but each frame must
// still trail independently, or the second branch's Restore leaves the
// first branch's write in place.
func TestTrailedStateResetsAcrossSiblingFrames(t *testing.T) {
	s := New()
	a := NewInt(s, 1)

	d1 := s.Push()
	a.Set(2)
	s.Restore(d1)
	if a.Get() != 1 {
		t.Fatalf("after restoring first sibling, a = %d, want 1", a.Get())
	}

	d2 := s.Push()
	a.Set(3)
	s.Restore(d2)
	if a.Get() != 1 {
		t.Errorf("after restoring second sibling (reused mark), a = %d, want 1", a.Get())
	}
}

func TestBitsetRestore(t *testing.T) {
	s := New()
	bs := NewBitset(s, 10)
	if bs.Count() != 10 {
		t.Fatalf("Count() = %d, want 10", bs.Count())
	}
	d := s.Push()
	bs.Clear(3)
	bs.Clear(7)
	if bs.Count() != 8 {
		t.Fatalf("Count() after clearing 2 = %d, want 8", bs.Count())
	}
	s.Restore(d)
	if bs.Count() != 10 {
		t.Errorf("Count() after restore = %d, want 10", bs.Count())
	}
	if !bs.Test(3) || !bs.Test(7) {
		t.Error("bits 3 and 7 should be restored as set")
	}
}

func TestRestoreNoopAboveCurrentDepth(t *testing.T) {
	s := New()
	a := NewInt(s, 5)
	s.Push()
	a.Set(6)
	s.Restore(s.Depth() + 10) // no-op: target not below current depth
	if a.Get() != 6 {
		t.Errorf("Restore to a higher depth should be a no-op, got a=%d", a.Get())
	}
}
