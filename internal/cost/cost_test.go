package cost

import "testing"

func TestAddSaturates(t *testing.T) {
	top := Cost(10)
	if got := Add(6, 6, top); got != top {
		t.Errorf("Add(6,6,top=10) = %d, want %d", got, top)
	}
	if got := Add(3, 4, top); got != 7 {
		t.Errorf("Add(3,4,top=10) = %d, want 7", got)
	}
}

func TestSubPanicsOnNegative(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Sub(1,2) did not panic")
		}
	}()
	Sub(1, 2)
}

func TestCut(t *testing.T) {
	if !Cut(10, 10) {
		t.Error("Cut(10,10) should be true: cost at top is forbidden")
	}
	if Cut(9, 10) {
		t.Error("Cut(9,10) should be false")
	}
}

func TestFromDecimalPrecision(t *testing.T) {
	// "3" at precision 2 -> 300
	got, err := FromDecimal(3, 0, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got != 300 {
		t.Errorf("FromDecimal(3,0,2) = %d, want 300", got)
	}
	// "35" * 10^-1 (i.e. 3.5) at precision 2 -> 350
	got, err = FromDecimal(35, -1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got != 350 {
		t.Errorf("FromDecimal(35,-1,2) = %d, want 350", got)
	}
}

func TestNormFactor(t *testing.T) {
	if got := NormFactor(0); got != 1 {
		t.Errorf("NormFactor(0) = %v, want 1", got)
	}
	if got := NormFactor(3); got != 1000 {
		t.Errorf("NormFactor(3) = %v, want 1000", got)
	}
}
