package main

import (
	"strings"
	"testing"

	"github.com/toulbar2go/wcspsolve/internal/store"
	"github.com/toulbar2go/wcspsolve/internal/wcsp"
)

func TestLoadProblemDispatchesByExtension(t *testing.T) {
	wcnfSrc := "p wcnf 1 1 10\n5 1 0\n"
	s := store.New()
	w := wcsp.New(s)
	if err := loadProblem(strings.NewReader(wcnfSrc), "instance.wcnf", w, 0, 0); err != nil {
		t.Fatalf("loadProblem(.wcnf) returned error: %v", err)
	}
	if len(w.Vars) != 1 {
		t.Errorf("expected 1 variable after loading a wcnf instance, got %d", len(w.Vars))
	}
}

func TestLoadProblemRejectsUnknownExtension(t *testing.T) {
	s := store.New()
	w := wcsp.New(s)
	if err := loadProblem(strings.NewReader(""), "instance.xyz", w, 0, 0); err == nil {
		t.Error("expected an error for an unrecognized extension")
	}
}

func TestLoadProblemDefaultsQPBOMultiplierToNegativeOne(t *testing.T) {
	qpboSrc := "1 1\n1 1 3\n"
	s := store.New()
	w := wcsp.New(s)
	if err := loadProblem(strings.NewReader(qpboSrc), "instance.qpbo", w, 0, 0); err != nil {
		t.Fatalf("loadProblem(.qpbo) returned error: %v", err)
	}
	if len(w.Vars) != 1 {
		t.Errorf("expected 1 variable after loading a qpbo instance, got %d", len(w.Vars))
	} else if u0, u1 := w.Vars[0].UnaryCost(0), w.Vars[0].UnaryCost(1); u0 != 3 || u1 != 0 {
		// Multiplier -1 turns the diagonal weight 3 into cost 3 on x=0;
		// multiplier 1 would put it on x=1 instead.
		t.Errorf("unary costs = (%d,%d), want (3,0) from the default multiplier -1", u0, u1)
	}
}
