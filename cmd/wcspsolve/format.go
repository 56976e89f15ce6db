package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/toulbar2go/wcspsolve/internal/loader/cfn"
	"github.com/toulbar2go/wcspsolve/internal/loader/legacy"
	"github.com/toulbar2go/wcspsolve/internal/loader/opb"
	"github.com/toulbar2go/wcspsolve/internal/loader/qpbo"
	"github.com/toulbar2go/wcspsolve/internal/loader/uai"
	"github.com/toulbar2go/wcspsolve/internal/loader/wcnf"
	"github.com/toulbar2go/wcspsolve/internal/wcsp"
)

// loadProblem dispatches to the format-specific reader chosen by path's
// extension, mirroring the teacher's own suffix-switch in main.go's
// parse() (`.cnf`, `.bf`, `.opb`) generalized to this engine's six WCSP
// front-ends.
func loadProblem(r io.Reader, path string, b wcsp.Builder, precision uint, costMultiplier float64) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wcsp":
		return legacy.Load(r, b, precision)
	case ".wcnf", ".cnf":
		return wcnf.Load(r, b)
	case ".opb":
		return opb.Load(r, b, precision)
	case ".cfn", ".json":
		return cfn.Load(r, b, precision)
	case ".uai":
		return uai.Load(r, b, precision)
	case ".qpbo":
		mult := costMultiplier
		if mult == 0 {
			mult = -1 // QPBO maximizes; negate by default to convert to WCSP minimization
		}
		return qpbo.Load(r, b, mult)
	default:
		return fmt.Errorf("wcspsolve: unrecognized file extension %q", ext)
	}
}
