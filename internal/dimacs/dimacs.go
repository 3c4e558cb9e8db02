// Package dimacs loads CNF formulas in DIMACS format into a sat.Solver,
// optionally transparently decompressing gzipped input.
package dimacs

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"

	extdimacs "github.com/rhartert/dimacs"

	"github.com/hartert-lab/satbandit/internal/sat"
)

func reader(filename string, gzipped bool) (io.ReadCloser, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	rc := io.ReadCloser(file)
	if gzipped {
		rc, err = gzip.NewReader(rc)
		if err != nil {
			return nil, err
		}
	}
	return rc, nil
}

// Load parses the DIMACS CNF file at filename and returns a solver seeded
// with its variables and clauses. gzipped selects transparent gzip
// decompression (.cnf.gz inputs).
func Load(filename string, gzipped bool) (*sat.Solver, error) {
	r, err := reader(filename, gzipped)
	if err != nil {
		return nil, fmt.Errorf("error reading file %q: %s", filename, err)
	}
	defer r.Close()

	s, err := LoadReader(r)
	if err != nil {
		return nil, fmt.Errorf("error parsing DIMACS file %q: %w", filename, err)
	}
	return s, nil
}

// LoadReader parses DIMACS CNF text from r and returns a solver seeded with
// its variables and clauses. Used for in-process instances (e.g. the CLI's
// built-in example) that have no backing file.
func LoadReader(r io.Reader) (*sat.Solver, error) {
	b := &builder{}
	if err := extdimacs.ReadBuilder(r, b); err != nil {
		return nil, err
	}
	if b.solver == nil {
		return nil, fmt.Errorf("no problem line found")
	}
	return b.solver, nil
}

// builder adapts a sat.Solver to the external dimacs.Builder interface.
type builder struct {
	solver *sat.Solver
}

func (b *builder) Problem(problem string, nVars int, nClauses int) error {
	if problem != "cnf" {
		return fmt.Errorf("instances of type %q are not supported", problem)
	}
	b.solver = sat.NewSolver(nVars)
	return nil
}

func (b *builder) Clause(tmpClause []int) error {
	if b.solver == nil {
		return fmt.Errorf("clause line found before problem line")
	}
	lits := make([]sat.Literal, len(tmpClause))
	for i, l := range tmpClause {
		if l < 0 {
			lits[i] = sat.NegLit(-l)
		} else {
			lits[i] = sat.Lit(l)
		}
	}
	b.solver.AddClause(lits)
	return nil
}

func (b *builder) Comment(_ string) error {
	return nil
}

// WriteCNF writes numVars and clauses back out in DIMACS CNF format, used
// by tests to check that Load/WriteCNF round-trip.
func WriteCNF(w io.Writer, numVars int, clauses [][]sat.Literal) error {
	if _, err := fmt.Fprintf(w, "p cnf %d %d\n", numVars, len(clauses)); err != nil {
		return err
	}
	for _, c := range clauses {
		for _, l := range c {
			if _, err := fmt.Fprintf(w, "%d ", int(l)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, "0"); err != nil {
			return err
		}
	}
	return nil
}
