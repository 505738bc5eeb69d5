// Package dimacsio is the DIMACS CNF/model I/O collaborator: reading a CNF
// instance and reading model files lives here, well outside the
// solver core's own scope.
//
// It streams CNF files through github.com/rhartert/dimacs, feeding
// variables and clauses to a VarClauseAdder as they're parsed, and reads
// model files into radical's own index-per-variable boolean slice
// convention.
package dimacsio

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/rhartert/dimacs"

	"github.com/florianpollitt/radical/internal/sat"
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

// LoadInto parses the DIMACS CNF file at filename and adds its variables and
// clauses to core. It is the caller's responsibility to Propagate core
// afterwards — loading never runs the solver.
func LoadInto(filename string, gzipped bool, core *sat.Core) error {
	return load(filename, gzipped, coreAdder{core})
}

// VarClauseAdder is satisfied by anything that needs to grow in step with
// the instance being loaded, not just sat.Core itself — in particular
// *search.Driver, whose AddVar also registers the new variable with its
// decision heuristic. It is declared here, not in internal/search, so that
// dimacsio keeps depending only on internal/sat.
type VarClauseAdder interface {
	AddVar(initPhase bool) int
	AddClause(lits []sat.Literal) (*sat.Clause, error)
}

// LoadIntoAdder parses the DIMACS CNF file at filename and adds its
// variables and clauses to target via AddVar/AddClause, e.g. a
// *search.Driver so that its heuristic learns about every instance
// variable as it is created.
func LoadIntoAdder(filename string, gzipped bool, target VarClauseAdder) error {
	return load(filename, gzipped, target)
}

func load(filename string, gzipped bool, target VarClauseAdder) error {
	r, err := reader(filename, gzipped)
	if err != nil {
		return fmt.Errorf("dimacsio: opening %q: %w", filename, err)
	}
	defer r.Close()

	b := &adderBuilder{target: target}
	if err := dimacs.ReadBuilder(r, b); err != nil {
		return fmt.Errorf("dimacsio: parsing %q: %w", filename, err)
	}
	if b.addErr != nil {
		return fmt.Errorf("dimacsio: %q: %w", filename, b.addErr)
	}
	return nil
}

// coreAdder adapts *sat.Core's zero-argument AddVar and three-argument
// AddClause to VarClauseAdder.
type coreAdder struct{ core *sat.Core }

func (a coreAdder) AddVar(bool) int { return a.core.AddVar() }

func (a coreAdder) AddClause(lits []sat.Literal) (*sat.Clause, error) {
	return a.core.AddClause(lits, false, nil)
}

// adderBuilder adapts a VarClauseAdder to dimacs.Builder.
type adderBuilder struct {
	target VarClauseAdder
	addErr error
}

func (b *adderBuilder) Problem(problem string, nVars int, nClauses int) error {
	if problem != "cnf" {
		return fmt.Errorf("dimacsio: problem type %q not supported", problem)
	}
	for i := 0; i < nVars; i++ {
		b.target.AddVar(true)
	}
	return nil
}

func (b *adderBuilder) Clause(tmp []int) error {
	lits := make([]sat.Literal, len(tmp))
	for i, l := range tmp {
		if l < 0 {
			lits[i] = sat.NegativeLiteral(-l - 1)
		} else {
			lits[i] = sat.PositiveLiteral(l - 1)
		}
	}
	if _, err := b.target.AddClause(lits); err != nil && b.addErr == nil {
		b.addErr = err
	}
	return nil
}

func (b *adderBuilder) Comment(_ string) error {
	return nil
}

// ReadModels returns the list of models in a DIMACS-style model file (one
// clause line per model, positive literals indicating a true variable).
func ReadModels(filename string) ([][]bool, error) {
	r, err := reader(filename, false)
	if err != nil {
		return nil, fmt.Errorf("dimacsio: opening %q: %w", filename, err)
	}
	defer r.Close()

	b := &modelBuilder{}
	if err := dimacs.ReadBuilder(r, b); err != nil {
		return nil, fmt.Errorf("dimacsio: parsing %q: %w", filename, err)
	}
	return b.models, nil
}

type modelBuilder struct {
	models [][]bool
}

func (b *modelBuilder) Problem(problem string, nVars int, nClauses int) error {
	return fmt.Errorf("dimacsio: model files should not have a problem line")
}

func (b *modelBuilder) Comment(_ string) error { return nil }

func (b *modelBuilder) Clause(tmp []int) error {
	model := make([]bool, len(tmp))
	for i, l := range tmp {
		model[i] = l > 0
	}
	b.models = append(b.models, model)
	return nil
}
