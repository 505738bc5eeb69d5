package dimacsio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/florianpollitt/radical/internal/sat"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "instance.cnf")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadInto_ParsesVariablesAndClauses(t *testing.T) {
	path := writeTemp(t, "c a comment\np cnf 3 2\n1 -2 0\n-1 3 0\n")

	core, err := sat.NewCore(sat.DefaultOptions, nil, nil)
	if err != nil {
		t.Fatalf("NewCore: %v", err)
	}

	if err := LoadInto(path, false, core); err != nil {
		t.Fatalf("LoadInto: %v", err)
	}

	if got := core.NumVars(); got != 3 {
		t.Fatalf("NumVars() = %d, want 3", got)
	}

	if err := core.AssignDecision(sat.NegativeLiteral(0)); err != nil {
		t.Fatalf("AssignDecision: %v", err)
	}
	if conflict := core.Propagate(); conflict != nil {
		t.Fatalf("Propagate(): %s", conflict)
	}
	if core.Store.Val(sat.NegativeLiteral(1)) != sat.True {
		t.Errorf("Val(!1) = %v, want True (forced by clause 1 -2 0)", core.Store.Val(sat.NegativeLiteral(1)))
	}
}

// fakeAdder records AddVar/AddClause calls so the test can check
// LoadIntoAdder drives a VarClauseAdder rather than a *sat.Core directly.
type fakeAdder struct {
	vars    int
	clauses [][]sat.Literal
}

func (f *fakeAdder) AddVar(initPhase bool) int {
	idx := f.vars
	f.vars++
	return idx
}

func (f *fakeAdder) AddClause(lits []sat.Literal) (*sat.Clause, error) {
	f.clauses = append(f.clauses, lits)
	return nil, nil
}

func TestLoadIntoAdder_DrivesArbitraryTarget(t *testing.T) {
	path := writeTemp(t, "p cnf 2 1\n1 -2 0\n")

	target := &fakeAdder{}
	if err := LoadIntoAdder(path, false, target); err != nil {
		t.Fatalf("LoadIntoAdder: %v", err)
	}
	if target.vars != 2 {
		t.Fatalf("vars = %d, want 2", target.vars)
	}
	if len(target.clauses) != 1 {
		t.Fatalf("len(clauses) = %d, want 1", len(target.clauses))
	}
	want := []sat.Literal{sat.PositiveLiteral(0), sat.NegativeLiteral(1)}
	got := target.clauses[0]
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("clauses[0] = %v, want %v", got, want)
	}
}

func TestLoadInto_RejectsNonCNFProblem(t *testing.T) {
	path := writeTemp(t, "p wcnf 1 1\n1 0\n")

	core, err := sat.NewCore(sat.DefaultOptions, nil, nil)
	if err != nil {
		t.Fatalf("NewCore: %v", err)
	}
	if err := LoadInto(path, false, core); err == nil {
		t.Errorf("LoadInto accepted a non-cnf problem line, want an error")
	}
}

func TestReadModels_ParsesOneModelPerLine(t *testing.T) {
	path := writeTemp(t, "1 -2 3 0\n-1 2 -3 0\n")

	models, err := ReadModels(path)
	if err != nil {
		t.Fatalf("ReadModels: %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("len(models) = %d, want 2", len(models))
	}
	want := []bool{true, false, true}
	for i, v := range want {
		if models[0][i] != v {
			t.Errorf("models[0][%d] = %v, want %v", i, models[0][i], v)
		}
	}
}

func TestReadModels_RejectsProblemLine(t *testing.T) {
	path := writeTemp(t, "p cnf 1 1\n1 0\n")
	if _, err := ReadModels(path); err == nil {
		t.Errorf("ReadModels accepted a problem line, want an error")
	}
}
