package dimacs

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/hartert-lab/satbandit/internal/sat"
)

func TestLoadReader(t *testing.T) {
	s, err := LoadReader(strings.NewReader("c comment\np cnf 3 2\n1 -2 0\n-1 2 3 0\n"))
	require.NoError(t, err)
	require.Equal(t, 3, s.NumVars())
	require.Equal(t, 2, s.NumOriginalClauses())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "instance.cnf")
	content := "c a comment line\np cnf 3 2\n1 -2 0\n-1 2 3 0\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := Load(path, false)
	require.NoError(t, err)
	require.Equal(t, 3, s.NumVars())
	require.Equal(t, 2, s.NumOriginalClauses())
}

func TestLoad_EmptyClauseIsImmediateUnsat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.cnf")
	content := "p cnf 2 2\n1 2 0\n0\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := Load(path, false)
	require.NoError(t, err)
	require.True(t, s.Unsat(), "a bare empty clause line must make the solver unsat end-to-end")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.cnf"), false)
	require.Error(t, err)
}

func TestWriteCNF_RoundTrip(t *testing.T) {
	clauses := [][]sat.Literal{
		{sat.Lit(1), sat.NegLit(2)},
		{sat.NegLit(1), sat.Lit(2), sat.Lit(3)},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCNF(&buf, 3, clauses))

	dir := t.TempDir()
	path := filepath.Join(dir, "roundtrip.cnf")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	s, err := Load(path, false)
	require.NoError(t, err)
	require.Equal(t, 3, s.NumVars())
	require.Equal(t, len(clauses), s.NumOriginalClauses())

	var got [][]sat.Literal
	s.Clauses(func(c *sat.Clause) bool {
		got = append(got, append([]sat.Literal(nil), c.Literals()...))
		return true
	})
	if diff := cmp.Diff(clauses, got); diff != "" {
		t.Fatalf("round-tripped clauses differ from the originals (-want +got):\n%s", diff)
	}
}
