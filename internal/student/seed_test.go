package student

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const seedYAML = `students:
  - firstName: Ama
    lastName: Owusu
    email: ama@x.com
    studentId: "20240099"
    program: business
    year: "2"
    semester: "2024-1"
    feeAmount: 500
  - firstName: Kofi
    lastName: Mensah
    email: kofi@example.edu
    studentId: "20240100"
    program: engineering
    year: "3"
    semester: "2024-2"
    feeAmount: 750
    feePaid: true
  - firstName: Ama
    lastName: Duplicate
    email: dup@x.com
    studentId: "20240099"
    program: business
    year: "1"
    semester: "2024-1"
    feeAmount: 100
`

func TestLoadSeedAndSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.yaml")
	if err := os.WriteFile(path, []byte(seedYAML), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	forms, err := LoadSeed(path)
	if err != nil {
		t.Fatalf("LoadSeed: %v", err)
	}
	if len(forms) != 3 || forms[1].FeeAmount != 750 || !forms[1].FeePaid {
		t.Fatalf("unexpected forms %+v", forms)
	}

	repo, _, _ := newTestRepo(t)
	res, err := Seed(context.Background(), repo, forms)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if res.Added != 2 || res.Skipped != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestSeedStopsOnInvalidForm(t *testing.T) {
	repo, _, _ := newTestRepo(t)
	bad := amaForm()
	bad.Email = "nope"
	res, err := Seed(context.Background(), repo, []Form{kofiForm(), bad})
	if err == nil {
		t.Fatalf("expected error")
	}
	if res.Added != 1 {
		t.Fatalf("expected first form to be added, got %+v", res)
	}
}

func TestLoadSeedMissingFile(t *testing.T) {
	if _, err := LoadSeed(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error")
	}
}
