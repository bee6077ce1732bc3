package student

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SeedFile is the YAML layout accepted by LoadSeed.
type SeedFile struct {
	Students []Form `yaml:"students"`
}

// LoadSeed reads student forms from a YAML file.
func LoadSeed(path string) ([]Form, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var sf SeedFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return sf.Students, nil
}

// SeedResult counts what Seed did.
type SeedResult struct {
	Added   int
	Skipped int
}

// Seed adds each form through the repository. Forms whose student id is already
// registered are skipped; any other failure stops the run.
func Seed(ctx context.Context, repo *Repository, forms []Form) (SeedResult, error) {
	var res SeedResult
	for i, f := range forms {
		if _, err := repo.Add(ctx, f); err != nil {
			if errors.Is(err, ErrDuplicateStudentID) {
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("seed entry %d (%s): %w", i, f.StudentID, err)
		}
		res.Added++
	}
	return res, nil
}
