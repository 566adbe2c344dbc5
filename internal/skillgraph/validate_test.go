package skillgraph

import (
	"strings"
	"testing"
)

func TestValidate_SeedGraphPasses(t *testing.T) {
	if err := validateSkills(seedSkills()); err != nil {
		t.Fatalf("seed graph validation failed: %v", err)
	}
}

func TestValidateSkills(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func([]Skill) []Skill
		wantErr string
	}{
		{
			name: "cycle",
			mutate: func(s []Skill) []Skill {
				s[0].Prerequisites = []string{"s2"}
				s[1].Prerequisites = []string{"s1"}
				return s
			},
			wantErr: "cycle",
		},
		{
			name: "dangling prerequisite",
			mutate: func(s []Skill) []Skill {
				s[1].Prerequisites = []string{"nonexistent"}
				return s
			},
			wantErr: "nonexistent",
		},
		{
			name: "duplicate id",
			mutate: func(s []Skill) []Skill {
				s[1].ID = "s1"
				return s
			},
			wantErr: "duplicate",
		},
		{
			name: "no root",
			mutate: func(s []Skill) []Skill {
				s[0].Prerequisites = []string{"s2"}
				s[1].Prerequisites = []string{"s1"}
				return s
			},
			wantErr: "root",
		},
		{
			name: "missing strand",
			mutate: func(s []Skill) []Skill {
				return s[1:]
			},
			wantErr: "has no skills",
		},
		{
			name: "zero difficulty",
			mutate: func(s []Skill) []Skill {
				s[0].Difficulty = 0
				return s
			},
			wantErr: "Difficulty",
		},
		{
			name: "prerequisite not easier",
			mutate: func(s []Skill) []Skill {
				s[1].Prerequisites = []string{"s1"}
				s[1].Difficulty = 1
				return s
			},
			wantErr: "not harder",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateSkills(tt.mutate(makeMinimalValidSkills()))
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error should mention %q, got: %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateSkills_MinimalValid(t *testing.T) {
	if err := validateSkills(makeMinimalValidSkills()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// makeMinimalValidSkills returns a minimal set of skills covering all strands.
func makeMinimalValidSkills() []Skill {
	return []Skill{
		{ID: "s1", Name: "One", Strand: StrandNumberSense, Difficulty: 1},
		{ID: "s2", Name: "Two", Strand: StrandAddition, Difficulty: 2},
	}
}
