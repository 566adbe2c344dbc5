package assessment

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/mathprobe/internal/irt"
)

// Fixture is a bundle of items and responses loaded in one go, typically
// from a YAML file exported by another tool.
type Fixture struct {
	Items     []irt.ItemParameters `yaml:"items"`
	Responses []FixtureResponse    `yaml:"responses"`
}

// FixtureResponse is a response with the optional problem detail inline.
type FixtureResponse struct {
	irt.Response  `yaml:",inline"`
	Operands      []int  `yaml:"operands,omitempty"`
	CorrectAnswer int    `yaml:"correct_answer,omitempty"`
	Submitted     string `yaml:"submitted,omitempty"`
}

func (r FixtureResponse) detail() *Detail {
	if len(r.Operands) == 0 && r.Submitted == "" {
		return nil
	}
	return &Detail{Operands: r.Operands, CorrectAnswer: r.CorrectAnswer, Submitted: r.Submitted}
}

// DecodeFixture parses a YAML fixture. Unknown keys are rejected.
func DecodeFixture(r io.Reader) (Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return Fixture{}, fmt.Errorf("decode fixture: %w", err)
	}
	return f, nil
}

// ImportResult counts what an Import wrote.
type ImportResult struct {
	Items     int
	Responses int
}

// Import stores the fixture's items, then records its responses in file
// order through RecordResponse. It stops at the first failing response;
// everything before it stays recorded.
func (s *Service) Import(ctx context.Context, f Fixture) (ImportResult, error) {
	var res ImportResult
	for i, it := range f.Items {
		if it.ItemID == "" {
			return res, fmt.Errorf("item %d: missing item_id", i)
		}
	}
	if len(f.Items) > 0 {
		if err := s.items.PutItems(ctx, f.Items); err != nil {
			return res, fmt.Errorf("import items: %w", err)
		}
		res.Items = len(f.Items)
	}

	for i, r := range f.Responses {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if _, err := s.RecordResponse(ctx, r.Response, r.detail()); err != nil {
			return res, fmt.Errorf("response %d: %w", i, err)
		}
		res.Responses++
	}

	s.log.Info("fixture imported", "items", res.Items, "responses", res.Responses)
	return res, nil
}
