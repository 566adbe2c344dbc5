package assessment

import (
	"context"
	"fmt"

	"github.com/abhisek/mathprobe/internal/diagnosis"
	"github.com/abhisek/mathprobe/internal/irt"
)

// attempts joins responses with their recorded problem details. Responses
// without a detail cannot be diagnosed and are left out.
func (s *Service) attempts(ctx context.Context, responses []irt.Response) ([]diagnosis.Attempt, error) {
	if s.details == nil || len(responses) == 0 {
		return nil, nil
	}
	ids := make([]string, len(responses))
	for i, r := range responses {
		ids[i] = r.ID
	}
	details, err := s.details.Details(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load problem details: %w", err)
	}

	attempts := make([]diagnosis.Attempt, 0, len(details))
	for _, r := range responses {
		d, ok := details[r.ID]
		if !ok {
			continue
		}
		attempts = append(attempts, diagnosis.Attempt{
			ItemID:          r.ItemID,
			Operands:        d.Operands,
			CorrectAnswer:   d.CorrectAnswer,
			SubmittedAnswer: d.Submitted,
			IsCorrect:       r.IsCorrect,
		})
	}
	return attempts, nil
}
