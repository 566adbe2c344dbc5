package assessment

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/mathprobe/internal/calibration"
	"github.com/abhisek/mathprobe/internal/irt"
)

// Recalibrate re-estimates every item that is due for calibration using
// all recorded responses. Learner abilities are their EAP estimates over
// their own response window. Items are calibrated concurrently and the
// recalibrated ones written back in one batch. Outcomes cover every bank
// item, ordered by item id.
func (s *Service) Recalibrate(ctx context.Context, now time.Time) ([]calibration.Outcome, error) {
	bank, err := s.bank(ctx)
	if err != nil {
		return nil, err
	}
	responses, err := s.responses.AllResponses(ctx)
	if err != nil {
		return nil, fmt.Errorf("load responses: %w", err)
	}
	abilities, err := s.abilities(ctx, bank)
	if err != nil {
		return nil, err
	}

	grouped := calibration.GroupObservations(bank, responses, abilities)
	ids := calibration.ItemIDs(bank)

	cfg := s.opts.Calibration
	outcomes := make([]calibration.Outcome, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for i, id := range ids {
		item := bank[id]
		obs := grouped[id]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if !calibration.NeedsRecalibration(item, cfg, now) {
				outcomes[i] = calibration.Outcome{ItemID: id, Responses: len(obs), Status: calibration.StatusUpToDate}
				return nil
			}
			outcomes[i] = calibration.CalibrateOne(item, obs, cfg, now)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("calibrate items: %w", err)
	}

	var updated []irt.ItemParameters
	for _, out := range outcomes {
		if out.Result != nil {
			updated = append(updated, out.Result.Item)
		}
	}
	if err := s.items.PutItems(ctx, updated); err != nil {
		return nil, fmt.Errorf("save calibrated items: %w", err)
	}

	s.log.Info("item bank recalibrated",
		"items", len(ids),
		"calibrated", len(updated),
		"learners", len(abilities),
		"responses", len(responses))
	return outcomes, nil
}

// abilities estimates every learner's theta from their response window.
func (s *Service) abilities(ctx context.Context, bank irt.ItemBank) (map[string]float64, error) {
	learners, err := s.responses.Learners(ctx)
	if err != nil {
		return nil, fmt.Errorf("list learners: %w", err)
	}

	abilities := make(map[string]float64, len(learners))
	for _, id := range learners {
		rs, err := s.responses.LearnerResponses(ctx, id, s.opts.ResponseWindow)
		if err != nil {
			return nil, fmt.Errorf("load responses for %s: %w", id, err)
		}
		abilities[id] = irt.EstimateEAP(id, rs, bank).Theta
	}
	return abilities, nil
}
