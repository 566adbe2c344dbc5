// Package assessment runs the IRT core against persisted items, responses
// and profiles.
package assessment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/mathprobe/internal/calibration"
	"github.com/abhisek/mathprobe/internal/irt"
	"github.com/abhisek/mathprobe/internal/logger"
	"github.com/abhisek/mathprobe/internal/report"
	"github.com/abhisek/mathprobe/internal/store"
)

var (
	// ErrUnknownItem is returned when a response names an item that is not
	// in the bank and carries no operands to derive cold-start parameters.
	ErrUnknownItem = errors.New("unknown item")

	// ErrInvalidResponse is returned for responses missing a learner or
	// item id.
	ErrInvalidResponse = errors.New("invalid response")
)

// ItemBank is the item parameter storage the service needs.
type ItemBank interface {
	GetItem(ctx context.Context, itemID string) (irt.ItemParameters, error)
	PutItems(ctx context.Context, items []irt.ItemParameters) error
	AllItems(ctx context.Context) ([]irt.ItemParameters, error)
}

// ResponseLog is the append-only response storage the service needs.
type ResponseLog interface {
	AppendResponse(ctx context.Context, r irt.Response) (irt.Response, error)
	LearnerResponses(ctx context.Context, learnerID string, limit int) ([]irt.Response, error)
	AllResponses(ctx context.Context) ([]irt.Response, error)
	Learners(ctx context.Context) ([]string, error)
}

// DetailLookup stores the arithmetic behind responses.
type DetailLookup interface {
	PutDetail(ctx context.Context, d store.ProblemDetail) error
	Details(ctx context.Context, responseIDs []string) (map[string]store.ProblemDetail, error)
}

// ProfileStore keeps profile snapshots.
type ProfileStore interface {
	SaveProfile(ctx context.Context, p report.StudentProfile) error
	LatestProfile(ctx context.Context, learnerID string) (*report.StudentProfile, error)
	PruneProfiles(ctx context.Context, learnerID string, keep int) error
}

// Deps are the storage backends of a Service.
type Deps struct {
	Items     ItemBank
	Responses ResponseLog
	Details   DetailLookup
	Profiles  ProfileStore
	Logger    *logger.Logger
}

// Options tune a Service. Zero fields take the defaults below.
type Options struct {
	Calibration calibration.Config
	// Workers bounds concurrent item calibrations.
	Workers int
	// ResponseWindow is the number of newest responses analysed per learner.
	ResponseWindow int
	// NextItems is the number of suggested items per report.
	NextItems int
	// ProfileKeep is how many profile snapshots are retained per learner.
	ProfileKeep int
	// Now overrides the clock.
	Now func() time.Time
}

const (
	defaultWorkers        = 4
	defaultResponseWindow = 500
	defaultProfileKeep    = 30
)

func (o Options) withDefaults() Options {
	if o.Calibration.MinCalibrationSample <= 0 {
		o.Calibration = calibration.DefaultConfig()
	}
	if o.Workers <= 0 {
		o.Workers = defaultWorkers
	}
	if o.ResponseWindow <= 0 {
		o.ResponseWindow = defaultResponseWindow
	}
	if o.NextItems <= 0 {
		o.NextItems = report.DefaultNextItems
	}
	if o.ProfileKeep <= 0 {
		o.ProfileKeep = defaultProfileKeep
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Service composes the storage backends with the scoring core.
type Service struct {
	items     ItemBank
	responses ResponseLog
	details   DetailLookup
	profiles  ProfileStore
	log       *logger.Logger
	opts      Options
}

// NewService creates a Service. Details and Profiles may be nil, in which
// case error patterns are not analysed and profiles are not persisted.
func NewService(deps Deps, opts Options) *Service {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		items:     deps.Items,
		responses: deps.Responses,
		details:   deps.Details,
		profiles:  deps.Profiles,
		log:       log,
		opts:      opts.withDefaults(),
	}
}

// Detail describes the problem behind a response. Operands are the two
// addends (or minuend and subtrahend) when known.
type Detail struct {
	Operands      []int
	CorrectAnswer int
	Submitted     string
}

// RecordResponse appends r to the log. An item missing from the bank is
// created with cold-start parameters when detail carries two operands;
// otherwise ErrUnknownItem is returned. A zero timestamp is set to now.
func (s *Service) RecordResponse(ctx context.Context, r irt.Response, detail *Detail) (irt.Response, error) {
	if r.LearnerID == "" || r.ItemID == "" {
		return irt.Response{}, fmt.Errorf("%w: learner and item ids are required", ErrInvalidResponse)
	}
	if r.ResponseTimeMs < 0 {
		return irt.Response{}, fmt.Errorf("%w: negative response time", ErrInvalidResponse)
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = s.opts.Now()
	}
	log := s.log.With("learner_id", r.LearnerID, "item_id", r.ItemID)

	if err := s.ensureItem(ctx, r.ItemID, detail); err != nil {
		return irt.Response{}, err
	}

	stored, err := s.responses.AppendResponse(ctx, r)
	if err != nil {
		return irt.Response{}, fmt.Errorf("record response: %w", err)
	}

	if detail != nil && s.details != nil {
		err := s.details.PutDetail(ctx, store.ProblemDetail{
			ResponseID:    stored.ID,
			ItemID:        stored.ItemID,
			Operands:      detail.Operands,
			CorrectAnswer: detail.CorrectAnswer,
			Submitted:     detail.Submitted,
		})
		if err != nil {
			return stored, fmt.Errorf("record problem detail: %w", err)
		}
	}

	log.Debug("response recorded", "response_id", stored.ID, "correct", stored.IsCorrect)
	return stored, nil
}

func (s *Service) ensureItem(ctx context.Context, itemID string, detail *Detail) error {
	_, err := s.items.GetItem(ctx, itemID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("look up item: %w", err)
	}
	if detail == nil || len(detail.Operands) != 2 {
		return fmt.Errorf("%w: %s", ErrUnknownItem, itemID)
	}

	item := calibration.GenerateInitialItemParameters(detail.Operands[0], detail.Operands[1], itemID)
	if err := s.items.PutItems(ctx, []irt.ItemParameters{item}); err != nil {
		return fmt.Errorf("create cold-start item: %w", err)
	}
	s.log.Info("cold-start item created", "item_id", itemID, "problem_type", item.ProblemType,
		"difficulty", item.Difficulty, "discrimination", item.Discrimination)
	return nil
}

// Method selects an ability estimator.
type Method string

const (
	MethodEAP Method = "eap"
	MethodMLE Method = "mle"
)

// ParseMethod validates an estimator name. Empty means EAP.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case "", MethodEAP:
		return MethodEAP, nil
	case MethodMLE:
		return MethodMLE, nil
	}
	return "", fmt.Errorf("unknown estimation method %q (want eap or mle)", s)
}

// Estimate computes a learner's ability from the newest responses.
func (s *Service) Estimate(ctx context.Context, learnerID string, method Method) (irt.AbilityEstimate, error) {
	responses, bank, err := s.load(ctx, learnerID)
	if err != nil {
		return irt.AbilityEstimate{}, err
	}
	if method == MethodMLE {
		return irt.EstimateMLE(learnerID, responses, bank), nil
	}
	return irt.EstimateEAP(learnerID, responses, bank), nil
}

// Diagnose builds the full diagnostic report of a learner. Items the
// learner already answered and items in exclude are never suggested.
func (s *Service) Diagnose(ctx context.Context, learnerID string, exclude map[string]bool) (report.DiagnosticResult, error) {
	in, err := s.input(ctx, learnerID)
	if err != nil {
		return report.DiagnosticResult{}, err
	}
	in.Exclude = exclude

	result := report.GenerateDiagnosticReport(in)
	s.log.Info("diagnostic report generated",
		"learner_id", learnerID,
		"responses", len(in.Responses),
		"theta", result.Ability.Theta,
		"patterns", len(result.ErrorPatterns))
	return result, nil
}

// Profile rebuilds a learner's profile as of now, folding in the previous
// snapshot's history, and stores the result.
func (s *Service) Profile(ctx context.Context, learnerID string, now time.Time) (report.StudentProfile, error) {
	in, err := s.input(ctx, learnerID)
	if err != nil {
		return report.StudentProfile{}, err
	}

	var prev *report.StudentProfile
	if s.profiles != nil {
		prev, err = s.profiles.LatestProfile(ctx, learnerID)
		if err != nil {
			return report.StudentProfile{}, fmt.Errorf("load previous profile: %w", err)
		}
	}

	profile := report.BuildStudentProfile(in, prev, now)
	if s.profiles == nil {
		return profile, nil
	}
	if err := s.profiles.SaveProfile(ctx, profile); err != nil {
		return profile, fmt.Errorf("save profile: %w", err)
	}
	if err := s.profiles.PruneProfiles(ctx, learnerID, s.opts.ProfileKeep); err != nil {
		s.log.Warn("prune profiles failed", "learner_id", learnerID, "error", err)
	}
	return profile, nil
}

func (s *Service) load(ctx context.Context, learnerID string) ([]irt.Response, irt.ItemBank, error) {
	responses, err := s.responses.LearnerResponses(ctx, learnerID, s.opts.ResponseWindow)
	if err != nil {
		return nil, nil, fmt.Errorf("load responses: %w", err)
	}
	bank, err := s.bank(ctx)
	if err != nil {
		return nil, nil, err
	}
	return responses, bank, nil
}

func (s *Service) bank(ctx context.Context) (irt.ItemBank, error) {
	items, err := s.items.AllItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("load item bank: %w", err)
	}
	return irt.NewItemBank(items), nil
}

func (s *Service) input(ctx context.Context, learnerID string) (report.Input, error) {
	responses, bank, err := s.load(ctx, learnerID)
	if err != nil {
		return report.Input{}, err
	}
	attempts, err := s.attempts(ctx, responses)
	if err != nil {
		return report.Input{}, err
	}
	return report.Input{
		LearnerID:     learnerID,
		Responses:     responses,
		Bank:          bank,
		Attempts:      attempts,
		NextItemCount: s.opts.NextItems,
	}, nil
}
