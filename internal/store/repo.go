package store

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/mathprobe/internal/irt"
	"github.com/abhisek/mathprobe/internal/report"
)

// ErrNotFound is returned when a lookup by id matches nothing.
var ErrNotFound = errors.New("not found")

// QueryOpts configures list queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	Offset  int       // rows to skip
	Purpose string    // LLM events only; empty matches all
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
}

// ItemRepo persists item parameters.
type ItemRepo interface {
	// GetItem returns the item or ErrNotFound.
	GetItem(ctx context.Context, itemID string) (irt.ItemParameters, error)

	// PutItems inserts or replaces items in one transaction.
	PutItems(ctx context.Context, items []irt.ItemParameters) error

	// AllItems returns every item ordered by id.
	AllItems(ctx context.Context) ([]irt.ItemParameters, error)
}

// ResponseRepo is the append-only response log.
type ResponseRepo interface {
	// AppendResponse records r. An empty r.ID is filled with a new UUID and
	// the stored response is returned.
	AppendResponse(ctx context.Context, r irt.Response) (irt.Response, error)

	// LearnerResponses returns the newest limit responses of a learner in
	// chronological order. limit <= 0 returns all of them.
	LearnerResponses(ctx context.Context, learnerID string, limit int) ([]irt.Response, error)

	// AllResponses returns every response in chronological order.
	AllResponses(ctx context.Context) ([]irt.Response, error)

	// Learners returns the distinct learner ids, sorted.
	Learners(ctx context.Context) ([]string, error)
}

// ProblemDetail is the arithmetic behind a recorded response, kept so
// wrong answers can be diagnosed later.
type ProblemDetail struct {
	ResponseID    string
	ItemID        string
	Operands      []int
	CorrectAnswer int
	Submitted     string
}

// DetailRepo persists problem details keyed by response id.
type DetailRepo interface {
	PutDetail(ctx context.Context, d ProblemDetail) error

	// Details returns the details recorded for the given responses. Missing
	// ids are skipped.
	Details(ctx context.Context, responseIDs []string) (map[string]ProblemDetail, error)
}

// ProfileRepo stores point-in-time learner profiles.
type ProfileRepo interface {
	SaveProfile(ctx context.Context, p report.StudentProfile) error

	// LatestProfile returns the newest profile of a learner, or nil if none
	// exist.
	LatestProfile(ctx context.Context, learnerID string) (*report.StudentProfile, error)

	// PruneProfiles deletes all but the keep most recent profiles of a
	// learner.
	PruneProfiles(ctx context.Context, learnerID string, keep int) error
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMPurposeStats aggregates token usage for one purpose.
type LLMPurposeStats struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMModelUsage aggregates token usage for one model.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo records and reports LLM usage.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns the event with id, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int64) (*LLMEvent, error)

	// LLMUsageByPurpose aggregates usage per purpose, ordered by purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMPurposeStats, error)

	// LLMUsageByModel aggregates usage per model, ordered by model.
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)
}
