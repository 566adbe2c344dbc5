// Package memstore is an in-memory implementation of the store
// repositories for tests and one-shot runs.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/mathprobe/internal/irt"
	"github.com/abhisek/mathprobe/internal/report"
	"github.com/abhisek/mathprobe/internal/store"
)

// Store holds everything in maps guarded by one mutex. It implements
// store.ItemRepo, store.ResponseRepo, store.DetailRepo, store.ProfileRepo
// and store.EventRepo.
type Store struct {
	mu        sync.RWMutex
	items     map[string]irt.ItemParameters
	responses []irt.Response
	details   map[string]store.ProblemDetail
	profiles  map[string][]report.StudentProfile
	events    []store.LLMEvent
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		items:    make(map[string]irt.ItemParameters),
		details:  make(map[string]store.ProblemDetail),
		profiles: make(map[string][]report.StudentProfile),
	}
}

var (
	_ store.ItemRepo     = (*Store)(nil)
	_ store.ResponseRepo = (*Store)(nil)
	_ store.DetailRepo   = (*Store)(nil)
	_ store.ProfileRepo  = (*Store)(nil)
	_ store.EventRepo    = (*Store)(nil)
)

func (s *Store) GetItem(_ context.Context, itemID string) (irt.ItemParameters, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.items[itemID]
	if !ok {
		return irt.ItemParameters{}, fmt.Errorf("item %s: %w", itemID, store.ErrNotFound)
	}
	return cloneItem(it), nil
}

func (s *Store) PutItems(_ context.Context, items []irt.ItemParameters) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range items {
		s.items[it.ItemID] = cloneItem(it)
	}
	return nil
}

func (s *Store) AllItems(_ context.Context) ([]irt.ItemParameters, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]irt.ItemParameters, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, cloneItem(it))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out, nil
}

func (s *Store) AppendResponse(_ context.Context, r irt.Response) (irt.Response, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses = append(s.responses, r)
	return r, nil
}

func (s *Store) LearnerResponses(_ context.Context, learnerID string, limit int) ([]irt.Response, error) {
	s.mu.RLock()
	var out []irt.Response
	for _, r := range s.responses {
		if r.LearnerID == learnerID {
			out = append(out, r)
		}
	}
	s.mu.RUnlock()

	sortChronological(out)
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (s *Store) AllResponses(_ context.Context) ([]irt.Response, error) {
	s.mu.RLock()
	out := append([]irt.Response(nil), s.responses...)
	s.mu.RUnlock()
	sortChronological(out)
	return out, nil
}

func (s *Store) Learners(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]bool)
	var ids []string
	for _, r := range s.responses {
		if !seen[r.LearnerID] {
			seen[r.LearnerID] = true
			ids = append(ids, r.LearnerID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *Store) PutDetail(_ context.Context, d store.ProblemDetail) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d.Operands = append([]int(nil), d.Operands...)
	s.details[d.ResponseID] = d
	return nil
}

func (s *Store) Details(_ context.Context, responseIDs []string) (map[string]store.ProblemDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]store.ProblemDetail, len(responseIDs))
	for _, id := range responseIDs {
		if d, ok := s.details[id]; ok {
			out[id] = d
		}
	}
	return out, nil
}

func (s *Store) SaveProfile(_ context.Context, p report.StudentProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := append(s.profiles[p.LearnerID], p)
	sort.SliceStable(list, func(i, j int) bool { return list[i].UpdatedAt.Before(list[j].UpdatedAt) })
	s.profiles[p.LearnerID] = list
	return nil
}

func (s *Store) LatestProfile(_ context.Context, learnerID string) (*report.StudentProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.profiles[learnerID]
	if len(list) == 0 {
		return nil, nil
	}
	p := list[len(list)-1]
	return &p, nil
}

func (s *Store) PruneProfiles(_ context.Context, learnerID string, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.profiles[learnerID]
	if len(list) > keep {
		s.profiles[learnerID] = append([]report.StudentProfile(nil), list[len(list)-keep:]...)
	}
	return nil
}

func (s *Store) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, store.LLMEvent{
		ID:                  int64(len(s.events) + 1),
		Timestamp:           time.Now().UTC(),
		LLMRequestEventData: data,
	})
	return nil
}

func (s *Store) QueryLLMEvents(_ context.Context, opts store.QueryOpts) ([]store.LLMEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []store.LLMEvent
	for i := len(s.events) - 1; i >= 0; i-- {
		e := s.events[i]
		if opts.Purpose != "" && e.Purpose != opts.Purpose {
			continue
		}
		if !opts.From.IsZero() && e.Timestamp.Before(opts.From) {
			continue
		}
		if !opts.To.IsZero() && e.Timestamp.After(opts.To) {
			continue
		}
		out = append(out, e)
	}
	if opts.Offset > 0 {
		if opts.Offset >= len(out) {
			return nil, nil
		}
		out = out[opts.Offset:]
	}
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (s *Store) GetLLMEvent(_ context.Context, id int64) (*store.LLMEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id < 1 || id > int64(len(s.events)) {
		return nil, nil
	}
	e := s.events[id-1]
	return &e, nil
}

func (s *Store) LLMUsageByPurpose(_ context.Context) ([]store.LLMPurposeStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byPurpose := make(map[string]*store.LLMPurposeStats)
	latency := make(map[string]int64)
	for _, e := range s.events {
		st, ok := byPurpose[e.Purpose]
		if !ok {
			st = &store.LLMPurposeStats{Purpose: e.Purpose}
			byPurpose[e.Purpose] = st
		}
		st.Calls++
		st.InputTokens += e.InputTokens
		st.OutputTokens += e.OutputTokens
		latency[e.Purpose] += e.LatencyMs
	}
	out := make([]store.LLMPurposeStats, 0, len(byPurpose))
	for p, st := range byPurpose {
		st.AvgLatencyMs = latency[p] / int64(st.Calls)
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Purpose < out[j].Purpose })
	return out, nil
}

func (s *Store) LLMUsageByModel(_ context.Context) ([]store.LLMModelUsage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byModel := make(map[string]*store.LLMModelUsage)
	for _, e := range s.events {
		mu, ok := byModel[e.Model]
		if !ok {
			mu = &store.LLMModelUsage{Model: e.Model}
			byModel[e.Model] = mu
		}
		mu.Calls++
		mu.InputTokens += e.InputTokens
		mu.OutputTokens += e.OutputTokens
	}
	out := make([]store.LLMModelUsage, 0, len(byModel))
	for _, mu := range byModel {
		out = append(out, *mu)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Model < out[j].Model })
	return out, nil
}

func cloneItem(it irt.ItemParameters) irt.ItemParameters {
	it.SkillTags = append([]string(nil), it.SkillTags...)
	return it
}

func sortChronological(rs []irt.Response) {
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].Timestamp.Before(rs[j].Timestamp) })
}
