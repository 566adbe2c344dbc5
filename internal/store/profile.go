package store

import (
	"context"
	"encoding/json"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/mathprobe/internal/report"
)

// profileRepo implements ProfileRepo. Profiles are stored as JSON.
type profileRepo struct {
	drv *entsql.Driver
}

func (r *profileRepo) SaveProfile(ctx context.Context, p report.StudentProfile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	query, args := builder().
		Insert(tableProfiles).
		Columns(columnNames(profilesColumns)...).
		Values(uuid.NewString(), p.LearnerID, toMillis(p.UpdatedAt), string(data)).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (r *profileRepo) LatestProfile(ctx context.Context, learnerID string) (*report.StudentProfile, error) {
	query, args := builder().
		Select("data").
		From(entsql.Table(tableProfiles)).
		Where(entsql.EQ("learner_id", learnerID)).
		OrderBy(entsql.Desc("ts")).
		Limit(1).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query latest profile: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	var data string
	if err := rows.Scan(&data); err != nil {
		return nil, fmt.Errorf("scan profile: %w", err)
	}
	var p report.StudentProfile
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	return &p, nil
}

func (r *profileRepo) PruneProfiles(ctx context.Context, learnerID string, keep int) error {
	// Find the timestamp of the Nth most recent profile.
	query, args := builder().
		Select("ts").
		From(entsql.Table(tableProfiles)).
		Where(entsql.EQ("learner_id", learnerID)).
		OrderBy(entsql.Desc("ts")).
		Offset(keep).
		Limit(1).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return fmt.Errorf("query profiles for prune: %w", err)
	}
	var threshold int64
	found := rows.Next()
	if found {
		if err := rows.Scan(&threshold); err != nil {
			rows.Close()
			return fmt.Errorf("scan prune threshold: %w", err)
		}
	}
	if err := rows.Close(); err != nil {
		return fmt.Errorf("close rows: %w", err)
	}
	if !found {
		return nil // fewer than keep profiles exist
	}

	query, args = builder().
		Delete(tableProfiles).
		Where(entsql.And(
			entsql.EQ("learner_id", learnerID),
			entsql.LTE("ts", threshold),
		)).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("prune profiles: %w", err)
	}
	return nil
}
