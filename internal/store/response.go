package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/mathprobe/internal/irt"
)

// responseRepo implements ResponseRepo.
type responseRepo struct {
	drv *entsql.Driver
}

func (r *responseRepo) AppendResponse(ctx context.Context, resp irt.Response) (irt.Response, error) {
	if resp.ID == "" {
		resp.ID = uuid.NewString()
	}
	query, args := builder().
		Insert(tableResponses).
		Columns(columnNames(responsesColumns)...).
		Values(resp.ID, resp.LearnerID, resp.ItemID, resp.IsCorrect, resp.ResponseTimeMs, toMillis(resp.Timestamp)).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return irt.Response{}, fmt.Errorf("append response: %w", err)
	}
	resp.Timestamp = fromMillis(toMillis(resp.Timestamp))
	return resp, nil
}

func (r *responseRepo) LearnerResponses(ctx context.Context, learnerID string, limit int) ([]irt.Response, error) {
	sel := builder().
		Select(columnNames(responsesColumns)...).
		From(entsql.Table(tableResponses)).
		Where(entsql.EQ("learner_id", learnerID)).
		OrderBy(entsql.Desc("ts"), entsql.Desc("id"))
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()

	out, err := queryResponses(ctx, r.drv, query, args)
	if err != nil {
		return nil, fmt.Errorf("query responses of %s: %w", learnerID, err)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (r *responseRepo) AllResponses(ctx context.Context) ([]irt.Response, error) {
	query, args := builder().
		Select(columnNames(responsesColumns)...).
		From(entsql.Table(tableResponses)).
		OrderBy("ts", "id").
		Query()

	out, err := queryResponses(ctx, r.drv, query, args)
	if err != nil {
		return nil, fmt.Errorf("query responses: %w", err)
	}
	return out, nil
}

func (r *responseRepo) Learners(ctx context.Context) ([]string, error) {
	query, args := builder().
		Select("learner_id").
		Distinct().
		From(entsql.Table(tableResponses)).
		OrderBy("learner_id").
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query learners: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan learner: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func queryResponses(ctx context.Context, q dialect.ExecQuerier, query string, args []any) ([]irt.Response, error) {
	var rows entsql.Rows
	if err := q.Query(ctx, query, args, &rows); err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []irt.Response
	for rows.Next() {
		var (
			resp irt.Response
			ts   int64
		)
		if err := rows.Scan(&resp.ID, &resp.LearnerID, &resp.ItemID, &resp.IsCorrect, &resp.ResponseTimeMs, &ts); err != nil {
			return nil, err
		}
		resp.Timestamp = fromMillis(ts)
		out = append(out, resp)
	}
	return out, rows.Err()
}
