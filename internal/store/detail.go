package store

import (
	"context"
	"encoding/json"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

// detailRepo implements DetailRepo.
type detailRepo struct {
	drv *entsql.Driver
}

func (r *detailRepo) PutDetail(ctx context.Context, d ProblemDetail) error {
	ops := d.Operands
	if ops == nil {
		ops = []int{}
	}
	data, err := json.Marshal(ops)
	if err != nil {
		return fmt.Errorf("marshal operands: %w", err)
	}
	query, args := builder().
		Insert(tableDetails).
		Columns(columnNames(detailsColumns)...).
		Values(d.ResponseID, d.ItemID, string(data), d.CorrectAnswer, d.Submitted).
		OnConflict(
			entsql.ConflictColumns("response_id"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("put detail for %s: %w", d.ResponseID, err)
	}
	return nil
}

// detailBatch bounds the number of ids bound into one IN clause.
const detailBatch = 500

func (r *detailRepo) Details(ctx context.Context, responseIDs []string) (map[string]ProblemDetail, error) {
	out := make(map[string]ProblemDetail, len(responseIDs))
	for start := 0; start < len(responseIDs); start += detailBatch {
		end := min(start+detailBatch, len(responseIDs))
		ids := make([]any, 0, end-start)
		for _, id := range responseIDs[start:end] {
			ids = append(ids, id)
		}
		if err := r.queryInto(ctx, ids, out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *detailRepo) queryInto(ctx context.Context, ids []any, out map[string]ProblemDetail) error {
	query, args := builder().
		Select(columnNames(detailsColumns)...).
		From(entsql.Table(tableDetails)).
		Where(entsql.In("response_id", ids...)).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return fmt.Errorf("query details: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			d   ProblemDetail
			ops string
		)
		if err := rows.Scan(&d.ResponseID, &d.ItemID, &ops, &d.CorrectAnswer, &d.Submitted); err != nil {
			return fmt.Errorf("scan detail: %w", err)
		}
		if err := json.Unmarshal([]byte(ops), &d.Operands); err != nil {
			return fmt.Errorf("unmarshal operands of %s: %w", d.ResponseID, err)
		}
		if len(d.Operands) == 0 {
			d.Operands = nil
		}
		out[d.ResponseID] = d
	}
	return rows.Err()
}
