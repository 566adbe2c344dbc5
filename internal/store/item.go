package store

import (
	"context"
	"encoding/json"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/mathprobe/internal/irt"
)

// itemRepo implements ItemRepo.
type itemRepo struct {
	drv *entsql.Driver
}

func (r *itemRepo) GetItem(ctx context.Context, itemID string) (irt.ItemParameters, error) {
	query, args := builder().
		Select(columnNames(itemsColumns)...).
		From(entsql.Table(tableItems)).
		Where(entsql.EQ("item_id", itemID)).
		Limit(1).
		Query()

	items, err := queryItems(ctx, r.drv, query, args)
	if err != nil {
		return irt.ItemParameters{}, fmt.Errorf("get item %s: %w", itemID, err)
	}
	if len(items) == 0 {
		return irt.ItemParameters{}, fmt.Errorf("item %s: %w", itemID, ErrNotFound)
	}
	return items[0], nil
}

func (r *itemRepo) PutItems(ctx context.Context, items []irt.ItemParameters) error {
	if len(items) == 0 {
		return nil
	}
	return withTx(ctx, r.drv, func(tx dialect.Tx) error {
		for _, it := range items {
			tags, err := json.Marshal(nonNilStrings(it.SkillTags))
			if err != nil {
				return fmt.Errorf("marshal skill tags of %s: %w", it.ItemID, err)
			}
			query, args := builder().
				Insert(tableItems).
				Columns(columnNames(itemsColumns)...).
				Values(it.ItemID, it.Discrimination, it.Difficulty, it.Guessing,
					string(tags), it.ProblemType, it.SampleSize, toMillis(it.LastCalibrated)).
				OnConflict(
					entsql.ConflictColumns("item_id"),
					entsql.ResolveWithNewValues(),
				).
				Query()
			if err := tx.Exec(ctx, query, args, nil); err != nil {
				return fmt.Errorf("put item %s: %w", it.ItemID, err)
			}
		}
		return nil
	})
}

func (r *itemRepo) AllItems(ctx context.Context) ([]irt.ItemParameters, error) {
	query, args := builder().
		Select(columnNames(itemsColumns)...).
		From(entsql.Table(tableItems)).
		OrderBy("item_id").
		Query()

	items, err := queryItems(ctx, r.drv, query, args)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

func queryItems(ctx context.Context, q dialect.ExecQuerier, query string, args []any) ([]irt.ItemParameters, error) {
	var rows entsql.Rows
	if err := q.Query(ctx, query, args, &rows); err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []irt.ItemParameters
	for rows.Next() {
		var (
			it    irt.ItemParameters
			tags  string
			calMs int64
		)
		if err := rows.Scan(&it.ItemID, &it.Discrimination, &it.Difficulty, &it.Guessing,
			&tags, &it.ProblemType, &it.SampleSize, &calMs); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(tags), &it.SkillTags); err != nil {
			return nil, fmt.Errorf("unmarshal skill tags of %s: %w", it.ItemID, err)
		}
		it.LastCalibrated = fromMillis(calMs)
		items = append(items, it)
	}
	return items, rows.Err()
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
