package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/xpquest/internal/catalog"
)

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// Import implements CatalogRepo.
func (s *Store) Import(ctx context.Context, c *catalog.Catalog, source string) (*ImportRecord, error) {
	if err := catalog.Validate(c); err != nil {
		return nil, err
	}

	tx, err := s.drv.Tx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	rec, err := importTx(ctx, tx, c, source)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}
	return rec, nil
}

func importTx(ctx context.Context, tx dialect.Tx, c *catalog.Catalog, source string) (*ImportRecord, error) {
	for _, table := range []string{"items", "scenarios"} {
		query, args := builder().Delete(table).Query()
		if err := tx.Exec(ctx, query, args, nil); err != nil {
			return nil, fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, it := range c.Items {
		query, args := builder().Insert("items").
			Columns("id", "position", "prompt", "xp_value").
			Values(it.ID, it.Order, it.Prompt, it.XPValue).
			Query()
		if err := tx.Exec(ctx, query, args, nil); err != nil {
			return nil, fmt.Errorf("insert item %q: %w", it.ID, err)
		}

		ins := builder().Insert("item_options").
			Columns("item_id", "option_id", "seq", "label", "value", "is_correct")
		for i, o := range it.Options {
			ins.Values(it.ID, o.ID, i, o.Label, o.Value, o.IsCorrect)
		}
		query, args = ins.Query()
		if err := tx.Exec(ctx, query, args, nil); err != nil {
			return nil, fmt.Errorf("insert options of %q: %w", it.ID, err)
		}
	}

	for i, sc := range c.Scenarios {
		query, args := builder().Insert("scenarios").
			Columns("id", "seq", "title").
			Values(sc.ID, i, sc.Title).
			Query()
		if err := tx.Exec(ctx, query, args, nil); err != nil {
			return nil, fmt.Errorf("insert scenario %q: %w", sc.ID, err)
		}

		ins := builder().Insert("scenario_steps").
			Columns("scenario_id", "seq", "question", "options", "correct_index", "feedback", "delta")
		for j, st := range sc.Steps {
			opts, fb, delta, err := encodeStep(st)
			if err != nil {
				return nil, fmt.Errorf("encode scenario %q step %d: %w", sc.ID, j, err)
			}
			ins.Values(sc.ID, j, st.Question, opts, st.CorrectIndex, fb, delta)
		}
		query, args = ins.Query()
		if err := tx.Exec(ctx, query, args, nil); err != nil {
			return nil, fmt.Errorf("insert steps of %q: %w", sc.ID, err)
		}
	}

	rec := &ImportRecord{
		Source:     source,
		Items:      len(c.Items),
		Scenarios:  len(c.Scenarios),
		ImportedAt: time.Now().UTC().Truncate(time.Second),
	}
	query, args := builder().Insert("imports").
		Columns("source", "items", "scenarios", "imported_at").
		Values(rec.Source, rec.Items, rec.Scenarios, rec.ImportedAt).
		Query()
	var res sql.Result
	if err := tx.Exec(ctx, query, args, &res); err != nil {
		return nil, fmt.Errorf("record import: %w", err)
	}
	rev, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("import revision: %w", err)
	}
	rec.Revision = rev
	return rec, nil
}

// Items implements catalog.ItemSource. Items come back ordered by position.
func (s *Store) Items(ctx context.Context) ([]catalog.Item, error) {
	query, args := builder().
		Select("id", "position", "prompt", "xp_value").
		From(entsql.Table("items")).
		OrderBy("position", "id").
		Query()

	var items []catalog.Item
	index := map[string]int{}
	err := s.scan(ctx, query, args, func(rows *entsql.Rows) error {
		var it catalog.Item
		if err := rows.Scan(&it.ID, &it.Order, &it.Prompt, &it.XPValue); err != nil {
			return err
		}
		index[it.ID] = len(items)
		items = append(items, it)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}

	query, args = builder().
		Select("item_id", "option_id", "label", "value", "is_correct").
		From(entsql.Table("item_options")).
		OrderBy("item_id", "seq").
		Query()
	err = s.scan(ctx, query, args, func(rows *entsql.Rows) error {
		var itemID string
		var o catalog.Option
		if err := rows.Scan(&itemID, &o.ID, &o.Label, &o.Value, &o.IsCorrect); err != nil {
			return err
		}
		if i, ok := index[itemID]; ok {
			items[i].Options = append(items[i].Options, o)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query options: %w", err)
	}
	return items, nil
}

// Scenarios implements catalog.ScenarioSource, in import order.
func (s *Store) Scenarios(ctx context.Context) ([]catalog.Scenario, error) {
	query, args := builder().
		Select("id", "title").
		From(entsql.Table("scenarios")).
		OrderBy("seq").
		Query()

	var list []catalog.Scenario
	index := map[string]int{}
	err := s.scan(ctx, query, args, func(rows *entsql.Rows) error {
		var sc catalog.Scenario
		if err := rows.Scan(&sc.ID, &sc.Title); err != nil {
			return err
		}
		index[sc.ID] = len(list)
		list = append(list, sc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query scenarios: %w", err)
	}

	query, args = builder().
		Select("scenario_id", "question", "options", "correct_index", "feedback", "delta").
		From(entsql.Table("scenario_steps")).
		OrderBy("scenario_id", "seq").
		Query()
	err = s.scan(ctx, query, args, func(rows *entsql.Rows) error {
		var (
			scenarioID, opts, fb, delta string
			st                          catalog.Step
		)
		if err := rows.Scan(&scenarioID, &st.Question, &opts, &st.CorrectIndex, &fb, &delta); err != nil {
			return err
		}
		if err := decodeStep(&st, opts, fb, delta); err != nil {
			return fmt.Errorf("decode step of %q: %w", scenarioID, err)
		}
		if i, ok := index[scenarioID]; ok {
			list[i].Steps = append(list[i].Steps, st)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query steps: %w", err)
	}
	return list, nil
}

// Imports implements CatalogRepo.
func (s *Store) Imports(ctx context.Context, limit int) ([]ImportRecord, error) {
	sel := builder().
		Select("revision", "source", "items", "scenarios", "imported_at").
		From(entsql.Table("imports")).
		OrderBy(entsql.Desc("revision"))
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()

	var out []ImportRecord
	err := s.scan(ctx, query, args, func(rows *entsql.Rows) error {
		var r ImportRecord
		if err := rows.Scan(&r.Revision, &r.Source, &r.Items, &r.Scenarios, &r.ImportedAt); err != nil {
			return err
		}
		out = append(out, r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query imports: %w", err)
	}
	return out, nil
}

// scan runs query and calls fn for each row. The result set is closed before
// scan returns.
func (s *Store) scan(ctx context.Context, query string, args []any, fn func(*entsql.Rows) error) error {
	var rows entsql.Rows
	if err := s.drv.Query(ctx, query, args, &rows); err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := fn(&rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func encodeStep(st catalog.Step) (opts, feedback, delta string, err error) {
	var b []byte
	if b, err = json.Marshal(nonNil(st.Options)); err != nil {
		return
	}
	opts = string(b)
	if b, err = json.Marshal(nonNil(st.Feedback)); err != nil {
		return
	}
	feedback = string(b)
	if b, err = json.Marshal(nonNil(st.Delta)); err != nil {
		return
	}
	delta = string(b)
	return
}

func decodeStep(st *catalog.Step, opts, feedback, delta string) error {
	if err := json.Unmarshal([]byte(opts), &st.Options); err != nil {
		return fmt.Errorf("options: %w", err)
	}
	if err := json.Unmarshal([]byte(feedback), &st.Feedback); err != nil {
		return fmt.Errorf("feedback: %w", err)
	}
	if err := json.Unmarshal([]byte(delta), &st.Delta); err != nil {
		return fmt.Errorf("delta: %w", err)
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
