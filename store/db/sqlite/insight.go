package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/cardwise/cardwise/store"
)

func (d *DB) CreateInsight(ctx context.Context, create *store.Insight) (*store.Insight, error) {
	fields := []string{
		"flashcard_id", "times_reviewed", "times_correct", "times_wrong",
		"last_reviewed", "description", "section_idx", "unit_idx",
		"learn_status", "last_status_change", "is_favorite",
	}
	placeholderValues := []any{
		create.FlashcardID, create.TimesReviewed, create.TimesCorrect, create.TimesWrong,
		create.LastReviewed, create.Description, create.SectionIdx, create.UnitIdx,
		create.LearnStatus, create.LastStatusChange, create.IsFavorite,
	}

	stmt := `INSERT INTO insight (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(placeholderValues)) + `)`
	if _, err := d.db.ExecContext(ctx, stmt, placeholderValues...); err != nil {
		return nil, fmt.Errorf("failed to create insight: %w", err)
	}

	return create, nil
}

func (d *DB) ListInsights(ctx context.Context, find *store.FindInsight) ([]*store.Insight, error) {
	where, args := []string{"1 = 1"}, []any{}
	from := "insight"

	if v := find.FlashcardID; v != nil {
		where, args = append(where, "insight.flashcard_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.LearnStatus; v != nil {
		where, args = append(where, "insight.learn_status = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.IsFavorite; v != nil {
		where, args = append(where, "insight.is_favorite = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Category; v != nil {
		from += " JOIN category_xref ON insight.flashcard_id = category_xref.flashcard_id"
		where, args = append(where, "category_xref.category_name = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT
			insight.flashcard_id, insight.times_reviewed, insight.times_correct,
			insight.times_wrong, insight.last_reviewed, insight.description,
			insight.section_idx, insight.unit_idx, insight.learn_status,
			insight.last_status_change, insight.is_favorite
		FROM ` + from + `
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY insight.section_idx ASC, insight.unit_idx ASC, insight.flashcard_id ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query insights: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Insight, 0)
	for rows.Next() {
		var insight store.Insight
		if err := rows.Scan(
			&insight.FlashcardID,
			&insight.TimesReviewed,
			&insight.TimesCorrect,
			&insight.TimesWrong,
			&insight.LastReviewed,
			&insight.Description,
			&insight.SectionIdx,
			&insight.UnitIdx,
			&insight.LearnStatus,
			&insight.LastStatusChange,
			&insight.IsFavorite,
		); err != nil {
			return nil, fmt.Errorf("failed to scan insight: %w", err)
		}
		list = append(list, &insight)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate insights: %w", err)
	}
	return list, nil
}

func (d *DB) UpdateInsight(ctx context.Context, update *store.UpdateInsight) error {
	set, args := []string{}, []any{}

	if v := update.TimesReviewed; v != nil {
		set, args = append(set, "times_reviewed = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.TimesCorrect; v != nil {
		set, args = append(set, "times_correct = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.TimesWrong; v != nil {
		set, args = append(set, "times_wrong = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.LastReviewed; v != nil {
		set, args = append(set, "last_reviewed = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Description; v != nil {
		set, args = append(set, "description = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.SectionIdx; v != nil {
		set, args = append(set, "section_idx = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.UnitIdx; v != nil {
		set, args = append(set, "unit_idx = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.LearnStatus; v != nil {
		set, args = append(set, "learn_status = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.LastStatusChange; v != nil {
		set, args = append(set, "last_status_change = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.IsFavorite; v != nil {
		set, args = append(set, "is_favorite = "+placeholder(len(args)+1)), append(args, *v)
	}
	if len(set) == 0 {
		return nil
	}

	args = append(args, update.FlashcardID)
	stmt := `UPDATE insight SET ` + strings.Join(set, ", ") + ` WHERE flashcard_id = ` + placeholder(len(args))
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("failed to update insight: %w", err)
	}
	return nil
}

func (d *DB) ResetInsightCounters(ctx context.Context) (int64, error) {
	stmt := `
		UPDATE insight
		SET times_reviewed = 0,
			times_correct = 0,
			times_wrong = 0,
			last_reviewed = 0,
			learn_status = 0,
			last_status_change = 0`
	result, err := d.db.ExecContext(ctx, stmt)
	if err != nil {
		return 0, fmt.Errorf("failed to reset insight counters: %w", err)
	}
	return result.RowsAffected()
}

func (d *DB) DeleteAllInsights(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM insight`); err != nil {
		return fmt.Errorf("failed to delete insights: %w", err)
	}
	return nil
}

func (d *DB) DeleteDuplicateInsights(ctx context.Context) (int64, error) {
	stmt := `
		DELETE FROM insight
		WHERE rowid NOT IN (
			SELECT MIN(rowid)
			FROM insight
			GROUP BY flashcard_id
		)`
	result, err := d.db.ExecContext(ctx, stmt)
	if err != nil {
		return 0, fmt.Errorf("failed to delete duplicate insights: %w", err)
	}
	return result.RowsAffected()
}

func (d *DB) SumTimesReviewed(ctx context.Context) (int64, error) {
	var total int64
	if err := d.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(times_reviewed), 0) FROM insight`,
	).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum times reviewed: %w", err)
	}
	return total, nil
}

// ListInsightScores scores every candidate with a uniform random component in
// [0, 100) plus a fixed boost for cards whose last outcome was a miss, and
// returns the highest scores first.
func (d *DB) ListInsightScores(ctx context.Context, find *store.FindInsightScore) ([]*store.InsightScore, error) {
	where, args := []string{"1 = 1"}, []any{}
	from := "insight"

	if v := find.SectionIdx; v != nil {
		where, args = append(where, "insight.section_idx = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UnitIdx; v != nil {
		where, args = append(where, "insight.unit_idx = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Category; v != nil {
		from += " JOIN category_xref ON insight.flashcard_id = category_xref.flashcard_id"
		where, args = append(where, "category_xref.category_name = "+placeholder(len(args)+1)), append(args, *v)
	}
	if find.MaxSectionIdx != nil && find.MaxUnitIdx != nil {
		where = append(where, fmt.Sprintf("(insight.section_idx < %s OR (insight.section_idx = %s AND insight.unit_idx <= %s))",
			placeholder(len(args)+1), placeholder(len(args)+2), placeholder(len(args)+3)))
		args = append(args, *find.MaxSectionIdx, *find.MaxSectionIdx, *find.MaxUnitIdx)
	}
	if v := find.LearnStatus; v != nil {
		where, args = append(where, "insight.learn_status = "+placeholder(len(args)+1)), append(args, *v)
	}

	limit := find.Limit
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT flashcard_id,
			mistake_weight,
			(rand_part + mistake_weight) AS score
		FROM (
			SELECT insight.flashcard_id,
				(ABS(RANDOM()) % 1000000) / 10000.0 AS rand_part,
				(1 + (insight.learn_status = ` + fmt.Sprintf("%d", store.LearnStatusForgotten) + `)) * 10 AS mistake_weight
			FROM ` + from + `
			WHERE ` + strings.Join(where, " AND ") + `
		)
		ORDER BY score DESC
		LIMIT ` + fmt.Sprintf("%d", limit)

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query insight scores: %w", err)
	}
	defer rows.Close()

	list := make([]*store.InsightScore, 0)
	for rows.Next() {
		var pick store.InsightScore
		if err := rows.Scan(&pick.FlashcardID, &pick.MistakeWeight, &pick.Score); err != nil {
			return nil, fmt.Errorf("failed to scan insight score: %w", err)
		}
		list = append(list, &pick)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate insight scores: %w", err)
	}
	return list, nil
}

func (d *DB) ListRecentInsightPositions(ctx context.Context, find *store.FindRecentInsightPosition) ([]*store.InsightPosition, error) {
	where, args := []string{"last_reviewed > 0"}, []any{}
	if find.OnlyForgotten {
		where, args = append(where, "learn_status = "+placeholder(len(args)+1)), append(args, store.LearnStatusForgotten)
	}

	limit := find.Limit
	if limit <= 0 {
		limit = 7
	}

	query := `
		SELECT flashcard_id, section_idx, unit_idx
		FROM insight
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY last_reviewed DESC
		LIMIT ` + fmt.Sprintf("%d", limit)

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent insight positions: %w", err)
	}
	defer rows.Close()

	list := make([]*store.InsightPosition, 0)
	for rows.Next() {
		var pos store.InsightPosition
		if err := rows.Scan(&pos.FlashcardID, &pos.SectionIdx, &pos.UnitIdx); err != nil {
			return nil, fmt.Errorf("failed to scan insight position: %w", err)
		}
		list = append(list, &pos)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate insight positions: %w", err)
	}
	return list, nil
}
