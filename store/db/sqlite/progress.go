package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/cardwise/cardwise/store"
)

func (d *DB) UpsertCourseProgress(ctx context.Context, upsert *store.CourseProgress) (*store.CourseProgress, error) {
	fields := []string{
		"course_id", "progressed_section", "progressed_unit", "total_swipes",
		"swipes_d1", "swipes_d2", "swipes_d3", "swipes_d4", "swipes_d5", "swipes_d6", "swipes_d7",
		"last_checked_epoch_day",
	}
	placeholderValues := []any{
		upsert.CourseID, upsert.ProgressedSection, upsert.ProgressedUnit, upsert.TotalSwipes,
		upsert.Swipes[0], upsert.Swipes[1], upsert.Swipes[2], upsert.Swipes[3],
		upsert.Swipes[4], upsert.Swipes[5], upsert.Swipes[6],
		upsert.LastCheckedEpochDay,
	}

	stmt := `INSERT OR REPLACE INTO course_progress (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(placeholderValues)) + `)`
	if _, err := d.db.ExecContext(ctx, stmt, placeholderValues...); err != nil {
		return nil, fmt.Errorf("failed to upsert course progress: %w", err)
	}

	return upsert, nil
}

func (d *DB) ListCourseProgress(ctx context.Context, find *store.FindCourseProgress) ([]*store.CourseProgress, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.CourseID; v != nil {
		where, args = append(where, "course_id = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT
			course_id, progressed_section, progressed_unit, total_swipes,
			swipes_d1, swipes_d2, swipes_d3, swipes_d4, swipes_d5, swipes_d6, swipes_d7,
			last_checked_epoch_day
		FROM course_progress
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY course_id ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query course progress: %w", err)
	}
	defer rows.Close()

	list := make([]*store.CourseProgress, 0)
	for rows.Next() {
		var progress store.CourseProgress
		if err := rows.Scan(
			&progress.CourseID,
			&progress.ProgressedSection,
			&progress.ProgressedUnit,
			&progress.TotalSwipes,
			&progress.Swipes[0],
			&progress.Swipes[1],
			&progress.Swipes[2],
			&progress.Swipes[3],
			&progress.Swipes[4],
			&progress.Swipes[5],
			&progress.Swipes[6],
			&progress.LastCheckedEpochDay,
		); err != nil {
			return nil, fmt.Errorf("failed to scan course progress: %w", err)
		}
		list = append(list, &progress)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate course progress: %w", err)
	}
	return list, nil
}

func (d *DB) UpdateCourseProgress(ctx context.Context, update *store.UpdateCourseProgress) error {
	set, args := []string{}, []any{}

	if v := update.ProgressedSection; v != nil {
		set, args = append(set, "progressed_section = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.ProgressedUnit; v != nil {
		set, args = append(set, "progressed_unit = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.TotalSwipes; v != nil {
		set, args = append(set, "total_swipes = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Swipes; v != nil {
		for i, swipes := range v {
			set, args = append(set, fmt.Sprintf("swipes_d%d = %s", i+1, placeholder(len(args)+1))), append(args, swipes)
		}
	}
	if v := update.LastCheckedEpochDay; v != nil {
		set, args = append(set, "last_checked_epoch_day = "+placeholder(len(args)+1)), append(args, *v)
	}
	if len(set) == 0 {
		return nil
	}

	args = append(args, update.CourseID)
	stmt := `UPDATE course_progress SET ` + strings.Join(set, ", ") + ` WHERE course_id = ` + placeholder(len(args))
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("failed to update course progress: %w", err)
	}
	return nil
}
