package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/cardwise/cardwise/store"
)

func (d *DB) ListCategories(ctx context.Context) ([]*store.Category, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT name FROM category ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Category, 0)
	for rows.Next() {
		var category store.Category
		if err := rows.Scan(&category.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		list = append(list, &category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return list, nil
}

func (d *DB) UpsertCrossRef(ctx context.Context, upsert *store.CrossRef) error {
	stmt := `
		INSERT OR IGNORE INTO category_xref (flashcard_id, category_name)
		VALUES (` + placeholders(2) + `)`
	if _, err := d.db.ExecContext(ctx, stmt, upsert.FlashcardID, upsert.CategoryName); err != nil {
		return fmt.Errorf("failed to upsert cross-reference: %w", err)
	}
	return nil
}

func (d *DB) ListCrossRefs(ctx context.Context, find *store.FindCrossRef) ([]*store.CrossRef, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.FlashcardID; v != nil {
		where, args = append(where, "flashcard_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.CategoryName; v != nil {
		where, args = append(where, "category_name = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT flashcard_id, category_name
		FROM category_xref
		WHERE ` + strings.Join(where, " AND ")

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cross-references: %w", err)
	}
	defer rows.Close()

	list := make([]*store.CrossRef, 0)
	for rows.Next() {
		var xref store.CrossRef
		if err := rows.Scan(&xref.FlashcardID, &xref.CategoryName); err != nil {
			return nil, fmt.Errorf("failed to scan cross-reference: %w", err)
		}
		list = append(list, &xref)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cross-references: %w", err)
	}
	return list, nil
}

func (d *DB) DeleteDuplicateCrossRefs(ctx context.Context) (int64, error) {
	stmt := `
		DELETE FROM category_xref
		WHERE rowid NOT IN (
			SELECT MIN(rowid)
			FROM category_xref
			GROUP BY flashcard_id, category_name
		)`
	result, err := d.db.ExecContext(ctx, stmt)
	if err != nil {
		return 0, fmt.Errorf("failed to delete duplicate cross-references: %w", err)
	}
	return result.RowsAffected()
}
