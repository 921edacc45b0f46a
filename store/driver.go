package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// Insight model related methods.
	CreateInsight(ctx context.Context, create *Insight) (*Insight, error)
	ListInsights(ctx context.Context, find *FindInsight) ([]*Insight, error)
	UpdateInsight(ctx context.Context, update *UpdateInsight) error
	ResetInsightCounters(ctx context.Context) (int64, error)
	DeleteAllInsights(ctx context.Context) error
	DeleteDuplicateInsights(ctx context.Context) (int64, error)
	SumTimesReviewed(ctx context.Context) (int64, error)

	// Selection related methods.
	ListInsightScores(ctx context.Context, find *FindInsightScore) ([]*InsightScore, error)
	ListRecentInsightPositions(ctx context.Context, find *FindRecentInsightPosition) ([]*InsightPosition, error)

	// Category model related methods.
	ListCategories(ctx context.Context) ([]*Category, error)
	UpsertCrossRef(ctx context.Context, upsert *CrossRef) error
	ListCrossRefs(ctx context.Context, find *FindCrossRef) ([]*CrossRef, error)
	DeleteDuplicateCrossRefs(ctx context.Context) (int64, error)

	// CourseProgress model related methods.
	UpsertCourseProgress(ctx context.Context, upsert *CourseProgress) (*CourseProgress, error)
	ListCourseProgress(ctx context.Context, find *FindCourseProgress) ([]*CourseProgress, error)
	UpdateCourseProgress(ctx context.Context, update *UpdateCourseProgress) error

	// System setting methods used by the migrator.
	GetSystemSetting(ctx context.Context, name string) (string, error)
	UpsertSystemSetting(ctx context.Context, name, value string) error
}
