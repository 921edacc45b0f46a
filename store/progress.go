package store

import (
	"context"
)

// CourseProgress is the per-course cursor and activity window, one row per
// course. Swipes[0] is today, Swipes[6] six days ago; the day-shift engine
// keeps the window aligned to calendar days via LastCheckedEpochDay.
type CourseProgress struct {
	CourseID            string
	ProgressedSection   int
	ProgressedUnit      int
	TotalSwipes         int
	Swipes              [7]int
	LastCheckedEpochDay int64
}

// FindCourseProgress is the find condition for course progress rows.
type FindCourseProgress struct {
	CourseID *string
}

// UpdateCourseProgress is the update request for a course progress row.
type UpdateCourseProgress struct {
	CourseID            string
	ProgressedSection   *int
	ProgressedUnit      *int
	TotalSwipes         *int
	Swipes              *[7]int
	LastCheckedEpochDay *int64
}

// UpsertCourseProgress creates or replaces a course progress row.
func (s *Store) UpsertCourseProgress(ctx context.Context, upsert *CourseProgress) (*CourseProgress, error) {
	return s.driver.UpsertCourseProgress(ctx, upsert)
}

// ListCourseProgress lists progress rows with filter.
func (s *Store) ListCourseProgress(ctx context.Context, find *FindCourseProgress) ([]*CourseProgress, error) {
	return s.driver.ListCourseProgress(ctx, find)
}

// GetCourseProgress gets the progress row for a course, or nil if none exists.
func (s *Store) GetCourseProgress(ctx context.Context, courseID string) (*CourseProgress, error) {
	list, err := s.driver.ListCourseProgress(ctx, &FindCourseProgress{CourseID: &courseID})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// UpdateCourseProgress updates a progress row in place.
func (s *Store) UpdateCourseProgress(ctx context.Context, update *UpdateCourseProgress) error {
	return s.driver.UpdateCourseProgress(ctx, update)
}
