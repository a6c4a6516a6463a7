package course

import (
	"context"
	"fmt"

	"github.com/somalms/soma/core/resource"
)

// Store is the courses collection, usually scoped to one formation.
type Store struct {
	*resource.Store[Course]
}

func NewStore(deps resource.Deps) *Store {
	return &Store{Store: resource.NewStore[Course]("courses", "/courses", deps)}
}

// FetchForFormation loads the courses of one formation.
func (s *Store) FetchForFormation(ctx context.Context, formationID int) error {
	return s.FetchFrom(ctx, fmt.Sprintf("/formations/%d/courses", formationID), nil)
}

// ChapterStore is the chapters collection of one course at a time.
type ChapterStore struct {
	*resource.Store[Chapter]
}

func NewChapterStore(deps resource.Deps) *ChapterStore {
	return &ChapterStore{Store: resource.NewStore[Chapter]("chapters", "/chapters", deps)}
}

// FetchForCourse loads the chapters of one course.
func (s *ChapterStore) FetchForCourse(ctx context.Context, courseID int) error {
	return s.FetchFrom(ctx, fmt.Sprintf("/courses/%d/chapters", courseID), nil)
}

// Ordered returns the chapters sorted by their manual order_index.
func (s *ChapterStore) Ordered() []Chapter {
	chapters := s.Items()
	sortByOrder(chapters)
	return chapters
}

// Reorder persists a manual chapter order for the course, then resynchronizes.
func (s *ChapterStore) Reorder(ctx context.Context, courseID int, orderedIDs []int) error {
	body := struct {
		ChapterIDs []int `json:"chapter_ids"`
	}{ChapterIDs: orderedIDs}

	return s.Mutate(ctx, "chapter order saved", func(ctx context.Context) error {
		return s.Depends().Client.Put(ctx, fmt.Sprintf("/courses/%d/chapters/reorder", courseID), body, nil)
	})
}
