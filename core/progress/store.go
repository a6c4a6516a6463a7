// Package progress tracks chapter completion for the current user.
package progress

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/somalms/soma/core/resource"
)

// ChapterProgress is one completion record.
type ChapterProgress struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	ChapterID   int       `json:"chapter_id"`
	FormationID int       `json:"formation_id"`
	Completed   bool      `json:"completed"`
	CompletedAt null.Time `json:"completed_at"`
}

type Store struct {
	*resource.Store[ChapterProgress]
}

func NewStore(deps resource.Deps) *Store {
	return &Store{Store: resource.NewStore[ChapterProgress]("progress", "/progress", deps)}
}

// FetchForFormation loads my completion records within one formation.
func (s *Store) FetchForFormation(ctx context.Context, formationID int) error {
	params := url.Values{"formation_id": []string{strconv.Itoa(formationID)}}
	return s.Fetch(ctx, params)
}

// MarkComplete records a chapter as done; enrollments carry the derived
// percentage server-side, so they are invalidated too.
func (s *Store) MarkComplete(ctx context.Context, chapterID int) error {
	return s.Mutate(ctx, "chapter completed", func(ctx context.Context) error {
		return s.Depends().Client.Post(ctx, fmt.Sprintf("/chapters/%d/complete", chapterID), nil, nil)
	}, "enrollments")
}

// MarkIncomplete reverts a completion.
func (s *Store) MarkIncomplete(ctx context.Context, chapterID int) error {
	return s.Mutate(ctx, "", func(ctx context.Context) error {
		return s.Depends().Client.Delete(ctx, fmt.Sprintf("/chapters/%d/complete", chapterID))
	}, "enrollments")
}

// IsChapterComplete is a pure projection over the fetched records.
func (s *Store) IsChapterComplete(chapterID int) bool {
	for _, p := range s.Items() {
		if p.ChapterID == chapterID && p.Completed {
			return true
		}
	}
	return false
}

// CompletionPercent recomputes the percentage on every call; nothing caches it.
func (s *Store) CompletionPercent(totalChapters int) float64 {
	if totalChapters <= 0 {
		return 0
	}
	var done int
	for _, p := range s.Items() {
		if p.Completed {
			done++
		}
	}
	return float64(done) / float64(totalChapters) * 100
}

// LastActivity returns the most recent completion time, if any.
func (s *Store) LastActivity() (time.Time, bool) {
	var last time.Time
	for _, p := range s.Items() {
		if p.CompletedAt.Valid && p.CompletedAt.Time.After(last) {
			last = p.CompletedAt.Time
		}
	}
	return last, !last.IsZero()
}
