package course_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"

	"github.com/somalms/soma/core/course"
	testutil "github.com/somalms/soma/tests"
)

func TestChapterStore_ordered(t *testing.T) {
	e := echo.New()
	e.GET("/courses/3/chapters", func(c echo.Context) error {
		return c.JSON(http.StatusOK, []course.Chapter{
			{ID: 10, CourseID: 3, Title: "Fin", OrderIndex: 2},
			{ID: 12, CourseID: 3, Title: "Debut", OrderIndex: 0},
			{ID: 11, CourseID: 3, Title: "Milieu", OrderIndex: 1},
		})
	})
	env := testutil.NewEnv(t, e)
	store := course.NewChapterStore(env.Deps())

	assert.NoError(t, store.FetchForCourse(context.Background(), 3))

	got := store.Ordered()
	if assert.Len(t, got, 3) {
		assert.Equal(t, []string{"Debut", "Milieu", "Fin"}, []string{got[0].Title, got[1].Title, got[2].Title})
	}
}

// two courses' chapters must not cross-pollinate through the cache
func TestChapterStore_nestedPathsCacheSeparately(t *testing.T) {
	e := echo.New()
	e.GET("/courses/:id/chapters", func(c echo.Context) error {
		if c.Param("id") == "1" {
			return c.JSON(http.StatusOK, []course.Chapter{{ID: 1, CourseID: 1, Title: "Un"}})
		}
		return c.JSON(http.StatusOK, []course.Chapter{{ID: 2, CourseID: 2, Title: "Deux"}})
	})
	env := testutil.NewEnv(t, e)
	store := course.NewChapterStore(env.Deps())
	ctx := context.Background()

	assert.NoError(t, store.FetchForCourse(ctx, 1))
	assert.Equal(t, "Un", store.Items()[0].Title)

	assert.NoError(t, store.FetchForCourse(ctx, 2))
	assert.Equal(t, "Deux", store.Items()[0].Title)

	// back to course 1, now cache-served, still course 1's chapters
	assert.NoError(t, store.FetchForCourse(ctx, 1))
	assert.Equal(t, "Un", store.Items()[0].Title)
}

func TestChapterStore_reorder(t *testing.T) {
	order := []int{10, 11, 12}
	e := echo.New()
	e.GET("/courses/3/chapters", func(c echo.Context) error {
		chapters := make([]course.Chapter, 0, len(order))
		for i, id := range order {
			chapters = append(chapters, course.Chapter{ID: id, CourseID: 3, OrderIndex: i})
		}
		return c.JSON(http.StatusOK, chapters)
	})
	e.PUT("/courses/3/chapters/reorder", func(c echo.Context) error {
		var in struct {
			ChapterIDs []int `json:"chapter_ids"`
		}
		if err := c.Bind(&in); err != nil {
			return err
		}
		order = in.ChapterIDs
		return c.NoContent(http.StatusNoContent)
	})
	env := testutil.NewEnv(t, e)
	env.LogIn(t, testutil.Teacher())
	store := course.NewChapterStore(env.Deps())
	ctx := context.Background()

	assert.NoError(t, store.FetchForCourse(ctx, 3))
	assert.NoError(t, store.Reorder(ctx, 3, []int{12, 10, 11}))

	got := store.Ordered()
	if assert.Len(t, got, 3) {
		assert.Equal(t, []int{12, 10, 11}, []int{got[0].ID, got[1].ID, got[2].ID})
	}
}

func TestChapter_hasAttachment(t *testing.T) {
	assert.False(t, course.Chapter{}.HasAttachment())
	assert.True(t, course.Chapter{FileURL: null.StringFrom("/storage/doc.pdf")}.HasAttachment())
	assert.True(t, course.Chapter{VideoURL: null.StringFrom("https://video.test.cd/1")}.HasAttachment())
}
