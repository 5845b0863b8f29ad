package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padhai-app/padhai/core"
	"github.com/padhai-app/padhai/core/catalog"
	inmemdb "github.com/padhai-app/padhai/storage/database/inmem"
)

func setup(t *testing.T) *catalog.Service {
	db, err := inmemdb.Open()
	require.NoError(t, err)
	return catalog.NewService(inmemdb.NewCatalogRepository(db))
}

func TestCourses(t *testing.T) {
	svc := setup(t)

	course, err := svc.CreateCourse(catalog.NewCourse{
		Name: "Class 10 CBSE", ClassLevel: 10, Batch: "A", Fee: 50000, Type: catalog.CourseClassroom,
	})
	require.NoError(t, err)

	t.Run("bad type", func(t *testing.T) {
		_, err := svc.CreateCourse(catalog.NewCourse{
			Name: "x", ClassLevel: 10, Batch: "A", Type: "hybrid",
		})
		assert.Error(t, err)
	})

	t.Run("list", func(t *testing.T) {
		courses, err := svc.Courses()
		require.NoError(t, err)
		require.Len(t, courses, 1)
		assert.Equal(t, course.ID, courses[0].ID)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.DeleteCourse(course.ID))
		assert.True(t, core.IsNotFound(svc.DeleteCourse(course.ID)))
	})
}

func TestNotes(t *testing.T) {
	svc := setup(t)

	note := func(t *testing.T, title string, classLevel int, batch string) catalog.Note {
		n, err := svc.CreateNote(catalog.NewNote{
			Title: title, URL: "https://files.test.com/" + title + ".pdf",
			ClassLevel: classLevel, Batch: batch, UploadedBy: "t1",
		})
		require.NoError(t, err)
		return n
	}

	forAll := note(t, "algebra", 10, "all")
	batchA := note(t, "grammar", 10, "A")
	note(t, "physics", 11, "A")

	t.Run("upload stamps the date", func(t *testing.T) {
		assert.Equal(t, core.Today(), forAll.UploadedDate)
	})

	t.Run("invalid url", func(t *testing.T) {
		_, err := svc.CreateNote(catalog.NewNote{
			Title: "x", URL: "not a url", ClassLevel: 10, Batch: "A", UploadedBy: "t1",
		})
		assert.Error(t, err)
	})

	t.Run("batch all matches any batch", func(t *testing.T) {
		notes, err := svc.Notes(catalog.NoteFilter{ClassLevel: 10, Batch: "B"})
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, forAll.ID, notes[0].ID)
	})

	t.Run("batch filter includes class-wide notes", func(t *testing.T) {
		notes, err := svc.Notes(catalog.NoteFilter{ClassLevel: 10, Batch: "A"})
		require.NoError(t, err)
		require.Len(t, notes, 2)
		ids := []string{notes[0].ID, notes[1].ID}
		assert.ElementsMatch(t, []string{forAll.ID, batchA.ID}, ids)
	})

	t.Run("class filter", func(t *testing.T) {
		notes, err := svc.Notes(catalog.NoteFilter{ClassLevel: 11})
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, "physics", notes[0].Title)
	})
}
