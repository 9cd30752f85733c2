package docstore_test

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/noxdb/pkg/docstore"
)

func testSchema() *docstore.BucketDescription {
	return &docstore.BucketDescription{
		Name: "widgets",
		Fields: []docstore.FieldDescriptor{
			{Name: "label", Type: docstore.FieldTypeText},
			{Name: "count", Type: docstore.FieldTypeInt64},
		},
	}
}

func waitForQuiescence(t *testing.T, b *docstore.Bucket) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for b.PendingWrites() > 0 {
		if time.Now().After(deadline) {
			t.Fatal("bucket never quiesced")
		}
		time.Sleep(time.Millisecond)
	}
}

func Test_Open_Creates_A_Fresh_Database_Directory(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "db")

	db, err := docstore.Open(dir, docstore.Options{PageSize: 4096})
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, uint64(4096), db.Descriptor().PageSize)
}

func Test_Open_Reopening_Same_Directory_Observes_Same_Descriptor(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "db")

	db1, err := docstore.Open(dir, docstore.Options{PageSize: 4096})
	require.NoError(t, err)
	d1 := db1.Descriptor()
	require.NoError(t, db1.Close())

	db2, err := docstore.Open(dir, docstore.Options{})
	require.NoError(t, err)
	defer db2.Close()

	assert.Equal(t, d1, db2.Descriptor())
}

func Test_OpenBucket_Requires_Schema_For_New_Bucket(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "db")
	db, err := docstore.Open(dir, docstore.Options{PageSize: 4096})
	require.NoError(t, err)
	defer db.Close()

	_, err = db.OpenBucket("widgets", nil)
	assert.ErrorIs(t, err, docstore.ErrSchemaMissing)
}

func Test_Insert_Then_CountDocuments_After_Quiescence(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "db")
	db, err := docstore.Open(dir, docstore.Options{PageSize: 4096})
	require.NoError(t, err)
	defer db.Close()

	b, err := db.OpenBucket("widgets", testSchema())
	require.NoError(t, err)

	const n = 500
	for i := 0; i < n; i++ {
		doc := &docstore.Document{Fields: []docstore.Field{
			{Name: "label", Type: docstore.FieldTypeText, Value: "widget"},
			{Name: "count", Type: docstore.FieldTypeInt64, Value: int64(i)},
		}}
		_, _, err := b.Insert(doc)
		require.NoError(t, err)
	}

	waitForQuiescence(t, b)

	count, err := b.CountDocuments()
	require.NoError(t, err)
	assert.Equal(t, uint64(n), count)
}

func Test_Insert_From_Many_Goroutines_Produces_No_Overlap(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "db")
	db, err := docstore.Open(dir, docstore.Options{PageSize: 4096})
	require.NoError(t, err)
	defer db.Close()

	b, err := db.OpenBucket("widgets", testSchema())
	require.NoError(t, err)

	const goroutines = 20
	const perGoroutine = 50

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				doc := &docstore.Document{Fields: []docstore.Field{
					{Name: "label", Type: docstore.FieldTypeText, Value: "widget"},
					{Name: "count", Type: docstore.FieldTypeInt64, Value: int64(g*perGoroutine + i)},
				}}
				_, _, err := b.Insert(doc)
				assert.NoError(t, err)
			}
		}(g)
	}
	wg.Wait()

	waitForQuiescence(t, b)

	count, err := b.CountDocuments()
	require.NoError(t, err)
	assert.Equal(t, uint64(goroutines*perGoroutine), count)
}

func Test_Database_Insert_Reports_Conversion_And_Unknown_Bucket_Errors(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "db")
	db, err := docstore.Open(dir, docstore.Options{PageSize: 4096})
	require.NoError(t, err)
	defer db.Close()

	_, err = db.OpenBucket("widgets", testSchema())
	require.NoError(t, err)

	_, _, err = db.Insert("widgets", 0, failingConverter{})
	assert.ErrorIs(t, err, docstore.ErrConversionFailed)

	_, _, err = db.Insert("unknown-bucket", 0, failingConverter{})
	assert.ErrorIs(t, err, docstore.ErrUnknownBucket)
}

type failingConverter struct{}

func (failingConverter) ToDocument() (*docstore.Document, error) {
	return nil, errors.New("boom")
}

func Test_Database_BucketNames_Lists_Page_Files_On_Disk(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "db")
	db, err := docstore.Open(dir, docstore.Options{PageSize: 4096})
	require.NoError(t, err)
	defer db.Close()

	_, err = db.OpenBucket("widgets", testSchema())
	require.NoError(t, err)

	names, err := db.BucketNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"widgets"}, names)
}

func Test_Bucket_Find_And_Drop_Are_Unimplemented(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "db")
	db, err := docstore.Open(dir, docstore.Options{PageSize: 4096})
	require.NoError(t, err)
	defer db.Close()

	b, err := db.OpenBucket("widgets", testSchema())
	require.NoError(t, err)

	assert.ErrorIs(t, b.Find(nil), docstore.ErrUnimplemented)
	assert.ErrorIs(t, b.Drop(nil), docstore.ErrUnimplemented)
}
