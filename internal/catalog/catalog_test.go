package catalog

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/justinphan3110cais/cais-ai-dashboard/internal/models"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const datasetsYAML = `datasets:
  - id: hle
    name: Humanity's Last Exam
    tags: [expert-knowledge]
  - id: hallucination
    name: Hallucination Rate
    polarity: lower_is_better
    transform: invert
  - id: mmmu
    name: MMMU
    section: vision
`

const modelsYAML = `models:
  - name: m1
    provider: alpha
    release_date: "2025-01-01"
    scores:
      hle: 20
      hallucination: 30
  - name: m2
    provider: beta
    size: mini
    scores:
      hle: null
`

const modelsJSONArray = `[
  {"name": "m1", "provider": "alpha", "scores": {"hle": 25.5}},
  {"name": "m2", "provider": "beta", "scores": {"hle": null}}
]`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func writeGzip(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	ds := FileSource{Path: writeFile(t, dir, "datasets.yaml", datasetsYAML)}
	ms := FileSource{Path: writeFile(t, dir, "models.yaml", modelsYAML)}

	snap, err := Load(context.Background(), ds, ms)
	require.NoError(t, err)
	require.NotEmpty(t, snap.Version)
	assert.False(t, snap.LoadedAt.IsZero())

	c := snap.Catalog
	require.Len(t, c.Datasets, 3)
	assert.Equal(t, models.HigherIsBetter, c.Datasets[0].Polarity, "polarity defaults to higher")
	assert.Equal(t, models.SectionText, c.Datasets[0].Section)
	assert.Equal(t, models.SectionVision, c.Datasets[2].Section)
	require.NotNil(t, c.Datasets[1].Transform)
	assert.Equal(t, models.TransformInvert, c.Datasets[1].Transform.Type)
	assert.Equal(t, models.DefaultInvertMax, c.Datasets[1].Transform.Max)

	require.Len(t, c.Models, 2)
	assert.Equal(t, models.SizeStandard, c.Models[0].Size, "size defaults to standard")
	assert.Equal(t, models.SizeMini, c.Models[1].Size)
	assert.Equal(t, models.ScoreOf(20), c.Models[0].Scores["hle"])
	assert.False(t, c.Models[1].Scores["hle"].Present)
}

func TestLoad_GzipAndJSONArray(t *testing.T) {
	dir := t.TempDir()
	ds := FileSource{Path: writeGzip(t, dir, "datasets.yaml.gz", datasetsYAML)}
	ms := FileSource{Path: writeGzip(t, dir, "models.json.gz", modelsJSONArray)}

	snap, err := Load(context.Background(), ds, ms)
	require.NoError(t, err)
	assert.Len(t, snap.Catalog.Datasets, 3)
	require.Len(t, snap.Catalog.Models, 2)
	assert.Equal(t, models.ScoreOf(25.5), snap.Catalog.Models[0].Scores["hle"])
	assert.False(t, snap.Catalog.Models[1].Scores["hle"].Present)
}

func TestLoad_SchemaError(t *testing.T) {
	dir := t.TempDir()
	ds := FileSource{Path: writeFile(t, dir, "datasets.yaml", "datasets:\n  - name: no id\n")}
	ms := FileSource{Path: writeFile(t, dir, "models.yaml", modelsYAML)}

	_, err := Load(context.Background(), ds, ms)
	require.Error(t, err)
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, ds.Path, schemaErr.Source)
	assert.NotEmpty(t, schemaErr.Problems)
}

func TestLoad_CatalogError(t *testing.T) {
	dir := t.TempDir()
	ds := FileSource{Path: writeFile(t, dir, "datasets.yaml", "datasets:\n  - id: a\n  - id: a\n")}
	ms := FileSource{Path: writeFile(t, dir, "models.yaml", "models: []\n")}

	_, err := Load(context.Background(), ds, ms)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate id "a"`)
}

func TestLoad_MissingFile(t *testing.T) {
	dir := t.TempDir()
	ds := FileSource{Path: filepath.Join(dir, "nope.yaml")}
	ms := FileSource{Path: writeFile(t, dir, "models.yaml", modelsYAML)}

	_, err := Load(context.Background(), ds, ms)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoad_NoSources(t *testing.T) {
	_, err := Load(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrNoCatalog)
}

type fakeDownloader struct {
	mu    sync.Mutex
	blobs map[string]string
	calls []string
}

func (f *fakeDownloader) DownloadStream(_ context.Context, container, blob string, _ *azblob.DownloadStreamOptions) (azblob.DownloadStreamResponse, error) {
	key := container + "/" + blob
	f.mu.Lock()
	f.calls = append(f.calls, key)
	f.mu.Unlock()
	content, ok := f.blobs[key]
	if !ok {
		return azblob.DownloadStreamResponse{}, errors.New("BlobNotFound")
	}
	var resp azblob.DownloadStreamResponse
	resp.Body = io.NopCloser(strings.NewReader(content))
	return resp, nil
}

func TestBlobSource(t *testing.T) {
	fake := &fakeDownloader{blobs: map[string]string{
		"catalogs/datasets.yaml": datasetsYAML,
		"catalogs/models.json":   modelsJSONArray,
	}}
	ds := &BlobSource{Client: fake, Container: "catalogs", Blob: "datasets.yaml"}
	ms := &BlobSource{Client: fake, Container: "catalogs", Blob: "models.json"}
	assert.Equal(t, "azblob://catalogs/datasets.yaml", ds.Name())

	snap, err := Load(context.Background(), ds, ms)
	require.NoError(t, err)
	assert.Len(t, snap.Catalog.Models, 2)
	assert.ElementsMatch(t, []string{"catalogs/datasets.yaml", "catalogs/models.json"}, fake.calls)

	missing := &BlobSource{Client: fake, Container: "catalogs", Blob: "gone.yaml"}
	_, err = Load(context.Background(), missing, ms)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "azblob://catalogs/gone.yaml")
}

func TestParseBlobRef(t *testing.T) {
	container, blob, err := ParseBlobRef("azblob://catalogs/2025/models.yaml.gz")
	require.NoError(t, err)
	assert.Equal(t, "catalogs", container)
	assert.Equal(t, "2025/models.yaml.gz", blob)

	for _, bad := range []string{"catalogs/models.yaml", "azblob://catalogs", "azblob:///models.yaml", "azblob://catalogs/"} {
		_, _, err := ParseBlobRef(bad)
		assert.Error(t, err, bad)
	}
}

func TestOpenRef_LocalPath(t *testing.T) {
	src, err := OpenRef("data/models.yaml", "")
	require.NoError(t, err)
	assert.Equal(t, FileSource{Path: "data/models.yaml"}, src)

	_, err = OpenRef("azblob://catalogs/models.yaml", "")
	assert.Error(t, err, "blob references need an account URL")
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "json", format("models.json"))
	assert.Equal(t, "json", format("MODELS.JSON.GZ"))
	assert.Equal(t, "yaml", format("models.yaml"))
	assert.Equal(t, "yaml", format("models.yml.gz"))
	assert.Equal(t, "yaml", format("models"))
}

func newTestStore(t *testing.T, editMode bool) *Store {
	t.Helper()
	dir := t.TempDir()
	ds := FileSource{Path: writeFile(t, dir, "datasets.yaml", datasetsYAML)}
	ms := FileSource{Path: writeFile(t, dir, "models.yaml", modelsYAML)}
	return NewStore(ds, ms, editMode, nil)
}

func TestStore_LazyLoadAndReload(t *testing.T) {
	s := newTestStore(t, false)
	ctx := context.Background()

	first, err := s.Snapshot(ctx)
	require.NoError(t, err)
	again, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Same(t, first, again)

	reloaded, err := s.Reload(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first.Version, reloaded.Version)

	current, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Same(t, reloaded, current)
}

func TestStore_ReloadFailureKeepsSnapshot(t *testing.T) {
	dir := t.TempDir()
	dsPath := writeFile(t, dir, "datasets.yaml", datasetsYAML)
	s := NewStore(FileSource{Path: dsPath}, FileSource{Path: writeFile(t, dir, "models.yaml", modelsYAML)}, false, nil)
	ctx := context.Background()

	first, err := s.Snapshot(ctx)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(dsPath, []byte("datasets: nope\n"), 0644))
	_, err = s.Reload(ctx)
	require.Error(t, err)

	current, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Same(t, first, current)
}

func TestStore_ReplaceModels(t *testing.T) {
	ctx := context.Background()

	_, err := newTestStore(t, false).ReplaceModels(ctx, nil)
	assert.ErrorIs(t, err, ErrEditDisabled)

	s := newTestStore(t, true)
	before, err := s.Snapshot(ctx)
	require.NoError(t, err)

	edited := []models.Model{{Name: "fresh", Provider: "gamma", Scores: map[string]models.Score{"hle": models.ScoreOf(99)}}}
	after, err := s.ReplaceModels(ctx, edited)
	require.NoError(t, err)
	assert.NotEqual(t, before.Version, after.Version)
	assert.Equal(t, before.Catalog.Datasets, after.Catalog.Datasets)
	require.Len(t, after.Catalog.Models, 1)
	assert.Equal(t, models.SizeStandard, after.Catalog.Models[0].Size)
	assert.Equal(t, models.ModelSize(""), edited[0].Size, "input is not modified")
	assert.Len(t, before.Catalog.Models, 2, "previous snapshot is untouched")

	_, err = s.ReplaceModels(ctx, []models.Model{{Name: "dup"}, {Name: "dup"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate name "dup"`)
}

func TestStore_ReplaceModelsDuringReloadKeepsNewDatasets(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	dsPath := writeFile(t, dir, "datasets.yaml", datasetsYAML)
	s := NewStore(FileSource{Path: dsPath}, FileSource{Path: writeFile(t, dir, "models.yaml", modelsYAML)}, true, nil)
	_, err := s.Snapshot(ctx)
	require.NoError(t, err)

	extended := datasetsYAML + "  - id: swe\n    name: SWE-bench\n"
	require.NoError(t, os.WriteFile(dsPath, []byte(extended), 0644))

	edited := []models.Model{{Name: "fresh", Provider: "gamma"}}
	for i := 0; i < 20; i++ {
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := s.Reload(ctx)
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := s.ReplaceModels(ctx, edited)
			assert.NoError(t, err)
		}()
		wg.Wait()

		current, err := s.Snapshot(ctx)
		require.NoError(t, err)
		_, ok := current.Catalog.Dataset("swe")
		assert.True(t, ok, "round %d: model edit must not restore the old dataset list", i)
	}
}

func TestStore_Dataset(t *testing.T) {
	s := newTestStore(t, false)
	ctx := context.Background()

	d, err := s.Dataset(ctx, "hle")
	require.NoError(t, err)
	assert.Equal(t, "Humanity's Last Exam", d.Name)

	_, err = s.Dataset(ctx, "missing")
	assert.ErrorIs(t, err, ErrDatasetNotFound)
}

func TestStore_FromSnapshot(t *testing.T) {
	snap := NewSnapshot(&models.Catalog{})
	s := NewStoreFromSnapshot(snap, false)
	got, err := s.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Same(t, snap, got)

	_, err = s.Reload(context.Background())
	assert.ErrorIs(t, err, ErrNoCatalog)
}
