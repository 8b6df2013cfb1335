package serviceImp

import (
	"strings"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vazovski37/argon-backend/entities"
	"github.com/vazovski37/argon-backend/pkg/embedder"
	"github.com/vazovski37/argon-backend/pkg/rag/repositoryImp"
	"github.com/vazovski37/argon-backend/pkg/rag/types"
)

func testSvc(t *testing.T, emb embedder.Embedder) *Svc {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.KnowledgeChunk{}))
	return New(repositoryImp.New(db), emb)
}

func TestIngestValidation(t *testing.T) {
	s := testSvc(t, embedder.NewMock(32))
	_, err := s.Ingest("", "history", "", nil, 0, 0)
	assert.Error(t, err)
	_, err = s.Ingest("some text", "", "", nil, 0, 0)
	assert.Error(t, err)
	_, err = s.Ingest("some text", "history", "", nil, 100, 100)
	assert.Error(t, err)
}

func TestIngestShortTextCreatesOneChunk(t *testing.T) {
	s := testSvc(t, embedder.NewMock(32))
	count, err := s.Ingest("Poti is a port city. It has a lighthouse.", "history", "poti.txt", nil, 500, 50)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	stats, err := s.Stats()
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalChunks)
	assert.EqualValues(t, 1, stats.WithEmbeddings)
	assert.EqualValues(t, 1, stats.Categories["history"])
}

func TestIngestSurvivesEmbeddingFailure(t *testing.T) {
	emb := embedder.NewMock(32)
	emb.Err = embedder.ErrUnavailable
	s := testSvc(t, emb)

	count, err := s.Ingest("Poti is a port city. It has a lighthouse.", "history", "", nil, 500, 50)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	stats, err := s.Stats()
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalChunks)
	assert.EqualValues(t, 0, stats.WithEmbeddings)
}

func TestRetrieveExactContentScoresNearOne(t *testing.T) {
	s := testSvc(t, embedder.NewMock(64))
	content := "Poti is a port city. It has a lighthouse."
	_, err := s.Ingest(content, "history", "", nil, 500, 50)
	require.NoError(t, err)

	results, err := s.Retrieve(content, 5, "", 0.5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.InDelta(t, 1.0, results[0].Similarity, 1e-6)
	assert.Equal(t, "history", results[0].Category)
}

func TestRetrieveFallsBackToLexicalSearch(t *testing.T) {
	emb := embedder.NewMock(32)
	s := testSvc(t, emb)
	_, err := s.Ingest("Poti is a port city. It has a lighthouse.", "history", "", nil, 500, 50)
	require.NoError(t, err)

	// backend dies after ingestion
	emb.Err = embedder.ErrUnavailable
	results, err := s.Retrieve("lighthouse", 5, "", 0.5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, types.FallbackScore, results[0].Similarity)
	assert.Contains(t, results[0].Content, "lighthouse")
}

func TestRetrieveValidation(t *testing.T) {
	s := testSvc(t, embedder.NewMock(32))
	_, err := s.Retrieve("   ", 5, "", 0.5)
	assert.Error(t, err)
}

func TestBuildContextEmpty(t *testing.T) {
	s := testSvc(t, embedder.NewMock(32))
	ctx, err := s.BuildContext("anything at all", 5, nil)
	require.NoError(t, err)
	assert.Empty(t, ctx)
}

func TestBuildContextFormatting(t *testing.T) {
	s := testSvc(t, embedder.NewMock(64))
	content := "Poti is a port city. It has a lighthouse."
	_, err := s.Ingest(content, "history", "", nil, 500, 50)
	require.NoError(t, err)

	ctx, err := s.BuildContext(content, 5, []string{"Poti Lighthouse"})
	require.NoError(t, err)
	assert.Contains(t, ctx, "## Relevant Information")
	assert.Contains(t, ctx, "[HISTORY]: Poti is a port city. It has a lighthouse.")
	assert.Contains(t, ctx, "## User has visited: Poti Lighthouse")
}

func TestBuildContextLexicalFallback(t *testing.T) {
	emb := embedder.NewMock(32)
	s := testSvc(t, emb)
	_, err := s.Ingest("Poti is a port city. It has a lighthouse.", "history", "", nil, 500, 50)
	require.NoError(t, err)

	emb.Err = embedder.ErrUnavailable
	ctx, err := s.BuildContext("lighthouse", 5, []string{"Poti Lighthouse", "Old Port"})
	require.NoError(t, err)
	assert.Contains(t, ctx, "[HISTORY]: Poti is a port city. It has a lighthouse.")
	assert.Contains(t, ctx, "## User has visited: Poti Lighthouse, Old Port")
}

func TestBuildContextUncategorizedChunksTaggedInfo(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.KnowledgeChunk{}))
	repo := repositoryImp.New(db)
	emb := embedder.NewMock(32)
	s := New(repo, emb)

	// no category on the row itself; only ingestion enforces one
	require.NoError(t, repo.Insert(&entities.KnowledgeChunk{
		Content: "The marshrutka to Batumi leaves hourly.",
	}))

	emb.Err = embedder.ErrUnavailable
	ctx, err := s.BuildContext("marshrutka", 5, nil)
	require.NoError(t, err)
	assert.Contains(t, ctx, "[INFO]: The marshrutka to Batumi leaves hourly.")
}

func TestDeleteByCategoryThenRetrieve(t *testing.T) {
	s := testSvc(t, embedder.NewMock(64))
	_, err := s.Ingest("Khachapuri is everywhere.", "restaurant", "", nil, 500, 50)
	require.NoError(t, err)
	_, err = s.Ingest("Poti was founded as Phasis.", "history", "", nil, 500, 50)
	require.NoError(t, err)

	before, err := s.Stats()
	require.NoError(t, err)

	n, err := s.DeleteByCategory("restaurant")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	after, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, before.TotalChunks-n, after.TotalChunks)

	results, err := s.Retrieve("Khachapuri is everywhere.", 5, "restaurant", 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestDeleteBySourceSupportsReingestion(t *testing.T) {
	s := testSvc(t, embedder.NewMock(64))
	_, err := s.Ingest("Old facts about the harbour.", "history", "guide.txt", nil, 500, 50)
	require.NoError(t, err)

	n, err := s.DeleteBySource("guide.txt")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	count, err := s.Ingest("New facts about the harbour.", "history", "guide.txt", nil, 500, 50)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	results, err := s.Retrieve("New facts about the harbour.", 5, "", 0.5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "New facts about the harbour.", results[0].Content)
}

func TestIngestSplitsLongContent(t *testing.T) {
	s := testSvc(t, embedder.NewMock(64))
	content := strings.Repeat("Poti stands where the Rioni river meets the Black Sea. ", 30)
	count, err := s.Ingest(content, "history", "", nil, 200, 20)
	require.NoError(t, err)
	assert.Greater(t, count, 1)

	stats, err := s.Stats()
	require.NoError(t, err)
	assert.EqualValues(t, count, stats.TotalChunks)
}
