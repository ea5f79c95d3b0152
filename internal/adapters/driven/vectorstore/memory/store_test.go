package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albertobertheau/lola-agent-app/internal/adapters/driven/embedding/local"
	"github.com/albertobertheau/lola-agent-app/internal/core/domain"
)

func chunk(id, content, fileID, fileName string) domain.Chunk {
	return domain.Chunk{
		ID:      id,
		Content: content,
		Metadata: domain.ChunkMetadata{
			FileID:   fileID,
			FileName: fileName,
		},
	}
}

func TestAddAndQuery(t *testing.T) {
	store := NewStore(local.NewEmbeddingService(64))
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, chunk("f1-0", "resumen de ventas trimestrales", "f1", "Ventas.gdoc")))
	require.NoError(t, store.Add(ctx, chunk("f2-0", "historia del arte barroco", "f2", "Arte.gdoc")))

	results, err := store.Query(ctx, "ventas trimestrales", 1)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "f1-0", results[0].ID)
}

func TestAdd_DuplicateIDFails(t *testing.T) {
	store := NewStore(local.NewEmbeddingService(64))
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, chunk("f1-0", "uno", "f1", "Doc.gdoc")))
	assert.Error(t, store.Add(ctx, chunk("f1-0", "dos", "f1", "Doc.gdoc")))
}

func TestUpsert_Replaces(t *testing.T) {
	store := NewStore(local.NewEmbeddingService(64))
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, chunk("f1-0", "viejo", "f1", "Doc.gdoc")))
	require.NoError(t, store.Upsert(ctx, chunk("f1-0", "nuevo", "f1", "Doc.gdoc")))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDeleteByFile(t *testing.T) {
	store := NewStore(local.NewEmbeddingService(64))
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, chunk("f1-0", "uno", "f1", "Doc.gdoc")))
	require.NoError(t, store.Add(ctx, chunk("f1-1", "dos", "f1", "Doc.gdoc")))
	require.NoError(t, store.Add(ctx, chunk("f2-0", "tres", "f2", "Otro.gdoc")))

	require.NoError(t, store.DeleteByFile(ctx, "f1"))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	names, err := store.FileNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Otro.gdoc"}, names)
}

func TestFileNames_DistinctSorted(t *testing.T) {
	store := NewStore(local.NewEmbeddingService(64))
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, chunk("f2-0", "b", "f2", "Zeta.gdoc")))
	require.NoError(t, store.Add(ctx, chunk("f1-0", "a", "f1", "Alfa.gdoc")))
	require.NoError(t, store.Add(ctx, chunk("f1-1", "c", "f1", "Alfa.gdoc")))

	names, err := store.FileNames(ctx)

	require.NoError(t, err)
	assert.Equal(t, []string{"Alfa.gdoc", "Zeta.gdoc"}, names)
}

func TestQuery_EmptyStore(t *testing.T) {
	store := NewStore(local.NewEmbeddingService(64))

	results, err := store.Query(context.Background(), "algo", 5)

	require.NoError(t, err)
	assert.Empty(t, results)
}
