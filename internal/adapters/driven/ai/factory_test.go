package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albertobertheau/lola-agent-app/internal/core/ports/driven"
)

// fakeConfig is a minimal in-memory ConfigStore for factory tests.
type fakeConfig struct {
	values map[string]any
}

func (f *fakeConfig) Get(key string) (any, bool) {
	v, ok := f.values[key]
	return v, ok
}

func (f *fakeConfig) GetString(key string) string {
	v, _ := f.values[key].(string)
	return v
}

func (f *fakeConfig) GetInt(key string) int {
	v, _ := f.values[key].(int)
	return v
}

func (f *fakeConfig) GetBool(key string) bool {
	v, _ := f.values[key].(bool)
	return v
}

func (f *fakeConfig) Set(key string, value any) error {
	if f.values == nil {
		f.values = make(map[string]any)
	}
	f.values[key] = value
	return nil
}

func (f *fakeConfig) Save() error { return nil }

var _ driven.ConfigStore = (*fakeConfig)(nil)

func TestCreateCompletionService_DefaultsToGemini(t *testing.T) {
	t.Setenv(EnvGeminiAPIKey, "test-key")

	svc, err := CreateCompletionService(&fakeConfig{})

	require.NoError(t, err)
	assert.Equal(t, "gemini-pro-latest", svc.ModelName())
}

func TestCreateCompletionService_OpenAI(t *testing.T) {
	t.Setenv(EnvOpenAIAPIKey, "test-key")
	cfg := &fakeConfig{values: map[string]any{
		driven.ConfigAIProvider: ProviderOpenAI,
		driven.ConfigAIModel:    "gpt-4o",
	}}

	svc, err := CreateCompletionService(cfg)

	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", svc.ModelName())
}

func TestCreateCompletionService_UnknownProvider(t *testing.T) {
	cfg := &fakeConfig{values: map[string]any{driven.ConfigAIProvider: "bard"}}

	_, err := CreateCompletionService(cfg)
	require.Error(t, err)
}

func TestCreateCompletionService_MissingKey(t *testing.T) {
	t.Setenv(EnvGeminiAPIKey, "")

	_, err := CreateCompletionService(&fakeConfig{})
	require.Error(t, err)
}

func TestCreateEmbeddingService_DefaultsToLocalWithoutKey(t *testing.T) {
	t.Setenv(EnvOpenAIAPIKey, "")

	svc, err := CreateEmbeddingService(&fakeConfig{})

	require.NoError(t, err)
	assert.Equal(t, 384, svc.Dimensions())
}

func TestCreateEmbeddingService_DefaultsToOpenAIWithKey(t *testing.T) {
	t.Setenv(EnvOpenAIAPIKey, "test-key")

	svc, err := CreateEmbeddingService(&fakeConfig{})

	require.NoError(t, err)
	assert.Equal(t, 1536, svc.Dimensions())
}

func TestCreateEmbeddingService_ExplicitLocal(t *testing.T) {
	t.Setenv(EnvOpenAIAPIKey, "test-key")
	cfg := &fakeConfig{values: map[string]any{driven.ConfigEmbeddingProvider: ProviderLocal}}

	svc, err := CreateEmbeddingService(cfg)

	require.NoError(t, err)
	assert.Equal(t, 384, svc.Dimensions())
}

func TestCreateEmbeddingService_UnknownProvider(t *testing.T) {
	cfg := &fakeConfig{values: map[string]any{driven.ConfigEmbeddingProvider: "cohere"}}

	_, err := CreateEmbeddingService(cfg)
	require.Error(t, err)
}
