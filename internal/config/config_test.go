package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("loads default configuration", func(t *testing.T) {
		cfg, err := New()
		require.NoError(t, err)

		assert.Equal(t, "gemini", cfg.GetLLM().Provider)
		assert.Equal(t, "gemini-pro-latest", cfg.GetGemini().ModelName)
		assert.Equal(t, float32(0), cfg.GetGemini().Temperature)
		assert.Equal(t, "stopwords", cfg.GetNormalizer().Mode)
		assert.Equal(t, "portuguese", cfg.GetNormalizer().Language)
		assert.False(t, cfg.GetBool("cache.enabled"))
		assert.False(t, cfg.GetSMTP().Enabled)

		classifier, err := cfg.GetClassifier()
		require.NoError(t, err)
		assert.Equal(t, 30*time.Second, classifier.RequestTimeout)
		assert.Equal(t, "Não Classificado", classifier.DefaultClassification)
		assert.Equal(t, "Não foi possível gerar uma resposta.", classifier.DefaultReply)

		server, err := cfg.GetServer()
		require.NoError(t, err)
		assert.Equal(t, "0.0.0.0:8000", server.ListenAddress)
		assert.Equal(t, int64(5*1024*1024), server.MaxUploadBytes)
	})

	t.Run("reads prefixed environment variables", func(t *testing.T) {
		t.Setenv("EMAIL_TRIAGE_LLM_PROVIDER", "openai")
		t.Setenv("EMAIL_TRIAGE_CLASSIFIER_REQUEST_TIMEOUT", "5s")
		t.Setenv("EMAIL_TRIAGE_NORMALIZER_MODE", "lowercase")

		cfg, err := New()
		require.NoError(t, err)

		assert.Equal(t, "openai", cfg.GetLLM().Provider)
		assert.Equal(t, "lowercase", cfg.GetNormalizer().Mode)

		classifier, err := cfg.GetClassifier()
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, classifier.RequestTimeout)
	})

	t.Run("accepts the provider's own api key variable", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "gemini-secret")
		t.Setenv("OPENAI_API_KEY", "openai-secret")

		cfg, err := New()
		require.NoError(t, err)

		assert.Equal(t, "gemini-secret", cfg.GetGemini().APIKey)
		assert.Equal(t, "openai-secret", cfg.GetOpenAI().APIKey)
	})

	t.Run("prefixed api key wins over the bare one", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "bare")
		t.Setenv("EMAIL_TRIAGE_GEMINI_API_KEY", "prefixed")

		cfg, err := New()
		require.NoError(t, err)

		assert.Equal(t, "prefixed", cfg.GetGemini().APIKey)
	})
}

func TestNewFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "triage.yaml")
	content := []byte(`
llm:
  provider: bedrock
bedrock:
  region: eu-west-1
smtp:
  enabled: true
  whitelisted_domains:
    - example.com
    - corp.example
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := NewFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "bedrock", cfg.GetLLM().Provider)
	assert.Equal(t, "eu-west-1", cfg.GetBedrock().Region)
	assert.True(t, cfg.GetSMTP().Enabled)
	assert.Equal(t, []string{"example.com", "corp.example"}, cfg.GetSMTP().WhitelistedDomains)
	// untouched keys keep their defaults
	assert.Equal(t, "X-Email-Classification", cfg.GetSMTP().ClassificationHeader)
}

func TestNewFromFile_Missing(t *testing.T) {
	_, err := NewFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestGetClassifier_InvalidTimeout(t *testing.T) {
	v := NewEmptyViper()
	v.Set("classifier.request_timeout", "soon")
	_, err := NewFromViper(v).GetClassifier()
	assert.Error(t, err)

	v.Set("classifier.request_timeout", "0s")
	_, err = NewFromViper(v).GetClassifier()
	assert.Error(t, err)
}

func TestGetServer_InvalidMode(t *testing.T) {
	v := NewEmptyViper()
	v.Set("server.mode", "production")
	_, err := NewFromViper(v).GetServer()
	assert.ErrorContains(t, err, "server.mode")
}
