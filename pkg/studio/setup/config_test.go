package setup_test

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NethermindEth/songslide/pkg/studio/setup"
)

func defaultConfig(t *testing.T, args ...string) *setup.Config {
	t.Helper()

	config := &setup.Config{}
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	config.RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return config
}

func TestConfig_Defaults(t *testing.T) {
	config := defaultConfig(t)

	assert.Equal(t, setup.DefaultApiIpPort, config.ApiIpPort)
	assert.Equal(t, 3, config.ImageCount)
	assert.Equal(t, 7*time.Second, config.SlideshowInterval)
	assert.Equal(t, "url", config.ImageResponseFormat)
	assert.Equal(t, time.Duration(0), config.GenerationTimeout)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{name: "api key", args: []string{"-openai-api-key", "sk-test"}},
		{name: "mock generator", args: []string{"-mock-generator"}},
		{name: "missing api key", args: nil, wantErr: true},
		{name: "bad response format", args: []string{"-mock-generator", "-image-response-format", "png"}, wantErr: true},
		{name: "zero images", args: []string{"-mock-generator", "-image-count", "0"}, wantErr: true},
		{name: "zero interval", args: []string{"-mock-generator", "-slideshow-interval", "0s"}, wantErr: true},
		{name: "negative timeout", args: []string{"-mock-generator", "-generation-timeout", "-1s"}, wantErr: true},
		{name: "zero runs", args: []string{"-mock-generator", "-max-concurrent-runs", "0"}, wantErr: true},
		{name: "empty audio dir", args: []string{"-mock-generator", "-audio-dir", ""}, wantErr: true},
		{name: "zero upload size", args: []string{"-mock-generator", "-max-upload-bytes", "0"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := defaultConfig(t, tt.args...).Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_Redacted(t *testing.T) {
	config := defaultConfig(t, "-openai-api-key", "sk-secret", "-pinata-jwt-key", "jwt-secret")

	redacted := config.Redacted()

	assert.Equal(t, "<redacted>", redacted.OpenAiApiKey)
	assert.Equal(t, "<redacted>", redacted.PinataJwtKey)
	assert.Equal(t, "sk-secret", config.OpenAiApiKey)
}

func TestSetup(t *testing.T) {
	t.Run("built-in catalog", func(t *testing.T) {
		result, err := setup.Setup(context.Background(), defaultConfig(t, "-mock-generator"))
		require.NoError(t, err)
		assert.Equal(t, 7, result.Catalog.Len())
		assert.True(t, result.Config.MockGenerator)
	})

	t.Run("catalog file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "styles.yaml")
		require.NoError(t, os.WriteFile(path, []byte("styles:\n  - id: ink\n    prompt-suffix: as an ink drawing\n"), 0o644))

		result, err := setup.Setup(context.Background(), defaultConfig(t, "-mock-generator", "-style-catalog", path))
		require.NoError(t, err)
		assert.Equal(t, "ink", result.Catalog.Default().ID)
	})

	t.Run("invalid config", func(t *testing.T) {
		_, err := setup.Setup(context.Background(), defaultConfig(t))
		assert.Error(t, err)
	})

	t.Run("missing catalog file", func(t *testing.T) {
		_, err := setup.Setup(context.Background(), defaultConfig(t, "-mock-generator", "-style-catalog", "/does/not/exist.yaml"))
		assert.Error(t, err)
	})
}
