package style_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NethermindEth/songslide/pkg/studio/style"
)

func TestDefaultCatalog(t *testing.T) {
	catalog := style.DefaultCatalog()

	assert.Equal(t, 7, catalog.Len())
	assert.Equal(t, "van-gogh", catalog.Default().ID)

	cartoon, err := catalog.Get("cartoon")
	require.NoError(t, err)
	assert.Equal(t, "Cartoon", cartoon.Name)
	assert.Equal(t, "as a vibrant 2D cartoon drawing, clean lines, bold colors", cartoon.PromptSuffix)

	_, err = catalog.Get("watercolor")
	assert.ErrorIs(t, err, style.ErrNotFound)
}

func TestCatalog_StylesIsCopy(t *testing.T) {
	catalog := style.DefaultCatalog()

	styles := catalog.Styles()
	styles[0].ID = "mutated"

	assert.Equal(t, "van-gogh", catalog.Styles()[0].ID)
}

func TestNewCatalog(t *testing.T) {
	tests := []struct {
		name    string
		styles  []style.ArtStyle
		wantErr bool
	}{
		{
			name:   "valid",
			styles: []style.ArtStyle{{ID: "a", Name: "A", PromptSuffix: "as a"}},
		},
		{
			name:    "empty",
			styles:  nil,
			wantErr: true,
		},
		{
			name:    "empty id",
			styles:  []style.ArtStyle{{ID: "  ", Name: "Blank"}},
			wantErr: true,
		},
		{
			name:    "duplicate id",
			styles:  []style.ArtStyle{{ID: "a"}, {ID: "a"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog, err := style.NewCatalog(tt.styles)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, catalog)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, catalog)
			}
		})
	}
}

func TestLoadCatalog(t *testing.T) {
	t.Run("empty path uses defaults", func(t *testing.T) {
		catalog, err := style.LoadCatalog(context.Background(), "")
		require.NoError(t, err)
		assert.Equal(t, style.DefaultCatalog().Styles(), catalog.Styles())
	})

	t.Run("yaml file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "styles.yaml")
		content := `styles:
  - id: watercolor
    name: Watercolor
    prompt-suffix: as a soft watercolor painting
  - id: noir
    prompt-suffix: as a black and white film noir still
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		catalog, err := style.LoadCatalog(context.Background(), path)
		require.NoError(t, err)
		require.Equal(t, 2, catalog.Len())
		assert.Equal(t, "watercolor", catalog.Default().ID)

		noir, err := catalog.Get("noir")
		require.NoError(t, err)
		assert.Equal(t, "noir", noir.Name)
		assert.Equal(t, "as a black and white film noir still", noir.PromptSuffix)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := style.LoadCatalog(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("remote catalog", func(t *testing.T) {
		var methods []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			methods = append(methods, r.Method)
			w.Write([]byte("styles:\n  - id: noir\n    prompt-suffix: as a film noir still\n"))
		}))
		defer server.Close()

		catalog, err := style.LoadCatalog(context.Background(), server.URL+"/styles.yaml")
		require.NoError(t, err)
		assert.Equal(t, "noir", catalog.Default().ID)
		assert.Equal(t, []string{http.MethodHead, http.MethodGet}, methods)
	})

	t.Run("remote catalog too large", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Length", "2097152")
			if r.Method == http.MethodHead {
				return
			}
			t.Error("body must not be requested")
		}))
		defer server.Close()

		_, err := style.FetchCatalog(context.Background(), server.Client(), server.URL)
		assert.ErrorContains(t, err, "too large")
	})

	t.Run("remote catalog error status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		_, err := style.FetchCatalog(context.Background(), server.Client(), server.URL)
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := style.ParseCatalog([]byte("styles: [:"))
		assert.Error(t, err)
	})
}
