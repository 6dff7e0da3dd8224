package setup

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/NethermindEth/songslide/pkg/studio/debug"
	"github.com/NethermindEth/songslide/pkg/studio/style"
)

type SetupResult struct {
	Config  Config
	Catalog *style.Catalog
}

func Setup(ctx context.Context, config *Config) (*SetupResult, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	catalog, err := style.LoadCatalog(ctx, config.StyleCatalogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load style catalog: %w", err)
	}

	setupResult := &SetupResult{
		Config:  *config,
		Catalog: catalog,
	}

	if debug.IsDebugShowSetup() {
		slog.Info("setup output", "config", config.Redacted(), "styles", catalog.Len())
	}

	return setupResult, nil
}
