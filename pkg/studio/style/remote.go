package style

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

const catalogMaxSize = 1 << 20

func isRemote(source string) bool {
	return strings.HasPrefix(source, "https://") || strings.HasPrefix(source, "http://")
}

// FetchCatalog downloads a YAML catalog. Catalogs announcing more than 1 MiB
// are refused before the body is requested.
func FetchCatalog(ctx context.Context, client *http.Client, uri string) (*Catalog, error) {
	headReq, err := http.NewRequestWithContext(ctx, http.MethodHead, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HEAD request: %w", err)
	}

	headResp, err := client.Do(headReq)
	if err != nil {
		return nil, fmt.Errorf("failed to perform HEAD request: %w", err)
	}
	headResp.Body.Close()

	if headResp.ContentLength > catalogMaxSize {
		return nil, fmt.Errorf("style catalog too large: %d bytes", headResp.ContentLength)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create GET request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform GET request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status fetching style catalog: %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, catalogMaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read style catalog: %w", err)
	}
	if len(body) > catalogMaxSize {
		return nil, fmt.Errorf("style catalog exceeds %d bytes", catalogMaxSize)
	}

	slog.Info("fetched style catalog", "uri", uri, "size", len(body))

	return ParseCatalog(body)
}
