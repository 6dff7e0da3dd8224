package style

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrNotFound = errors.New("style not found")

type ArtStyle struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	PromptSuffix string `json:"promptSuffix" yaml:"prompt-suffix"`
}

// Catalog is an ordered, read-only set of art styles. The first style is the
// default selection.
type Catalog struct {
	styles []ArtStyle
	byID   map[string]int
}

func NewCatalog(styles []ArtStyle) (*Catalog, error) {
	if len(styles) == 0 {
		return nil, errors.New("catalog is empty")
	}

	c := &Catalog{
		styles: make([]ArtStyle, 0, len(styles)),
		byID:   make(map[string]int, len(styles)),
	}
	for i, s := range styles {
		s.ID = strings.TrimSpace(s.ID)
		if s.ID == "" {
			return nil, fmt.Errorf("style %d has an empty id", i)
		}
		if _, ok := c.byID[s.ID]; ok {
			return nil, fmt.Errorf("duplicate style id %q", s.ID)
		}
		if s.Name == "" {
			s.Name = s.ID
		}
		c.byID[s.ID] = len(c.styles)
		c.styles = append(c.styles, s)
	}

	return c, nil
}

func (c *Catalog) Get(id string) (ArtStyle, error) {
	i, ok := c.byID[id]
	if !ok {
		return ArtStyle{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return c.styles[i], nil
}

func (c *Catalog) Default() ArtStyle {
	return c.styles[0]
}

// Styles returns a copy of the catalog in display order.
func (c *Catalog) Styles() []ArtStyle {
	out := make([]ArtStyle, len(c.styles))
	copy(out, c.styles)
	return out
}

func (c *Catalog) Len() int {
	return len(c.styles)
}

type catalogFile struct {
	Styles []ArtStyle `yaml:"styles"`
}

// LoadCatalog reads a YAML catalog from a file or an http(s) URL. An empty
// source returns the built-in catalog.
func LoadCatalog(ctx context.Context, source string) (*Catalog, error) {
	if source == "" {
		return DefaultCatalog(), nil
	}
	if isRemote(source) {
		return FetchCatalog(ctx, http.DefaultClient, source)
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("failed to read style catalog: %w", err)
	}

	return ParseCatalog(data)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse style catalog: %w", err)
	}

	return NewCatalog(file.Styles)
}
