// Package content holds a tenant's branding, navigation and copy. The content
// is loaded once and never changes; every accessor hands out a copy.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/chrisdamba/foodsite/internal/cloudwriter"
	"github.com/chrisdamba/foodsite/internal/models"
)

const PreviewPrefix = "[Preview] "

var ErrUnknownSection = errors.New("unknown content section")

type Store struct {
	content models.SiteContent
}

func New(c models.SiteContent) *Store {
	return &Store{content: cloneContent(c)}
}

// LoadFile reads YAML (.yaml, .yml) or JSON (.json) content.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading content file: %w", err)
	}
	return Decode(data, filepath.Ext(path))
}

// LoadObject reads content from object storage; the format follows the key's
// extension.
func LoadObject(ctx context.Context, r cloudwriter.ObjectReader, bucket, key string) (*Store, error) {
	data, err := r.ReadObject(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	return Decode(data, filepath.Ext(key))
}

func Decode(data []byte, ext string) (*Store, error) {
	var c models.SiteContent
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("decoding yaml content: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("decoding json content: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported content format %q", ext)
	}
	return &Store{content: c}, nil
}

func (s *Store) Content() models.SiteContent {
	return cloneContent(s.content)
}

func (s *Store) Brand() models.Brand {
	return cloneBrand(s.content.Brand)
}

func (s *Store) Navigation() []models.Link {
	return append([]models.Link(nil), s.content.Navigation...)
}

// Section returns one top-level section by its wire name.
func (s *Store) Section(name string) (any, error) {
	c := s.Content()
	switch name {
	case "brand":
		return c.Brand, nil
	case "navigation":
		return c.Navigation, nil
	case "hero":
		return c.Hero, nil
	case "footer":
		return c.Footer, nil
	case "story":
		return c.Story, nil
	case "gallery":
		return c.Gallery, nil
	case "events":
		return c.Events, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSection, name)
	}
}

// PageTitle is "<page> | <brand>", or just the brand for the home page.
// Preview mode only prefixes the title; content is unchanged.
func (s *Store) PageTitle(page string, preview bool) string {
	title := s.content.Brand.Name
	if page = strings.TrimSpace(page); page != "" {
		if title == "" {
			title = page
		} else {
			title = page + " | " + title
		}
	}
	if preview {
		return PreviewPrefix + title
	}
	return title
}

func cloneContent(c models.SiteContent) models.SiteContent {
	out := c
	out.Brand = cloneBrand(c.Brand)
	out.Navigation = append([]models.Link(nil), c.Navigation...)
	out.Hero = make([]models.Banner, len(c.Hero))
	for i, b := range c.Hero {
		if b.CTA != nil {
			cta := *b.CTA
			b.CTA = &cta
		}
		out.Hero[i] = b
	}
	out.Footer.Hours = append([]string(nil), c.Footer.Hours...)
	out.Footer.Social = append([]models.Link(nil), c.Footer.Social...)
	out.Story.Paragraphs = append([]string(nil), c.Story.Paragraphs...)
	out.Gallery = append([]models.Image(nil), c.Gallery...)
	out.Events = append([]models.Event(nil), c.Events...)
	return out
}

func cloneBrand(b models.Brand) models.Brand {
	out := b
	if b.Colors != nil {
		out.Colors = make(map[string]string, len(b.Colors))
		for k, v := range b.Colors {
			out.Colors[k] = v
		}
	}
	return out
}
