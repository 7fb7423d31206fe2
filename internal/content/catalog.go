package content

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/dil-ansh-rochan/BoardKonect-hackfest-2025/internal/models"
)

//go:embed catalog.json
var builtin []byte

// GRC list categories.
const (
	CategoryGovernance = "governance"
	CategoryRisk       = "risk"
	CategoryCompliance = "compliance"
)

var categories = map[string]struct{}{
	CategoryGovernance: {},
	CategoryRisk:       {},
	CategoryCompliance: {},
}

var (
	ErrUnknownCountry  = errors.New("invalid country")
	ErrUnknownCategory = errors.New("invalid category")
	ErrNoContent       = errors.New("no content for country")
)

type country struct {
	Code     string                       `json:"code"`
	Name     string                       `json:"name"`
	Home     *models.HomeBundle           `json:"home"`
	GRC      map[string][]models.ListItem `json:"grc"`
	Settings []models.Setting             `json:"settings"`
}

type document struct {
	Countries []country `json:"countries"`
}

// Catalog serves static, country-keyed content. It is immutable after load.
type Catalog struct {
	countries map[string]*country
	aliases   map[string]string
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Parse(builtin)
}

// Open loads the catalog at path, or the built-in catalog when path is empty.
func Open(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load reads a catalog document from r.
func Load(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	c := &Catalog{
		countries: make(map[string]*country, len(doc.Countries)),
		aliases:   make(map[string]string, 2*len(doc.Countries)),
	}
	for i := range doc.Countries {
		entry := &doc.Countries[i]
		code := normalize(entry.Code)
		name := normalize(entry.Name)
		if code == "" || name == "" {
			return nil, fmt.Errorf("country #%d: code and name are required", i)
		}
		if _, dup := c.countries[code]; dup {
			return nil, fmt.Errorf("country %q: duplicate code", code)
		}
		for key := range entry.GRC {
			if _, ok := categories[key]; !ok {
				return nil, fmt.Errorf("country %q: unknown category %q", code, key)
			}
		}
		for _, alias := range []string{code, name} {
			if owner, taken := c.aliases[alias]; taken && owner != code {
				return nil, fmt.Errorf("country %q: alias %q already used by %q", code, alias, owner)
			}
			c.aliases[alias] = code
		}
		entry.Code = code
		c.countries[code] = entry
	}
	return c, nil
}

// Resolve maps a country code or display name to its canonical code.
func (c *Catalog) Resolve(raw string) (string, error) {
	code, ok := c.aliases[normalize(raw)]
	if !ok {
		return "", ErrUnknownCountry
	}
	return code, nil
}

// Countries lists the canonical codes in sorted order.
func (c *Catalog) Countries() []string {
	out := make([]string, 0, len(c.countries))
	for code := range c.countries {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Home returns the home-page bundle for a country.
func (c *Catalog) Home(rawCountry string) (models.HomeBundle, error) {
	entry, err := c.lookup(rawCountry)
	if err != nil {
		return models.HomeBundle{}, err
	}
	if entry.Home == nil {
		return models.HomeBundle{}, fmt.Errorf("%w %q", ErrNoContent, entry.Code)
	}
	return *entry.Home, nil
}

// GRC returns the list for a country and category.
// The category is validated before the country so a bad category is always a 400.
func (c *Catalog) GRC(rawCountry, rawCategory string) ([]models.ListItem, error) {
	category, err := ParseCategory(rawCategory)
	if err != nil {
		return nil, err
	}
	entry, err := c.lookup(rawCountry)
	if err != nil {
		return nil, err
	}
	items, ok := entry.GRC[category]
	if !ok {
		return nil, fmt.Errorf("%w %q (%s)", ErrNoContent, entry.Code, category)
	}
	return items, nil
}

// Settings returns the settings screen items for a country.
func (c *Catalog) Settings(rawCountry string) ([]models.Setting, error) {
	entry, err := c.lookup(rawCountry)
	if err != nil {
		return nil, err
	}
	if entry.Settings == nil {
		return nil, fmt.Errorf("%w %q", ErrNoContent, entry.Code)
	}
	return entry.Settings, nil
}

// ParseCategory canonicalises a GRC category name.
func ParseCategory(raw string) (string, error) {
	category := normalize(raw)
	if _, ok := categories[category]; !ok {
		return "", ErrUnknownCategory
	}
	return category, nil
}

func (c *Catalog) lookup(raw string) (*country, error) {
	code, err := c.Resolve(raw)
	if err != nil {
		return nil, err
	}
	return c.countries[code], nil
}

func normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
