package content_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dil-ansh-rochan/BoardKonect-hackfest-2025/internal/content"
)

func TestDefaultCatalog(t *testing.T) {
	cat, err := content.Default()
	require.NoError(t, err)
	require.Equal(t, []string{"in", "sg", "uk", "us"}, cat.Countries())

	for _, code := range cat.Countries() {
		home, err := cat.Home(code)
		require.NoError(t, err)
		require.NotEmpty(t, home.Carousel, code)
		require.Len(t, home.GRCContent, 3, code)
		require.NotEmpty(t, home.CustomerARR, code)

		for _, tile := range home.GRCContent {
			items, err := cat.GRC(code, tile.Category)
			require.NoError(t, err, "%s/%s", code, tile.Category)
			require.NotEmpty(t, items)
		}

		settings, err := cat.Settings(code)
		require.NoError(t, err)
		require.NotEmpty(t, settings)
	}
}

func TestResolve(t *testing.T) {
	cat, err := content.Default()
	require.NoError(t, err)

	tests := []struct {
		input string
		want  string
	}{
		{input: "India", want: "in"},
		{input: "in", want: "in"},
		{input: " IN ", want: "in"},
		{input: "united kingdom", want: "uk"},
		{input: "Singapore", want: "sg"},
		{input: "United States", want: "us"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := cat.Resolve(tt.input)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	_, err = cat.Resolve("unknown")
	require.ErrorIs(t, err, content.ErrUnknownCountry)
	_, err = cat.Resolve("")
	require.ErrorIs(t, err, content.ErrUnknownCountry)
}

func TestGRCErrors(t *testing.T) {
	cat, err := content.Default()
	require.NoError(t, err)

	_, err = cat.GRC("India", "finance")
	require.ErrorIs(t, err, content.ErrUnknownCategory)

	_, err = cat.GRC("Atlantis", "risk")
	require.ErrorIs(t, err, content.ErrUnknownCountry)

	items, err := cat.GRC("India", "RISK")
	require.NoError(t, err)
	require.NotEmpty(t, items)
}

func TestSettingsUnknownCountry(t *testing.T) {
	cat, err := content.Default()
	require.NoError(t, err)

	_, err = cat.Settings("unknown")
	require.ErrorIs(t, err, content.ErrUnknownCountry)
}

func TestMissingSectionsReportNoContent(t *testing.T) {
	cat, err := content.Load(strings.NewReader(`{"countries":[{"code":"fr","name":"France","grc":{"risk":[]}}]}`))
	require.NoError(t, err)

	_, err = cat.Home("France")
	require.ErrorIs(t, err, content.ErrNoContent)

	_, err = cat.GRC("fr", "governance")
	require.ErrorIs(t, err, content.ErrNoContent)

	_, err = cat.Settings("fr")
	require.ErrorIs(t, err, content.ErrNoContent)
}

func TestParseRejectsInvalidCatalogs(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "malformed", doc: `{"countries":`},
		{name: "missing code", doc: `{"countries":[{"name":"France"}]}`},
		{name: "duplicate code", doc: `{"countries":[{"code":"fr","name":"France"},{"code":"FR","name":"Francia"}]}`},
		{name: "alias clash", doc: `{"countries":[{"code":"fr","name":"France"},{"code":"france","name":"Other"}]}`},
		{name: "unknown category", doc: `{"countries":[{"code":"fr","name":"France","grc":{"finance":[]}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := content.Parse([]byte(tt.doc))
			require.Error(t, err)
		})
	}
}

func TestOpenFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	doc := `{"countries":[{"code":"de","name":"Germany","settings":[{"title":"Voting","subtitle":"Cast decisions","isEnabled":true}]}]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	cat, err := content.Open(path)
	require.NoError(t, err)
	require.Equal(t, []string{"de"}, cat.Countries())

	settings, err := cat.Settings("Germany")
	require.NoError(t, err)
	require.Len(t, settings, 1)
	require.True(t, settings[0].IsEnabled)
}

func TestOpenDefaultsAndMissingFile(t *testing.T) {
	cat, err := content.Open("")
	require.NoError(t, err)
	require.Len(t, cat.Countries(), 4)

	_, err = content.Open(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
