package crisis

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/peer-support/internal/domain"
)

func TestLoadTableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	content := `
categories:
  - name: suicidio
    weight: 10
    keywords: ["Suicidio", "  matarme "]
  - name: angustia
    weight: 5
    keywords:
      - sin salida
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	table, err := LoadTableFile(path)
	require.NoError(t, err)
	require.Len(t, table, 2)
	assert.Equal(t, 10, table[0].Weight)

	c := NewClassifierWithTable(table)
	got := c.Analyze("Quiero MATARME, estoy sin salida")
	assert.Equal(t, 15, got.Score)
	assert.Equal(t, domain.CrisisLevelCritical, got.Level)
	assert.Equal(t, []string{"matarme", "sin salida"}, got.MatchedKeywords)
}

func TestParseTableRejectsBadTables(t *testing.T) {
	cases := map[string]string{
		"empty":         `categories: []`,
		"no name":       "categories:\n  - weight: 3\n    keywords: [a]\n",
		"zero weight":   "categories:\n  - name: x\n    weight: 0\n    keywords: [a]\n",
		"no keywords":   "categories:\n  - name: x\n    weight: 2\n",
		"blank keyword": "categories:\n  - name: x\n    weight: 2\n    keywords: [\"  \"]\n",
		"blank among":   "categories:\n  - name: x\n    weight: 2\n    keywords: [a, \"\\t\"]\n",
		"duplicate":     "categories:\n  - name: x\n    weight: 2\n    keywords: [a]\n  - name: x\n    weight: 3\n    keywords: [b]\n",
		"invalid yaml":  "categories: [",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseTable([]byte(raw))
			assert.Error(t, err)
		})
	}
}

func TestLoadTableFileMissing(t *testing.T) {
	_, err := LoadTableFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
