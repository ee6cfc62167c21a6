// Package helpers provides fixtures and server helpers for the catalog API integration tests.
package helpers

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/onsi/gomega"
)

// CatalogRecord is a raw catalog record as served by a catalog source
type CatalogRecord struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Series         string   `json:"series"`
	Number         string   `json:"number,omitempty"`
	Fandom         string   `json:"fandom,omitempty"`
	Genre          string   `json:"genre,omitempty"`
	Edition        string   `json:"edition,omitempty"`
	Category       string   `json:"category,omitempty"`
	Status         string   `json:"status,omitempty"`
	IsVaulted      bool     `json:"is_vaulted,omitempty"`
	IsExclusive    bool     `json:"is_exclusive,omitempty"`
	IsChase        bool     `json:"is_chase,omitempty"`
	CreatedAt      string   `json:"created_at"`
	DataSources    []string `json:"data_sources,omitempty"`
	EstimatedValue *float64 `json:"estimated_value,omitempty"`
}

var fixtureEpoch = time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC)

// CreateTestRecords builds n records across three series. Every third record
// is vaulted and every fifth is a Funko exclusive edition. Record 0 carries
// the new-releases tag and the name "Goku".
func CreateTestRecords(n int) []CatalogRecord {
	series := []string{"Dragon Ball Z", "Star Wars", "Marvel"}
	categories := []string{"Pop!", "Bitty Pop!"}

	records := make([]CatalogRecord, n)
	for i := range records {
		value := float64(10 + i)
		records[i] = CatalogRecord{
			ID:             fmt.Sprintf("pop-%04d", i),
			Name:           fmt.Sprintf("Figure %d", i),
			Series:         series[i%len(series)],
			Number:         fmt.Sprintf("%d", 100+i),
			Category:       categories[i%len(categories)],
			IsVaulted:      i%3 == 0,
			CreatedAt:      fixtureEpoch.Add(time.Duration(i) * 24 * time.Hour).Format(time.RFC3339),
			EstimatedValue: &value,
		}
		if i%5 == 0 {
			records[i].Edition = "Exclusives"
			records[i].IsExclusive = true
		}
	}
	if n > 0 {
		records[0].Name = "Goku"
		records[0].DataSources = []string{"new-releases"}
	}
	return records
}

// WriteCatalogFile writes records as a JSON array and returns the file path
func WriteCatalogFile(dir string, records []CatalogRecord) string {
	data, err := json.MarshalIndent(records, "", "  ")
	gomega.Expect(err).NotTo(gomega.HaveOccurred())

	path := filepath.Join(dir, "catalog.json")
	gomega.Expect(os.WriteFile(path, data, 0600)).To(gomega.Succeed())
	return path
}

// WriteFileConfig writes a configuration reading the catalog file at path
func WriteFileConfig(dir, catalogPath string, pageSize int) string {
	return writeConfig(dir, fmt.Sprintf(`catalogName: integration
source:
  file:
    path: %s
syncPolicy:
  interval: 1h
browse:
  pageSize: %d
  sessionIdleTimeout: 5m
`, catalogPath, pageSize))
}

// WriteAPIConfig writes a configuration reading a paged REST endpoint.
// apiKeyFile may be empty.
func WriteAPIConfig(dir, endpoint string, pageSize int, apiKeyFile string) string {
	source := fmt.Sprintf("    endpoint: %s\n    pageSize: %d\n", endpoint, pageSize)
	if apiKeyFile != "" {
		source += fmt.Sprintf("    apiKeyFile: %s\n", apiKeyFile)
	}
	return writeConfig(dir, "catalogName: integration-api\nsource:\n  api:\n"+source+
		"syncPolicy:\n  interval: 1h\n")
}

func writeConfig(dir, body string) string {
	path := filepath.Join(dir, "config.yaml")
	gomega.Expect(os.WriteFile(path, []byte(body), 0600)).To(gomega.Succeed())
	return path
}
