// Package repository persists the dataset document. Every backend stores the
// whole document and replaces it whole on save; there is no partial patching.
package repository

import (
	"encoding/json"
	"fmt"

	"github.com/sigongjoa/Concept-Gacha/internal/models"
)

// DefaultDocument is the row name used by the SQL backends.
const DefaultDocument = "default"

// emptyDataset is what a backend returns before anything has been saved.
func emptyDataset() models.Dataset {
	return models.Dataset{
		Students: []models.Student{},
		Cards:    []models.Card{},
	}
}

func decodeDataset(body []byte) (models.Dataset, error) {
	ds := emptyDataset()
	if err := json.Unmarshal(body, &ds); err != nil {
		return models.Dataset{}, fmt.Errorf("decode dataset: %w", err)
	}
	if ds.Students == nil {
		ds.Students = []models.Student{}
	}
	if ds.Cards == nil {
		ds.Cards = []models.Card{}
	}
	return ds, nil
}

func encodeDataset(ds models.Dataset) ([]byte, error) {
	if ds.Students == nil {
		ds.Students = []models.Student{}
	}
	if ds.Cards == nil {
		ds.Cards = []models.Card{}
	}
	body, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode dataset: %w", err)
	}
	return body, nil
}
