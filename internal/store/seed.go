package store

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"testapi/pkg/logger"
)

//go:embed fixtures/tests.json
var defaultFixtures []byte

type Fixture struct {
	Text string `json:"text"`
}

type fixtureFile struct {
	Data []Fixture `json:"data"`
}

// DefaultFixtures returns the rows shipped with the binary.
func DefaultFixtures() ([]Fixture, error) {
	return ParseFixtures(defaultFixtures)
}

func ParseFixtures(raw []byte) ([]Fixture, error) {
	var f fixtureFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decoding fixtures: %w", err)
	}
	return f.Data, nil
}

// Seed inserts fixtures one by one, stopping at the first failure.
func Seed(ctx context.Context, db *gorm.DB, fixtures []Fixture, logg *logger.Logger) (int, error) {
	created := 0
	for _, fx := range fixtures {
		row := &Test{Text: fx.Text}
		if err := db.WithContext(ctx).Create(row).Error; err != nil {
			return created, fmt.Errorf("seeding %q: %w", fx.Text, err)
		}
		created++
		logg.Info(logg.WithField(ctx, "id", row.ID), fmt.Sprintf("Created: %s", fx.Text))
	}
	return created, nil
}
