package schema

import (
	"fmt"
	"time"
)

// SchemaVersion records one applied migration
type SchemaVersion struct {
	Version     int       `json:"version"`
	Description string    `json:"description"`
	AppliedAt   time.Time `json:"applied_at"`
}

// Migration upgrades a raw document by exactly one version. Up receives the
// decoded JSON object and edits it in place.
type Migration struct {
	FromVersion int
	ToVersion   int
	Description string
	Up          MigrationFunc
}

// MigrationFunc performs a migration on a raw document
type MigrationFunc func(doc map[string]interface{}) error

// SchemaEvolution holds the registered document migrations
type SchemaEvolution struct {
	migrations []Migration
}

// NewSchemaEvolution creates an evolution manager with every known migration
// registered
func NewSchemaEvolution() *SchemaEvolution {
	s := &SchemaEvolution{}
	for _, m := range builtinMigrations() {
		if err := s.RegisterMigration(m); err != nil {
			panic(err)
		}
	}
	return s
}

// RegisterMigration registers a new migration
func (s *SchemaEvolution) RegisterMigration(migration Migration) error {
	if migration.ToVersion != migration.FromVersion+1 {
		return fmt.Errorf("invalid migration: must advance exactly one version, got %d->%d",
			migration.FromVersion, migration.ToVersion)
	}
	if migration.Up == nil {
		return fmt.Errorf("invalid migration: %d->%d has no Up function",
			migration.FromVersion, migration.ToVersion)
	}

	for _, existing := range s.migrations {
		if existing.FromVersion == migration.FromVersion {
			return fmt.Errorf("migration from %d to %d already exists",
				migration.FromVersion, migration.ToVersion)
		}
	}

	s.migrations = append(s.migrations, migration)
	return nil
}

// Upgrade migrates doc from version from to target and returns the applied
// steps. Downgrades are not supported.
func (s *SchemaEvolution) Upgrade(doc map[string]interface{}, from, target int) ([]SchemaVersion, error) {
	if from > target {
		return nil, fmt.Errorf("document version %d is newer than supported version %d", from, target)
	}

	var history []SchemaVersion
	for current := from; current < target; current++ {
		migration := s.findMigration(current)
		if migration == nil {
			return history, fmt.Errorf("no migration found from version %d to %d", current, current+1)
		}

		if err := migration.Up(doc); err != nil {
			return history, fmt.Errorf("migration %d->%d failed: %w",
				migration.FromVersion, migration.ToVersion, err)
		}

		history = append(history, SchemaVersion{
			Version:     migration.ToVersion,
			Description: migration.Description,
			AppliedAt:   time.Now(),
		})
	}
	doc["version"] = target
	return history, nil
}

// findMigration finds the migration leaving version from
func (s *SchemaEvolution) findMigration(from int) *Migration {
	for i := range s.migrations {
		if s.migrations[i].FromVersion == from {
			return &s.migrations[i]
		}
	}
	return nil
}

// Latest returns the highest version reachable through registered migrations
func (s *SchemaEvolution) Latest() int {
	latest := 1
	for _, m := range s.migrations {
		if m.ToVersion > latest {
			latest = m.ToVersion
		}
	}
	return latest
}

func builtinMigrations() []Migration {
	return []Migration{
		{
			FromVersion: 1,
			ToVersion:   2,
			Description: "item properties become a list of property sets",
			Up:          wrapItemProperties,
		},
	}
}

// wrapItemProperties turns a single properties object on each item into a
// one-element list. Missing properties become a list with one empty set.
func wrapItemProperties(doc map[string]interface{}) error {
	sheets, _ := doc["sheets"].([]interface{})
	for si, rawSheet := range sheets {
		sheet, ok := rawSheet.(map[string]interface{})
		if !ok {
			return fmt.Errorf("sheet %d is not an object", si)
		}
		items, _ := sheet["items"].([]interface{})
		for ii, rawItem := range items {
			item, ok := rawItem.(map[string]interface{})
			if !ok {
				return fmt.Errorf("sheet %d item %d is not an object", si, ii)
			}
			switch props := item["properties"].(type) {
			case nil:
				item["properties"] = []interface{}{map[string]interface{}{}}
			case map[string]interface{}:
				item["properties"] = []interface{}{props}
			case []interface{}:
				// already a list
			default:
				return fmt.Errorf("sheet %d item %d has properties of type %T", si, ii, props)
			}
		}
	}
	return nil
}
