// Package migration applies versioned schema changes to the document
// database, mostly index creation. Applied versions are recorded in the
// schema_migrations collection so Up is idempotent.
package migration

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fashionhub/storefront/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const stateCollection = "schema_migrations"

// Migration is a single versioned change.
type Migration struct {
	// Version orders migrations; use YYYYMMDDNN.
	Version int64
	Name    string
	Up      func(ctx context.Context, db *mongo.Database) error
	Down    func(ctx context.Context, db *mongo.Database) error
}

var (
	mu         sync.Mutex
	registered []Migration
)

// Register adds a migration to the set applied by Up.
func Register(m Migration) {
	mu.Lock()
	defer mu.Unlock()
	registered = append(registered, m)
}

type stateDoc struct {
	Version   int64     `bson:"version"`
	Name      string    `bson:"name"`
	AppliedAt time.Time `bson:"applied_at"`
}

func ordered() []Migration {
	mu.Lock()
	defer mu.Unlock()
	out := append([]Migration(nil), registered...)
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out
}

func appliedVersions(ctx context.Context, db *mongo.Database) (map[int64]bool, error) {
	cur, err := db.Collection(stateCollection).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("migration: read state: %w", err)
	}
	defer cur.Close(ctx)

	out := map[int64]bool{}
	for cur.Next(ctx) {
		var doc stateDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("migration: decode state: %w", err)
		}
		out[doc.Version] = true
	}
	return out, cur.Err()
}

// Up applies all pending migrations in version order.
func Up(ctx context.Context, db *mongo.Database) error {
	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}

	for _, m := range ordered() {
		if applied[m.Version] {
			continue
		}
		logger.Info("migration: applying", "version", m.Version, "name", m.Name)
		if err := m.Up(ctx, db); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Name, err)
		}
		_, err := db.Collection(stateCollection).InsertOne(ctx, stateDoc{
			Version:   m.Version,
			Name:      m.Name,
			AppliedAt: time.Now(),
		})
		if err != nil {
			return fmt.Errorf("migration: record %d: %w", m.Version, err)
		}
	}
	return nil
}

// Down rolls back the most recently applied migration.
func Down(ctx context.Context, db *mongo.Database) error {
	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}

	all := ordered()
	for i := len(all) - 1; i >= 0; i-- {
		m := all[i]
		if !applied[m.Version] {
			continue
		}
		if m.Down == nil {
			return fmt.Errorf("migration %d (%s) has no rollback", m.Version, m.Name)
		}
		logger.Info("migration: rolling back", "version", m.Version, "name", m.Name)
		if err := m.Down(ctx, db); err != nil {
			return fmt.Errorf("migration %d (%s) rollback: %w", m.Version, m.Name, err)
		}
		_, err := db.Collection(stateCollection).DeleteOne(ctx, bson.M{"version": m.Version})
		return err
	}
	return nil
}
