package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dadao-education/unicatalog/internal/catalog"
	"github.com/dadao-education/unicatalog/internal/config"
	"github.com/dadao-education/unicatalog/internal/importer"
	"github.com/dadao-education/unicatalog/internal/providers"
	"github.com/dadao-education/unicatalog/internal/storage"
)

// openCatalog opens the snapshot store and loads the catalog from it. The
// returned close func releases the store.
func openCatalog(ctx context.Context, cfg config.Config, ephemeral bool) (*catalog.Repository, func(), error) {
	var kv storage.KV
	if ephemeral {
		kv = storage.NewMemoryKV()
	} else {
		db, err := storage.OpenSQLite(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		kv = db
	}

	closeFn := func() {
		if err := kv.Close(); err != nil {
			slog.Error("Unable to close catalog store", "err", err)
		}
	}

	repo := catalog.NewRepository(kv, cfg.SnapshotKey)
	if err := repo.Load(ctx); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	slog.Debug("Catalog loaded", "path", cfg.DBPath, "ephemeral", ephemeral, "universities", repo.Len())
	return repo, closeFn, nil
}

func newPipeline(cfg config.Config, repo *catalog.Repository) (*importer.Pipeline, string, error) {
	factory, err := importer.ProviderFactory(cfg.Provider)
	if err != nil {
		return nil, "", err
	}

	model := cfg.Model
	if model == "" {
		model = providers.DefaultModel(cfg.Provider)
	}

	normalizer := importer.NewNormalizer(factory, model, cfg.Temperature)
	return importer.NewPipeline(normalizer, repo, cfg.ChunkSize, cfg.Delay), model, nil
}
