package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/charityfund/faqbot/internal/domain/auth"
	"github.com/charityfund/faqbot/internal/domain/catalog"
	"github.com/charityfund/faqbot/internal/domain/faq"
	"github.com/charityfund/faqbot/internal/domain/triage"
	"github.com/charityfund/faqbot/internal/infra/config"
	"github.com/charityfund/faqbot/internal/infra/datasource"
	"github.com/charityfund/faqbot/internal/infra/embedder"
	"github.com/charityfund/faqbot/internal/infra/faqrepo"
	"github.com/charityfund/faqbot/internal/infra/faqstore"
)

func provideFAQConfig(cfg *config.Config) faq.Config {
	return faq.Config{
		SimilarityThreshold: cfg.FAQ.SimilarityThreshold,
		EmbeddingDimension:  cfg.FAQ.EmbeddingDimension,
		Normalization:       faq.NormalizationProfile(cfg.FAQ.Normalization),
		FallbackAnswer:      cfg.FAQ.FallbackAnswer,
		CacheTTL:            cfg.FAQ.CacheTTL,
		TopUnanswered:       cfg.FAQ.TopUnanswered,
	}
}

func provideCatalogConfig(cfg *config.Config) catalog.Config {
	return catalog.Config{
		EmbeddingDimension: cfg.FAQ.EmbeddingDimension,
		Normalization:      faq.NormalizationProfile(cfg.FAQ.Normalization),
	}
}

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		JWTSecret:           cfg.Auth.JWTSecret,
		AccessTTL:           cfg.Auth.AccessTTL,
		CuratorUsername:     cfg.Auth.CuratorUsername,
		CuratorPasswordHash: cfg.Auth.CuratorPasswordHash,
	}
}

// provideEmbedders exposes one embedder instance under both domain
// contracts. Without an API key the deterministic embedder keeps local
// development and tests offline.
func provideEmbedders(cfg *config.Config, logger *slog.Logger) (faq.Embedder, catalog.BatchEmbedder, error) {
	if strings.TrimSpace(cfg.Embedder.APIKey) == "" {
		logger.Info("embedder api key not set, using deterministic embedder")
		det := embedder.NewDeterministicEmbedder(cfg.FAQ.EmbeddingDimension)
		return det, det, nil
	}
	client, err := embedder.NewClient(cfg.Embedder.APIKey, cfg.Embedder.BaseURL)
	if err != nil {
		return nil, nil, err
	}
	httpEmb, err := embedder.NewHTTPEmbedder(client, cfg.Embedder.Model, cfg.FAQ.EmbeddingDimension)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("http embedder enabled", "model", cfg.Embedder.Model, "dimension", cfg.FAQ.EmbeddingDimension)
	return httpEmb, httpEmb, nil
}

// provideRepositories wires the corpus repository once and hands it out
// under each domain contract.
func provideRepositories(cfg *config.Config, logger *slog.Logger) (faq.CorpusRepository, catalog.Repository, triage.Repository) {
	dsn := strings.TrimSpace(cfg.FAQ.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory repository")
		repo := faqrepo.NewMemoryRepository()
		return repo, repo, repo
	}
	pool, err := buildPostgresPool(cfg, dsn)
	if err != nil {
		logger.Error("postgres unavailable, using memory repository", "error", err)
		repo := faqrepo.NewMemoryRepository()
		return repo, repo, repo
	}
	logger.Info("postgres repository enabled")
	repo := faqrepo.NewPostgresRepository(pool)
	return repo, repo, repo
}

func buildPostgresPool(cfg *config.Config, dsn string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if cfg.FAQ.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.FAQ.Postgres.MaxConns
	}
	if cfg.FAQ.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.FAQ.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func provideStore(cfg *config.Config, logger *slog.Logger) faq.Store {
	if cfg.FAQ.Redis.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return faqstore.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return faqstore.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
		} else {
			logger.Info("valkey store enabled", "addr", cfg.FAQ.Redis.Addr)
			return faqstore.NewValkeyStore(client, "faqbot")
		}
	}
	return faqstore.NewMemoryStore()
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.FAQ.Redis.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.FAQ.Redis.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.FAQ.Redis.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}

func provideDatasetSource(cfg *config.Config, logger *slog.Logger) (catalog.DatasetSource, error) {
	if cfg.Catalog.Dataset.Source == "s3" {
		return datasource.NewObjectSource(
			cfg.Catalog.Dataset.Endpoint,
			cfg.Catalog.Dataset.AccessKey,
			cfg.Catalog.Dataset.SecretKey,
			cfg.Catalog.Dataset.Bucket,
			cfg.Catalog.Dataset.Region,
			logger,
		)
	}
	return datasource.NewLocalSource(cfg.Catalog.Dataset.LocalDir), nil
}

func provideVariantAttacher(svc catalog.Service) triage.VariantAttacher {
	return svc
}
