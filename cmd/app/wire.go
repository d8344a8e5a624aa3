//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/charityfund/faqbot/internal/bootstrap"
	"github.com/charityfund/faqbot/internal/domain/auth"
	"github.com/charityfund/faqbot/internal/domain/catalog"
	"github.com/charityfund/faqbot/internal/domain/faq"
	"github.com/charityfund/faqbot/internal/domain/triage"
	"github.com/charityfund/faqbot/internal/infra/config"
	httpiface "github.com/charityfund/faqbot/internal/interface/http"
	"github.com/charityfund/faqbot/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideFAQConfig,
		provideCatalogConfig,
		provideAuthConfig,
		provideEmbedders,
		provideRepositories,
		provideStore,
		provideDatasetSource,
		provideVariantAttacher,
		faq.NewService,
		catalog.NewService,
		triage.NewService,
		auth.NewService,
		httpiface.NewHandler,
		httpiface.NewAdminHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
