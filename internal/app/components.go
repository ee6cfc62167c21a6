package app

import (
	"github.com/popguide/catalog-server/internal/browse"
	"github.com/popguide/catalog-server/internal/catalog"
	"github.com/popguide/catalog-server/internal/classify"
	"github.com/popguide/catalog-server/internal/service"
	"github.com/popguide/catalog-server/internal/sync/coordinator"
)

// AppComponents groups all application components
//
//nolint:revive // This name is fine
type AppComponents struct {
	// Store holds the active catalog snapshot and load status
	Store *catalog.Store

	// Classifier is shared by the service, the session manager and badges
	Classifier *classify.Classifier

	// SyncCoordinator refetches the catalog in the background
	SyncCoordinator coordinator.Coordinator

	// CatalogService serves the stateless catalog endpoints
	CatalogService service.CatalogService

	// Sessions hosts browsing sessions for the session endpoints
	Sessions *browse.Manager
}
