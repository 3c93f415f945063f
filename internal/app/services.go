// Package app provides service initialization.
package app

import (
	"github.com/gan-shmuel/weight-service/config"
	"github.com/gan-shmuel/weight-service/internal/service"
)

// ServiceComponents holds service-related components.
type ServiceComponents struct {
	Weighing   service.WeighingService
	Registry   service.ContainerRegistry
	Importer   service.BatchImporter
	Calculator *service.NetWeightCalculator
}

// InitializeServices wires the weighing engine on top of the ledger store.
func InitializeServices(db *DatabaseComponents, cfg config.BatchConfig) *ServiceComponents {
	registry := service.NewContainerRegistry(db.Containers)
	calculator := service.NewNetWeightCalculator(registry)

	return &ServiceComponents{
		Weighing:   service.NewWeighingService(db.Tx, db.Sessions, registry, calculator),
		Registry:   registry,
		Importer:   service.NewBatchImporter(db.Tx, registry, cfg.InputDir, cfg.MaxFileSize),
		Calculator: calculator,
	}
}
