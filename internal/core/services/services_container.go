package services

import (
	portsrepo "github.com/shiva00s/ModernBillingApp-sub000/internal/core/ports/repositories"
	portssvc "github.com/shiva00s/ModernBillingApp-sub000/internal/core/ports/services"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, options ...ServiceOption) *portssvc.ServiceContainer {
	options = append([]ServiceOption{WithMaxRetries(cfg.TxMaxRetries)}, options...)

	// The sequence authority and the stock ledger are shared by every document flow
	sequences := NewSequenceAuthority()
	inventory := NewInventoryService(repos.ProductRepo, repos.TxManager, options...)

	return &portssvc.ServiceContainer{
		Inventory: inventory,
		Party:     NewPartyService(repos.PartyRepo, options...),
		Billing:   NewBillingService(cfg, repos.DocumentRepo, inventory, sequences, repos.TxManager, options...),
		Payment:   NewPaymentService(repos.PaymentRepo, sequences, repos.TxManager, options...),
		Loyalty:   NewLoyaltyService(cfg.Loyalty, repos.PartyRepo, repos.LoyaltyRepo, repos.TxManager, options...),
	}
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.StockMovementRecorder = (*inventoryService)(nil)
	_ portssvc.SequenceAuthority     = sequenceAuthority{}
)
