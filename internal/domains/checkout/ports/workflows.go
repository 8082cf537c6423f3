package ports

import (
	"context"

	"github.com/Apurer/gift-registry/internal/domains/checkout/domain"
)

// FulfillmentOrchestrator runs the post-order steps: inventory increments then post-commit hooks.
type FulfillmentOrchestrator interface {
	Fulfill(ctx context.Context, committed domain.CommittedOrder) (domain.FulfillmentReport, error)
}
