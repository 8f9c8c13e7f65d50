package details

import (
	"github.com/gofiber/fiber/v2"

	allocationRoute "hopefoundation_backend/internals/features/finance/allocations/route"
	allocationService "hopefoundation_backend/internals/features/finance/allocations/service"
	auditRoute "hopefoundation_backend/internals/features/finance/audit/route"
	auditService "hopefoundation_backend/internals/features/finance/audit/service"
	ledgerRoute "hopefoundation_backend/internals/features/finance/ledger/route"
	ledgerService "hopefoundation_backend/internals/features/finance/ledger/service"
	paymentRoute "hopefoundation_backend/internals/features/finance/payments/route"
	paymentService "hopefoundation_backend/internals/features/finance/payments/service"
	reconRoute "hopefoundation_backend/internals/features/finance/reconciliation/route"
	reconService "hopefoundation_backend/internals/features/finance/reconciliation/service"
)

// FinanceServices dibangun sekali di main lalu dibagi ke semua group.
type FinanceServices struct {
	Ledger   *ledgerService.LedgerService
	Alloc    *allocationService.AllocationService
	Recon    *reconService.ReconciliationService
	Audit    *auditService.AuditService
	Payments *paymentService.PaymentService
}

func FinancePublicRoutes(r fiber.Router, s *FinanceServices) {
	reconRoute.ReconciliationPublicRoutes(r, s.Recon)
	allocationRoute.AllocationPublicRoutes(r, s.Alloc)
	paymentRoute.PaymentPublicRoutes(r, s.Payments)
}

func FinanceAdminRoutes(r fiber.Router, s *FinanceServices) {
	ledgerRoute.LedgerAdminRoutes(r, s.Ledger)
	allocationRoute.AllocationAdminRoutes(r, s.Alloc)
	reconRoute.ReconciliationAdminRoutes(r, s.Recon)
	auditRoute.AuditAdminRoutes(r, s.Audit)
}

func FinanceOwnerRoutes(r fiber.Router, s *FinanceServices) {
	ledgerRoute.LedgerOwnerRoutes(r, s.Ledger)
}
