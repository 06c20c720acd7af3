package inventory

import (
	"context"

	"github.com/jhoicas/Comanda-api/internal/application/dto"
	"github.com/jhoicas/Comanda-api/internal/domain"
)

// AdjustStockFromRequest adapta el request HTTP al caso de uso AdjustStock(ctx, AdjustStockInput).
// Delta ausente en el body equivale a 0 y se rechaza con ErrInvalidInput.
func (p *StockPolicy) AdjustStockFromRequest(ctx context.Context, tenantID, userID, productID string, in dto.AdjustStockRequest) (*StockResult, error) {
	delta := 0
	if in.Delta != nil {
		delta = *in.Delta
	}
	return p.AdjustStock(ctx, AdjustStockInput{
		TenantID:  tenantID,
		UserID:    userID,
		ProductID: productID,
		Delta:     delta,
		Type:      in.Type,
		Note:      in.Note,
	})
}

// SetStockLevelFromRequest adapta el request HTTP al caso de uso SetStockLevel.
func (p *StockPolicy) SetStockLevelFromRequest(ctx context.Context, tenantID, userID, productID string, in dto.SetStockLevelRequest) (*StockResult, error) {
	if in.Quantity == nil {
		return nil, domain.ErrInvalidInput
	}
	return p.SetStockLevel(ctx, SetStockLevelInput{
		TenantID:  tenantID,
		UserID:    userID,
		ProductID: productID,
		Quantity:  *in.Quantity,
		Note:      in.Note,
	})
}
