package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Comanda-api/internal/application/dto"
	"github.com/jhoicas/Comanda-api/internal/application/inventory"
	"github.com/jhoicas/Comanda-api/internal/domain"
	"github.com/jhoicas/Comanda-api/internal/domain/entity"
	"github.com/jhoicas/Comanda-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// NoteInitialStock nota del movimiento RESTOCK que registra el stock inicial de un producto.
const NoteInitialStock = "stock inicial"

// ProductUseCase casos de uso CRUD del catálogo. El stock se maneja vía inventory.StockManager.
type ProductUseCase struct {
	repo             repository.ProductRepository
	txRunner         inventory.TxRunner
	stock            *inventory.StockManager
	defaultThreshold int
}

// NewProductUseCase construye el caso de uso. defaultThreshold <= 0 usa entity.DefaultLowStockThreshold.
func NewProductUseCase(
	repo repository.ProductRepository,
	txRunner inventory.TxRunner,
	stock *inventory.StockManager,
	defaultThreshold int,
) *ProductUseCase {
	if defaultThreshold <= 0 {
		defaultThreshold = entity.DefaultLowStockThreshold
	}
	return &ProductUseCase{repo: repo, txRunner: txRunner, stock: stock, defaultThreshold: defaultThreshold}
}

// Create crea un producto con stock 0 y, si hay stock inicial, lo registra como RESTOCK en la misma tx.
// Así el ledger reproduce el stock actual sumando movimientos desde 0.
func (uc *ProductUseCase) Create(ctx context.Context, tenantID, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if tenantID == "" || name == "" || !validPrice(in.Price) ||
		in.InitialStock < 0 || in.InitialStock > entity.MaxStockQuantity {
		return nil, domain.ErrInvalidInput
	}
	threshold := uc.defaultThreshold
	if in.LowStockThreshold != nil {
		if !validThreshold(*in.LowStockThreshold) {
			return nil, domain.ErrInvalidInput
		}
		threshold = *in.LowStockThreshold
	}
	now := time.Now()
	product := &entity.Product{
		ID:                uuid.New().String(),
		TenantID:          tenantID,
		Name:              name,
		Price:             in.Price,
		StockQuantity:     0,
		IsAvailable:       false,
		LowStockThreshold: threshold,
		UnitOfMeasure:     in.UnitOfMeasure,
		Category:          in.Category,
		ImageURL:          in.ImageURL,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
	) error {
		if err := productRepo.Create(ctx, product); err != nil {
			return err
		}
		if in.InitialStock == 0 {
			return nil
		}
		res, err := uc.stock.ApplyStockDeltaInTx(ctx, productRepo, movRepo, tenantID, product.ID, in.InitialStock,
			inventory.StockChange{Type: entity.MovementRestock, Note: NoteInitialStock, ActorID: userID},
		)
		if err != nil {
			return err
		}
		product = res.Product
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := dto.NewProductResponse(product)
	return &out, nil
}

// GetByID obtiene un producto del tenant.
func (uc *ProductUseCase) GetByID(ctx context.Context, tenantID, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.NewProductResponse(product)
	return &out, nil
}

// Update actualiza campos de catálogo. El stock no es parte de UpdateProductRequest;
// is_available sí se puede forzar (desactivación manual), y solo se escribe si viene en el request:
// una edición de nombre no pisa la disponibilidad que recalculó un movimiento concurrente.
func (uc *ProductUseCase) Update(ctx context.Context, tenantID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Name = name
	}
	if in.Price != nil {
		if !validPrice(*in.Price) {
			return nil, domain.ErrInvalidInput
		}
		product.Price = *in.Price
	}
	if in.LowStockThreshold != nil {
		if !validThreshold(*in.LowStockThreshold) {
			return nil, domain.ErrInvalidInput
		}
		product.LowStockThreshold = *in.LowStockThreshold
	}
	if in.UnitOfMeasure != nil {
		product.UnitOfMeasure = *in.UnitOfMeasure
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.ImageURL != nil {
		product.ImageURL = *in.ImageURL
	}
	product.UpdatedAt = time.Now()
	err = uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, _ repository.StockMovementRepository) error {
		if err := productRepo.Update(ctx, product); err != nil {
			return err
		}
		if in.IsAvailable != nil {
			return productRepo.SetAvailability(ctx, tenantID, id, *in.IsAvailable, product.UpdatedAt)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, tenantID, id)
}

// List lista productos del tenant con paginación.
func (uc *ProductUseCase) List(ctx context.Context, tenantID string, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.ListByTenant(ctx, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	return &dto.ProductListResponse{
		Items: dto.NewProductResponses(list),
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina el producto (borrado físico). Los movimientos quedan como historial.
func (uc *ProductUseCase) Delete(ctx context.Context, tenantID, id string) error {
	return uc.repo.Delete(ctx, tenantID, id)
}

// validPrice precio >= 0 con a lo sumo 2 decimales (columnas NUMERIC(12,2)); con más escala
// el total calculado no coincidiría con la suma de las líneas guardadas.
func validPrice(p decimal.Decimal) bool {
	return !p.IsNegative() && p.Equal(p.Truncate(2))
}

func validThreshold(n int) bool {
	return n >= 0 && n <= entity.MaxStockQuantity
}
