package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Comanda-api/internal/domain"
)

func TestInsufficientStockError_EsErrInsufficientStock(t *testing.T) {
	err := fmt.Errorf("crear pedido: %w", domain.NewInsufficientStock("p1", 2, 5))

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var detail *domain.InsufficientStockError
	require.True(t, errors.As(err, &detail))
	assert.Equal(t, "p1", detail.ProductID)
	assert.Equal(t, 2, detail.Available)
	assert.Equal(t, 5, detail.Requested)
	assert.Contains(t, err.Error(), "p1")
}
