package db

import (
	"context"
	"testing"

	"github.com/rogerio-castellano/vending-machine/internal/models"
	"github.com/rogerio-castellano/vending-machine/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed_EmptyStore(t *testing.T) {
	products := repo.NewInMemoryProductRepository()

	n, err := Seed(context.Background(), products, DefaultCatalog)
	require.NoError(t, err)
	assert.Equal(t, len(DefaultCatalog), n)

	coke, err := products.GetByID(context.Background(), "coke")
	require.NoError(t, err)
	assert.Equal(t, "Coke", coke.Name)
	assert.Equal(t, "1.5", coke.Price.String())
}

func TestSeed_LeavesExistingCatalogAlone(t *testing.T) {
	products := repo.NewInMemoryProductRepository()
	_, err := products.Create(context.Background(), models.Product{ID: "gum", Name: "Gum", Stock: 1})
	require.NoError(t, err)

	n, err := Seed(context.Background(), products, DefaultCatalog)
	require.NoError(t, err)
	assert.Zero(t, n)

	all, err := products.GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
