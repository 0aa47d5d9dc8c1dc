//go:build integration

package repositories

import (
	"context"
	"testing"
	"time"

	"backoffice/internal/common"
	"backoffice/internal/models"
	"backoffice/pkg/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

// newTestPool starts a throwaway PostgreSQL, applies migrations and returns a pool.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("backoffice_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	logger := zap.NewNop()
	require.NoError(t, database.Migrate(dsn, logger))

	pool, err := database.NewPool(ctx, database.PoolConfig{URL: dsn, MaxConns: 4}, logger)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestIntegration_InvoiceLifecycle(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()

	services := NewServiceRepo(pool)
	invoices := NewInvoiceRepo(pool)
	reports := NewReportRepo(pool)

	design := &models.Service{Name: "Design", Price: decimal.NewFromInt(10)}
	printing := &models.Service{Name: "Print", Price: decimal.NewFromInt(5)}
	require.NoError(t, services.Create(ctx, design))
	require.NoError(t, services.Create(ctx, printing))

	id, err := invoices.Create(ctx, "Ahmad", []models.InvoiceItemInput{
		{ServiceID: design.ID, Quantity: 2, Price: decimal.NewFromInt(10)},
		{ServiceID: printing.ID, Quantity: 1, Price: decimal.NewFromInt(5)},
	})
	require.NoError(t, err)

	invoice, err := invoices.GetByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, invoice.TotalAmount().Equal(decimal.NewFromInt(25)))

	t.Run("failed replace keeps previous items", func(t *testing.T) {
		bad := []models.InvoiceItemInput{
			{ServiceID: design.ID, Quantity: 1, Price: decimal.NewFromInt(1)},
			{ServiceID: 999999, Quantity: 1, Price: decimal.NewFromInt(1)},
		}
		err := invoices.Replace(ctx, id, nil, &bad)
		var verr *common.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "items[1].service")

		after, err := invoices.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Len(t, after.Items, 2)
		assert.True(t, after.TotalAmount().Equal(decimal.NewFromInt(25)))
	})

	t.Run("referenced service cannot be deleted", func(t *testing.T) {
		assert.ErrorIs(t, services.Delete(ctx, design.ID), common.ErrConflict)
	})

	t.Run("report counts distinct invoices", func(t *testing.T) {
		sales, count, err := reports.SalesTotals(ctx, models.DateRange{})
		require.NoError(t, err)
		assert.True(t, sales.Equal(decimal.NewFromInt(25)))
		assert.Equal(t, int64(1), count)

		top, err := reports.TopProducts(ctx, models.DateRange{}, 5)
		require.NoError(t, err)
		require.Len(t, top, 2)
		assert.Equal(t, "Design", top[0].Name)
		assert.Equal(t, int64(2), top[0].TotalQty)
	})

	t.Run("empty replace clears items then service delete succeeds", func(t *testing.T) {
		empty := []models.InvoiceItemInput{}
		require.NoError(t, invoices.Replace(ctx, id, nil, &empty))
		assert.NoError(t, services.Delete(ctx, printing.ID))
	})
}

func TestIntegration_CompanySingleton(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	repo := NewCompanyRepo(pool)

	first, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultCompanyName, first.CompanyName)

	first.Phone = "0700000000"
	require.NoError(t, repo.Save(ctx, first))

	again, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0700000000", again.Phone)

	var rows int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM company_settings`).Scan(&rows))
	assert.Equal(t, 1, rows)
}
