package repositories

import (
	"context"
	"testing"
	"time"

	"backoffice/internal/models"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ReportRepoTestSuite struct {
	suite.Suite
	mock pgxmock.PgxPoolIface
	repo ReportRepository
}

func (suite *ReportRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	require.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewReportRepo(mock)
}

func (suite *ReportRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestReportRepoTestSuite(t *testing.T) {
	suite.Run(t, new(ReportRepoTestSuite))
}

func (suite *ReportRepoTestSuite) TestSalesTotals_Bounded() {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	rng := models.DateRange{Start: &start, End: &end}

	suite.mock.ExpectQuery(`COUNT\(DISTINCT ii.invoice_id\)`).WithArgs(&start, &end).
		WillReturnRows(pgxmock.NewRows([]string{"sum", "count"}).AddRow(decimal.RequireFromString("250.00"), int64(2)))

	sales, count, err := suite.repo.SalesTotals(context.Background(), rng)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), sales.Equal(decimal.NewFromInt(250)))
	assert.Equal(suite.T(), int64(2), count)
}

func (suite *ReportRepoTestSuite) TestExpenseTotal_Unbounded() {
	suite.mock.ExpectQuery(`FROM expenses`).WithArgs((*time.Time)(nil), (*time.Time)(nil)).
		WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(decimal.Zero))

	total, err := suite.repo.ExpenseTotal(context.Background(), models.DateRange{})
	require.NoError(suite.T(), err)
	assert.True(suite.T(), total.IsZero())
}

func (suite *ReportRepoTestSuite) TestTopProducts_EmptyIsNotNil() {
	suite.mock.ExpectQuery(`ORDER BY total_qty DESC, s.name ASC`).WithArgs((*time.Time)(nil), (*time.Time)(nil), 5).
		WillReturnRows(pgxmock.NewRows([]string{"name", "total_qty"}))

	products, err := suite.repo.TopProducts(context.Background(), models.DateRange{}, 5)
	require.NoError(suite.T(), err)
	assert.NotNil(suite.T(), products)
	assert.Empty(suite.T(), products)
}

func (suite *ReportRepoTestSuite) TestMonthlyIncome() {
	from := time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	march := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	suite.mock.ExpectQuery(`date_trunc\('month', i.created_at\)`).WithArgs(from, to).
		WillReturnRows(pgxmock.NewRows([]string{"month", "sum"}).AddRow(march, decimal.NewFromInt(500)))

	totals, err := suite.repo.MonthlyIncome(context.Background(), from, to)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), totals, 1)
	assert.Equal(suite.T(), march, totals[0].Month)
}
