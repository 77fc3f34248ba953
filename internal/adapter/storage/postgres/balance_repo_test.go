package postgres

import (
	"context"
	"testing"
	"time"

	"gyro-ledger/internal/core/domain"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAccount  = domain.Address("GA5ZSEJYB37JRC5AVCIA5MOP4RHTM335X2KGX3IHOJAPP5RE34K4KZVN")
	testAccount2 = domain.Address("GDRXE2BQUC3AZNPVFSCEZ76NJ3WWL25FYFK6RGZGIEKWE4SOOHSUJUJ6")
)

func newTestBalance(amount int64) *domain.Balance {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Balance{
		Account:   testAccount,
		AssetType: domain.AssetUSDC,
		Amount:    amount,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func balanceColumns() []string {
	return []string{"account", "asset_type", "amount", "created_at", "updated_at"}
}

func balanceRow(b *domain.Balance) *pgxmock.Rows {
	return pgxmock.NewRows(balanceColumns()).AddRow(
		b.Account, b.AssetType, b.Amount, b.CreatedAt, b.UpdatedAt,
	)
}

func TestBalanceRepo_RegisterZero(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBalanceRepo(mock)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO balances").
		WithArgs(testAccount, domain.AssetUSDC).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.RegisterZero(context.Background(), tx, testAccount, domain.AssetUSDC)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBalanceRepo_RegisterZero_ExistingRowUntouched(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBalanceRepo(mock)

	// ON CONFLICT DO NOTHING reports zero affected rows; not an error.
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO balances").
		WithArgs(testAccount, domain.AssetUSDC).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.RegisterZero(context.Background(), tx, testAccount, domain.AssetUSDC)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBalanceRepo_Get(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBalanceRepo(mock)
	b := newTestBalance(250)

	mock.ExpectQuery("SELECT .+ FROM balances WHERE account").
		WithArgs(testAccount, domain.AssetUSDC).
		WillReturnRows(balanceRow(b))

	result, err := repo.Get(context.Background(), testAccount, domain.AssetUSDC)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, int64(250), result.Amount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBalanceRepo_Get_NotRegistered(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBalanceRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM balances WHERE account").
		WithArgs(testAccount2, domain.AssetBS).
		WillReturnRows(pgxmock.NewRows(balanceColumns()))

	result, err := repo.Get(context.Background(), testAccount2, domain.AssetBS)
	require.NoError(t, err)
	assert.Nil(t, result, "unregistered pair should read as nil, not error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBalanceRepo_GetForUpdate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBalanceRepo(mock)
	b := newTestBalance(1000)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM balances WHERE account .+ FOR UPDATE").
		WithArgs(testAccount, domain.AssetUSDC).
		WillReturnRows(balanceRow(b))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	result, err := repo.GetForUpdate(context.Background(), tx, testAccount, domain.AssetUSDC)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, int64(1000), result.Amount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBalanceRepo_UpdateAmount(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBalanceRepo(mock)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE balances SET amount").
		WithArgs(int64(60), testAccount, domain.AssetUSDC).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.UpdateAmount(context.Background(), tx, testAccount, domain.AssetUSDC, 60)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBalanceRepo_UpdateAmount_MissingRow(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBalanceRepo(mock)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE balances SET amount").
		WithArgs(int64(10), testAccount2, domain.AssetBS).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.UpdateAmount(context.Background(), tx, testAccount2, domain.AssetBS, 10)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
