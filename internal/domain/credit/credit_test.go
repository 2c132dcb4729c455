package credit

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock implementation ---

// mockRepo is an in-memory credit.Repository keyed by customer id.
type mockRepo struct {
	rows    map[string]StoreCredit
	creates int
	updates int
}

func newMockRepo(rows ...StoreCredit) *mockRepo {
	m := &mockRepo{rows: make(map[string]StoreCredit)}
	for _, r := range rows {
		m.rows[r.CustomerID] = r
	}
	return m
}

func (m *mockRepo) Get(_ context.Context, customerID string) (*StoreCredit, error) {
	r, ok := m.rows[customerID]
	if !ok {
		return nil, ErrNoLedger
	}
	return &r, nil
}

func (m *mockRepo) GetForUpdate(ctx context.Context, customerID string) (*StoreCredit, error) {
	return m.Get(ctx, customerID)
}

func (m *mockRepo) Create(_ context.Context, c *StoreCredit) error {
	m.creates++
	m.rows[c.CustomerID] = *c
	return nil
}

func (m *mockRepo) Update(_ context.Context, c *StoreCredit) error {
	m.updates++
	m.rows[c.CustomerID] = *c
	return nil
}

func fixedNow() time.Time {
	return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
}

func newTestLedger(repo *mockRepo) *Ledger {
	l := NewLedger(repo)
	l.now = fixedNow
	return l
}

// --- StoreCredit transitions ---

func TestApply_PartialBalance(t *testing.T) {
	expiry := fixedNow().Add(Validity)
	c := StoreCredit{Amount: decimal.NewFromInt(10), ExpiresAt: &expiry}

	updated, applied := c.Apply(decimal.NewFromInt(4))

	assert.True(t, decimal.NewFromInt(4).Equal(applied))
	assert.True(t, decimal.NewFromInt(6).Equal(updated.Amount))
	assert.NotNil(t, updated.ExpiresAt)
}

func TestApply_DrainsBalanceAndClearsExpiry(t *testing.T) {
	expiry := fixedNow().Add(Validity)
	c := StoreCredit{Amount: decimal.NewFromInt(10), ExpiresAt: &expiry}

	updated, applied := c.Apply(decimal.NewFromInt(15))

	assert.True(t, decimal.NewFromInt(10).Equal(applied))
	assert.True(t, updated.Amount.IsZero())
	assert.Nil(t, updated.ExpiresAt)
}

func TestIssue_ResetsExpiry(t *testing.T) {
	old := fixedNow().Add(24 * time.Hour)
	c := StoreCredit{Amount: decimal.NewFromInt(3), ExpiresAt: &old}

	updated := c.Issue(decimal.NewFromInt(7), fixedNow())

	assert.True(t, decimal.NewFromInt(10).Equal(updated.Amount))
	require.NotNil(t, updated.ExpiresAt)
	assert.Equal(t, fixedNow().Add(Validity), *updated.ExpiresAt)
}

func TestExpired(t *testing.T) {
	past := fixedNow().Add(-time.Hour)
	future := fixedNow().Add(time.Hour)

	assert.True(t, StoreCredit{Amount: decimal.NewFromInt(5), ExpiresAt: &past}.Expired(fixedNow()))
	assert.False(t, StoreCredit{Amount: decimal.NewFromInt(5), ExpiresAt: &future}.Expired(fixedNow()))
	assert.False(t, StoreCredit{}.Expired(fixedNow()))
}

// --- Ledger ---

func TestLedgerApply_NoRowIsNoop(t *testing.T) {
	repo := newMockRepo()
	ledger := newTestLedger(repo)

	applied, remaining, err := ledger.Apply(context.Background(), "c1", decimal.NewFromInt(15))

	require.NoError(t, err)
	assert.True(t, applied.IsZero())
	assert.True(t, decimal.NewFromInt(15).Equal(remaining))
	assert.Zero(t, repo.updates)
}

func TestLedgerApply_DecrementsAndPersists(t *testing.T) {
	expiry := fixedNow().Add(Validity)
	repo := newMockRepo(StoreCredit{ID: "sc1", CustomerID: "c1", Amount: decimal.NewFromInt(10), ExpiresAt: &expiry})
	ledger := newTestLedger(repo)

	applied, remaining, err := ledger.Apply(context.Background(), "c1", decimal.NewFromInt(15))

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(applied))
	assert.True(t, decimal.NewFromInt(5).Equal(remaining))

	row := repo.rows["c1"]
	assert.True(t, row.Amount.IsZero())
	assert.Nil(t, row.ExpiresAt)
}

func TestLedgerApply_NeverExceedsPayable(t *testing.T) {
	expiry := fixedNow().Add(Validity)
	repo := newMockRepo(StoreCredit{ID: "sc1", CustomerID: "c1", Amount: decimal.NewFromInt(50), ExpiresAt: &expiry})
	ledger := newTestLedger(repo)

	applied, remaining, err := ledger.Apply(context.Background(), "c1", decimal.NewFromInt(15))

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(15).Equal(applied))
	assert.True(t, remaining.IsZero())
	assert.True(t, decimal.NewFromInt(35).Equal(repo.rows["c1"].Amount))
}

func TestLedgerIssue_CreatesRowLazily(t *testing.T) {
	repo := newMockRepo()
	ledger := newTestLedger(repo)

	row, err := ledger.Issue(context.Background(), "c1", decimal.NewFromInt(13))

	require.NoError(t, err)
	assert.Equal(t, 1, repo.creates)
	assert.NotEmpty(t, row.ID)
	assert.True(t, decimal.NewFromInt(13).Equal(row.Amount))
	require.NotNil(t, row.ExpiresAt)
	assert.Equal(t, fixedNow().Add(Validity), *row.ExpiresAt)
}

func TestLedgerIssue_TopUpSumsAndResetsExpiry(t *testing.T) {
	old := fixedNow().Add(time.Hour)
	repo := newMockRepo(StoreCredit{ID: "sc1", CustomerID: "c1", Amount: decimal.NewFromInt(5), ExpiresAt: &old})
	ledger := newTestLedger(repo)

	row, err := ledger.Issue(context.Background(), "c1", decimal.NewFromInt(13))

	require.NoError(t, err)
	assert.Zero(t, repo.creates)
	assert.True(t, decimal.NewFromInt(18).Equal(row.Amount))
	assert.Equal(t, fixedNow().Add(Validity), *row.ExpiresAt)
}

func TestLedgerIsExpired(t *testing.T) {
	past := fixedNow().Add(-time.Minute)
	repo := newMockRepo(StoreCredit{ID: "sc1", CustomerID: "c1", Amount: decimal.NewFromInt(5), ExpiresAt: &past})
	ledger := newTestLedger(repo)

	expired, err := ledger.IsExpired(context.Background(), "c1")
	require.NoError(t, err)
	assert.True(t, expired)

	_, err = ledger.IsExpired(context.Background(), "absent")
	require.ErrorIs(t, err, ErrNoLedger)
}
