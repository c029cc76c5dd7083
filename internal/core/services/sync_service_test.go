package services_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"upsync/internal/adapters/upapi"
	"upsync/internal/apperrors"
	"upsync/internal/core/domain"
	portssvc "upsync/internal/core/ports/services"
	"upsync/internal/core/services"
	"upsync/internal/mockup"
)

const testToken = "up:test:token"

// MockAccountRepository is a mock type for the AccountRepository interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccountRefs(ctx context.Context) ([]domain.AccountRef, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountRef), args.Error(1)
}

func (m *MockAccountRepository) UpsertAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// MockTransactionRepository is a mock type for the TransactionRepository interface
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) MaxTransactionCreatedAt(ctx context.Context, accountID string) (*time.Time, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

func (m *MockTransactionRepository) UpsertTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

// --- Test Suite Setup ---

type SyncServiceTestSuite struct {
	suite.Suite
	server      *mockup.Server
	ts          *httptest.Server
	client      *upapi.Client
	accountRepo *MockAccountRepository
	txnRepo     *MockTransactionRepository
	logger      *slog.Logger
	frozenNow   time.Time
}

func (s *SyncServiceTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.server = mockup.NewServer(testToken, mockup.WithPageSize(2))
	s.ts = httptest.NewServer(s.server.Router())
	s.client = upapi.NewClient(s.ts.URL, testToken)
	s.accountRepo = new(MockAccountRepository)
	s.txnRepo = new(MockTransactionRepository)
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s.frozenNow = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
}

func (s *SyncServiceTestSuite) TearDownTest() {
	s.ts.Close()
}

func (s *SyncServiceTestSuite) newService(options ...services.SyncServiceOption) portssvc.SyncSvc {
	options = append([]services.SyncServiceOption{
		services.WithClock(func() time.Time { return s.frozenNow }),
	}, options...)
	return services.NewSyncService(s.client, s.accountRepo, s.txnRepo, s.logger, options...)
}

func (s *SyncServiceTestSuite) seedAccount(id, name, value string) {
	s.server.SeedAccount(mockup.AccountFixture{
		ID:            id,
		DisplayName:   name,
		AccountType:   "TRANSACTIONAL",
		OwnershipType: "INDIVIDUAL",
		Value:         value,
		ValueBase:     1000,
		Currency:      "AUD",
		CreatedAt:     time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
	})
}

func (s *SyncServiceTestSuite) seedTransaction(accountID, txnID string, createdAt time.Time) {
	s.server.SeedTransaction(accountID, mockup.TransactionFixture{
		ID:            txnID,
		Status:        "SETTLED",
		Description:   "Test transaction",
		Categorizable: true,
		Value:         "-5.00",
		ValueBase:     -500,
		Currency:      "AUD",
		CreatedAt:     createdAt,
	})
}

// --- Account sync ---

func (s *SyncServiceTestSuite) TestSyncAccounts_Success() {
	s.seedAccount("acc-1", "Spending", "10.00")
	s.seedAccount("acc-2", "Saver", "20.00")
	s.seedAccount("acc-3", "Joint", "30.00")
	s.accountRepo.On("UpsertAccount", mock.Anything, mock.AnythingOfType("domain.Account")).Return(nil)

	result, err := s.newService().SyncAccounts(context.Background())

	require.NoError(s.T(), err)
	assert.Equal(s.T(), 3, result.Processed)
	assert.Equal(s.T(), 0, result.Failed)
	s.accountRepo.AssertNumberOfCalls(s.T(), "UpsertAccount", 3)
}

func (s *SyncServiceTestSuite) TestSyncAccounts_StoreFailureIsContained() {
	s.seedAccount("acc-1", "Spending", "10.00")
	s.seedAccount("acc-2", "Saver", "20.00")
	s.seedAccount("acc-3", "Joint", "30.00")
	s.accountRepo.On("UpsertAccount", mock.Anything, mock.MatchedBy(func(a domain.Account) bool {
		return a.ID == "acc-2"
	})).Return(&apperrors.StoreError{RecordID: "acc-2", Err: assert.AnError})
	s.accountRepo.On("UpsertAccount", mock.Anything, mock.Anything).Return(nil)

	result, err := s.newService().SyncAccounts(context.Background())

	// One bad record never aborts the listing; it is counted, not dropped.
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 3, result.Processed)
	assert.Equal(s.T(), 1, result.Failed)
}

func (s *SyncServiceTestSuite) TestSyncAccounts_FetchErrorAborts() {
	s.seedAccount("acc-1", "Spending", "10.00")
	badClient := upapi.NewClient(s.ts.URL, "wrong-token")
	svc := services.NewSyncService(badClient, s.accountRepo, s.txnRepo, s.logger)

	_, err := svc.SyncAccounts(context.Background())

	var fetchErr *apperrors.FetchError
	require.ErrorAs(s.T(), err, &fetchErr)
	assert.Equal(s.T(), http.StatusUnauthorized, fetchErr.Status)
	s.accountRepo.AssertNotCalled(s.T(), "UpsertAccount", mock.Anything, mock.Anything)
}

func (s *SyncServiceTestSuite) TestSyncAccounts_RefetchReplacesRecord() {
	s.seedAccount("acc-1", "Spending", "10.00")
	var seen []domain.Account
	s.accountRepo.On("UpsertAccount", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		seen = append(seen, args.Get(1).(domain.Account))
	}).Return(nil)
	svc := s.newService()

	_, err := svc.SyncAccounts(context.Background())
	require.NoError(s.T(), err)

	s.server.ReplaceAccount(mockup.AccountFixture{
		ID:            "acc-1",
		DisplayName:   "Renamed",
		AccountType:   "SAVER",
		OwnershipType: "INDIVIDUAL",
		Value:         "99.99",
		ValueBase:     9999,
		Currency:      "AUD",
		CreatedAt:     time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
	})

	_, err = svc.SyncAccounts(context.Background())
	require.NoError(s.T(), err)

	// Each sync hands the store the full current record, so the changed
	// payload supersedes every field of the prior one.
	require.Len(s.T(), seen, 2)
	assert.Equal(s.T(), "Spending", seen[0].DisplayName)
	assert.Equal(s.T(), "Renamed", seen[1].DisplayName)
	assert.Equal(s.T(), "99.99", seen[1].ValueStr)
	assert.Equal(s.T(), "SAVER", seen[1].AccountType)
}

// --- Transaction sync orchestration ---

func (s *SyncServiceTestSuite) TestSyncTransactions_FanOutIsolation() {
	now := s.frozenNow
	s.seedAccount("acc-1", "Spending", "10.00")
	s.seedAccount("acc-2", "Saver", "20.00")
	s.seedTransaction("acc-1", "txn-a", now.Add(-24*time.Hour))
	s.seedTransaction("acc-1", "txn-b", now.Add(-12*time.Hour))
	s.seedTransaction("acc-2", "txn-c", now.Add(-6*time.Hour))

	s.accountRepo.On("ListAccountRefs", mock.Anything).Return([]domain.AccountRef{
		{ID: "acc-1", DisplayName: "Spending"},
		{ID: "acc-2", DisplayName: "Saver"},
	}, nil)
	s.txnRepo.On("MaxTransactionCreatedAt", mock.Anything, mock.Anything).Return(nil, nil)

	var mu sync.Mutex
	upserted := make(map[string][]string)
	s.txnRepo.On("UpsertTransaction", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		txn := args.Get(1).(domain.Transaction)
		mu.Lock()
		upserted[txn.AccountID] = append(upserted[txn.AccountID], txn.ID)
		mu.Unlock()
	}).Return(nil)

	results, err := s.newService().SyncTransactions(context.Background(), nil)
	require.NoError(s.T(), err)
	require.Len(s.T(), results, 2)

	byAccount := make(map[string]domain.AccountSyncResult)
	for _, r := range results {
		byAccount[r.AccountID] = r
	}
	assert.NoError(s.T(), byAccount["acc-1"].Err)
	assert.Equal(s.T(), 2, byAccount["acc-1"].Processed)
	assert.NoError(s.T(), byAccount["acc-2"].Err)
	assert.Equal(s.T(), 1, byAccount["acc-2"].Processed)

	// Each account's task only ever wrote its own transactions.
	assert.ElementsMatch(s.T(), []string{"txn-a", "txn-b"}, upserted["acc-1"])
	assert.ElementsMatch(s.T(), []string{"txn-c"}, upserted["acc-2"])
}

func (s *SyncServiceTestSuite) TestSyncTransactions_TaskFailureIsSurfaced() {
	now := s.frozenNow
	s.seedAccount("acc-1", "Spending", "10.00")
	s.seedTransaction("acc-1", "txn-a", now.Add(-1*time.Hour))

	s.accountRepo.On("ListAccountRefs", mock.Anything).Return([]domain.AccountRef{
		{ID: "acc-1", DisplayName: "Spending"},
		{ID: "acc-gone", DisplayName: "Closed"},
	}, nil)
	s.txnRepo.On("MaxTransactionCreatedAt", mock.Anything, mock.Anything).Return(nil, nil)
	s.txnRepo.On("UpsertTransaction", mock.Anything, mock.Anything).Return(nil)

	results, err := s.newService().SyncTransactions(context.Background(), nil)
	require.NoError(s.T(), err)
	require.Len(s.T(), results, 2)

	byAccount := make(map[string]domain.AccountSyncResult)
	for _, r := range results {
		byAccount[r.AccountID] = r
	}

	// The unknown account's fetch 404s; its task dies with a FetchError
	// while the sibling completes untouched.
	var fetchErr *apperrors.FetchError
	require.ErrorAs(s.T(), byAccount["acc-gone"].Err, &fetchErr)
	assert.Equal(s.T(), http.StatusNotFound, fetchErr.Status)
	assert.NoError(s.T(), byAccount["acc-1"].Err)
	assert.Equal(s.T(), 1, byAccount["acc-1"].Processed)
}

func (s *SyncServiceTestSuite) TestSyncTransactions_ExplicitAccountSet() {
	now := s.frozenNow
	s.seedAccount("acc-7", "Spending", "10.00")
	s.seedTransaction("acc-7", "txn-a", now.Add(-1*time.Hour))

	s.accountRepo.On("FindAccountByID", mock.Anything, "acc-7").Return(nil, apperrors.ErrNotFound)
	s.txnRepo.On("MaxTransactionCreatedAt", mock.Anything, "acc-7").Return(nil, nil)
	s.txnRepo.On("UpsertTransaction", mock.Anything, mock.Anything).Return(nil)

	results, err := s.newService().SyncTransactions(context.Background(), []string{"acc-7"})
	require.NoError(s.T(), err)
	require.Len(s.T(), results, 1)
	assert.Equal(s.T(), "acc-7", results[0].AccountID)
	assert.Equal(s.T(), 1, results[0].Processed)
	assert.NoError(s.T(), results[0].Err)

	// An explicit set bypasses store-driven targeting entirely.
	s.accountRepo.AssertNotCalled(s.T(), "ListAccountRefs", mock.Anything)
}

// --- Watermark resolution ---

func (s *SyncServiceTestSuite) TestWatermark_DefaultLookback() {
	s.seedAccount("acc-1", "Spending", "10.00")
	s.accountRepo.On("ListAccountRefs", mock.Anything).Return([]domain.AccountRef{{ID: "acc-1"}}, nil)
	s.txnRepo.On("MaxTransactionCreatedAt", mock.Anything, "acc-1").Return(nil, nil)

	_, err := s.newService().SyncTransactions(context.Background(), nil)
	require.NoError(s.T(), err)

	assert.Equal(s.T(), "2023-12-02T00:00:00+00:00", s.server.SinceFor("acc-1"))
}

func (s *SyncServiceTestSuite) TestWatermark_FromStoredHistory() {
	s.seedAccount("acc-1", "Spending", "10.00")
	latest := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.accountRepo.On("ListAccountRefs", mock.Anything).Return([]domain.AccountRef{{ID: "acc-1"}}, nil)
	s.txnRepo.On("MaxTransactionCreatedAt", mock.Anything, "acc-1").Return(&latest, nil)

	_, err := s.newService().SyncTransactions(context.Background(), nil)
	require.NoError(s.T(), err)

	assert.Equal(s.T(), "2024-01-01T00:00:00+00:00", s.server.SinceFor("acc-1"))
}

func (s *SyncServiceTestSuite) TestWatermark_ExplicitLookbackPrecedence() {
	s.seedAccount("acc-1", "Spending", "10.00")
	s.accountRepo.On("ListAccountRefs", mock.Anything).Return([]domain.AccountRef{{ID: "acc-1"}}, nil)

	_, err := s.newService(services.WithLookbackDays(7)).SyncTransactions(context.Background(), nil)
	require.NoError(s.T(), err)

	assert.Equal(s.T(), "2023-12-25T00:00:00+00:00", s.server.SinceFor("acc-1"))
	s.txnRepo.AssertNotCalled(s.T(), "MaxTransactionCreatedAt", mock.Anything, mock.Anything)
}

func (s *SyncServiceTestSuite) TestWatermark_ZeroLookbackIsHonoured() {
	s.seedAccount("acc-1", "Spending", "10.00")
	s.accountRepo.On("ListAccountRefs", mock.Anything).Return([]domain.AccountRef{{ID: "acc-1"}}, nil)

	_, err := s.newService(services.WithLookbackDays(0)).SyncTransactions(context.Background(), nil)
	require.NoError(s.T(), err)

	assert.Equal(s.T(), "2024-01-01T00:00:00+00:00", s.server.SinceFor("acc-1"))
}

// --- Authentication ---

func (s *SyncServiceTestSuite) TestAuthenticate_InvalidTokenShortCircuits() {
	s.seedAccount("acc-1", "Spending", "10.00")
	badClient := upapi.NewClient(s.ts.URL, "wrong-token")
	svc := services.NewSyncService(badClient, s.accountRepo, s.txnRepo, s.logger)

	err := svc.Authenticate(context.Background())

	var authErr *apperrors.AuthenticationError
	require.ErrorAs(s.T(), err, &authErr)
	assert.Equal(s.T(), http.StatusUnauthorized, authErr.Status)
	assert.Equal(s.T(), 0, s.server.AccountListCalls())
	s.accountRepo.AssertNotCalled(s.T(), "UpsertAccount", mock.Anything, mock.Anything)
}

// --- Full run ---

func (s *SyncServiceTestSuite) TestSync_SummaryNeverHidesTaskFailures() {
	now := s.frozenNow
	s.seedAccount("acc-1", "Spending", "10.00")
	s.seedTransaction("acc-1", "txn-a", now.Add(-1*time.Hour))

	s.accountRepo.On("UpsertAccount", mock.Anything, mock.Anything).Return(nil)
	s.accountRepo.On("ListAccountRefs", mock.Anything).Return([]domain.AccountRef{
		{ID: "acc-1", DisplayName: "Spending"},
		{ID: "acc-gone", DisplayName: "Closed"},
	}, nil)
	s.txnRepo.On("MaxTransactionCreatedAt", mock.Anything, mock.Anything).Return(nil, nil)
	s.txnRepo.On("UpsertTransaction", mock.Anything, mock.Anything).Return(nil)

	summary, err := s.newService().Sync(context.Background())
	require.NoError(s.T(), err)
	require.NotNil(s.T(), summary)

	assert.NotEmpty(s.T(), summary.RunID)
	assert.Equal(s.T(), 1, summary.Accounts.Processed)
	require.Len(s.T(), summary.Transactions, 2)
	require.Len(s.T(), summary.Failures(), 1)
	assert.Equal(s.T(), "acc-gone", summary.Failures()[0].AccountID)
}

func TestSyncServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SyncServiceTestSuite))
}
