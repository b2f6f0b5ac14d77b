package earningrepo_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/adapters/out/postgres/earningrepo"
	"dispatch/internal/core/domain/model/earning"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var deliveredAt = time.Date(2026, 10, 19, 12, 30, 0, 0, time.UTC)

type EarningRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *earningrepo.GormEarningRepository
}

func (suite *EarningRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&earningrepo.EarningDTO{}, &earningrepo.WithdrawalDTO{}))
	suite.repository = earningrepo.NewGormEarningRepository(db)
}

func (suite *EarningRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE delivery_earnings, partner_withdrawals").Error)
}

func (suite *EarningRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *EarningRepositoryIntegrationTestSuite) TestAddIfAbsent_RecordsAnOrderOnce() {
	ctx := context.Background()
	orderID := kernel.NewUUID()
	partnerID := kernel.NewUUID()

	first, err := earning.NewRecord(orderID, partnerID, kernel.Money(15000), 23, deliveredAt)
	suite.Require().NoError(err)
	retry, err := earning.NewRecord(orderID, partnerID, kernel.Money(99999), 40, deliveredAt.Add(time.Minute))
	suite.Require().NoError(err)

	suite.Require().NoError(suite.repository.AddIfAbsent(ctx, first))
	suite.Require().ErrorIs(suite.repository.AddIfAbsent(ctx, retry), earning.ErrDuplicate)

	stored, err := suite.repository.GetByOrder(ctx, orderID)
	suite.Require().NoError(err)
	suite.Equal(first.ID(), stored.ID())
	suite.Equal(kernel.Money(15000), stored.Amount())
	suite.Equal(23, stored.DurationMinutes())

	records, err := suite.repository.ListByPartner(ctx, partnerID)
	suite.Require().NoError(err)
	suite.Len(records, 1)
}

func (suite *EarningRepositoryIntegrationTestSuite) TestGetByOrder_Missing_ReturnsNotFound() {
	_, err := suite.repository.GetByOrder(context.Background(), kernel.NewUUID())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *EarningRepositoryIntegrationTestSuite) TestBalance_SubtractsCompletedAndPendingWithdrawals() {
	ctx := context.Background()
	partnerID := kernel.NewUUID()

	for _, amount := range []kernel.Money{15000, 20000, 10000} {
		rec, err := earning.NewRecord(kernel.NewUUID(), partnerID, amount, 20, deliveredAt)
		suite.Require().NoError(err)
		suite.Require().NoError(suite.repository.AddIfAbsent(ctx, rec))
	}

	other, err := earning.NewRecord(kernel.NewUUID(), kernel.NewUUID(), kernel.Money(70000), 20, deliveredAt)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.AddIfAbsent(ctx, other))

	completed := suite.addWithdrawal(partnerID, kernel.Money(10000), earning.Balance{Earned: 45000})
	suite.Require().NoError(completed.Resolve(earning.WithdrawalCompleted, deliveredAt.Add(time.Hour)))
	suite.Require().NoError(suite.repository.ResolveWithdrawal(ctx, completed))

	suite.addWithdrawal(partnerID, kernel.Money(12000), earning.Balance{Earned: 45000, Withdrawn: 10000})

	rejected := suite.addWithdrawal(partnerID, kernel.Money(10000), earning.Balance{Earned: 45000, Withdrawn: 10000, Pending: 12000})
	suite.Require().NoError(rejected.Resolve(earning.WithdrawalRejected, deliveredAt.Add(time.Hour)))
	suite.Require().NoError(suite.repository.ResolveWithdrawal(ctx, rejected))

	balance, err := suite.repository.Balance(ctx, partnerID)

	suite.Require().NoError(err)
	suite.Equal(kernel.Money(45000), balance.Earned)
	suite.Equal(kernel.Money(10000), balance.Withdrawn)
	suite.Equal(kernel.Money(12000), balance.Pending)
	suite.Equal(kernel.Money(23000), balance.Available())
}

func (suite *EarningRepositoryIntegrationTestSuite) TestResolveWithdrawal_OnlyOnce() {
	ctx := context.Background()
	partnerID := kernel.NewUUID()
	w := suite.addWithdrawal(partnerID, kernel.Money(10000), earning.Balance{Earned: 50000})

	first, err := suite.repository.GetWithdrawal(ctx, w.ID())
	suite.Require().NoError(err)
	second, err := suite.repository.GetWithdrawal(ctx, w.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(first.Resolve(earning.WithdrawalCompleted, deliveredAt))
	suite.Require().NoError(suite.repository.ResolveWithdrawal(ctx, first))

	suite.Require().NoError(second.Resolve(earning.WithdrawalRejected, deliveredAt))
	err = suite.repository.ResolveWithdrawal(ctx, second)
	suite.Require().ErrorIs(err, earning.ErrWithdrawalAlreadyResolved)

	stored, err := suite.repository.GetWithdrawal(ctx, w.ID())
	suite.Require().NoError(err)
	suite.Equal(earning.WithdrawalCompleted, stored.Status())
	suite.Require().NotNil(stored.ResolvedAt())
}

func (suite *EarningRepositoryIntegrationTestSuite) addWithdrawal(
	partnerID kernel.UUID,
	amount kernel.Money,
	balance earning.Balance,
) earning.Withdrawal {
	w, err := earning.NewWithdrawal(partnerID, amount, kernel.Money(10000), balance, deliveredAt)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.AddWithdrawal(context.Background(), w))
	return w
}

func TestEarningRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(EarningRepositoryIntegrationTestSuite))
}
