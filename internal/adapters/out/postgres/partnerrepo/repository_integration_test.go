package partnerrepo_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/adapters/out/postgres/partnerrepo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/partner"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

type PartnerRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *partnerrepo.GormPartnerRepository
}

func (suite *PartnerRepositoryIntegrationTestSuite) SetupSuite() {
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

	suite.Require().NoError(db.AutoMigrate(&partnerrepo.PartnerDTO{}))
}

func (suite *PartnerRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE delivery_partners").Error)

	tracker := new(MockAggregateTracker)
	tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.repository = partnerrepo.NewGormPartnerRepository(suite.db, tracker)
}

func (suite *PartnerRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *PartnerRepositoryIntegrationTestSuite) TestAdd_ThenGet_RestoresProfile() {
	ctx := context.Background()
	p, err := partner.NewProfile(kernel.NewUUID(), "Ravi", "+91-98450-00000")
	suite.Require().NoError(err)

	suite.Require().NoError(suite.repository.Add(ctx, p))
	got, err := suite.repository.Get(ctx, p.ID())

	suite.Require().NoError(err)
	suite.Equal("Ravi", got.Name())
	suite.Equal("+91-98450-00000", got.Phone())
	suite.Equal(partner.KYCNotSubmitted, got.KYCStatus())
	suite.False(got.IsOnline())
	suite.Nil(got.LastLocation())

	suite.Require().ErrorIs(suite.repository.Add(ctx, p), errs.ErrConflict)
}

func (suite *PartnerRepositoryIntegrationTestSuite) TestUpdate_PersistsKYCAndAvailability() {
	ctx := context.Background()
	p := suite.saveApprovedOnline("Asha")

	suite.Require().NoError(p.ChangeKYCStatus(partner.KYCRejected))
	suite.Require().NoError(suite.repository.Update(ctx, p))

	got, err := suite.repository.Get(ctx, p.ID())
	suite.Require().NoError(err)
	suite.Equal(partner.KYCRejected, got.KYCStatus())
	suite.False(got.IsOnline())
}

func (suite *PartnerRepositoryIntegrationTestSuite) TestUpdate_Missing_ReturnsNotFound() {
	p, err := partner.NewProfile(kernel.NewUUID(), "Ghost", "")
	suite.Require().NoError(err)

	suite.Require().ErrorIs(suite.repository.Update(context.Background(), p), errs.ErrObjectNotFound)
}

func (suite *PartnerRepositoryIntegrationTestSuite) TestListOnlineApproved_SkipsOfflineAndUnverified() {
	ctx := context.Background()
	suite.saveApprovedOnline("Zoya")
	suite.saveApprovedOnline("Arjun")

	offline := suite.saveApprovedOnline("Meera")
	offline.GoOffline()
	suite.Require().NoError(suite.repository.Update(ctx, offline))

	pending, err := partner.NewProfile(kernel.NewUUID(), "Kiran", "")
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(ctx, pending))

	online, err := suite.repository.ListOnlineApproved(ctx)

	suite.Require().NoError(err)
	suite.Require().Len(online, 2)
	suite.Equal("Arjun", online[0].Name())
	suite.Equal("Zoya", online[1].Name())
}

func (suite *PartnerRepositoryIntegrationTestSuite) TestIncrementDeliveryCount() {
	ctx := context.Background()
	p := suite.saveApprovedOnline("Ravi")

	suite.Require().NoError(suite.repository.IncrementDeliveryCount(ctx, p.ID()))
	suite.Require().NoError(suite.repository.IncrementDeliveryCount(ctx, p.ID()))

	got, err := suite.repository.Get(ctx, p.ID())
	suite.Require().NoError(err)
	suite.Equal(2, got.DeliveryCount())

	suite.Require().ErrorIs(suite.repository.IncrementDeliveryCount(ctx, kernel.NewUUID()), errs.ErrObjectNotFound)
}

func (suite *PartnerRepositoryIntegrationTestSuite) TestSaveLastLocation_IgnoresOlderSamples() {
	ctx := context.Background()
	p := suite.saveApprovedOnline("Ravi")
	at := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	newer, err := kernel.NewGeoPoint(12.9716, 77.5946)
	suite.Require().NoError(err)
	older, err := kernel.NewGeoPoint(12.9000, 77.5000)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.repository.SaveLastLocation(ctx, p.ID(), newer, at))
	suite.Require().NoError(suite.repository.SaveLastLocation(ctx, p.ID(), older, at.Add(-time.Minute)))

	got, err := suite.repository.Get(ctx, p.ID())
	suite.Require().NoError(err)
	suite.Require().NotNil(got.LastLocation())
	same, err := got.LastLocation().IsEqual(newer)
	suite.Require().NoError(err)
	suite.True(same)
	suite.True(at.Equal(*got.LastLocationAt()))
}

func (suite *PartnerRepositoryIntegrationTestSuite) TestGetForUpdate_InsideTransaction() {
	ctx := context.Background()
	p := suite.saveApprovedOnline("Ravi")

	err := suite.db.Transaction(func(tx *gorm.DB) error {
		repo := partnerrepo.NewGormPartnerRepository(tx, noopTracker{})
		got, err := repo.GetForUpdate(ctx, p.ID())
		if err != nil {
			return err
		}
		suite.Equal(p.ID(), got.ID())
		return nil
	})

	suite.Require().NoError(err)
}

func (suite *PartnerRepositoryIntegrationTestSuite) TestGetForUpdate_GoOnlineWaitsForConcurrentRejection() {
	ctx := context.Background()
	p := suite.saveApprovedOnline("Ravi")
	p.GoOffline()
	suite.Require().NoError(suite.repository.Update(ctx, p))

	rejecting := suite.db.Begin()
	suite.Require().NoError(rejecting.Error)
	rejectRepo := partnerrepo.NewGormPartnerRepository(rejecting, noopTracker{})

	locked, err := rejectRepo.GetForUpdate(ctx, p.ID())
	suite.Require().NoError(err)

	goOnline := make(chan error, 1)
	go func() {
		goOnline <- suite.db.Transaction(func(tx *gorm.DB) error {
			repo := partnerrepo.NewGormPartnerRepository(tx, noopTracker{})
			profile, err := repo.GetForUpdate(ctx, p.ID())
			if err != nil {
				return err
			}
			if err := profile.GoOnline(); err != nil {
				return err
			}
			return repo.Update(ctx, profile)
		})
	}()

	// Give the second transaction time to block on the row lock.
	time.Sleep(200 * time.Millisecond)

	suite.Require().NoError(locked.ChangeKYCStatus(partner.KYCRejected))
	suite.Require().NoError(rejectRepo.Update(ctx, locked))
	suite.Require().NoError(rejecting.Commit().Error)

	select {
	case err := <-goOnline:
		suite.Require().ErrorIs(err, partner.ErrKYCNotApproved)
	case <-time.After(10 * time.Second):
		suite.FailNow("go-online transaction did not finish")
	}

	got, err := suite.repository.Get(ctx, p.ID())
	suite.Require().NoError(err)
	suite.Equal(partner.KYCRejected, got.KYCStatus())
	suite.False(got.IsOnline())

	status, err := partnerrepo.NewStoredKYCVerifier(suite.db).VerificationStatus(ctx, p.ID())
	suite.Require().NoError(err)
	suite.Equal(partner.KYCRejected, status)
}

func (suite *PartnerRepositoryIntegrationTestSuite) TestStoredKYCVerifier() {
	ctx := context.Background()
	p := suite.saveApprovedOnline("Ravi")
	verifier := partnerrepo.NewStoredKYCVerifier(suite.db)

	status, err := verifier.VerificationStatus(ctx, p.ID())
	suite.Require().NoError(err)
	suite.Equal(partner.KYCApproved, status)

	_, err = verifier.VerificationStatus(ctx, kernel.NewUUID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *PartnerRepositoryIntegrationTestSuite) saveApprovedOnline(name string) *partner.Profile {
	p, err := partner.RestoreProfile(kernel.NewUUID(), name, "", partner.KYCApproved, true, nil, nil, 0)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(context.Background(), p))
	return p
}

type noopTracker struct{}

func (noopTracker) TrackAggregate(kernel.UUID, any) {}

func TestPartnerRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(PartnerRepositoryIntegrationTestSuite))
}
