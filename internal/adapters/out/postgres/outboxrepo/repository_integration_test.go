package outboxrepo_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"freight/internal/adapters/out/postgres/outboxrepo"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/outbox"
	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type OutboxRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *outboxrepo.GormOutboxRepository
	now        time.Time
}

func (suite *OutboxRepositoryIntegrationTestSuite) SetupSuite() {
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

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&outboxrepo.OutboxEventDTO{}))
}

func (suite *OutboxRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE outbox_events").Error)
	suite.repository = outboxrepo.NewGormOutboxRepository(suite.db)
	suite.now = time.Now().UTC().Truncate(time.Microsecond)
}

func (suite *OutboxRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OutboxRepositoryIntegrationTestSuite) addEvent(createdAt time.Time) *outbox.Event {
	ev, err := outbox.NewEvent(kernel.DomainEvent{
		ID:            kernel.NewUUID(),
		AggregateID:   kernel.NewUUID(),
		AggregateType: "load",
		EventType:     "load.created",
		OccurredAt:    createdAt,
		Payload:       map[string]string{"reference": "L-1"},
	}, "freight.loads")
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(context.Background(), ev))
	return ev
}

func (suite *OutboxRepositoryIntegrationTestSuite) TestAdd_ThenGet() {
	ev := suite.addEvent(suite.now)

	restored, err := suite.repository.Get(context.Background(), ev.ID())
	suite.Require().NoError(err)
	suite.Equal(ev.ID(), restored.ID())
	suite.Equal(ev.AggregateID(), restored.AggregateID())
	suite.Equal(ev.Payload(), restored.Payload())
	suite.Equal(outbox.StatusPending, restored.Status())
	suite.True(ev.CreatedAt().Equal(restored.CreatedAt()))
}

func (suite *OutboxRepositoryIntegrationTestSuite) TestClaim_OldestFirstUpToLimit() {
	ctx := context.Background()
	third := suite.addEvent(suite.now.Add(-1 * time.Minute))
	first := suite.addEvent(suite.now.Add(-3 * time.Minute))
	second := suite.addEvent(suite.now.Add(-2 * time.Minute))

	claimed, err := suite.repository.Claim(ctx, "publisher-a", suite.now, time.Minute, 2)
	suite.Require().NoError(err)
	suite.Require().Len(claimed, 2)
	suite.Equal(first.ID(), claimed[0].ID())
	suite.Equal(second.ID(), claimed[1].ID())
	suite.Equal("publisher-a", claimed[0].ClaimedBy())

	rest, err := suite.repository.Claim(ctx, "publisher-a", suite.now, time.Minute, 10)
	suite.Require().NoError(err)
	suite.Require().Len(rest, 1)
	suite.Equal(third.ID(), rest[0].ID())
}

func (suite *OutboxRepositoryIntegrationTestSuite) TestClaim_SkipsLeasedUntilLeaseExpires() {
	ctx := context.Background()
	suite.addEvent(suite.now.Add(-time.Minute))

	claimed, err := suite.repository.Claim(ctx, "publisher-a", suite.now, time.Minute, 10)
	suite.Require().NoError(err)
	suite.Require().Len(claimed, 1)

	other, err := suite.repository.Claim(ctx, "publisher-b", suite.now.Add(30*time.Second), time.Minute, 10)
	suite.Require().NoError(err)
	suite.Empty(other)

	reclaimed, err := suite.repository.Claim(ctx, "publisher-b", suite.now.Add(2*time.Minute), time.Minute, 10)
	suite.Require().NoError(err)
	suite.Require().Len(reclaimed, 1)
	suite.Equal("publisher-b", reclaimed[0].ClaimedBy())
}

func (suite *OutboxRepositoryIntegrationTestSuite) TestClaim_ConcurrentPublishersGetDisjointRows() {
	for i := 0; i < 20; i++ {
		suite.addEvent(suite.now.Add(-time.Duration(i+1) * time.Second))
	}

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		seen = map[string]int{}
	)
	for _, owner := range []string{"a", "b", "c", "d"} {
		owner := owner
		wg.Add(1)
		go func() {
			defer wg.Done()
			claimed, err := suite.repository.Claim(context.Background(), owner, suite.now, time.Minute, 10)
			suite.NoError(err)
			mu.Lock()
			defer mu.Unlock()
			for _, ev := range claimed {
				seen[ev.ID().String()]++
			}
		}()
	}
	wg.Wait()

	for id, n := range seen {
		suite.Equal(1, n, "row %s claimed more than once", id)
	}
}

func (suite *OutboxRepositoryIntegrationTestSuite) TestSaveOutcome_Processed_NotClaimedAgain() {
	ctx := context.Background()
	suite.addEvent(suite.now.Add(-time.Minute))

	claimed, err := suite.repository.Claim(ctx, "publisher-a", suite.now, time.Minute, 10)
	suite.Require().NoError(err)
	suite.Require().Len(claimed, 1)
	ev := claimed[0]

	suite.Require().NoError(ev.MarkProcessed(suite.now))
	suite.Require().NoError(suite.repository.SaveOutcome(ctx, ev, "publisher-a"))

	stored, err := suite.repository.Get(ctx, ev.ID())
	suite.Require().NoError(err)
	suite.Equal(outbox.StatusProcessed, stored.Status())
	suite.Equal(1, stored.AttemptCount())
	suite.Empty(stored.ClaimedBy())

	again, err := suite.repository.Claim(ctx, "publisher-a", suite.now.Add(time.Hour), time.Minute, 10)
	suite.Require().NoError(err)
	suite.Empty(again)
}

func (suite *OutboxRepositoryIntegrationTestSuite) TestSaveOutcome_RetryWaitsForBackoff() {
	ctx := context.Background()
	suite.addEvent(suite.now.Add(-time.Minute))

	claimed, err := suite.repository.Claim(ctx, "publisher-a", suite.now, time.Minute, 10)
	suite.Require().NoError(err)
	ev := claimed[0]
	suite.Require().NoError(ev.MarkFailed(suite.now, errors.New("broker down"), 3, outbox.Fixed(10*time.Second)))
	suite.Require().NoError(suite.repository.SaveOutcome(ctx, ev, "publisher-a"))

	early, err := suite.repository.Claim(ctx, "publisher-a", suite.now.Add(5*time.Second), time.Minute, 10)
	suite.Require().NoError(err)
	suite.Empty(early)

	due, err := suite.repository.Claim(ctx, "publisher-a", suite.now.Add(11*time.Second), time.Minute, 10)
	suite.Require().NoError(err)
	suite.Require().Len(due, 1)
	suite.Equal(1, due[0].AttemptCount())
	suite.Equal("broker down", due[0].ErrorMessage())
}

func (suite *OutboxRepositoryIntegrationTestSuite) TestSaveOutcome_LostLease_PreconditionFailed() {
	ctx := context.Background()
	suite.addEvent(suite.now.Add(-time.Minute))

	claimed, err := suite.repository.Claim(ctx, "publisher-a", suite.now, time.Second, 10)
	suite.Require().NoError(err)
	stolen, err := suite.repository.Claim(ctx, "publisher-b", suite.now.Add(time.Minute), time.Minute, 10)
	suite.Require().NoError(err)
	suite.Require().Len(stolen, 1)

	ev := claimed[0]
	suite.Require().NoError(ev.MarkProcessed(suite.now))
	err = suite.repository.SaveOutcome(ctx, ev, "publisher-a")

	suite.ErrorIs(err, errs.ErrPreconditionFailed)
}

func TestOutboxRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OutboxRepositoryIntegrationTestSuite))
}
