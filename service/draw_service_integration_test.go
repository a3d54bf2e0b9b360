package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"luckydraw/events"
	"luckydraw/models"
	"luckydraw/repository"
	"luckydraw/repository/testutil"
	"luckydraw/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIntegrationServices(t *testing.T, bus *events.Bus) (*testutil.TestDatabase, service.DrawService, service.TicketPoolService) {
	t.Helper()
	testDB := testutil.SetupTestDatabase(t)
	factory := repository.NewUnitOfWorkFactory(testDB.DB, bus, 5000)
	return testDB,
		service.NewDrawService(factory, service.NewRandomSource(), time.Now, time.UTC),
		service.NewTicketPoolService(factory)
}

func TestSelectWinner_Scenario_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	bus := events.NewBus()
	decided := make(chan events.DrawDecidedEvent, 4)
	bus.Subscribe(events.EventTypeDrawDecided, func(_ context.Context, e events.Event) {
		decided <- e.(events.DrawDecidedEvent)
	})

	testDB, drawService, poolService := newIntegrationServices(t, bus)
	ctx := context.Background()
	scenario := testutil.InsertScenario(t, testDB.DB)

	pool, err := poolService.ResolvePool(ctx, scenario.Fundraiser.ID)
	require.NoError(t, err)
	require.Len(t, pool, 6)

	result, err := drawService.SelectWinner(ctx, scenario.Draw.ID)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.GreaterOrEqual(t, result.TicketNumber, int64(1))
	assert.LessOrEqual(t, result.TicketNumber, int64(6))
	assert.Equal(t, scenario.OwnerOf(result.TicketNumber), result.SupporterID)

	stored, err := repository.NewDrawRepository(testDB.DB).GetByID(ctx, scenario.Draw.ID)
	require.NoError(t, err)
	require.True(t, stored.IsDecided())
	assert.Equal(t, result.SupporterID, *stored.SupporterID)
	assert.Equal(t, result.TicketNumber, *stored.WinningTicketNumber)

	select {
	case e := <-decided:
		assert.Equal(t, scenario.Draw.ID, e.DrawID)
		assert.Equal(t, result.SupporterID, e.SupporterID)
		assert.Equal(t, "School Roof Appeal", e.FundraiserTitle)
		assert.Equal(t, 6, e.PoolSize)
	case <-time.After(2 * time.Second):
		t.Fatal("draw decided event not delivered")
	}

	t.Run("second call is already decided with the same winner", func(t *testing.T) {
		again, err := drawService.SelectWinner(ctx, scenario.Draw.ID)
		assert.Nil(t, again)
		require.ErrorIs(t, err, service.ErrDrawAlreadyDecided)

		drawErr, ok := service.AsDrawError(err)
		require.True(t, ok)
		assert.Equal(t, result.SupporterID, *drawErr.WinnerSupporterID)
		assert.Equal(t, result.TicketNumber, *drawErr.WinningTicket)

		select {
		case <-decided:
			t.Fatal("rejected selection emitted an event")
		case <-time.After(100 * time.Millisecond):
		}
	})

	t.Run("winner lookup returns the stored winner", func(t *testing.T) {
		winner, err := drawService.GetWinner(ctx, scenario.Draw.ID)
		require.NoError(t, err)
		assert.Equal(t, result.SupporterID, winner.SupporterID)
		assert.Equal(t, result.Email, winner.Email)
		assert.Equal(t, result.TicketNumber, winner.TicketNumber)
	})
}

func TestSelectWinner_Concurrent_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	testDB, drawService, _ := newIntegrationServices(t, events.NewBus())
	ctx := context.Background()
	scenario := testutil.InsertScenario(t, testDB.DB)

	const callers = 8
	var wg sync.WaitGroup
	results := make([]*models.WinnerResult, callers)
	errs := make([]error, callers)

	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			results[i], errs[i] = drawService.SelectWinner(ctx, scenario.Draw.ID)
		}(i)
	}
	close(start)
	wg.Wait()

	var winner *models.WinnerResult
	for i := 0; i < callers; i++ {
		if errs[i] == nil {
			require.Nil(t, winner, "more than one caller selected a winner")
			winner = results[i]
			continue
		}
		assert.ErrorIs(t, errs[i], service.ErrDrawAlreadyDecided)
	}
	require.NotNil(t, winner)

	stored, err := repository.NewDrawRepository(testDB.DB).GetByID(ctx, scenario.Draw.ID)
	require.NoError(t, err)
	assert.Equal(t, winner.SupporterID, *stored.SupporterID)
	assert.Equal(t, winner.TicketNumber, *stored.WinningTicketNumber)
}

func TestSelectWinner_Rejections_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	testDB, drawService, _ := newIntegrationServices(t, events.NewBus())
	ctx := context.Background()
	draws := repository.NewDrawRepository(testDB.DB)

	t.Run("empty pool leaves draw pending", func(t *testing.T) {
		fundraiser := testutil.CreateTestFundraiser("No Sales Yet")
		testutil.InsertFundraiser(t, testDB.DB, fundraiser)
		draw := testutil.CreateTestDraw(fundraiser.ID, time.Now().UTC())
		testutil.InsertDraw(t, testDB.DB, draw)

		_, err := drawService.SelectWinner(ctx, draw.ID)
		require.ErrorIs(t, err, service.ErrNoTicketsSold)

		stored, err := draws.GetByID(ctx, draw.ID)
		require.NoError(t, err)
		assert.False(t, stored.IsDecided())
	})

	t.Run("future draw is too early", func(t *testing.T) {
		scenario := testutil.InsertScenario(t, testDB.DB)
		future := testutil.CreateTestDraw(scenario.Fundraiser.ID, time.Now().UTC().AddDate(0, 0, 3))
		testutil.InsertDraw(t, testDB.DB, future)

		_, err := drawService.SelectWinner(ctx, future.ID)
		require.ErrorIs(t, err, service.ErrDrawTooEarly)

		stored, err := draws.GetByID(ctx, future.ID)
		require.NoError(t, err)
		assert.False(t, stored.IsDecided())
	})

	t.Run("past draw proceeds", func(t *testing.T) {
		scenario := testutil.InsertScenario(t, testDB.DB)
		past := testutil.CreateTestDraw(scenario.Fundraiser.ID, time.Now().UTC().AddDate(0, 0, -10))
		testutil.InsertDraw(t, testDB.DB, past)

		result, err := drawService.SelectWinner(ctx, past.ID)
		require.NoError(t, err)
		assert.Equal(t, scenario.OwnerOf(result.TicketNumber), result.SupporterID)
	})

	t.Run("missing draw is not found", func(t *testing.T) {
		_, err := drawService.SelectWinner(ctx, 987654)
		assert.ErrorIs(t, err, service.ErrDrawNotFound)
	})

	t.Run("pending draw has no winner to show", func(t *testing.T) {
		scenario := testutil.InsertScenario(t, testDB.DB)
		_, err := drawService.GetWinner(ctx, scenario.Draw.ID)
		assert.ErrorIs(t, err, service.ErrDrawNotDecided)
	})
}
