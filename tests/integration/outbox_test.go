package integration

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iho/vslaledger/internal/adapter/http/dto"
	"github.com/iho/vslaledger/internal/domain"
	"github.com/iho/vslaledger/internal/infrastructure/eventpublisher"
	"github.com/iho/vslaledger/tests/testutil"
)

func TestOutboxFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	env := newTestEnv(t, ctx)
	env.db.TruncateAll(ctx)

	group := env.db.CreateTestGroup(ctx, "Obwavu Tebuli")
	cycle := env.db.CreateTestCycle(ctx, group.ID, decimal.NewFromInt(5000), decimal.NewFromInt(10))
	member := env.db.CreateTestMember(ctx, group.ID, "Agnes")

	_, resp := submitMeeting(t, env, dto.SubmitMeetingRequest{
		LocalID:       testutil.GenerateID(),
		CycleID:       cycle.ID,
		GroupID:       group.ID,
		MeetingDate:   time.Now().UTC(),
		MeetingNumber: 1,
		Transactions: []domain.MeetingTransaction{
			{MemberID: member.ID, Amount: decimal.NewFromInt(4000), Source: domain.SourceSavings},
		},
	})
	require.True(t, resp.Result.Success)

	events, err := env.outboxRepo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, domain.EventTypeMeetingProcessed, events[0].EventType)
	require.Equal(t, resp.Meeting.ID, events[0].AggregateID)
	require.False(t, events[0].Published)

	t.Run("failed meetings emit no event", func(t *testing.T) {
		_, failed := submitMeeting(t, env, dto.SubmitMeetingRequest{
			LocalID:       testutil.GenerateID(),
			CycleID:       "no-such-cycle",
			GroupID:       group.ID,
			MeetingDate:   time.Now().UTC(),
			MeetingNumber: 2,
		})
		require.False(t, failed.Result.Success)

		events, err := env.outboxRepo.GetUnpublished(ctx, 10)
		require.NoError(t, err)
		require.Len(t, events, 1)
	})

	t.Run("publisher drains the outbox", func(t *testing.T) {
		publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
			OutboxRepo: env.outboxRepo,
			Publisher:  eventpublisher.NewLogPublisher(nil),
			BatchSize:  10,
			Interval:   50 * time.Millisecond,
		})

		runCtx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
		defer cancel()

		_ = publisher.Start(runCtx)

		events, err := env.outboxRepo.GetUnpublished(ctx, 10)
		require.NoError(t, err)
		require.Empty(t, events)

		stored, err := env.outboxRepo.GetByAggregate(ctx, domain.AggregateTypeMeeting, resp.Meeting.ID, 10, 0)
		require.NoError(t, err)
		require.Len(t, stored, 1)
		require.True(t, stored[0].Published)
		require.NotNil(t, stored[0].PublishedAt)
	})
}
