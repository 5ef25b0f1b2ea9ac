package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iho/vslaledger/internal/adapter/http/dto"
	"github.com/iho/vslaledger/internal/domain"
	"github.com/iho/vslaledger/tests/testutil"
)

func submitMeeting(t *testing.T, env *testEnv, req dto.SubmitMeetingRequest) (*httptest.ResponseRecorder, dto.SubmitMeetingResponse) {
	t.Helper()

	body, err := json.Marshal(req)
	require.NoError(t, err)

	httpReq := httptest.NewRequest(http.MethodPost, "/api/v1/meetings/", bytes.NewReader(body))
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Actor-ID", "field-officer-1")

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httpReq)

	var resp dto.SubmitMeetingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	return rec, resp
}

func TestMeetingSubmission(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	env := newTestEnv(t, ctx)
	env.db.TruncateAll(ctx)

	group := env.db.CreateTestGroup(ctx, "Tusitukirewamu")
	cycle := env.db.CreateTestCycle(ctx, group.ID, decimal.NewFromInt(5000), decimal.NewFromInt(10))
	amina := env.db.CreateTestMember(ctx, group.ID, "Amina")
	joseph := env.db.CreateTestMember(ctx, group.ID, "Joseph")

	t.Run("savings and social fund post balanced legs", func(t *testing.T) {
		rec, resp := submitMeeting(t, env, dto.SubmitMeetingRequest{
			LocalID:       testutil.GenerateID(),
			CycleID:       cycle.ID,
			GroupID:       group.ID,
			MeetingDate:   time.Now().UTC(),
			MeetingNumber: 1,
			Attendance: []domain.AttendanceRecord{
				{MemberID: amina.ID, Present: true},
				{MemberID: joseph.ID, Present: false, Note: "travelling"},
			},
			Transactions: []domain.MeetingTransaction{
				{MemberID: amina.ID, Amount: decimal.NewFromInt(10000), Source: domain.SourceSavings},
				{MemberID: joseph.ID, Amount: decimal.NewFromInt(5000), Source: domain.SourceSavings},
			},
			SocialFund: []domain.SocialFundLine{
				{MemberID: &amina.ID, Type: domain.SocialFundContribution, Amount: decimal.NewFromInt(1000)},
			},
			TotalSavings: decimal.NewFromInt(15000),
		})

		require.Equal(t, http.StatusCreated, rec.Code)
		require.True(t, resp.Result.Success)
		require.Equal(t, string(domain.ProcessingCompleted), resp.Meeting.ProcessingStatus)
		require.NotNil(t, resp.Meeting.ProcessedAt)

		entries, err := env.entryRepo.ListByMeeting(ctx, resp.Meeting.ID)
		require.NoError(t, err)
		require.Len(t, entries, 4)

		sum := decimal.Zero
		for _, e := range entries {
			sum = sum.Add(e.Amount)
		}
		require.True(t, sum.IsZero(), "meeting legs must net to zero, got %s", sum)

		var attendanceRows int
		err = env.db.Pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM attendance WHERE meeting_id = $1`, resp.Meeting.ID).Scan(&attendanceRows)
		require.NoError(t, err)
		require.Equal(t, 2, attendanceRows)
	})

	t.Run("resubmitting a local id does not process twice", func(t *testing.T) {
		req := dto.SubmitMeetingRequest{
			LocalID:       testutil.GenerateID(),
			CycleID:       cycle.ID,
			GroupID:       group.ID,
			MeetingDate:   time.Now().UTC(),
			MeetingNumber: 2,
			Transactions: []domain.MeetingTransaction{
				{MemberID: amina.ID, Amount: decimal.NewFromInt(2000), Source: domain.SourceSavings},
			},
		}

		rec1, resp1 := submitMeeting(t, env, req)
		require.Equal(t, http.StatusCreated, rec1.Code)

		rec2, resp2 := submitMeeting(t, env, req)
		require.Equal(t, http.StatusCreated, rec2.Code)
		require.Equal(t, resp1.Meeting.ID, resp2.Meeting.ID)

		entries, err := env.entryRepo.ListByMeeting(ctx, resp1.Meeting.ID)
		require.NoError(t, err)
		require.Len(t, entries, 2)
	})

	t.Run("audit trail records the processing", func(t *testing.T) {
		_, resp := submitMeeting(t, env, dto.SubmitMeetingRequest{
			LocalID:       testutil.GenerateID(),
			CycleID:       cycle.ID,
			GroupID:       group.ID,
			MeetingDate:   time.Now().UTC(),
			MeetingNumber: 3,
		})

		logs, err := env.auditRepo.GetByResourceID(ctx, domain.AggregateTypeMeeting, resp.Meeting.ID)
		require.NoError(t, err)
		require.Len(t, logs, 1)
		require.Equal(t, "field-officer-1", logs[0].ActorID)
		require.Equal(t, string(domain.AuditStatusSuccess), logs[0].Status)
	})
}
