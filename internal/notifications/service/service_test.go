package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"dundies/internal/audit"
	"dundies/internal/notifications/models"
	"dundies/internal/notifications/store"
	dErrors "dundies/pkg/domain-errors"
)

type fakeWinners struct {
	winners []models.WinnerSnapshot
	err     error
}

func (f *fakeWinners) List(context.Context) ([]models.WinnerSnapshot, error) {
	return f.winners, f.err
}

type recordingPublisher struct {
	events []audit.Event
}

func (p *recordingPublisher) Emit(_ context.Context, event audit.Event) {
	p.events = append(p.events, event)
}

type ServiceSuite struct {
	suite.Suite
	winners   *fakeWinners
	publisher *recordingPublisher
	service   *Service
}

func (s *ServiceSuite) SetupTest() {
	s.winners = &fakeWinners{}
	s.publisher = &recordingPublisher{}
	svc, err := New(store.NewMemory(), s.winners, WithAuditPublisher(s.publisher))
	require.NoError(s.T(), err)
	s.service = svc
}

func (s *ServiceSuite) TestSendAll() {
	s.winners.winners = []models.WinnerSnapshot{
		{ID: "win_1", EmployeeID: "emp_001", EmployeeName: "Jim Halpert", Category: "Fine Work", TotalVotes: 5, Reason: "sales"},
		{ID: "win_2", EmployeeID: "emp_003", EmployeeName: "Dwight Schrute", Category: "Busiest Beaver", TotalVotes: 4, Reason: "beets"},
	}

	created, err := s.service.SendAll(context.Background())
	require.NoError(s.T(), err)
	require.Len(s.T(), created, 2)

	assert.Equal(s.T(), "win_1", created[0].WinnerID)
	assert.True(s.T(), created[0].Sent)
	assert.Contains(s.T(), created[0].Message, "Jim Halpert")
	assert.Contains(s.T(), created[0].Message, "Fine Work")
	assert.Contains(s.T(), created[0].Message, "Chili's")

	require.Len(s.T(), s.publisher.events, 2)
	assert.Equal(s.T(), audit.EventNotificationSent, s.publisher.events[0].EventType)
	assert.Equal(s.T(), "win_1", s.publisher.events[0].Details["winner_id"])
}

func (s *ServiceSuite) TestSendAllSkipsAlreadyNotified() {
	s.winners.winners = []models.WinnerSnapshot{
		{ID: "win_1", EmployeeID: "emp_001", EmployeeName: "Jim Halpert", Category: "Fine Work", TotalVotes: 5},
	}

	first, err := s.service.SendAll(context.Background())
	require.NoError(s.T(), err)
	require.Len(s.T(), first, 1)

	second, err := s.service.SendAll(context.Background())
	require.NoError(s.T(), err)
	assert.Empty(s.T(), second)

	all, err := s.service.List(context.Background(), "")
	require.NoError(s.T(), err)
	assert.Len(s.T(), all, 1)
}

func (s *ServiceSuite) TestSendAllNotifiesNewWinners() {
	s.winners.winners = []models.WinnerSnapshot{
		{ID: "win_1", EmployeeID: "emp_001", EmployeeName: "Jim Halpert", Category: "Fine Work", TotalVotes: 5},
	}
	_, err := s.service.SendAll(context.Background())
	require.NoError(s.T(), err)

	// A re-resolution crowned a different winner for the category.
	s.winners.winners = append(s.winners.winners, models.WinnerSnapshot{
		ID: "win_2", EmployeeID: "emp_002", EmployeeName: "Pam Beesly", Category: "Best Dressed", TotalVotes: 3,
	})

	created, err := s.service.SendAll(context.Background())
	require.NoError(s.T(), err)
	require.Len(s.T(), created, 1)
	assert.Equal(s.T(), "win_2", created[0].WinnerID)
}

func (s *ServiceSuite) TestSendAllUpstreamFailure() {
	s.winners.err = dErrors.New(dErrors.CodeUnavailable, "winners service unreachable")

	_, err := s.service.SendAll(context.Background())
	assert.Equal(s.T(), dErrors.CodeUnavailable, dErrors.CodeOf(err))

	all, listErr := s.service.List(context.Background(), "")
	require.NoError(s.T(), listErr)
	assert.Empty(s.T(), all)
}

func (s *ServiceSuite) TestSendManual() {
	notification, err := s.service.SendManual(context.Background(), models.ManualNotificationRequest{
		EmployeeID:   "emp_006",
		EmployeeName: "Kevin Malone",
		Message:      "the chili is in the lobby",
	})
	require.NoError(s.T(), err)
	assert.Empty(s.T(), notification.WinnerID)
	assert.Equal(s.T(), "the chili is in the lobby", notification.Message)

	s.Run("validation", func() {
		_, err := s.service.SendManual(context.Background(), models.ManualNotificationRequest{EmployeeID: "emp_006"})
		assert.Equal(s.T(), dErrors.CodeValidation, dErrors.CodeOf(err))
	})
}

func (s *ServiceSuite) TestListByEmployee() {
	s.winners.winners = []models.WinnerSnapshot{
		{ID: "win_1", EmployeeID: "emp_001", EmployeeName: "Jim Halpert", Category: "Fine Work", TotalVotes: 5},
		{ID: "win_2", EmployeeID: "emp_002", EmployeeName: "Pam Beesly", Category: "Best Dressed", TotalVotes: 3},
	}
	_, err := s.service.SendAll(context.Background())
	require.NoError(s.T(), err)

	mine, err := s.service.List(context.Background(), "emp_002")
	require.NoError(s.T(), err)
	require.Len(s.T(), mine, 1)
	assert.Equal(s.T(), "win_2", mine[0].WinnerID)
}

func (s *ServiceSuite) TestClear() {
	s.winners.winners = []models.WinnerSnapshot{
		{ID: "win_1", EmployeeID: "emp_001", EmployeeName: "Jim Halpert", Category: "Fine Work", TotalVotes: 5},
	}
	_, err := s.service.SendAll(context.Background())
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.service.Clear(context.Background()))

	// Cleared winners can be notified again.
	created, err := s.service.SendAll(context.Background())
	require.NoError(s.T(), err)
	assert.Len(s.T(), created, 1)
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}
