// Package ceremony_test runs the whole award pipeline in-process: real
// services behind httptest servers, a channel bus for audit delivery, and
// the security pipeline consuming it.
package ceremony_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"dundies/internal/audit"
	"dundies/internal/employees"
	nomhandler "dundies/internal/nominations/handler"
	nommodels "dundies/internal/nominations/models"
	nomservice "dundies/internal/nominations/service"
	nomstore "dundies/internal/nominations/store"
	notifclient "dundies/internal/notifications/client"
	notifservice "dundies/internal/notifications/service"
	notifstore "dundies/internal/notifications/store"
	secconsumer "dundies/internal/security/consumer"
	secmodels "dundies/internal/security/models"
	secservice "dundies/internal/security/service"
	secstore "dundies/internal/security/store"
	votehandler "dundies/internal/voting/handler"
	votemodels "dundies/internal/voting/models"
	voteservice "dundies/internal/voting/service"
	votestore "dundies/internal/voting/store"
	voteclient "dundies/internal/voting/client"
	winhandler "dundies/internal/winners/handler"
	winclient "dundies/internal/winners/client"
	winmodels "dundies/internal/winners/models"
	winservice "dundies/internal/winners/service"
	winstore "dundies/internal/winners/store"
)

type CeremonySuite struct {
	suite.Suite

	nominations   *nomservice.Service
	voting        *voteservice.Service
	winners       *winservice.Service
	notifications *notifservice.Service
	security      *secservice.Service

	nominationsSrv *httptest.Server
	votingSrv      *httptest.Server
	winnersSrv     *httptest.Server

	publisher *audit.Publisher
	cancel    context.CancelFunc
	workerEnd chan struct{}
}

func TestCeremonySuite(t *testing.T) {
	suite.Run(t, new(CeremonySuite))
}

func (s *CeremonySuite) SetupTest() {
	logger := slog.Default()

	// One bus shared by every producer, drained into the security pipeline.
	bus := audit.NewChannelBus(256)
	s.publisher = audit.NewPublisher(bus)

	secSvc, err := secservice.New(secstore.NewMemoryLog(), secstore.NewMemoryDedup())
	require.NoError(s.T(), err)
	s.security = secSvc

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.workerEnd = make(chan struct{})
	worker := secconsumer.NewChannelWorker(bus, secSvc, logger)
	go func() {
		defer close(s.workerEnd)
		_ = worker.Run(ctx)
	}()

	nomSvc, err := nomservice.New(nomstore.NewMemory(), employees.Seeded(),
		nomservice.WithAuditPublisher(s.publisher))
	require.NoError(s.T(), err)
	s.nominations = nomSvc
	nomRouter := chi.NewRouter()
	nomhandler.New(nomSvc, logger).Register(nomRouter)
	s.nominationsSrv = httptest.NewServer(nomRouter)

	voteSvc, err := voteservice.New(votestore.NewMemory(),
		voteclient.NewNominationsClient(s.nominationsSrv.URL),
		employees.Seeded(),
		voteservice.WithAuditPublisher(s.publisher))
	require.NoError(s.T(), err)
	s.voting = voteSvc
	voteRouter := chi.NewRouter()
	votehandler.New(voteSvc, logger).Register(voteRouter)
	s.votingSrv = httptest.NewServer(voteRouter)

	winSvc, err := winservice.New(winstore.NewMemory(),
		winclient.NewNominationsClient(s.nominationsSrv.URL),
		winclient.NewVotingClient(s.votingSrv.URL),
		winservice.WithAuditPublisher(s.publisher))
	require.NoError(s.T(), err)
	s.winners = winSvc
	winRouter := chi.NewRouter()
	winhandler.New(winSvc, logger).Register(winRouter)
	s.winnersSrv = httptest.NewServer(winRouter)

	notifSvc, err := notifservice.New(notifstore.NewMemory(),
		notifclient.NewWinnersClient(s.winnersSrv.URL),
		notifservice.WithAuditPublisher(s.publisher))
	require.NoError(s.T(), err)
	s.notifications = notifSvc
}

func (s *CeremonySuite) TearDownTest() {
	s.publisher.Close()
	s.cancel()
	<-s.workerEnd
	s.nominationsSrv.Close()
	s.votingSrv.Close()
	s.winnersSrv.Close()
}

func (s *CeremonySuite) nominate(employeeID, category, nominatorID string) nommodels.Nomination {
	nomination, err := s.nominations.Create(context.Background(), nommodels.CreateNominationRequest{
		EmployeeID:  employeeID,
		Category:    category,
		NominatorID: nominatorID,
		Reason:      "outstanding work",
	})
	require.NoError(s.T(), err)
	return nomination
}

func (s *CeremonySuite) vote(nominationID, voterID string) {
	_, err := s.voting.Cast(context.Background(), votemodels.CreateVoteRequest{
		NominationID: nominationID,
		VoterID:      voterID,
	})
	require.NoError(s.T(), err)
}

func (s *CeremonySuite) auditCount() int {
	entries, err := s.security.Logs(context.Background(), secmodels.Filter{Limit: 1000})
	require.NoError(s.T(), err)
	return len(entries)
}

func (s *CeremonySuite) TestFullCeremony() {
	ctx := context.Background()

	n1 := s.nominate("emp_001", "Fine Work", "emp_002")
	n2 := s.nominate("emp_006", "Fine Work", "emp_008")
	n3 := s.nominate("emp_003", "Fine Work", "emp_004")

	// 2 / 2 / 5 split: the third nomination must win.
	for _, voter := range []string{"emp_006", "emp_007"} {
		s.vote(n1.ID, voter)
	}
	for _, voter := range []string{"emp_008", "emp_001"} {
		s.vote(n2.ID, voter)
	}
	for _, voter := range []string{"emp_001", "emp_002", "emp_004", "emp_005", "emp_007"} {
		s.vote(n3.ID, voter)
	}

	winners, err := s.winners.Resolve(ctx)
	s.Require().NoError(err)
	s.Require().Len(winners, 1)
	s.Equal(n3.ID, winners[0].NominationID)
	s.Equal("Dwight Schrute", winners[0].EmployeeName)
	s.Equal(5, winners[0].TotalVotes)

	// The winners HTTP API serves the same resolution result.
	resp, err := http.Get(s.winnersSrv.URL + "/winners")
	s.Require().NoError(err)
	defer resp.Body.Close()
	var served []winmodels.Winner
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&served))
	s.Require().Len(served, 1)
	s.Equal(winners[0].ID, served[0].ID)

	notifications, err := s.notifications.SendAll(ctx)
	s.Require().NoError(err)
	s.Require().Len(notifications, 1)
	s.Equal(winners[0].ID, notifications[0].WinnerID)
	s.Contains(notifications[0].Message, "Dwight Schrute")

	// Re-sending does not double-notify the same winner.
	again, err := s.notifications.SendAll(ctx)
	s.Require().NoError(err)
	s.Empty(again)

	// 3 nominations + 9 votes + 1 winner + 1 notification.
	s.Require().Eventually(func() bool { return s.auditCount() == 14 },
		5*time.Second, 20*time.Millisecond)

	byType, err := s.security.Metrics(ctx)
	s.Require().NoError(err)
	s.Equal(map[string]int{
		"nomination_submitted": 3,
		"vote_cast":            9,
		"winner_calculated":    1,
		"notification_sent":    1,
	}, byType.EventsByType)
}

func (s *CeremonySuite) TestSuspiciousEventInvestigation() {
	ctx := context.Background()

	// Anonymous burst voting scores 15+20+15+25 = 75, over the alert line.
	burst := audit.Event{
		EventType:   audit.EventVoteCast,
		ServiceName: "voting",
		Details:     map[string]any{"pattern": "multiple rapid votes from one address"},
	}
	s.publisher.Emit(ctx, burst)

	s.Require().Eventually(func() bool { return s.auditCount() == 1 },
		5*time.Second, 20*time.Millisecond)

	alertFloor := 70
	suspicious, err := s.security.Suspicious(ctx, &alertFloor, 0)
	s.Require().NoError(err)
	s.Require().Len(suspicious, 1)
	s.Equal(75, suspicious[0].RiskScore)

	_, err = s.security.Investigate(ctx, suspicious[0].ID, "Creed again")
	s.Require().NoError(err)

	suspicious, err = s.security.Suspicious(ctx, &alertFloor, 0)
	s.Require().NoError(err)
	s.Empty(suspicious)
}

func (s *CeremonySuite) TestVoteForUnknownNominationRejected() {
	err := func() error {
		_, err := s.voting.Cast(context.Background(), votemodels.CreateVoteRequest{
			NominationID: "nom_missing",
			VoterID:      "emp_001",
		})
		return err
	}()
	s.Error(err)
}
