package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"dundies/internal/awards"
	"dundies/internal/winners/models"
	"dundies/internal/winners/store"
	dErrors "dundies/pkg/domain-errors"
)

type fakeNominations struct {
	snapshots []models.NominationSnapshot
	err       error
}

func (f *fakeNominations) List(context.Context) ([]models.NominationSnapshot, error) {
	return f.snapshots, f.err
}

type fakeVotes struct {
	counts map[string]int
	err    error
}

func (f *fakeVotes) ResultsByNomination(context.Context) (map[string]int, error) {
	return f.counts, f.err
}

type ResolveSuite struct {
	suite.Suite
	store       *store.InMemoryStore
	nominations *fakeNominations
	votes       *fakeVotes
	service     *Service
}

func (s *ResolveSuite) SetupTest() {
	s.store = store.NewMemory()
	s.nominations = &fakeNominations{}
	s.votes = &fakeVotes{counts: map[string]int{}}

	svc, err := New(s.store, s.nominations, s.votes)
	require.NoError(s.T(), err)
	s.service = svc
}

func snapshot(id, employeeID, category string) models.NominationSnapshot {
	return models.NominationSnapshot{
		ID:           id,
		EmployeeID:   employeeID,
		EmployeeName: "Employee " + employeeID,
		Category:     category,
		Reason:       "because",
	}
}

func (s *ResolveSuite) TestPicksHighestCount() {
	s.nominations.snapshots = []models.NominationSnapshot{
		snapshot("nom_1", "emp_001", "Fine Work"),
		snapshot("nom_2", "emp_002", "Fine Work"),
		snapshot("nom_3", "emp_003", "Fine Work"),
	}
	s.votes.counts = map[string]int{"nom_1": 2, "nom_2": 5, "nom_3": 2}

	winners, err := s.service.Resolve(context.Background())
	require.NoError(s.T(), err)
	require.Len(s.T(), winners, 1)
	assert.Equal(s.T(), "nom_2", winners[0].NominationID)
	assert.Equal(s.T(), awards.FineWork, winners[0].Category)
	assert.Equal(s.T(), 5, winners[0].TotalVotes)
}

func (s *ResolveSuite) TestTieGoesToFirstListed() {
	s.nominations.snapshots = []models.NominationSnapshot{
		snapshot("nom_1", "emp_001", "Fine Work"),
		snapshot("nom_2", "emp_002", "Fine Work"),
	}
	s.votes.counts = map[string]int{"nom_1": 3, "nom_2": 3}

	winners, err := s.service.Resolve(context.Background())
	require.NoError(s.T(), err)
	require.Len(s.T(), winners, 1)
	assert.Equal(s.T(), "nom_1", winners[0].NominationID)
}

func (s *ResolveSuite) TestZeroVotesProducesNoWinner() {
	s.nominations.snapshots = []models.NominationSnapshot{
		snapshot("nom_1", "emp_001", "Fine Work"),
		snapshot("nom_2", "emp_002", "Best Dressed"),
	}
	s.votes.counts = map[string]int{"nom_2": 1}

	winners, err := s.service.Resolve(context.Background())
	require.NoError(s.T(), err)
	require.Len(s.T(), winners, 1)
	assert.Equal(s.T(), awards.BestDressed, winners[0].Category)
}

func (s *ResolveSuite) TestMissingVoteEntryCountsAsZero() {
	s.nominations.snapshots = []models.NominationSnapshot{
		snapshot("nom_1", "emp_001", "Fine Work"),
		snapshot("nom_2", "emp_002", "Fine Work"),
	}
	s.votes.counts = map[string]int{"nom_2": 1}

	winners, err := s.service.Resolve(context.Background())
	require.NoError(s.T(), err)
	require.Len(s.T(), winners, 1)
	assert.Equal(s.T(), "nom_2", winners[0].NominationID)
}

func (s *ResolveSuite) TestUnknownCategorySkipped() {
	s.nominations.snapshots = []models.NominationSnapshot{
		snapshot("nom_1", "emp_001", "Most Improved Stapler"),
		snapshot("nom_2", "emp_002", "Fine Work"),
	}
	s.votes.counts = map[string]int{"nom_1": 9, "nom_2": 1}

	winners, err := s.service.Resolve(context.Background())
	require.NoError(s.T(), err)
	require.Len(s.T(), winners, 1)
	assert.Equal(s.T(), awards.FineWork, winners[0].Category)
}

func (s *ResolveSuite) TestReResolveReplacesInsteadOfAccumulating() {
	s.nominations.snapshots = []models.NominationSnapshot{
		snapshot("nom_1", "emp_001", "Fine Work"),
		snapshot("nom_2", "emp_002", "Fine Work"),
	}
	s.votes.counts = map[string]int{"nom_1": 2, "nom_2": 1}

	first, err := s.service.Resolve(context.Background())
	require.NoError(s.T(), err)
	require.Len(s.T(), first, 1)
	assert.Equal(s.T(), "nom_1", first[0].NominationID)

	// More votes come in and flip the standing.
	s.votes.counts = map[string]int{"nom_1": 2, "nom_2": 4}

	second, err := s.service.Resolve(context.Background())
	require.NoError(s.T(), err)
	require.Len(s.T(), second, 1)
	assert.Equal(s.T(), "nom_2", second[0].NominationID)

	current, err := s.store.List(context.Background())
	require.NoError(s.T(), err)
	require.Len(s.T(), current, 1)
	assert.Equal(s.T(), "nom_2", current[0].NominationID)

	_, err = s.store.Get(context.Background(), first[0].ID)
	assert.Equal(s.T(), dErrors.CodeNotFound, dErrors.CodeOf(err))
}

func (s *ResolveSuite) TestUpstreamFailureLeavesRegistryUntouched() {
	s.nominations.snapshots = []models.NominationSnapshot{
		snapshot("nom_1", "emp_001", "Fine Work"),
	}
	s.votes.counts = map[string]int{"nom_1": 2}

	_, err := s.service.Resolve(context.Background())
	require.NoError(s.T(), err)

	s.votes.err = dErrors.New(dErrors.CodeUnavailable, "voting service unreachable")
	_, err = s.service.Resolve(context.Background())
	assert.Equal(s.T(), dErrors.CodeUnavailable, dErrors.CodeOf(err))

	current, err := s.store.List(context.Background())
	require.NoError(s.T(), err)
	require.Len(s.T(), current, 1)
	assert.Equal(s.T(), "nom_1", current[0].NominationID)
}

func (s *ResolveSuite) TestOneWinnerPerCategory() {
	s.nominations.snapshots = []models.NominationSnapshot{
		snapshot("nom_1", "emp_001", "Fine Work"),
		snapshot("nom_2", "emp_002", "Best Dressed"),
		snapshot("nom_3", "emp_003", "Fine Work"),
	}
	s.votes.counts = map[string]int{"nom_1": 1, "nom_2": 2, "nom_3": 3}

	winners, err := s.service.Resolve(context.Background())
	require.NoError(s.T(), err)
	require.Len(s.T(), winners, 2)

	byCategory := make(map[awards.Category]models.Winner)
	for _, w := range winners {
		_, dup := byCategory[w.Category]
		require.False(s.T(), dup, "two winners for %s", w.Category)
		byCategory[w.Category] = w
	}
	assert.Equal(s.T(), "nom_3", byCategory[awards.FineWork].NominationID)
	assert.Equal(s.T(), "nom_2", byCategory[awards.BestDressed].NominationID)
}

func (s *ResolveSuite) TestListFiltersByCategory() {
	s.nominations.snapshots = []models.NominationSnapshot{
		snapshot("nom_1", "emp_001", "Fine Work"),
		snapshot("nom_2", "emp_002", "Best Dressed"),
	}
	s.votes.counts = map[string]int{"nom_1": 1, "nom_2": 1}

	_, err := s.service.Resolve(context.Background())
	require.NoError(s.T(), err)

	winners, err := s.service.List(context.Background(), "Fine Work")
	require.NoError(s.T(), err)
	require.Len(s.T(), winners, 1)
	assert.Equal(s.T(), awards.FineWork, winners[0].Category)

	_, err = s.service.List(context.Background(), "Best Stapler")
	assert.Equal(s.T(), dErrors.CodeValidation, dErrors.CodeOf(err))
}

func TestResolveSuite(t *testing.T) {
	suite.Run(t, new(ResolveSuite))
}
