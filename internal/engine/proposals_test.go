package engine

import (
	"org-governance/internal/model"
	"org-governance/internal/orgfamily"
	"testing"

	"github.com/stretchr/testify/assert"
)

// submitProposal creates a proposal at baseTime and returns its id
func submitProposal(t *testing.T, e *Engine, st *fakeState, proposer, target string, proposalType model.ProposalType, severity model.Severity) uint64 {
	t.Helper()

	assert.NoError(t, applyTxn(e, st, proposer, orgfamily.Payload{
		Action:       string(orgfamily.ActionCreateProposal),
		Target:       target,
		Description:  "test proposal",
		ProposalType: proposalType.String(),
		Severity:     severity.String(),
		Timestamp:    baseTime,
	}))

	settings, err := loadSettings(st)
	assert.NoError(t, err)
	return settings.NextProposalID
}

func castVote(t *testing.T, e *Engine, st *fakeState, voter string, proposalID uint64, support bool) {
	t.Helper()

	assert.NoError(t, applyTxn(e, st, voter, orgfamily.Payload{
		Action:     string(orgfamily.ActionVote),
		ProposalID: proposalID,
		Support:    support,
		Timestamp:  baseTime + 60,
	}))
}

func executeAfterDeadline(e *Engine, st *fakeState, caller string, proposalID uint64) error {
	return applyTxn(e, st, caller, orgfamily.Payload{
		Action:     string(orgfamily.ActionExecuteProposal),
		ProposalID: proposalID,
		Timestamp:  baseTime + model.VotingWindowSeconds + 1,
	})
}

func TestCreateProposalEligibility(t *testing.T) {
	e := testEngine()
	st := newFakeState()
	verifyAndJoin(t, e, st, "alice")
	verifyAndJoin(t, e, st, "bob")

	newProposal := func(proposer, target string) error {
		return applyTxn(e, st, proposer, orgfamily.Payload{
			Action:       string(orgfamily.ActionCreateProposal),
			Target:       target,
			ProposalType: model.ProposalGeneralGovernance.String(),
			Severity:     model.SeverityWarning.String(),
			Timestamp:    baseTime,
		})
	}

	assert.ErrorIs(t, newProposal("stranger", "alice"), ErrCallerNotActive)
	assert.ErrorIs(t, newProposal("alice", "stranger"), ErrTargetNotActive)
	assert.ErrorIs(t, newProposal("alice", "alice"), ErrSelfTarget)

	// below the reputation threshold the member may not propose
	lowRep := mustLoadMember(t, st, "alice")
	lowRep.Reputation = model.ProposalReputationThreshold - 1
	assert.NoError(t, saveMember(st, lowRep))
	assert.ErrorIs(t, newProposal("alice", "bob"), ErrInsufficientReputation)
}

func TestCreateProposalRejectsUnknownKind(t *testing.T) {
	e := testEngine()
	st := newFakeState()
	verifyAndJoin(t, e, st, "alice")
	verifyAndJoin(t, e, st, "bob")

	err := applyTxn(e, st, "alice", orgfamily.Payload{
		Action:       string(orgfamily.ActionCreateProposal),
		Target:       "bob",
		ProposalType: "banish",
		Severity:     model.SeverityWarning.String(),
		Timestamp:    baseTime,
	})
	assert.Error(t, err)
}

func TestCreateProposalAssignsSequentialIDs(t *testing.T) {
	e := testEngine()
	st := newFakeState()
	verifyAndJoin(t, e, st, "alice")
	verifyAndJoin(t, e, st, "bob")

	first := submitProposal(t, e, st, "alice", "bob", model.ProposalGeneralGovernance, model.SeverityWarning)
	second := submitProposal(t, e, st, "bob", "alice", model.ProposalGeneralGovernance, model.SeverityWarning)

	assert.Equal(t, uint64(1), first)
	assert.Equal(t, uint64(2), second)

	proposal, found, err := loadProposal(st, first)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, baseTime+model.VotingWindowSeconds, proposal.VoteDeadline)
	assert.False(t, proposal.Executed)
}

func TestVoteWindow(t *testing.T) {
	e := testEngine()
	st := newFakeState()
	verifyAndJoin(t, e, st, "alice")
	verifyAndJoin(t, e, st, "bob")
	id := submitProposal(t, e, st, "alice", "bob", model.ProposalGeneralGovernance, model.SeverityWarning)

	// the deadline itself is still inside the window
	assert.NoError(t, applyTxn(e, st, "alice", orgfamily.Payload{
		Action:     string(orgfamily.ActionVote),
		ProposalID: id,
		Support:    true,
		Timestamp:  baseTime + model.VotingWindowSeconds,
	}))

	err := applyTxn(e, st, "bob", orgfamily.Payload{
		Action:     string(orgfamily.ActionVote),
		ProposalID: id,
		Support:    true,
		Timestamp:  baseTime + model.VotingWindowSeconds + 1,
	})
	assert.ErrorIs(t, err, ErrVotingClosed)
}

func TestVoteValidation(t *testing.T) {
	e := testEngine()
	st := newFakeState()
	verifyAndJoin(t, e, st, "alice")
	verifyAndJoin(t, e, st, "bob")
	id := submitProposal(t, e, st, "alice", "bob", model.ProposalGeneralGovernance, model.SeverityWarning)

	err := applyTxn(e, st, "stranger", orgfamily.Payload{
		Action:     string(orgfamily.ActionVote),
		ProposalID: id,
		Timestamp:  baseTime + 60,
	})
	assert.ErrorIs(t, err, ErrCallerNotActive)

	err = applyTxn(e, st, "alice", orgfamily.Payload{
		Action:     string(orgfamily.ActionVote),
		ProposalID: 404,
		Timestamp:  baseTime + 60,
	})
	assert.ErrorIs(t, err, ErrProposalNotFound)

	castVote(t, e, st, "alice", id, true)
	err = applyTxn(e, st, "alice", orgfamily.Payload{
		Action:     string(orgfamily.ActionVote),
		ProposalID: id,
		Support:    false,
		Timestamp:  baseTime + 120,
	})
	assert.ErrorIs(t, err, ErrAlreadyVoted)

	proposal, _, err := loadProposal(st, id)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), proposal.YesVotes)
	assert.Equal(t, uint64(0), proposal.NoVotes)
}

func TestExecuteBeforeDeadlineFails(t *testing.T) {
	e := testEngine()
	st := newFakeState()
	verifyAndJoin(t, e, st, "alice")
	verifyAndJoin(t, e, st, "bob")
	id := submitProposal(t, e, st, "alice", "bob", model.ProposalGeneralGovernance, model.SeverityWarning)

	err := applyTxn(e, st, "alice", orgfamily.Payload{
		Action:     string(orgfamily.ActionExecuteProposal),
		ProposalID: id,
		Timestamp:  baseTime + model.VotingWindowSeconds,
	})
	assert.ErrorIs(t, err, ErrVotingStillOpen)
}

func TestExecuteQuorumBoundary(t *testing.T) {
	e := testEngine()
	st := newFakeState()
	for _, member := range []string{"alice", "bob", "carol", "dave"} {
		verifyAndJoin(t, e, st, member)
	}

	// four active members, quorum is two votes

	reaching := submitProposal(t, e, st, "alice", "dave", model.ProposalGeneralGovernance, model.SeverityWarning)
	castVote(t, e, st, "alice", reaching, true)
	castVote(t, e, st, "bob", reaching, true)
	assert.NoError(t, executeAfterDeadline(e, st, "alice", reaching))

	missing := submitProposal(t, e, st, "alice", "dave", model.ProposalGeneralGovernance, model.SeverityWarning)
	castVote(t, e, st, "alice", missing, true)
	assert.NoError(t, executeAfterDeadline(e, st, "alice", missing))

	executions := st.eventsOfType(orgfamily.EventProposalExecuted)
	assert.Len(t, executions, 2)
	assert.Equal(t, "passed", executions[0].attributes["outcome"])
	assert.Equal(t, "failed", executions[1].attributes["outcome"])
}

func TestExecuteQuorumOddRoster(t *testing.T) {
	e := testEngine()
	st := newFakeState()
	for _, member := range []string{"alice", "bob", "carol", "dave", "erin"} {
		verifyAndJoin(t, e, st, member)
	}

	// five active members round down to a quorum of two votes
	id := submitProposal(t, e, st, "alice", "erin", model.ProposalGeneralGovernance, model.SeverityWarning)
	castVote(t, e, st, "alice", id, true)
	castVote(t, e, st, "bob", id, true)
	assert.NoError(t, executeAfterDeadline(e, st, "alice", id))

	executions := st.eventsOfType(orgfamily.EventProposalExecuted)
	assert.Len(t, executions, 1)
	assert.Equal(t, "passed", executions[0].attributes["outcome"])
}

func TestExecuteTieFails(t *testing.T) {
	e := testEngine()
	st := newFakeState()
	for _, member := range []string{"alice", "bob", "carol", "dave"} {
		verifyAndJoin(t, e, st, member)
	}

	id := submitProposal(t, e, st, "alice", "dave", model.ProposalGeneralGovernance, model.SeverityWarning)
	castVote(t, e, st, "alice", id, true)
	castVote(t, e, st, "bob", id, false)
	assert.NoError(t, executeAfterDeadline(e, st, "alice", id))

	executions := st.eventsOfType(orgfamily.EventProposalExecuted)
	assert.Len(t, executions, 1)
	assert.Equal(t, "failed", executions[0].attributes["outcome"])
}

func TestExecuteTwiceFails(t *testing.T) {
	e := testEngine()
	st := newFakeState()
	verifyAndJoin(t, e, st, "alice")
	verifyAndJoin(t, e, st, "bob")
	id := submitProposal(t, e, st, "alice", "bob", model.ProposalGeneralGovernance, model.SeverityWarning)

	assert.NoError(t, executeAfterDeadline(e, st, "alice", id))

	// even a failed outcome is final
	proposal, _, err := loadProposal(st, id)
	assert.NoError(t, err)
	assert.True(t, proposal.Executed)

	assert.ErrorIs(t, executeAfterDeadline(e, st, "bob", id), ErrAlreadyExecuted)
}

func TestRemovalThroughProposal(t *testing.T) {
	e := testEngine()
	st := newFakeState()
	for _, member := range []string{"alice", "bob", "carol", "dave"} {
		verifyAndJoin(t, e, st, member)
	}

	id := submitProposal(t, e, st, "alice", "dave", model.ProposalRemoveMember, model.SeverityRemoval)
	castVote(t, e, st, "alice", id, true)
	castVote(t, e, st, "bob", id, true)
	castVote(t, e, st, "carol", id, false)
	assert.NoError(t, executeAfterDeadline(e, st, "alice", id))

	removed := mustLoadMember(t, st, "dave")
	assert.False(t, removed.Active)
	assert.Equal(t, uint(0), removed.Reputation)
	assert.False(t, removed.HasAuthCredential)

	roster, err := loadRoster(st)
	assert.NoError(t, err)
	assert.Len(t, roster.Members, 3)
	assert.NotContains(t, roster.Members, "dave")

	// a removed member may neither act nor rejoin
	err = applyTxn(e, st, "dave", orgfamily.Payload{
		Action:     string(orgfamily.ActionVote),
		ProposalID: id,
		Timestamp:  baseTime + 60,
	})
	assert.ErrorIs(t, err, ErrCallerNotActive)

	err = applyTxn(e, st, "dave", orgfamily.Payload{
		Action:             string(orgfamily.ActionJoin),
		IdentityCommitment: "fresh-commitment",
		Timestamp:          baseTime + 120,
	})
	assert.ErrorIs(t, err, ErrAlreadyMember)

	assert.Len(t, st.eventsOfType(orgfamily.EventMemberRemoved), 1)
}

func TestExecuteClosesProposalWhenTargetAlreadyRemoved(t *testing.T) {
	e := testEngine()
	st := newFakeState()
	for _, member := range []string{"alice", "bob", "carol", "dave"} {
		verifyAndJoin(t, e, st, member)
	}

	// two concurrent removal proposals against the same member
	first := submitProposal(t, e, st, "alice", "dave", model.ProposalRemoveMember, model.SeverityRemoval)
	second := submitProposal(t, e, st, "bob", "dave", model.ProposalRemoveMember, model.SeverityRemoval)
	for _, voter := range []string{"alice", "bob"} {
		castVote(t, e, st, voter, first, true)
		castVote(t, e, st, voter, second, true)
	}

	assert.NoError(t, executeAfterDeadline(e, st, "alice", first))
	assert.False(t, mustLoadMember(t, st, "dave").Active)

	// the second one finds its target gone and still closes
	assert.NoError(t, executeAfterDeadline(e, st, "bob", second))

	proposal, _, err := loadProposal(st, second)
	assert.NoError(t, err)
	assert.True(t, proposal.Executed)

	executions := st.eventsOfType(orgfamily.EventProposalExecuted)
	assert.Len(t, executions, 2)
	assert.Equal(t, "passed", executions[0].attributes["outcome"])
	assert.Equal(t, "failed", executions[1].attributes["outcome"])
	assert.NotEmpty(t, executions[1].attributes["reason"])

	assert.ErrorIs(t, executeAfterDeadline(e, st, "bob", second), ErrAlreadyExecuted)
}
