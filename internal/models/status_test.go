package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanProposalTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{ProposalStatusPending, ProposalStatusCountered, true},
		{ProposalStatusPending, ProposalStatusAccepted, true},
		{ProposalStatusPending, ProposalStatusRejected, true},
		{ProposalStatusCountered, ProposalStatusPending, true},
		{ProposalStatusCountered, ProposalStatusAccepted, true},
		{ProposalStatusCountered, ProposalStatusRejected, true},
		// accepted и rejected — терминальные.
		{ProposalStatusAccepted, ProposalStatusRejected, false},
		{ProposalStatusAccepted, ProposalStatusPending, false},
		{ProposalStatusRejected, ProposalStatusAccepted, false},
		{ProposalStatusRejected, ProposalStatusRejected, false},
		{ProposalStatusPending, ProposalStatusPending, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, CanProposalTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestCanCounterBidTransition(t *testing.T) {
	// Из pending можно в любой другой статус.
	for to := range ValidCounterBidStatuses {
		if to == CounterBidStatusPending {
			continue
		}
		assert.True(t, CanCounterBidTransition(CounterBidStatusPending, to), "pending -> %s", to)
	}

	// Все остальные статусы терминальные.
	for from := range ValidCounterBidStatuses {
		if from == CounterBidStatusPending {
			continue
		}
		for to := range ValidCounterBidStatuses {
			assert.False(t, CanCounterBidTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCanJobTransition(t *testing.T) {
	assert.True(t, CanJobTransition(JobStatusOpen, JobStatusInProgress))
	assert.True(t, CanJobTransition(JobStatusOpen, JobStatusClosed))
	assert.True(t, CanJobTransition(JobStatusInProgress, JobStatusCompleted))
	assert.True(t, CanJobTransition(JobStatusInProgress, JobStatusClosed))

	assert.False(t, CanJobTransition(JobStatusOpen, JobStatusCompleted))
	assert.False(t, CanJobTransition(JobStatusCompleted, JobStatusOpen))
	assert.False(t, CanJobTransition(JobStatusClosed, JobStatusOpen))
}

func TestCounterBid_IsExpired(t *testing.T) {
	now := time.Now()
	cb := CounterBid{ExpiresAt: now.Add(time.Hour)}
	assert.False(t, cb.IsExpired(now))

	cb.ExpiresAt = now.Add(-time.Minute)
	assert.True(t, cb.IsExpired(now))
}
