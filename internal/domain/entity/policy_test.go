package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/skillbridge-backend/internal/domain/valueobject"
	"github.com/ignatzorin/skillbridge-backend/internal/pkg/apperror"
)

func TestAuthorize(t *testing.T) {
	learner, mentor, stranger := uuid.New(), uuid.New(), uuid.New()
	req, _ := NewRequest(learner, mentor, MentorTerms{OfferedRate: decimal.NewFromInt(100), Message: "hi"})

	cases := []struct {
		name   string
		actor  uuid.UUID
		target valueobject.RequestStatus
		want   bool
	}{
		{"counterparty accepts", mentor, valueobject.RequestStatusAccepted, true},
		{"counterparty rejects", mentor, valueobject.RequestStatusRejected, true},
		{"initiator accepts", learner, valueobject.RequestStatusAccepted, false},
		{"initiator rejects", learner, valueobject.RequestStatusRejected, false},
		{"stranger accepts", stranger, valueobject.RequestStatusAccepted, false},
		{"counterparty completes", mentor, valueobject.RequestStatusCompleted, true},
		{"initiator completes", learner, valueobject.RequestStatusCompleted, false},
		{"nobody sets pending", mentor, valueobject.RequestStatusPending, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := Authorize(tc.actor, req, tc.target)
			assert.Equal(t, tc.want, d.Allowed)
			if !tc.want {
				assert.NotEmpty(t, d.Reason)
				assert.True(t, apperror.IsForbidden(d.Err()))
			} else {
				assert.NoError(t, d.Err())
			}
		})
	}
}

func TestAuthorize_NilRequest(t *testing.T) {
	d := Authorize(uuid.New(), nil, valueobject.RequestStatusAccepted)
	assert.False(t, d.Allowed)
}
