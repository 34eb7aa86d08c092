package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/skillbridge-backend/internal/pkg/apperror"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		kind     RequestKind
		from, to RequestStatus
		want     bool
	}{
		{KindHiring, RequestStatusPending, RequestStatusAccepted, true},
		{KindHiring, RequestStatusPending, RequestStatusRejected, true},
		{KindHiring, RequestStatusAccepted, RequestStatusCompleted, true},
		{KindHiring, RequestStatusPending, RequestStatusCompleted, false},
		{KindHiring, RequestStatusRejected, RequestStatusAccepted, false},
		{KindHiring, RequestStatusCompleted, RequestStatusAccepted, false},
		{KindHiring, RequestStatusAccepted, RequestStatusPending, false},
		{KindMentor, RequestStatusAccepted, RequestStatusCompleted, true},
		{KindMentor, RequestStatusAccepted, RequestStatusRejected, false},
		{KindSkillExchange, RequestStatusPending, RequestStatusAccepted, true},
		{KindSkillExchange, RequestStatusAccepted, RequestStatusCompleted, false},
		{RequestKind("unknown"), RequestStatusPending, RequestStatusAccepted, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransition(tc.kind, tc.from, tc.to), "%s: %s -> %s", tc.kind, tc.from, tc.to)
	}
}

func TestNewDirection(t *testing.T) {
	d, err := NewDirection("")
	require.NoError(t, err)
	assert.Equal(t, DirectionAll, d)

	d, err = NewDirection("sent")
	require.NoError(t, err)
	assert.Equal(t, DirectionSent, d)

	_, err = NewDirection("sideways")
	assert.Equal(t, apperror.ErrCodeInvalidArgument, apperror.CodeOf(err))
}

func TestNewHiringRole(t *testing.T) {
	_, err := NewHiringRole("recruiter")
	assert.Error(t, err)

	r, err := NewHiringRole("developer")
	require.NoError(t, err)
	assert.Equal(t, HiringRoleDeveloper, r)
}

func TestMinorUnits_RoundsHalfUp(t *testing.T) {
	assert.Equal(t, int64(50000), MinorUnits(decimal.RequireFromString("500")))
	assert.Equal(t, int64(1235), MinorUnits(decimal.RequireFromString("12.345")))
	assert.Equal(t, int64(1234), MinorUnits(decimal.RequireFromString("12.344")))
	assert.Equal(t, int64(1), MinorUnits(decimal.RequireFromString("0.005")))
	assert.True(t, FromMinorUnits(1999).Equal(decimal.RequireFromString("19.99")))
}

func TestNewMoney(t *testing.T) {
	_, err := NewMoney(decimal.Zero, "INR")
	assert.Equal(t, apperror.ErrCodeInvalidArgument, apperror.CodeOf(err))

	_, err = NewMoney(decimal.NewFromInt(-5), "INR")
	assert.Error(t, err)

	m, err := NewMoney(decimal.NewFromInt(10), " usd ")
	require.NoError(t, err)
	assert.Equal(t, "USD", m.Currency)

	m, err = NewMoney(decimal.NewFromInt(10), "")
	require.NoError(t, err)
	assert.Equal(t, DefaultCurrency, m.Currency)
	assert.Equal(t, int64(1000), m.MinorUnits())
}

func TestNewMoney_Bounds(t *testing.T) {
	cases := []struct {
		name   string
		amount string
		ok     bool
		minor  int64
	}{
		{"one minor unit", "0.01", true, 1},
		{"two decimals", "10.50", true, 1050},
		{"trailing zeros", "10.500", true, 1050},
		{"largest amount", "999999999999.99", true, 99999999999999},
		{"below minor unit", "0.004", false, 0},
		{"three decimals", "10.005", false, 0},
		{"upper bound", "1000000000000", false, 0},
		{"int64 overflow", "184467440737095516.21", false, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := NewMoney(decimal.RequireFromString(tc.amount), "INR")
			if !tc.ok {
				assert.Equal(t, apperror.ErrCodeInvalidArgument, apperror.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.minor, m.MinorUnits())
			assert.True(t, FromMinorUnits(m.MinorUnits()).Equal(m.Amount))
		})
	}
}

func TestValidateRate(t *testing.T) {
	assert.NoError(t, ValidateRate(decimal.RequireFromString("1500.75")))
	assert.Error(t, ValidateRate(decimal.Zero))
	assert.Error(t, ValidateRate(decimal.RequireFromString("99.999")))
	assert.Error(t, ValidateRate(decimal.New(1, 10)))
}

func TestRatePublished(t *testing.T) {
	assert.False(t, NewRate(decimal.Zero).Published())
	assert.True(t, NewRate(decimal.NewFromInt(500)).Published())
}
