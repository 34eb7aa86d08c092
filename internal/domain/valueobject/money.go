package valueobject

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ignatzorin/skillbridge-backend/internal/pkg/apperror"
)

const DefaultCurrency = "INR"

// MoneyScale задаёт число знаков после запятой у сумм платежей и ставок.
const MoneyScale = 2

var (
	hundred = decimal.NewFromInt(100)
	// maxAmount соответствует transactions.amount NUMERIC(14, 2).
	maxAmount = decimal.New(1, 12)
	// maxRate соответствует ставкам NUMERIC(12, 2).
	maxRate = decimal.New(1, 10)
)

// Money хранит сумму в основных единицах валюты (рубли, рупии), без потери точности.
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

// NewMoney создаёт положительную сумму не более чем с двумя знаками после запятой.
// Пустая валюта заменяется на DefaultCurrency.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if err := checkAmount(amount, maxAmount, "сумма"); err != nil {
		return Money{}, err
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{Amount: amount, Currency: currency}, nil
}

// MinorUnits переводит сумму в минимальные единицы (×100) с округлением половины вверх.
func (m Money) MinorUnits() int64 {
	return MinorUnits(m.Amount)
}

// MinorUnits переводит сумму в основных единицах в минимальные (×100, половина вверх).
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// FromMinorUnits обратно переводит минимальные единицы в основные.
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.NewFromInt(minor).Div(hundred)
}

// Rate хранит опубликованную ставку. Нулевая ставка означает "не опубликована".
type Rate struct {
	decimal.Decimal
}

// ValidateRate проверяет ставку, которую пользователь предлагает в заявке.
func ValidateRate(d decimal.Decimal) error {
	return checkAmount(d, maxRate, "ставка")
}

// checkAmount требует сумму в диапазоне [0.01, limit) с точностью до MoneyScale знаков.
func checkAmount(amount, limit decimal.Decimal, field string) error {
	if !amount.IsPositive() {
		return apperror.New(apperror.ErrCodeInvalidArgument, field+" должна быть положительной")
	}
	if !amount.Equal(amount.Truncate(MoneyScale)) {
		return apperror.New(apperror.ErrCodeInvalidArgument, fmt.Sprintf("%s может содержать не более %d знаков после запятой", field, MoneyScale))
	}
	if amount.GreaterThanOrEqual(limit) {
		return apperror.New(apperror.ErrCodeInvalidArgument, fmt.Sprintf("%s должна быть меньше %s", field, limit.String()))
	}
	return nil
}

func NewRate(d decimal.Decimal) Rate {
	return Rate{Decimal: d}
}

func (r Rate) Published() bool {
	return r.Decimal.IsPositive()
}
