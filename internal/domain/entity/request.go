package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/skillbridge-backend/internal/domain/valueobject"
	"github.com/ignatzorin/skillbridge-backend/internal/pkg/apperror"
	"github.com/ignatzorin/skillbridge-backend/internal/validation"
)

// Terms описывает условия заявки. Набор реализаций закрыт: HiringTerms, MentorTerms, SkillExchangeTerms.
type Terms interface {
	Kind() valueobject.RequestKind
	validate() error
}

type HiringTerms struct {
	Role     valueobject.HiringRole
	Rate     decimal.Decimal
	Duration string
	Message  string
}

func (HiringTerms) Kind() valueobject.RequestKind { return valueobject.KindHiring }

func (t HiringTerms) validate() error {
	if _, err := valueobject.NewHiringRole(string(t.Role)); err != nil {
		return err
	}
	if strings.TrimSpace(t.Duration) == "" {
		return apperror.New(apperror.ErrCodeInvalidArgument, "длительность найма обязательна")
	}
	if err := validation.ValidateLength("длительность", t.Duration, 0, validation.MaxDurationLength); err != nil {
		return invalidArgument(err)
	}
	return invalidArgument(validation.ValidateMessage(t.Message))
}

type MentorTerms struct {
	OfferedRate decimal.Decimal
	Message     string
}

func (MentorTerms) Kind() valueobject.RequestKind { return valueobject.KindMentor }

func (t MentorTerms) validate() error {
	if !t.OfferedRate.IsPositive() {
		return apperror.New(apperror.ErrCodeInvalidArgument, "предлагаемая ставка должна быть положительной")
	}
	if err := valueobject.ValidateRate(t.OfferedRate); err != nil {
		return err
	}
	if strings.TrimSpace(t.Message) == "" {
		return apperror.New(apperror.ErrCodeInvalidArgument, "сообщение ментору обязательно")
	}
	return invalidArgument(validation.ValidateMessage(t.Message))
}

type SkillExchangeTerms struct {
	OfferedSkills   []string
	RequestedSkills []string
}

func (SkillExchangeTerms) Kind() valueobject.RequestKind { return valueobject.KindSkillExchange }

func (t SkillExchangeTerms) validate() error {
	if len(t.OfferedSkills) == 0 {
		return apperror.New(apperror.ErrCodeInvalidArgument, "нужно указать хотя бы один предлагаемый навык")
	}
	if len(t.RequestedSkills) == 0 {
		return apperror.New(apperror.ErrCodeInvalidArgument, "нужно указать хотя бы один запрашиваемый навык")
	}
	if err := validation.ValidateSkills("offeredSkills", t.OfferedSkills); err != nil {
		return invalidArgument(err)
	}
	return invalidArgument(validation.ValidateSkills("requestedSkills", t.RequestedSkills))
}

func invalidArgument(err error) error {
	if err == nil {
		return nil
	}
	return apperror.New(apperror.ErrCodeInvalidArgument, err.Error())
}

// NormalizeSkills обрезает пробелы, выкидывает пустые значения и дубликаты, сохраняя порядок.
func NormalizeSkills(skills []string) []string {
	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Request описывает заявку на найм, менторство или обмен навыками.
type Request struct {
	ID             uuid.UUID
	InitiatorID    uuid.UUID
	CounterpartyID uuid.UUID
	Terms          Terms
	Status         valueobject.RequestStatus
	Paid           bool
	TransactionID  *uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewRequest проверяет условия и создаёт заявку в статусе pending.
func NewRequest(initiatorID, counterpartyID uuid.UUID, terms Terms) (*Request, error) {
	if initiatorID == uuid.Nil || counterpartyID == uuid.Nil {
		return nil, apperror.New(apperror.ErrCodeInvalidArgument, "не указаны участники заявки")
	}
	if initiatorID == counterpartyID {
		return nil, apperror.New(apperror.ErrCodeInvalidArgument, "нельзя отправить заявку самому себе")
	}
	if terms == nil {
		return nil, apperror.New(apperror.ErrCodeInvalidArgument, "условия заявки обязательны")
	}

	if se, ok := terms.(SkillExchangeTerms); ok {
		se.OfferedSkills = NormalizeSkills(se.OfferedSkills)
		se.RequestedSkills = NormalizeSkills(se.RequestedSkills)
		terms = se
	}
	if err := terms.validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Request{
		ID:             uuid.New(),
		InitiatorID:    initiatorID,
		CounterpartyID: counterpartyID,
		Terms:          terms,
		Status:         valueobject.RequestStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

func (r *Request) Kind() valueobject.RequestKind {
	return r.Terms.Kind()
}

// IsParty проверяет, участвует ли пользователь в заявке.
func (r *Request) IsParty(userID uuid.UUID) bool {
	return r.InitiatorID == userID || r.CounterpartyID == userID
}

// OtherParty возвращает вторую сторону заявки относительно userID.
func (r *Request) OtherParty(userID uuid.UUID) uuid.UUID {
	if r.InitiatorID == userID {
		return r.CounterpartyID
	}
	return r.InitiatorID
}

// ContactVisible сообщает, можно ли раскрыть email второй стороны.
// Для обмена навыками email не раскрывается никогда.
func (r *Request) ContactVisible() bool {
	if !r.Kind().Payable() {
		return false
	}
	return r.Status == valueobject.RequestStatusAccepted || r.Status == valueobject.RequestStatusCompleted
}

// Payable проверяет, что заявку можно оплатить прямо сейчас.
func (r *Request) Payable() error {
	if !r.Kind().Payable() {
		return apperror.New(apperror.ErrCodeInvalidArgument, "заявку этого типа нельзя оплатить")
	}
	if r.Status != valueobject.RequestStatusAccepted {
		return apperror.New(apperror.ErrCodeInvalidTransition, "оплатить можно только принятую заявку")
	}
	if r.Paid {
		return apperror.New(apperror.ErrCodeInvalidTransition, "заявка уже оплачена")
	}
	return nil
}

// TransitionTo применяет переход в памяти. Хранилище повторяет ту же проверку условным UPDATE.
func (r *Request) TransitionTo(to valueobject.RequestStatus) error {
	if !valueobject.CanTransition(r.Kind(), r.Status, to) {
		return InvalidTransition(r.Status, to)
	}
	r.Status = to
	r.UpdatedAt = time.Now().UTC()
	return nil
}

func InvalidTransition(from, to valueobject.RequestStatus) *apperror.AppError {
	return apperror.New(apperror.ErrCodeInvalidTransition, "переход из статуса "+string(from)+" в "+string(to)+" невозможен")
}
