package valueobject

import "github.com/ignatzorin/skillbridge-backend/internal/pkg/apperror"

// RequestKind различает три вида заявок, хранящихся в одной таблице.
type RequestKind string

const (
	KindHiring        RequestKind = "hiring"
	KindMentor        RequestKind = "mentor"
	KindSkillExchange RequestKind = "skill_exchange"
)

func (k RequestKind) IsValid() bool {
	switch k {
	case KindHiring, KindMentor, KindSkillExchange:
		return true
	}
	return false
}

// Payable сообщает, может ли заявка этого вида оплачиваться.
func (k RequestKind) Payable() bool {
	return k == KindHiring || k == KindMentor
}

func NewRequestKind(kind string) (RequestKind, error) {
	k := RequestKind(kind)
	if !k.IsValid() {
		return "", apperror.New(apperror.ErrCodeInvalidArgument, "некорректный тип заявки")
	}
	return k, nil
}

type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusAccepted  RequestStatus = "accepted"
	RequestStatusRejected  RequestStatus = "rejected"
	RequestStatusCompleted RequestStatus = "completed"
)

func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusPending, RequestStatusAccepted, RequestStatusRejected, RequestStatusCompleted:
		return true
	}
	return false
}

// IsTerminal сообщает, что из статуса нет переходов ни для одного вида заявки.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusRejected || s == RequestStatusCompleted
}

func NewRequestStatus(status string) (RequestStatus, error) {
	s := RequestStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeInvalidArgument, "некорректный статус заявки")
	}
	return s, nil
}

var requestTransitions = map[RequestKind]map[RequestStatus][]RequestStatus{
	KindHiring: {
		RequestStatusPending:  {RequestStatusAccepted, RequestStatusRejected},
		RequestStatusAccepted: {RequestStatusCompleted},
	},
	KindMentor: {
		RequestStatusPending:  {RequestStatusAccepted, RequestStatusRejected},
		RequestStatusAccepted: {RequestStatusCompleted},
	},
	// Обмен навыками завершается на accepted.
	KindSkillExchange: {
		RequestStatusPending: {RequestStatusAccepted, RequestStatusRejected},
	},
}

// CanTransition проверяет, разрешён ли переход from -> to для вида заявки.
func CanTransition(kind RequestKind, from, to RequestStatus) bool {
	byStatus, ok := requestTransitions[kind]
	if !ok {
		return false
	}
	for _, allowed := range byStatus[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Direction фильтрует список заявок относительно владельца.
type Direction string

const (
	DirectionSent     Direction = "sent"
	DirectionReceived Direction = "received"
	DirectionAll      Direction = "all"
)

func NewDirection(d string) (Direction, error) {
	switch Direction(d) {
	case DirectionSent, DirectionReceived, DirectionAll:
		return Direction(d), nil
	case "":
		return DirectionAll, nil
	}
	return "", apperror.New(apperror.ErrCodeInvalidArgument, "direction должен быть sent, received или all")
}

type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "pending"
	TransactionStatusSuccess TransactionStatus = "success"
	TransactionStatusFailed  TransactionStatus = "failed"
)

func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusSuccess, TransactionStatusFailed:
		return true
	}
	return false
}

// HiringRole определяет, по какой ставке нанимается кандидат.
type HiringRole string

const (
	HiringRoleMentor    HiringRole = "mentor"
	HiringRoleDeveloper HiringRole = "developer"
)

func NewHiringRole(role string) (HiringRole, error) {
	switch HiringRole(role) {
	case HiringRoleMentor, HiringRoleDeveloper:
		return HiringRole(role), nil
	}
	return "", apperror.New(apperror.ErrCodeInvalidArgument, "роль найма должна быть mentor или developer")
}
