package entity

import (
	"github.com/google/uuid"

	"github.com/ignatzorin/skillbridge-backend/internal/domain/valueobject"
	"github.com/ignatzorin/skillbridge-backend/internal/pkg/apperror"
)

// Decision содержит результат проверки прав на переход заявки.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision { return Decision{Allowed: true} }

func deny(reason string) Decision { return Decision{Reason: reason} }

// Authorize решает, может ли actor перевести заявку в статус target.
// Принять, отклонить и завершить заявку может только получатель: ментор или кандидат.
func Authorize(actor uuid.UUID, req *Request, target valueobject.RequestStatus) Decision {
	if req == nil {
		return deny("заявка не найдена")
	}
	if !req.IsParty(actor) {
		return deny("пользователь не участвует в заявке")
	}

	switch target {
	case valueobject.RequestStatusAccepted, valueobject.RequestStatusRejected:
		if actor != req.CounterpartyID {
			return deny("ответить на заявку может только её получатель")
		}
		return allow()
	case valueobject.RequestStatusCompleted:
		if actor != req.CounterpartyID {
			return deny("завершить заявку может только исполнитель")
		}
		return allow()
	}

	return deny("статус " + string(target) + " нельзя установить вручную")
}

// Err превращает отказ в ошибку Forbidden.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return apperror.New(apperror.ErrCodeForbidden, d.Reason)
}
