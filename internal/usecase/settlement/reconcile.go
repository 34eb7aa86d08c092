package settlement

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/skillbridge-backend/internal/domain/entity"
	"github.com/ignatzorin/skillbridge-backend/internal/domain/repository"
	"github.com/ignatzorin/skillbridge-backend/internal/domain/valueobject"
	"github.com/ignatzorin/skillbridge-backend/internal/logger"
	"github.com/ignatzorin/skillbridge-backend/internal/pkg/apperror"
)

// ReconcileReport описывает итог одного прохода сверки.
type ReconcileReport struct {
	Scanned   int
	Applied   int
	Resolved  int
	Abandoned int
	Pending   int
}

type ReconcileUseCase struct {
	outboxRepo  repository.SettlementOutboxRepository
	requestRepo repository.RequestRepository
}

func NewReconcileUseCase(outboxRepo repository.SettlementOutboxRepository, requestRepo repository.RequestRepository) *ReconcileUseCase {
	return &ReconcileUseCase{
		outboxRepo:  outboxRepo,
		requestRepo: requestRepo,
	}
}

// Execute повторно применяет отметки об оплате из outbox. Записи, заявки которых уже
// оплачены этим платежом, закрываются без изменений. Записи, которые применить больше
// нельзя (заявка завершена, отклонена, удалена или оплачена другим платежом), помечаются
// abandoned и в следующие проходы не попадают.
func (uc *ReconcileUseCase) Execute(ctx context.Context, batch int) (*ReconcileReport, error) {
	if batch <= 0 {
		batch = DefaultListLimit
	}

	entries, err := uc.outboxRepo.ListOpen(ctx, batch)
	if err != nil {
		return nil, err
	}

	report := &ReconcileReport{Scanned: len(entries)}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		log := logger.L().WithFields(logrus.Fields{
			"outbox_id":      entry.ID,
			"transaction_id": entry.TransactionID,
			"request_id":     entry.RequestID,
		})

		req, err := uc.requestRepo.FindByID(ctx, entry.RequestID)
		if err != nil && !apperror.IsNotFound(err) {
			return report, err
		}

		switch {
		case req == nil:
			err = uc.abandon(ctx, log, entry, "заявка не найдена", report)
		case req.Paid && req.TransactionID != nil && *req.TransactionID == entry.TransactionID:
			if err = uc.outboxRepo.Resolve(ctx, entry.ID); err == nil {
				report.Resolved++
			}
		case req.Paid:
			err = uc.abandon(ctx, log, entry, "заявка уже оплачена другим платежом", report)
		case req.Status.IsTerminal():
			err = uc.abandon(ctx, log, entry, "заявка в статусе "+string(req.Status), report)
		case req.Status == valueobject.RequestStatusAccepted:
			var applied bool
			applied, err = uc.outboxRepo.Apply(ctx, entry)
			if err == nil && applied {
				log.Info("отметка об оплате применена при сверке")
				report.Applied++
				continue
			}
			if err == nil {
				err = uc.postpone(ctx, log, entry, "заявка изменилась во время сверки", report)
			}
		default:
			err = uc.postpone(ctx, log, entry, "заявка в статусе "+string(req.Status), report)
		}
		if err != nil {
			return report, err
		}
	}

	return report, nil
}

func (uc *ReconcileUseCase) abandon(ctx context.Context, log *logrus.Entry, entry entity.SettlementOutboxEntry, reason string, report *ReconcileReport) error {
	if err := uc.outboxRepo.Abandon(ctx, entry.ID, reason); err != nil {
		return err
	}
	log.WithField("reason", reason).Warn("отметку об оплате применить нельзя, запись outbox закрыта")
	report.Abandoned++
	return nil
}

func (uc *ReconcileUseCase) postpone(ctx context.Context, log *logrus.Entry, entry entity.SettlementOutboxEntry, reason string, report *ReconcileReport) error {
	if err := uc.outboxRepo.RecordAttempt(ctx, entry.ID, reason); err != nil {
		return err
	}
	log.WithField("reason", reason).Warn("отметку об оплате пока нельзя применить")
	report.Pending++
	return nil
}
