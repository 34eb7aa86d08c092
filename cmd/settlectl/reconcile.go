package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ignatzorin/skillbridge-backend/internal/infrastructure/persistence"
	"github.com/ignatzorin/skillbridge-backend/internal/usecase/settlement"
)

func reconcileCmd() *cobra.Command {
	var batch int

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Применить отложенные отметки об оплате из settlement_outbox",
		Long: `Проходит по открытым записям settlement_outbox и отмечает заявки оплаченными,
если они в статусе accepted. Записи завершённых, отклонённых или уже оплачённых другим
платежом заявок закрываются как abandoned. Остальные откладываются на следующий запуск.

Примеры:
  settlectl reconcile
  settlectl reconcile --batch 500`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if batch < 1 {
				return fmt.Errorf("--batch должен быть не меньше 1, получено %d", batch)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, conn, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB(conn)

			uc := settlement.NewReconcileUseCase(
				persistence.NewOutboxRepositoryAdapter(conn, cfg.TxMaxRetries),
				persistence.NewRequestRepositoryAdapter(conn, cfg.TxMaxRetries),
			)
			report, err := uc.Execute(cmd.Context(), batch)
			if report != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "просмотрено %d, применено %d, закрыто %d, брошено %d, ожидает %d\n",
					report.Scanned, report.Applied, report.Resolved, report.Abandoned, report.Pending)
			}
			return err
		},
	}
	cmd.Flags().IntVar(&batch, "batch", 100, "сколько записей обработать за запуск")

	return cmd
}
