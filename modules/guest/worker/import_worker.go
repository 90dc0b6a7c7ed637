// Package worker runs queued guest imports.
package worker

import (
	"context"
	"fmt"

	"event-checkin/core/constants"
	"event-checkin/core/logger"
	"event-checkin/core/queue"
	"event-checkin/modules/guest/service"

	"github.com/hibiken/asynq"
)

type ImportHandler struct {
	service service.GuestServiceInterface
}

func NewImportHandler(svc service.GuestServiceInterface) *ImportHandler {
	return &ImportHandler{service: svc}
}

// ProcessTask commits one queued batch. Storage failures are returned so asynq retries.
func (h *ImportHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload service.ImportPayload
	if err := queue.DecodePayload(t, &payload); err != nil {
		return err
	}
	logger.Info("ImportWorker:ProcessTask", "batch_id", payload.BatchID, "rows", len(payload.Guests))

	if appErr := h.service.CommitImport(ctx, payload.BatchID, payload.Guests); appErr != nil {
		return fmt.Errorf("commit batch %s: %w", payload.BatchID, appErr)
	}
	return nil
}

func Register(mux *asynq.ServeMux, svc service.GuestServiceInterface) {
	mux.Handle(constants.TaskTypeGuestImport, NewImportHandler(svc))
}
