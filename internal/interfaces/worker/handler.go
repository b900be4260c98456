// Package worker turns derivatives.requested events into persisted
// derivative batches.
package worker

import (
	"context"
	"time"

	"github.com/turtacn/dockprep/internal/application/derivative"
	"github.com/turtacn/dockprep/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/dockprep/pkg/errors"
)

// RequestHandler runs GenerateAndPersist for each generation request.
//
// Messages that can never succeed (undecodable payloads, invalid templates,
// limit violations) are logged and acknowledged so the consumer does not
// retry them.  Everything else is returned to the consumer's retry loop.
type RequestHandler struct {
	svc     derivative.Service
	timeout time.Duration
	logger  logging.Logger
}

// NewRequestHandler builds a handler.  A zero timeout leaves the consumer's
// context untouched.
func NewRequestHandler(svc derivative.Service, timeout time.Duration, logger logging.Logger) *RequestHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &RequestHandler{svc: svc, timeout: timeout, logger: logger.Named("worker")}
}

// Handle satisfies kafka.MessageHandler.
func (h *RequestHandler) Handle(ctx context.Context, msg *kafka.Message) error {
	req, err := kafka.DecodeGenerationRequested(msg)
	if err != nil {
		h.logger.Warn("dropping undecodable request",
			logging.String("topic", msg.Topic),
			logging.Int64("offset", msg.Offset),
			logging.Err(err))
		return nil
	}
	if req.OutputDir == "" {
		h.logger.Warn("dropping request without output dir", logging.String("request_id", req.RequestID))
		return nil
	}

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := h.svc.GenerateAndPersist(ctx, req.Template, req.OutputDir)
	if err != nil {
		if errors.IsClientError(errors.GetCode(err)) {
			h.logger.Warn("rejecting generation request",
				logging.String("request_id", req.RequestID),
				logging.String("template", req.Template),
				logging.String("code", errors.GetCode(err).String()),
				logging.Err(err))
			return nil
		}
		return err
	}

	h.logger.Info("generation request completed",
		logging.String("request_id", req.RequestID),
		logging.String("batch_id", res.BatchID),
		logging.Int("count", res.Count),
		logging.Duration("elapsed", time.Since(start)))
	return nil
}

//Personal.AI order the ending
