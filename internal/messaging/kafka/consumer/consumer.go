package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/dapphari007/leavemon-sub001/internal/audit"
	"github.com/dapphari007/leavemon-sub001/internal/events"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeLeaveStatusEvents projects leave request status transitions into
// the append-only audit trail. Undecodable messages are committed and
// skipped; transient write failures leave the message uncommitted for
// redelivery.
func ConsumeLeaveStatusEvents(
	ctx context.Context,
	reader *kafkago.Reader,
	auditRepo audit.Repository,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_status")
	log.Info("leave status consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave status consumer stopped")
				return
			}
			log.Error("fetch leave status message failed", zap.Error(err))
			continue
		}

		var event events.LeaveRequestStatusChanged
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave status event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		record, err := buildAuditRecord(event, msg.Value)
		if err != nil {
			log.Error("build audit record failed",
				zap.String("request_id", event.RequestID),
				zap.Error(err),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := auditRepo.Create(ctx, record); err != nil {
			if isDuplicateKey(err) {
				log.Warn("audit record already exists, skipping",
					zap.String("request_id", event.RequestID),
					zap.String("event_type", event.EventType),
				)
				_ = reader.CommitMessages(ctx, msg)
				continue
			}

			log.Error("write audit record failed",
				zap.String("request_id", event.RequestID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave status message failed", zap.Error(err))
			continue
		}

		log.Info("leave status event recorded",
			zap.String("request_id", event.RequestID),
			zap.String("event_type", event.EventType),
			zap.String("status", event.Status),
		)
	}
}

func buildAuditRecord(event events.LeaveRequestStatusChanged, payload []byte) (*audit.LeaveAuditRecord, error) {
	eventID, err := uuid.Parse(event.EventID)
	if err != nil {
		return nil, err
	}
	requestID, err := uuid.Parse(event.RequestID)
	if err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(event.UserID)
	if err != nil {
		return nil, err
	}
	actorID, err := uuid.Parse(event.ActorID)
	if err != nil {
		return nil, err
	}

	return &audit.LeaveAuditRecord{
		ID:             uuid.New(),
		EventID:        eventID,
		LeaveRequestID: requestID,
		UserID:         userID,
		ActorID:        actorID,
		EventType:      event.EventType,
		Status:         event.Status,
		Level:          event.Level,
		Days:           event.Days,
		Payload:        payload,
		OccurredAt:     event.OccurredAt,
	}, nil
}

func isDuplicateKey(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate key value")
}
