package audit

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type recorder struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
}

func NewRecorder(db *gorm.DB, log *zap.Logger, genID *snowflake.Node) Recorder {
	return &recorder{
		db:    db,
		log:   log.Named("audit"),
		genID: genID,
	}
}

func (r *recorder) Record(ctx context.Context, eventType, tableName string, recordID string, details map[string]any) {
	event := &Event{
		ID:        r.genID.Generate(),
		EventType: eventType,
		Table:     tableName,
		CreatedAt: time.Now().UTC(),
	}
	if recordID != "" {
		event.RecordID = &recordID
	}
	if details != nil {
		event.Details = datatypes.JSONMap(details)
	}

	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		r.log.Warn("audit record failed",
			zap.String("event_type", eventType),
			zap.String("table", tableName),
			zap.Error(err),
		)
	}
}
