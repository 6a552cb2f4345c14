package httptyped

import (
	"encoding/json"
	"time"

	"github.com/vantagecompute/vantage-api/internal/svc/queuesvc"
)

type QueueEntity struct {
	Name      string          `json:"name"`
	Info      json.RawMessage `json:"info,omitempty"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func QueueEntityFromSvc(q queuesvc.Queue) QueueEntity {
	return QueueEntity{
		Name:      q.Name,
		Info:      q.Info,
		UpdatedAt: q.UpdatedAt,
	}
}
