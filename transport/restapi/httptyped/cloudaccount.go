package httptyped

import (
	"time"

	"github.com/vantagecompute/vantage-api/internal/svc/cloudacctsvc"
)

type CloudAccountKeyEntity struct {
	ID             string    `json:"id"`
	CloudAccountID string    `json:"cloud_account_id"`
	APIKey         string    `json:"api_key"`
	CreatedAt      time.Time `json:"created_at"`
}

func CloudAccountKeyEntityFromSvc(key cloudacctsvc.APIKey) CloudAccountKeyEntity {
	return CloudAccountKeyEntity{
		ID:             key.ID,
		CloudAccountID: key.CloudAccountID,
		APIKey:         key.APIKey,
		CreatedAt:      key.CreatedAt,
	}
}
