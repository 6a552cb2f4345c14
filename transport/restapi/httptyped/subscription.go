package httptyped

import (
	"time"

	"github.com/vantagecompute/vantage-api/internal/svc/subssvc"
)

type SubscriptionEntity struct {
	CustomerIdentifier string `json:"customer_identifier"`
	ProductCode        string `json:"product_code"`
}

type EntitlementEntity struct {
	CustomerIdentifier string    `json:"customer_identifier"`
	Dimension          string    `json:"dimension"`
	ExpirationDate     time.Time `json:"expiration_date"`
}

func EntitlementEntityFromSvc(ent subssvc.Entitlement) EntitlementEntity {
	return EntitlementEntity{
		CustomerIdentifier: ent.CustomerIdentifier,
		Dimension:          ent.Dimension,
		ExpirationDate:     ent.ExpirationDate,
	}
}
