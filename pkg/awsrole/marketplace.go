package awsrole

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/marketplaceentitlementservice"
	"github.com/aws/aws-sdk-go-v2/service/marketplacemetering"
)

// NewMeteringClient builds a Marketplace Metering client scoped to the
// assumed-role credentials carried by awsCfg.
func NewMeteringClient(awsCfg aws.Config) *marketplacemetering.Client {
	return marketplacemetering.NewFromConfig(awsCfg)
}

// NewEntitlementClient builds a Marketplace Entitlement client scoped to the
// assumed-role credentials carried by awsCfg.
func NewEntitlementClient(awsCfg aws.Config) *marketplaceentitlementservice.Client {
	return marketplaceentitlementservice.NewFromConfig(awsCfg)
}
