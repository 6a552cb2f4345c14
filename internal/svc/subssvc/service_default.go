package subssvc

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/marketplaceentitlementservice"
	entitlementtypes "github.com/aws/aws-sdk-go-v2/service/marketplaceentitlementservice/types"
	"github.com/aws/aws-sdk-go-v2/service/marketplacemetering"
	"github.com/vantagecompute/vantage-api/pkg/awsrole"
	"github.com/vantagecompute/vantage-api/pkg/validator"
)

// EntitlementAPI is the subset of the Marketplace Entitlement client in use.
type EntitlementAPI interface {
	GetEntitlements(ctx context.Context, params *marketplaceentitlementservice.GetEntitlementsInput, optFns ...func(*marketplaceentitlementservice.Options)) (*marketplaceentitlementservice.GetEntitlementsOutput, error)
}

// MeteringAPI is the subset of the Marketplace Metering client in use.
type MeteringAPI interface {
	ResolveCustomer(ctx context.Context, params *marketplacemetering.ResolveCustomerInput, optFns ...func(*marketplacemetering.Options)) (*marketplacemetering.ResolveCustomerOutput, error)
}

type DefaultServiceConfig struct {
	STSClient  awsrole.STSAPI `validate:"required"`
	RoleConfig awsrole.Config `validate:"required"`

	// Factories are swappable for test, nil means the real AWS clients.
	NewEntitlementAPI func(aws.Config) EntitlementAPI `validate:"-"`
	NewMeteringAPI    func(aws.Config) MeteringAPI    `validate:"-"`
}

type DefaultService struct {
	Config DefaultServiceConfig
}

var _ Service = (*DefaultService)(nil)

func New(dep DefaultServiceConfig) (*DefaultService, error) {
	if err := validator.Validate(dep); err != nil {
		return nil, err
	}

	if dep.NewEntitlementAPI == nil {
		dep.NewEntitlementAPI = func(cfg aws.Config) EntitlementAPI {
			return awsrole.NewEntitlementClient(cfg)
		}
	}

	if dep.NewMeteringAPI == nil {
		dep.NewMeteringAPI = func(cfg aws.Config) MeteringAPI {
			return awsrole.NewMeteringClient(cfg)
		}
	}

	return &DefaultService{
		Config: dep,
	}, nil
}

func (d *DefaultService) ResolveSubscription(ctx context.Context, input InputResolveSubscription) (out OutResolveSubscription, err error) {
	err = validator.Validate(input)
	if err != nil {
		err = fmt.Errorf("validation error, missing required field: %w", err)
		return
	}

	creds, err := awsrole.AssumeRole(ctx, d.Config.STSClient, d.Config.RoleConfig)
	if err != nil {
		return
	}

	resp, err := d.Config.NewMeteringAPI(creds.AWSConfig()).ResolveCustomer(ctx, &marketplacemetering.ResolveCustomerInput{
		RegistrationToken: aws.String(input.RegistrationToken),
	})
	if err != nil {
		return
	}

	out = OutResolveSubscription{
		CustomerIdentifier: aws.ToString(resp.CustomerIdentifier),
		ProductCode:        aws.ToString(resp.ProductCode),
	}
	return
}

func (d *DefaultService) CheckEntitlements(ctx context.Context, input InputCheckEntitlements) (out OutCheckEntitlements, err error) {
	err = validator.Validate(input)
	if err != nil {
		err = fmt.Errorf("validation error, missing required field: %w", err)
		return
	}

	creds, err := awsrole.AssumeRole(ctx, d.Config.STSClient, d.Config.RoleConfig)
	if err != nil {
		return
	}

	in := &marketplaceentitlementservice.GetEntitlementsInput{
		ProductCode: aws.String(input.ProductCode),
	}

	if input.CustomerIdentifier != "" {
		in.Filter = map[string][]string{
			string(entitlementtypes.GetEntitlementFilterNameCustomerIdentifier): {input.CustomerIdentifier},
		}
	}

	resp, err := d.Config.NewEntitlementAPI(creds.AWSConfig()).GetEntitlements(ctx, in)
	if err != nil {
		return
	}

	entitlements := make([]Entitlement, 0, len(resp.Entitlements))
	for _, e := range resp.Entitlements {
		ent := Entitlement{
			CustomerIdentifier: aws.ToString(e.CustomerIdentifier),
			Dimension:          aws.ToString(e.Dimension),
		}

		if e.ExpirationDate != nil {
			ent.ExpirationDate = *e.ExpirationDate
		}

		entitlements = append(entitlements, ent)
	}

	out = OutCheckEntitlements{
		Entitled:     len(entitlements) > 0,
		Entitlements: entitlements,
	}
	return
}
