package subssvc_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/marketplaceentitlementservice"
	entitlementtypes "github.com/aws/aws-sdk-go-v2/service/marketplaceentitlementservice/types"
	"github.com/aws/aws-sdk-go-v2/service/marketplacemetering"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	ststypes "github.com/aws/aws-sdk-go-v2/service/sts/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vantagecompute/vantage-api/internal/svc/subssvc"
	"github.com/vantagecompute/vantage-api/pkg/awsrole"
)

type fakeSTS struct {
	err error
}

func (f *fakeSTS) AssumeRole(ctx context.Context, params *sts.AssumeRoleInput, optFns ...func(*sts.Options)) (*sts.AssumeRoleOutput, error) {
	if f.err != nil {
		return nil, f.err
	}

	return &sts.AssumeRoleOutput{
		Credentials: &ststypes.Credentials{
			AccessKeyId:     aws.String("AKIA-TEST"),
			SecretAccessKey: aws.String("secret"),
			SessionToken:    aws.String("token"),
		},
	}, nil
}

type fakeEntitlements struct {
	gotInput *marketplaceentitlementservice.GetEntitlementsInput
	resp     *marketplaceentitlementservice.GetEntitlementsOutput
	err      error
}

func (f *fakeEntitlements) GetEntitlements(ctx context.Context, params *marketplaceentitlementservice.GetEntitlementsInput, optFns ...func(*marketplaceentitlementservice.Options)) (*marketplaceentitlementservice.GetEntitlementsOutput, error) {
	f.gotInput = params
	return f.resp, f.err
}

type fakeMetering struct {
	resp *marketplacemetering.ResolveCustomerOutput
	err  error
}

func (f *fakeMetering) ResolveCustomer(ctx context.Context, params *marketplacemetering.ResolveCustomerInput, optFns ...func(*marketplacemetering.Options)) (*marketplacemetering.ResolveCustomerOutput, error) {
	return f.resp, f.err
}

func newService(t *testing.T, stsAPI awsrole.STSAPI, ent subssvc.EntitlementAPI, met subssvc.MeteringAPI) *subssvc.DefaultService {
	svc, err := subssvc.New(subssvc.DefaultServiceConfig{
		STSClient: stsAPI,
		RoleConfig: awsrole.Config{
			RoleARN: "arn:aws:iam::123456789012:role/marketplace",
			Region:  "us-east-1",
		},
		NewEntitlementAPI: func(aws.Config) subssvc.EntitlementAPI { return ent },
		NewMeteringAPI:    func(aws.Config) subssvc.MeteringAPI { return met },
	})
	require.NoError(t, err)
	return svc
}

func TestCheckEntitlements(t *testing.T) {
	t.Run("sts failure propagates", func(t *testing.T) {
		brokerErr := errors.New("AccessDenied")
		svc := newService(t, &fakeSTS{err: brokerErr}, &fakeEntitlements{}, &fakeMetering{})

		_, err := svc.CheckEntitlements(context.Background(), subssvc.InputCheckEntitlements{
			ProductCode: "prod-1",
		})
		assert.ErrorIs(t, err, brokerErr)
	})

	t.Run("no entitlements means not entitled", func(t *testing.T) {
		ent := &fakeEntitlements{resp: &marketplaceentitlementservice.GetEntitlementsOutput{}}
		svc := newService(t, &fakeSTS{}, ent, &fakeMetering{})

		out, err := svc.CheckEntitlements(context.Background(), subssvc.InputCheckEntitlements{
			ProductCode: "prod-1",
		})
		require.NoError(t, err)
		assert.False(t, out.Entitled)
		assert.Empty(t, out.Entitlements)
	})

	t.Run("entitled with customer filter", func(t *testing.T) {
		expiry := time.Now().Add(24 * time.Hour).UTC()
		ent := &fakeEntitlements{resp: &marketplaceentitlementservice.GetEntitlementsOutput{
			Entitlements: []entitlementtypes.Entitlement{
				{
					CustomerIdentifier: aws.String("cust-1"),
					Dimension:          aws.String("clusters"),
					ExpirationDate:     &expiry,
				},
			},
		}}
		svc := newService(t, &fakeSTS{}, ent, &fakeMetering{})

		out, err := svc.CheckEntitlements(context.Background(), subssvc.InputCheckEntitlements{
			ProductCode:        "prod-1",
			CustomerIdentifier: "cust-1",
		})
		require.NoError(t, err)
		assert.True(t, out.Entitled)
		require.Len(t, out.Entitlements, 1)
		assert.Equal(t, "cust-1", out.Entitlements[0].CustomerIdentifier)
		assert.Equal(t, expiry, out.Entitlements[0].ExpirationDate)

		require.NotNil(t, ent.gotInput)
		assert.Equal(t, "prod-1", aws.ToString(ent.gotInput.ProductCode))
		assert.Equal(t,
			[]string{"cust-1"},
			ent.gotInput.Filter[string(entitlementtypes.GetEntitlementFilterNameCustomerIdentifier)],
		)
	})
}

func TestResolveSubscription(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		svc := newService(t, &fakeSTS{}, &fakeEntitlements{}, &fakeMetering{})

		_, err := svc.ResolveSubscription(context.Background(), subssvc.InputResolveSubscription{})
		assert.Error(t, err)
	})

	t.Run("success", func(t *testing.T) {
		met := &fakeMetering{resp: &marketplacemetering.ResolveCustomerOutput{
			CustomerIdentifier: aws.String("cust-1"),
			ProductCode:        aws.String("prod-1"),
		}}
		svc := newService(t, &fakeSTS{}, &fakeEntitlements{}, met)

		out, err := svc.ResolveSubscription(context.Background(), subssvc.InputResolveSubscription{
			RegistrationToken: "tok",
		})
		require.NoError(t, err)
		assert.Equal(t, "cust-1", out.CustomerIdentifier)
		assert.Equal(t, "prod-1", out.ProductCode)
	})
}
