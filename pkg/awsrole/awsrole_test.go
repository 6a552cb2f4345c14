package awsrole_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/aws-sdk-go-v2/service/sts/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vantagecompute/vantage-api/pkg/awsrole"
)

type fakeSTS struct {
	gotInput *sts.AssumeRoleInput
	resp     *sts.AssumeRoleOutput
	err      error
}

func (f *fakeSTS) AssumeRole(ctx context.Context, params *sts.AssumeRoleInput, optFns ...func(*sts.Options)) (*sts.AssumeRoleOutput, error) {
	f.gotInput = params
	return f.resp, f.err
}

func TestAssumeRole(t *testing.T) {
	cfg := awsrole.Config{
		RoleARN: "arn:aws:iam::123456789012:role/marketplace",
		Region:  "us-east-1",
	}

	t.Run("invalid config", func(t *testing.T) {
		_, err := awsrole.AssumeRole(context.Background(), &fakeSTS{}, awsrole.Config{})
		assert.Error(t, err)
	})

	t.Run("broker failure propagates unmodified", func(t *testing.T) {
		brokerErr := errors.New("AccessDenied: not authorized to perform sts:AssumeRole")
		api := &fakeSTS{err: brokerErr}

		_, err := awsrole.AssumeRole(context.Background(), api, cfg)
		assert.ErrorIs(t, err, brokerErr)
	})

	t.Run("nil credentials in response", func(t *testing.T) {
		api := &fakeSTS{resp: &sts.AssumeRoleOutput{}}

		_, err := awsrole.AssumeRole(context.Background(), api, cfg)
		assert.Error(t, err)
	})

	t.Run("success", func(t *testing.T) {
		api := &fakeSTS{resp: &sts.AssumeRoleOutput{
			Credentials: &types.Credentials{
				AccessKeyId:     aws.String("AKIA-TEST"),
				SecretAccessKey: aws.String("secret"),
				SessionToken:    aws.String("token"),
			},
		}}

		out, err := awsrole.AssumeRole(context.Background(), api, cfg)
		require.NoError(t, err)
		assert.Equal(t, "AKIA-TEST", out.AccessKeyID)
		assert.Equal(t, "secret", out.SecretAccessKey)
		assert.Equal(t, "token", out.SessionToken)
		assert.Equal(t, "us-east-1", out.Region)

		require.NotNil(t, api.gotInput)
		assert.Equal(t, cfg.RoleARN, aws.ToString(api.gotInput.RoleArn))
		assert.Equal(t, "cluster-api-temp-session", aws.ToString(api.gotInput.RoleSessionName))
	})

	t.Run("custom session name", func(t *testing.T) {
		api := &fakeSTS{resp: &sts.AssumeRoleOutput{
			Credentials: &types.Credentials{
				AccessKeyId:     aws.String("AKIA-TEST"),
				SecretAccessKey: aws.String("secret"),
				SessionToken:    aws.String("token"),
			},
		}}

		namedCfg := cfg
		namedCfg.SessionName = "entitlement-check"

		_, err := awsrole.AssumeRole(context.Background(), api, namedCfg)
		require.NoError(t, err)
		assert.Equal(t, "entitlement-check", aws.ToString(api.gotInput.RoleSessionName))
	})
}

func TestCredentialsAWSConfig(t *testing.T) {
	creds := awsrole.Credentials{
		AccessKeyID:     "AKIA-TEST",
		SecretAccessKey: "secret",
		SessionToken:    "token",
		Region:          "us-west-1",
	}

	awsCfg := creds.AWSConfig()
	assert.Equal(t, "us-west-1", awsCfg.Region)

	retrieved, err := awsCfg.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AKIA-TEST", retrieved.AccessKeyID)
	assert.Equal(t, "secret", retrieved.SecretAccessKey)
	assert.Equal(t, "token", retrieved.SessionToken)
}

func TestMarketplaceClients(t *testing.T) {
	awsCfg := awsrole.Credentials{
		AccessKeyID:     "AKIA-TEST",
		SecretAccessKey: "secret",
		SessionToken:    "token",
		Region:          "us-east-1",
	}.AWSConfig()

	assert.NotNil(t, awsrole.NewMeteringClient(awsCfg))
	assert.NotNil(t, awsrole.NewEntitlementClient(awsCfg))
}
