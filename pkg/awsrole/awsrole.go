package awsrole

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/go-playground/validator/v10"
)

const defaultSessionName = "cluster-api-temp-session"

// STSAPI is the subset of the STS client used by this package.
// Declared as interface so callers can inject a fake during test.
type STSAPI interface {
	AssumeRole(ctx context.Context, params *sts.AssumeRoleInput, optFns ...func(*sts.Options)) (*sts.AssumeRoleOutput, error)
}

type Config struct {
	RoleARN     string `validate:"required"`
	Region      string `validate:"required"`
	SessionName string `validate:"-"` // defaults to cluster-api-temp-session
	Endpoint    string `validate:"-"` // custom endpoint for local development, empty in production
}

// Credentials is the short-lived triple returned by a successful role
// assumption. Lifetime is bounded by STS expiry and is not tracked here.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	Region          string
}

// NewSTSClient builds the STS client off the ambient AWS configuration.
func NewSTSClient(ctx context.Context, cfg Config) (*sts.Client, error) {
	err := validator.New().Struct(cfg)
	if err != nil {
		return nil, fmt.Errorf("sts client config error: %w", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config error: %w", err)
	}

	client := sts.NewFromConfig(awsCfg, func(o *sts.Options) {
		if cfg.Endpoint != "" {
			o.EndpointResolver = sts.EndpointResolverFromURL(cfg.Endpoint)
		}
	})

	return client, nil
}

// AssumeRole asks api to assume cfg.RoleARN and returns the temporary
// credentials. Any broker failure propagates unmodified, no retry.
func AssumeRole(ctx context.Context, api STSAPI, cfg Config) (out Credentials, err error) {
	err = validator.New().Struct(cfg)
	if err != nil {
		err = fmt.Errorf("assume role config error: %w", err)
		return
	}

	sessionName := cfg.SessionName
	if sessionName == "" {
		sessionName = defaultSessionName
	}

	resp, err := api.AssumeRole(ctx, &sts.AssumeRoleInput{
		RoleArn:         aws.String(cfg.RoleARN),
		RoleSessionName: aws.String(sessionName),
	})
	if err != nil {
		return
	}

	if resp == nil || resp.Credentials == nil {
		err = fmt.Errorf("assume role '%s' returned no credentials", cfg.RoleARN)
		return
	}

	out = Credentials{
		AccessKeyID:     aws.ToString(resp.Credentials.AccessKeyId),
		SecretAccessKey: aws.ToString(resp.Credentials.SecretAccessKey),
		SessionToken:    aws.ToString(resp.Credentials.SessionToken),
		Region:          cfg.Region,
	}
	return
}

// AWSConfig turns assumed credentials into an aws.Config usable by any
// regional service client constructor.
func (c Credentials) AWSConfig() aws.Config {
	return aws.Config{
		Region: c.Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			c.AccessKeyID, c.SecretAccessKey, c.SessionToken,
		),
	}
}
