package cloudacctsvc

import (
	"context"
	"fmt"

	"github.com/satori/uuid"
	"github.com/vantagecompute/vantage-api/internal/svc/cloudacctrepo"
	"github.com/vantagecompute/vantage-api/pkg/validator"
)

type DefaultServiceConfig struct {
	CloudAcctRepo cloudacctrepo.Repo `validate:"required"`
}

type DefaultService struct {
	Config DefaultServiceConfig
}

var _ Service = (*DefaultService)(nil)

func New(dep DefaultServiceConfig) (*DefaultService, error) {
	if err := validator.Validate(dep); err != nil {
		return nil, err
	}

	return &DefaultService{
		Config: dep,
	}, nil
}

func (d *DefaultService) CreateKey(ctx context.Context, input InputCreateKey) (out OutCreateKey, err error) {
	err = validator.Validate(input)
	if err != nil {
		err = fmt.Errorf("validation error, missing required field: %w", err)
		return
	}

	apiKey := input.APIKey
	if apiKey == "" {
		apiKey = uuid.NewV4().String()
	}

	created, err := d.Config.CloudAcctRepo.Create(ctx, cloudacctrepo.InputCreate{
		APIKey: cloudacctrepo.APIKey{
			CloudAccountID: input.CloudAccountID,
			APIKey:         apiKey,
		},
	})
	if err != nil {
		err = fmt.Errorf("create api key for cloud account '%s' error: %w", input.CloudAccountID, err)
		return
	}

	out = OutCreateKey{
		APIKey: fromRepo(created.APIKey),
	}
	return
}

func (d *DefaultService) GetKey(ctx context.Context, input InputGetKey) (out OutGetKey, err error) {
	err = validator.Validate(input)
	if err != nil {
		err = fmt.Errorf("validation error, missing required field: %w", err)
		return
	}

	keyData, err := d.Config.CloudAcctRepo.GetByAccountID(ctx, cloudacctrepo.InputGetByAccountID{
		CloudAccountID: input.CloudAccountID,
	})
	if err != nil {
		err = fmt.Errorf("not found api key for cloud account '%s': %w", input.CloudAccountID, err)
		return
	}

	out = OutGetKey{
		APIKey: fromRepo(keyData.APIKey),
	}
	return
}

func (d *DefaultService) DelKey(ctx context.Context, input InputDelKey) (out OutDelKey, err error) {
	err = validator.Validate(input)
	if err != nil {
		err = fmt.Errorf("validation error, missing required field: %w", err)
		return
	}

	outDel, err := d.Config.CloudAcctRepo.DelByAccountID(ctx, cloudacctrepo.InputDelByAccountID{
		CloudAccountID: input.CloudAccountID,
	})
	if err != nil {
		err = fmt.Errorf("db delete error '%s': %w", input.CloudAccountID, err)
		return
	}

	out = OutDelKey{
		Success: outDel.Success,
	}
	return
}

func fromRepo(k cloudacctrepo.APIKey) APIKey {
	return APIKey{
		ID:             k.ID,
		CloudAccountID: k.CloudAccountID,
		APIKey:         k.APIKey,
		CreatedAt:      k.CreatedAt,
	}
}
