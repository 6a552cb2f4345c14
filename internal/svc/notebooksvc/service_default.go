package notebooksvc

import (
	"context"
	"fmt"

	"github.com/vantagecompute/vantage-api/internal/svc/clusterrepo"
	"github.com/vantagecompute/vantage-api/internal/svc/notebookrepo"
	"github.com/vantagecompute/vantage-api/pkg/uid"
	"github.com/vantagecompute/vantage-api/pkg/validator"
)

type DefaultServiceConfig struct {
	UIDGen       uid.UID           `validate:"required"`
	ClusterRepo  clusterrepo.Repo  `validate:"required"`
	NotebookRepo notebookrepo.Repo `validate:"required"`
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

func (d *DefaultService) CreateNotebook(ctx context.Context, input InputCreateNotebook) (out OutCreateNotebook, err error) {
	err = validator.Validate(input)
	if err != nil {
		err = fmt.Errorf("validation error, missing required field: %w", err)
		return
	}

	// the cluster must exist, a dangling notebook row would be dropped by
	// cascade anyway but the client deserves a clear error
	_, err = d.Config.ClusterRepo.GetByName(ctx, clusterrepo.InputGetByName{
		Name: input.ClusterName,
	})
	if err != nil {
		err = fmt.Errorf("not found cluster name '%s': %w", input.ClusterName, err)
		return
	}

	nextID, err := d.Config.UIDGen.NextID()
	if err != nil {
		err = fmt.Errorf("cannot get next id: %w", err)
		return
	}

	created, err := d.Config.NotebookRepo.Create(ctx, notebookrepo.InputCreate{
		NotebookServer: notebookrepo.NotebookServer{
			ID:            int64(nextID),
			ClusterName:   input.ClusterName,
			PartitionName: input.PartitionName,
			Name:          input.Name,
			OwnerEmail:    input.OwnerEmail,
			Status:        StatusStarting,
		},
	})
	if err != nil {
		return
	}

	out = OutCreateNotebook{
		NotebookServer: fromRepo(created.NotebookServer),
	}
	return
}

func (d *DefaultService) ListNotebooks(ctx context.Context, in InputListNotebooks) (out OutListNotebooks, err error) {
	err = validator.Validate(in)
	if err != nil {
		err = fmt.Errorf("validation error, missing required field: %w", err)
		return
	}

	// set to the default value
	if in.Limit <= 0 || in.Limit > 100 {
		in.Limit = 100
	}

	outList, err := d.Config.NotebookRepo.List(ctx, notebookrepo.InputList{
		ClusterName: in.ClusterName,
		Limit:       in.Limit,
		Offset:      in.Offset,
		SortBy:      in.SortBy,
	})
	if err != nil {
		err = fmt.Errorf("list notebook servers error: %w", err)
		return
	}

	notebooks := make([]NotebookServer, 0)
	for _, nb := range outList.NotebookServers {
		notebooks = append(notebooks, fromRepo(nb))
	}

	out = OutListNotebooks{
		Total:           outList.Total,
		Limit:           in.Limit,
		NotebookServers: notebooks,
	}
	return
}

func (d *DefaultService) UpdateNotebookStatus(ctx context.Context, input InputUpdateNotebookStatus) (out OutUpdateNotebookStatus, err error) {
	err = validator.Validate(input)
	if err != nil {
		err = fmt.Errorf("validation error, missing required field: %w", err)
		return
	}

	updated, err := d.Config.NotebookRepo.UpdateStatus(ctx, notebookrepo.InputUpdateStatus{
		ClusterName: input.ClusterName,
		Name:        input.Name,
		Status:      input.Status,
	})
	if err != nil {
		err = fmt.Errorf("update status of notebook '%s' error: %w", input.Name, err)
		return
	}

	out = OutUpdateNotebookStatus{
		NotebookServer: fromRepo(updated.NotebookServer),
	}
	return
}

func (d *DefaultService) DelNotebook(ctx context.Context, input InputDelNotebook) (out OutDelNotebook, err error) {
	err = validator.Validate(input)
	if err != nil {
		err = fmt.Errorf("validation error, missing required field: %w", err)
		return
	}

	outDel, err := d.Config.NotebookRepo.DelByName(ctx, notebookrepo.InputDelByName{
		ClusterName: input.ClusterName,
		Name:        input.Name,
	})
	if err != nil {
		err = fmt.Errorf("db delete error '%s': %w", input.Name, err)
		return
	}

	out = OutDelNotebook{
		Success: outDel.Success,
	}
	return
}

func fromRepo(nb notebookrepo.NotebookServer) NotebookServer {
	return NotebookServer{
		ID:            nb.ID,
		ClusterName:   nb.ClusterName,
		PartitionName: nb.PartitionName,
		Name:          nb.Name,
		OwnerEmail:    nb.OwnerEmail,
		ServerURL:     nb.ServerURL,
		Status:        nb.Status,
		CreatedAt:     nb.CreatedAt,
		UpdatedAt:     nb.UpdatedAt,
	}
}
