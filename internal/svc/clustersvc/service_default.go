package clustersvc

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/vantagecompute/vantage-api/internal/svc/clusterrepo"
	"github.com/vantagecompute/vantage-api/pkg/mailclient"
	"github.com/vantagecompute/vantage-api/pkg/tracer"
	"github.com/vantagecompute/vantage-api/pkg/uid"
	"github.com/vantagecompute/vantage-api/pkg/validator"
	"github.com/yusufsyaifudin/ylog"
	"go.opentelemetry.io/otel/trace"
)

type DefaultServiceConfig struct {
	UIDGen      uid.UID          `validate:"required"`
	ClusterRepo clusterrepo.Repo `validate:"required"`

	// Mail notification is optional, cluster creation still succeeds without it.
	MailManager    mailclient.ClientSmtpManager `validate:"-"`
	MailCredential *mailclient.EmailCredential  `validate:"-"`
	MailSenderAddr string                       `validate:"-"`
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

// CreateCluster is a function that knows business logic.
// It doesn't know whether the input come from HTTP or GRPC or any input.
func (d *DefaultService) CreateCluster(ctx context.Context, input InputCreateCluster) (out OutCreateCluster, err error) {
	err = validator.Validate(input)
	if err != nil {
		err = fmt.Errorf("validation error, missing required field: %w", err)
		return
	}

	existing, err := d.GetCluster(ctx, InputGetCluster{
		Name: input.Name,
	})
	if err != nil {
		// log and then discard error
		ylog.Error(ctx, "get cluster by name error, continuing to try to insert", ylog.KV("error", err))
		err = nil
	}

	if existing.Cluster.Name != "" {
		err = fmt.Errorf("cluster with name '%s' already exist", existing.Cluster.Name)
		return
	}

	partitions := make([]clusterrepo.Partition, 0, len(input.Partitions))
	for _, p := range input.Partitions {
		var nextID uint64
		nextID, err = d.Config.UIDGen.NextID()
		if err != nil {
			err = fmt.Errorf("cannot get next id: %w", err)
			return
		}

		partitions = append(partitions, clusterrepo.Partition{
			ID:        int64(nextID),
			Name:      p.Name,
			NodeCount: p.NodeCount,
			Config:    []byte(p.Config),
		})
	}

	clusterInput := clusterrepo.Cluster{
		Name:               input.Name,
		ClientID:           strings.ToLower(input.ClientID),
		Description:        input.Description,
		OwnerEmail:         input.OwnerEmail,
		Status:             StatusProvisioning,
		Provider:           input.Provider,
		CreationParameters: []byte(input.CreationParameters),
	}

	if input.CloudAccountID != "" {
		clusterInput.CloudAccountID = sql.NullString{String: input.CloudAccountID, Valid: true}
	}

	created, err := d.Config.ClusterRepo.Create(ctx, clusterrepo.InputCreate{
		Cluster:    clusterInput,
		Partitions: partitions,
	})
	if err != nil {
		return
	}

	d.notifyOwner(ctx, created.Cluster)

	out = OutCreateCluster{
		Cluster: ClusterFromRepo(created.Cluster, created.Partitions),
	}
	return
}

func (d *DefaultService) GetCluster(ctx context.Context, input InputGetCluster) (out OutGetCluster, err error) {
	var span trace.Span
	ctx, span = tracer.StartSpan(ctx, "clustersvc.GetCluster")
	defer span.End()

	err = validator.Validate(input)
	if err != nil {
		err = fmt.Errorf("validation error, missing required field: %w", err)
		return
	}

	outGet, err := d.Config.ClusterRepo.GetByName(ctx, clusterrepo.InputGetByName{
		Name: input.Name,
	})
	if err != nil {
		err = fmt.Errorf("not found cluster name '%s': %w", input.Name, err)
		return
	}

	outPartitions, err := d.Config.ClusterRepo.ListPartitions(ctx, clusterrepo.InputListPartitions{
		ClusterName: input.Name,
	})
	if err != nil {
		err = fmt.Errorf("cannot get partitions of cluster '%s': %w", input.Name, err)
		return
	}

	out = OutGetCluster{
		Cluster: ClusterFromRepo(outGet.Cluster, outPartitions.Partitions),
	}
	return
}

func (d *DefaultService) ListClusters(ctx context.Context, in InputListClusters) (out OutListClusters, err error) {
	err = validator.Validate(in)
	if err != nil {
		err = fmt.Errorf("validation error, missing required field: %w", err)
		return
	}

	// set to the default value
	if in.Limit <= 0 || in.Limit > 100 {
		in.Limit = 100
	}

	outList, err := d.Config.ClusterRepo.List(ctx, clusterrepo.InputList{
		Limit:  in.Limit,
		Offset: in.Offset,
		SortBy: in.SortBy,
	})
	if err != nil {
		err = fmt.Errorf("list clusters error: %w", err)
		return
	}

	clusters := make([]Cluster, 0)
	for _, c := range outList.Clusters {
		clusters = append(clusters, ClusterFromRepo(c, nil))
	}

	out = OutListClusters{
		Total:    outList.Total,
		Limit:    in.Limit,
		Clusters: clusters,
	}
	return
}

func (d *DefaultService) UpdateClusterStatus(ctx context.Context, input InputUpdateClusterStatus) (out OutUpdateClusterStatus, err error) {
	err = validator.Validate(input)
	if err != nil {
		err = fmt.Errorf("validation error, missing required field: %w", err)
		return
	}

	updated, err := d.Config.ClusterRepo.UpdateStatus(ctx, clusterrepo.InputUpdateStatus{
		Name:   input.Name,
		Status: input.Status,
	})
	if err != nil {
		err = fmt.Errorf("update status of cluster '%s' error: %w", input.Name, err)
		return
	}

	out = OutUpdateClusterStatus{
		Cluster: ClusterFromRepo(updated.Cluster, nil),
	}
	return
}

func (d *DefaultService) DelCluster(ctx context.Context, input InputDelCluster) (out OutDelCluster, err error) {
	err = validator.Validate(input)
	if err != nil {
		err = fmt.Errorf("validation error, missing required field: %w", err)
		return
	}

	outDel, err := d.Config.ClusterRepo.DelByName(ctx, clusterrepo.InputDelByName{
		Name: input.Name,
	})
	if err != nil {
		err = fmt.Errorf("db delete error '%s': %w", input.Name, err)
		return
	}

	out = OutDelCluster{
		Success: outDel.Success,
	}
	return
}

// notifyOwner sends a creation notice to the cluster owner. Best effort,
// delivery failure never fails the create.
func (d *DefaultService) notifyOwner(ctx context.Context, c clusterrepo.Cluster) {
	if d.Config.MailManager == nil || d.Config.MailCredential == nil {
		return
	}

	client, err := d.Config.MailManager.Get(ctx, &mailclient.SmtpMailerConfig{
		EmailCredential: d.Config.MailCredential,
	})
	if err != nil {
		ylog.Error(ctx, "cannot get smtp client for owner notification", ylog.KV("error", err))
		return
	}

	report := client.SendEmails(ctx, []mailclient.EmailSingle{
		{
			TrackingID: fmt.Sprintf("cluster-create-%s", c.Name),
			SenderAddr: d.Config.MailSenderAddr,
			Recipients: []string{c.OwnerEmail},
			Subject:    fmt.Sprintf("Cluster %s is being provisioned", c.Name),
			Body: fmt.Sprintf(
				"Your cluster %s (provider %s) was accepted and is now provisioning.",
				c.Name, c.Provider,
			),
		},
	})

	if report.ClientError != nil {
		ylog.Error(ctx, "owner notification mail error", ylog.KV("error", report.ClientError))
	}

	for _, recv := range report.RecvReports {
		if recv.Error != nil {
			ylog.Error(ctx, fmt.Sprintf("owner notification to %s failed", recv.To), ylog.KV("error", recv.Error))
		}
	}
}
