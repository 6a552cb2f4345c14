package container

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/sonyflake"
	"github.com/vantagecompute/vantage-api/internal/svc/cloudacctsvc"
	"github.com/vantagecompute/vantage-api/internal/svc/clusterrepo"
	"github.com/vantagecompute/vantage-api/internal/svc/clustersvc"
	"github.com/vantagecompute/vantage-api/internal/svc/identitysvc"
	"github.com/vantagecompute/vantage-api/internal/svc/notebooksvc"
	"github.com/vantagecompute/vantage-api/internal/svc/queuesvc"
	"github.com/vantagecompute/vantage-api/internal/svc/subssvc"
	"github.com/vantagecompute/vantage-api/pkg/awsrole"
	"github.com/vantagecompute/vantage-api/pkg/cache"
	"github.com/vantagecompute/vantage-api/pkg/mailclient"
	"github.com/vantagecompute/vantage-api/pkg/uid"
	"github.com/vantagecompute/vantage-api/pkg/worker"
)

type Services interface {
	UIDGen() uid.UID
	Cluster() clustersvc.Service
	Notebook() notebooksvc.Service
	Queue() queuesvc.Service
	CloudAccount() cloudacctsvc.Service
	Identity() identitysvc.Service
	Subscription() subssvc.Service

	// Stop drains the shared worker pool, call on shutdown.
	Stop()
}

type ServicesImpl struct {
	uidGen       uid.UID
	cluster      clustersvc.Service
	notebook     notebooksvc.Service
	queue        queuesvc.Service
	cloudAccount cloudacctsvc.Service
	identity     identitysvc.Service
	subscription subssvc.Service
	workers      *worker.Worker
}

var _ Services = (*ServicesImpl)(nil)

func SetupServices(ctx context.Context, svcCfg ConfigServices, repos Repositories, redisConn *RedisConnMaker) (svc *ServicesImpl, err error) {
	if repos == nil {
		err = fmt.Errorf("nil repositories on services preparation")
		return
	}

	uidGen := sonyflake.NewSonyflake(sonyflake.Settings{
		StartTime:      time.Date(2022, 9, 23, 0, 0, 0, 0, time.UTC),
		MachineID:      nil,
		CheckMachineID: nil,
	})

	if uidGen == nil {
		err = fmt.Errorf("uid generator is nil")
		return
	}

	// ** Prepare cluster repo, wrapped in a cache when one is configured
	clusterRepo, err := repos.ClusterRepo(svcCfg.Cluster.DBLabel)
	if err != nil {
		err = fmt.Errorf("services cannot get cluster repo: %w", err)
		return
	}

	clusterRepo, err = wrapClusterCache(svcCfg.Cluster, clusterRepo, redisConn)
	if err != nil {
		err = fmt.Errorf("services cannot wrap cluster repo cache: %w", err)
		return
	}

	// ** Owner notification mail is optional
	var mailManager mailclient.ClientSmtpManager
	var mailCredential *mailclient.EmailCredential
	if svcCfg.Mail.Enabled {
		mailManager, err = mailclient.NewClientSmtpManager()
		if err != nil {
			err = fmt.Errorf("services cannot prepare mail manager: %w", err)
			return
		}

		mailCredential = &mailclient.EmailCredential{
			Protocol:     svcCfg.Mail.Credential.Protocol,
			ServerHost:   svcCfg.Mail.Credential.ServerHost,
			ServerPort:   svcCfg.Mail.Credential.ServerPort,
			AuthIdentity: svcCfg.Mail.Credential.AuthIdentity,
			Username:     svcCfg.Mail.Credential.Username,
			Password:     svcCfg.Mail.Credential.Password,
		}
	}

	clusterService, err := clustersvc.New(clustersvc.DefaultServiceConfig{
		UIDGen:         uidGen,
		ClusterRepo:    clusterRepo,
		MailManager:    mailManager,
		MailCredential: mailCredential,
		MailSenderAddr: svcCfg.Mail.SenderAddr,
	})
	if err != nil {
		err = fmt.Errorf("services cannot prepare cluster service: %w", err)
		return
	}

	// ** Prepare notebook service
	notebookRepo, err := repos.NotebookRepo(svcCfg.Notebook.DBLabel)
	if err != nil {
		err = fmt.Errorf("services cannot get notebook repo: %w", err)
		return
	}

	notebookService, err := notebooksvc.New(notebooksvc.DefaultServiceConfig{
		UIDGen:       uidGen,
		ClusterRepo:  clusterRepo,
		NotebookRepo: notebookRepo,
	})
	if err != nil {
		err = fmt.Errorf("services cannot prepare notebook service: %w", err)
		return
	}

	// ** Prepare queue report service with its shared worker pool
	queueRepo, err := repos.QueueRepo(svcCfg.Queue.DBLabel)
	if err != nil {
		err = fmt.Errorf("services cannot get queue repo: %w", err)
		return
	}

	workers := worker.NewWorker(svcCfg.Queue.MaxParallel, svcCfg.Queue.MaxBuffer)

	queueService, err := queuesvc.New(queuesvc.DefaultServiceConfig{
		UIDGen:      uidGen,
		ClusterRepo: clusterRepo,
		QueueRepo:   queueRepo,
		Workers:     workers,
	})
	if err != nil {
		err = fmt.Errorf("services cannot prepare queue service: %w", err)
		return
	}

	// ** Prepare cloud account api key service
	cloudAcctRepo, err := repos.CloudAccountRepo(svcCfg.CloudAccount.DBLabel)
	if err != nil {
		err = fmt.Errorf("services cannot get cloud account repo: %w", err)
		return
	}

	cloudAcctService, err := cloudacctsvc.New(cloudacctsvc.DefaultServiceConfig{
		CloudAcctRepo: cloudAcctRepo,
	})
	if err != nil {
		err = fmt.Errorf("services cannot prepare cloud account service: %w", err)
		return
	}

	// ** Prepare identity provider facade
	identityHTTP := resty.New().
		SetBaseURL(svcCfg.Identity.BaseURL).
		SetDebug(svcCfg.Identity.Debug)

	identityService, err := identitysvc.NewKeycloak(identitysvc.KeycloakServiceConfig{
		HTTP:  identityHTTP,
		Realm: svcCfg.Identity.Realm,
	})
	if err != nil {
		err = fmt.Errorf("services cannot prepare identity service: %w", err)
		return
	}

	// ** Prepare marketplace subscription service
	roleConfig := awsrole.Config{
		RoleARN:     svcCfg.Marketplace.RoleARN,
		Region:      svcCfg.Marketplace.Region,
		SessionName: svcCfg.Marketplace.SessionName,
		Endpoint:    svcCfg.Marketplace.Endpoint,
	}

	stsClient, err := awsrole.NewSTSClient(ctx, roleConfig)
	if err != nil {
		err = fmt.Errorf("services cannot prepare sts client: %w", err)
		return
	}

	subsService, err := subssvc.New(subssvc.DefaultServiceConfig{
		STSClient:  stsClient,
		RoleConfig: roleConfig,
	})
	if err != nil {
		err = fmt.Errorf("services cannot prepare subscription service: %w", err)
		return
	}

	svc = &ServicesImpl{
		uidGen:       uidGen,
		cluster:      clusterService,
		notebook:     notebookService,
		queue:        queueService,
		cloudAccount: cloudAcctService,
		identity:     identityService,
		subscription: subsService,
		workers:      workers,
	}

	return svc, nil
}

// wrapClusterCache decorates the persistent repo with a cache layer. Redis
// when the config names a connection, otherwise an in-process cache.
func wrapClusterCache(cfg ConfigServiceCluster, persistent clusterrepo.Repo, redisConn *RedisConnMaker) (clusterrepo.Repo, error) {
	if cfg.CacheExpirySecond <= 0 {
		// caching disabled, serve straight from the database
		return persistent, nil
	}

	prefix := cfg.CachePrefix
	if prefix == "" {
		prefix = "cluster"
	}

	var cacheStore cache.Cache
	var err error
	if cfg.CacheLabel != "" {
		if redisConn == nil {
			return nil, fmt.Errorf("cluster cache label '%s' set but no redis configured", cfg.CacheLabel)
		}

		redisClient, _err := redisConn.Get(cfg.CacheLabel)
		if _err != nil {
			return nil, _err
		}

		cacheStore, err = cache.NewRedis(cache.RedisConfig{DB: redisClient})
	} else {
		cacheStore, err = cache.NewInMemory(0)
	}

	if err != nil {
		return nil, err
	}

	return clusterrepo.NewCached(clusterrepo.CachedConfig{
		Persistent:     persistent,
		CacheExpiry:    time.Duration(cfg.CacheExpirySecond) * time.Second,
		CachePrefixKey: prefix,
		Cache:          cacheStore,
	})
}

func (s *ServicesImpl) UIDGen() uid.UID {
	return s.uidGen
}

func (s *ServicesImpl) Cluster() clustersvc.Service {
	return s.cluster
}

func (s *ServicesImpl) Notebook() notebooksvc.Service {
	return s.notebook
}

func (s *ServicesImpl) Queue() queuesvc.Service {
	return s.queue
}

func (s *ServicesImpl) CloudAccount() cloudacctsvc.Service {
	return s.cloudAccount
}

func (s *ServicesImpl) Identity() identitysvc.Service {
	return s.identity
}

func (s *ServicesImpl) Subscription() subssvc.Service {
	return s.subscription
}

func (s *ServicesImpl) Stop() {
	if s == nil || s.workers == nil {
		return
	}

	s.workers.Done()
}
