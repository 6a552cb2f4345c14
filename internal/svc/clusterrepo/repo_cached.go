package clusterrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/vantagecompute/vantage-api/pkg/cache"
	"github.com/vantagecompute/vantage-api/pkg/validator"
	"github.com/yusufsyaifudin/ylog"
)

type CachedConfig struct {
	Persistent     Repo          `validate:"required"`
	CacheExpiry    time.Duration `validate:"required"`
	CachePrefixKey string        `validate:"required,alphanumeric"`
	Cache          cache.Cache   `validate:"required"`
}

type CachedRepo struct {
	Config CachedConfig
}

var _ Repo = (*CachedRepo)(nil)

func NewCached(cfg CachedConfig) (*CachedRepo, error) {
	if err := validator.Validate(cfg); err != nil {
		return nil, err
	}

	return &CachedRepo{
		Config: cfg,
	}, nil
}

func (c *CachedRepo) Create(ctx context.Context, in InputCreate) (out OutCreate, err error) {
	// Get cached data, if exists then reject early before touching the db
	existingCluster, err := c.getByName(ctx, in.Cluster.Name)
	if err != nil {
		// log and then discard error
		ylog.Error(ctx, "get cluster by name from cache error, continuing to try to insert", ylog.KV("error", err))
		err = nil
	}

	if existingCluster.Name == in.Cluster.Name {
		err = fmt.Errorf("cluster with name '%s' already exist", existingCluster.Name)
		return
	}

	// persist to db
	out, err = c.Config.Persistent.Create(ctx, in)
	if err != nil {
		err = fmt.Errorf("persist cluster to db error: %w", err)
		return
	}

	// if ok, save to cache
	c.setByName(ctx, out.Cluster)
	return
}

func (c *CachedRepo) GetByName(ctx context.Context, in InputGetByName) (out OutGetByName, err error) {
	// Get from cache first
	clusterData, err := c.getByName(ctx, in.Name)
	if err == nil && clusterData.Name == in.Name {
		out = OutGetByName{
			Cluster: clusterData,
		}
		return
	}

	// If error occurred, then try get from persistent storage
	if err != nil {
		ylog.Error(ctx, fmt.Sprintf("cluster name %s error get from cache", in.Name), ylog.KV("error", err))
		err = nil
	}

	out, err = c.Config.Persistent.GetByName(ctx, in)
	if err != nil {
		err = fmt.Errorf("persistence storage fetch error: %w", err)
		return
	}

	// Try cache, only log when error
	c.setByName(ctx, out.Cluster)
	return
}

// List of cached clusters now will not use cache. It hard to maintain list in cache.
func (c *CachedRepo) List(ctx context.Context, in InputList) (out OutList, err error) {
	return c.Config.Persistent.List(ctx, in)
}

func (c *CachedRepo) UpdateStatus(ctx context.Context, in InputUpdateStatus) (out OutUpdateStatus, err error) {
	out, err = c.Config.Persistent.UpdateStatus(ctx, in)
	if err != nil {
		return
	}

	// refresh the cache so a read after status change never sees stale data
	c.setByName(ctx, out.Cluster)
	return
}

func (c *CachedRepo) DelByName(ctx context.Context, in InputDelByName) (out OutDelByName, err error) {
	out, err = c.Config.Persistent.DelByName(ctx, in)
	if err != nil {
		return
	}

	err = c.delByName(ctx, in.Name)
	return
}

// Partitions are always read from the persistent store, a cluster's
// partition list only changes through cascade on cluster delete.
func (c *CachedRepo) ListPartitions(ctx context.Context, in InputListPartitions) (out OutListPartitions, err error) {
	return c.Config.Persistent.ListPartitions(ctx, in)
}

// -- cache

func (c *CachedRepo) genCacheKeyByName(name string) string {
	return fmt.Sprintf("%s:%s", c.Config.CachePrefixKey, name)
}

func (c *CachedRepo) getByName(ctx context.Context, name string) (Cluster, error) {
	var clusterData Cluster
	err := c.Config.Cache.GetAs(ctx, c.genCacheKeyByName(name), &clusterData)
	if err != nil {
		return Cluster{}, err
	}

	ylog.Debug(ctx, fmt.Sprintf("get cluster %s from cache", name))
	return clusterData, nil
}

func (c *CachedRepo) setByName(ctx context.Context, clusterData Cluster) {
	err := c.Config.Cache.SetExp(ctx, c.genCacheKeyByName(clusterData.Name), clusterData, c.Config.CacheExpiry)
	if err != nil {
		ylog.Error(ctx, fmt.Sprintf("cannot save cache cluster %s", clusterData.Name), ylog.KV("error", err))
		return
	}

	ylog.Debug(ctx, fmt.Sprintf("caching cluster %s", clusterData.Name))
	return
}

func (c *CachedRepo) delByName(ctx context.Context, name string) error {
	return c.Config.Cache.Delete(ctx, c.genCacheKeyByName(name))
}
