package container

import (
	"fmt"
	"io"

	"github.com/jmoiron/sqlx"
	"github.com/vantagecompute/vantage-api/internal/svc/cloudacctrepo"
	"github.com/vantagecompute/vantage-api/internal/svc/clusterrepo"
	"github.com/vantagecompute/vantage-api/internal/svc/notebookrepo"
	"github.com/vantagecompute/vantage-api/internal/svc/queuerepo"
	"github.com/vantagecompute/vantage-api/pkg/multidb"
	"github.com/vantagecompute/vantage-api/pkg/validator"
	"go.uber.org/multierr"
)

// Repositories is an abstraction layer to list down all repositories.
// This only will connect and save the repository.
// To use this, you must select the db label based on config file
type Repositories interface {
	io.Closer

	ClusterRepo(dbLabel string) (clusterrepo.Repo, error)
	NotebookRepo(dbLabel string) (notebookrepo.Repo, error)
	QueueRepo(dbLabel string) (queuerepo.Repo, error)
	CloudAccountRepo(dbLabel string) (cloudacctrepo.Repo, error)
}

// RepositoryImpl the real implementation of Repositories
type RepositoryImpl struct {
	dbResourceMap ConfigDatabaseResources `validate:"required,structonly"`
	dbSqlConn     multidb.MultiDB         `validate:"required"` // all database connection
}

// Ensure that RepositoryImpl implements RepositoryImpl
var _ Repositories = (*RepositoryImpl)(nil)

// SetupRepositories return pointer because it heavily used.
// This will initialize all required dependencies to run.
// This will return RepositoryImpl instead Repositories,
// the reason is when SetupRepositories called it must be close in deferred mode, any passed value using interface
// won't let user Close any dependencies during run-time.
func SetupRepositories(conf ConfigDatabaseResources) (*RepositoryImpl, error) {
	sqlDbConfig := multidb.DatabaseResources{}
	for name, conn := range conf {
		sqlDbConfig[name] = multidb.DatabaseResource{
			Disable:  conn.Disable,
			Driver:   multidb.Driver(conn.Driver),
			Postgres: multidb.GoSqlDb(conn.Postgres),
		}
	}

	dbSqlConn, err := multidb.NewSqlDbConnMaker(multidb.SqlDbConnMakerConfig{Config: sqlDbConfig})
	if err != nil {
		return nil, err
	}

	dep := &RepositoryImpl{
		dbResourceMap: conf,
		dbSqlConn:     dbSqlConn,
	}

	err = validator.Validate(dep)
	if err != nil {
		return nil, err
	}

	return dep, nil
}

// SqlxConn resolves the label to an open postgres connection. All repo
// accessors below use it, and the migrate command needs the raw handle.
func (r *RepositoryImpl) SqlxConn(dbLabel string) (*sqlx.DB, error) {
	repoConnInfo, ok := r.dbResourceMap[dbLabel]
	if !ok {
		return nil, fmt.Errorf("unknown database key %s", dbLabel)
	}

	switch repoConnInfo.Driver {
	case "postgres":
		return r.dbSqlConn.GetSqlx(multidb.Postgres, dbLabel)

	default:
		return nil, fmt.Errorf("not supported db driver '%s' on label '%s'", repoConnInfo.Driver, dbLabel)
	}
}

// ClusterRepo return clusterrepo.Repo and return error when connection is closed or nil.
// This should never have caused panic.
func (r *RepositoryImpl) ClusterRepo(dbLabel string) (clusterrepo.Repo, error) {
	sqlConn, err := r.SqlxConn(dbLabel)
	if err != nil {
		return nil, fmt.Errorf("cannot get connection for clusterRepo: %w", err)
	}

	return clusterrepo.Postgres(clusterrepo.RepoPostgresConfig{
		Connection: sqlConn,
	})
}

func (r *RepositoryImpl) NotebookRepo(dbLabel string) (notebookrepo.Repo, error) {
	sqlConn, err := r.SqlxConn(dbLabel)
	if err != nil {
		return nil, fmt.Errorf("cannot get connection for notebookRepo: %w", err)
	}

	return notebookrepo.Postgres(notebookrepo.RepoPostgresConfig{
		Connection: sqlConn,
	})
}

func (r *RepositoryImpl) QueueRepo(dbLabel string) (queuerepo.Repo, error) {
	sqlConn, err := r.SqlxConn(dbLabel)
	if err != nil {
		return nil, fmt.Errorf("cannot get connection for queueRepo: %w", err)
	}

	return queuerepo.Postgres(queuerepo.RepoPostgresConfig{
		Connection: sqlConn,
	})
}

func (r *RepositoryImpl) CloudAccountRepo(dbLabel string) (cloudacctrepo.Repo, error) {
	sqlConn, err := r.SqlxConn(dbLabel)
	if err != nil {
		return nil, fmt.Errorf("cannot get connection for cloudAccountRepo: %w", err)
	}

	return cloudacctrepo.Postgres(cloudacctrepo.RepoPostgresConfig{
		Connection: sqlConn,
	})
}

// Close will close all dependencies.
func (r *RepositoryImpl) Close() error {
	if r == nil {
		return nil
	}

	if r.dbSqlConn == nil {
		return nil
	}

	var err error
	if _err := r.dbSqlConn.Close(); _err != nil {
		err = multierr.Append(err, fmt.Errorf("close db error: %w", _err))
	}

	return err
}
