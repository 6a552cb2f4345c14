package migrate

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/mitchellh/cli"
	"github.com/vantagecompute/vantage-api/assets/migrations/pgsql_clusterrepo"
	"github.com/vantagecompute/vantage-api/container"
	"github.com/vantagecompute/vantage-api/pkg/migration"
)

const (
	ExitSuccess = 0
	ExitErr     = -1

	migrationTable = "migration_records_cluster_repo"
)

type Cmd struct {
	flags      *flag.FlagSet
	configFile string
}

// NewCmd migrates the schema for the cluster database: clusters, partitions,
// notebook servers, queue reports and cloud account api keys all live on the
// same label, so one chain covers them.
func NewCmd() func() (cli.Command, error) {
	return func() (cli.Command, error) {
		cmd := &Cmd{flags: &flag.FlagSet{}}
		err := cmd.init()
		return cmd, err
	}
}

var _ cli.Command = (*Cmd)(nil)
var _ cli.CommandFactory = NewCmd()

func (c *Cmd) init() error {
	c.flags = flag.NewFlagSet("", flag.ContinueOnError)
	c.flags.StringVar(&c.configFile, "config", "config.yml",
		"Config file to load")
	c.flags.StringVar(&c.configFile, "c", "config.yml",
		"Alias for config file to load")
	return nil
}

func (c *Cmd) Help() string {
	return strings.TrimSpace(`
Usage: vantage-api migrate [-c config.yml] <up|down|print>

  up     Sync up all migration.
  down   Reset all migration.
  print  Print all migration as SQL without touching the database.
`)
}

func (c *Cmd) Run(args []string) int {
	err := c.flags.Parse(args)
	if err != nil {
		log.Printf("error parsing config argument: %s", err)
		return ExitErr
	}

	direction := "up"
	if rest := c.flags.Args(); len(rest) > 0 {
		direction = strings.ToLower(strings.TrimSpace(rest[0]))
	}

	ctx := context.Background()

	revisions := []migration.Migrate{
		new(pgsql_clusterrepo.CreateUuidExtensions1707130800),
		new(pgsql_clusterrepo.CreateClusterTable1707131100),
		new(pgsql_clusterrepo.CreateClusterPartitionsTable1709260500),
		new(pgsql_clusterrepo.CreateNotebookServersTable1714380300),
		new(pgsql_clusterrepo.CreateQueueInfoTables1718195852),
		new(pgsql_clusterrepo.CreateCloudAccountApiKeyTable1720513456),
	}

	if direction == "print" {
		printRevisions(ctx, revisions)
		return ExitSuccess
	}

	cfg, err := container.LoadConfig(c.configFile)
	if err != nil {
		log.Printf("error load config: %s", err)
		return ExitErr
	}

	repos, err := container.SetupRepositories(cfg.DatabaseResources)
	if err != nil {
		log.Printf("error prepare db connections: %s", err)
		return ExitErr
	}

	defer func() {
		if _err := repos.Close(); _err != nil {
			log.Printf("error close db connections: %s", _err)
		}
	}()

	sqlConn, err := repos.SqlxConn(cfg.Services.Cluster.DBLabel)
	if err != nil {
		log.Printf("error get connection for label '%s': %s", cfg.Services.Cluster.DBLabel, err)
		return ExitErr
	}

	if err = sqlConn.Ping(); err != nil {
		log.Printf("ping db error: %s", err)
		return ExitErr
	}

	runner, err := migration.NewSQLRunner(ctx, migration.SQLRunnerConfig{
		Dialect:        "postgres",
		DB:             sqlConn.DB,
		MigrationTable: migrationTable,
		Migrations:     revisions,
	})
	if err != nil {
		log.Printf("prepare migration runner error: %s", err)
		return ExitErr
	}

	switch direction {
	case "up":
		err = runner.Up()
	case "down":
		err = runner.Down()
	default:
		log.Printf("unknown direction '%s', want up, down or print", direction)
		return ExitErr
	}

	if err != nil {
		log.Printf("migration %s error: %s", direction, err)
		return ExitErr
	}

	log.Printf("migration %s done", direction)
	return ExitSuccess
}

func (c *Cmd) Synopsis() string {
	return `Migrate will sync up or roll back the database schema`
}

func printRevisions(ctx context.Context, revisions []migration.Migrate) {
	for _, mig := range revisions {
		fmt.Println(mig.ID(ctx))
		fmt.Println()
		fmt.Println(`
-- +migrate Up
-- SQL in section 'Up' is executed when this migration is applied`)
		up, _ := mig.Up(ctx)
		fmt.Println(up)
		fmt.Println()
		fmt.Println(`
-- +migrate Down
-- SQL section 'Down' is executed when this migration is rolled back`)
		down, _ := mig.Down(ctx)
		fmt.Println(down)
	}
}
