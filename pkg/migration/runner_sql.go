package migration

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-playground/validator/v10"
	migrate "github.com/rubenv/sql-migrate"
)

type SQLRunnerConfig struct {
	Dialect        string    `validate:"required,oneof=mysql postgres sqlite3"`
	DB             *sql.DB   `validate:"required"`
	MigrationTable string    `validate:"required"`
	Migrations     []Migrate `validate:"required,unique"`
}

type SQLRunner struct {
	config SQLRunnerConfig
	source migrate.MigrationSource
}

var _ Runner = (*SQLRunner)(nil)

// NewSQLRunner builds a Runner over the given revisions. The revisions must
// form a simple path: sequence numbers strictly increasing, no duplicate id.
// Already-applied revisions are tracked in MigrationTable and never re-run.
func NewSQLRunner(ctx context.Context, config SQLRunnerConfig) (*SQLRunner, error) {
	err := validator.New().Struct(config)
	if err != nil {
		return nil, err
	}

	prevSeq := 0
	mig := make([]*migrate.Migration, 0)
	for _, m := range config.Migrations {
		seq := m.SequenceNumber(ctx)
		if seq <= prevSeq {
			return nil, fmt.Errorf("migration '%s' breaks the chain: sequence %d not after %d",
				m.ID(ctx), seq, prevSeq)
		}
		prevSeq = seq

		sqlUp, err := m.Up(ctx)
		if err != nil {
			return nil, err
		}

		sqlDown, err := m.Down(ctx)
		if err != nil {
			return nil, err
		}

		mig = append(mig, &migrate.Migration{
			Id:   m.ID(ctx),
			Up:   []string{sqlUp},
			Down: []string{sqlDown},
		})
	}

	src := &migrate.MemoryMigrationSource{
		Migrations: mig,
	}

	return &SQLRunner{
		config: config,
		source: src,
	}, nil
}

func (p *SQLRunner) Up() error {
	migrate.SetTable(p.config.MigrationTable)

	_, err := migrate.Exec(
		p.config.DB,
		p.config.Dialect,
		p.source,
		migrate.Up,
	)

	return err
}

func (p *SQLRunner) Down() error {
	migrate.SetTable(p.config.MigrationTable)

	_, err := migrate.Exec(
		p.config.DB,
		p.config.Dialect,
		p.source,
		migrate.Down,
	)

	return err
}
