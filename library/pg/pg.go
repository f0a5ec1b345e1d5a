package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/Artexxx/perf-tracker/library/yamlenv"
)

type PostgresConfig struct {
	Conn *yamlenv.Env[string] `yaml:"conn"`
}

type PG struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPG opens a pgx pool and verifies connectivity with a ping.
func NewPG(ctx context.Context, conn string, logger zerolog.Logger) (*PG, error) {
	cfg, err := pgxpool.ParseConfig(conn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.ParseConfig: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.NewWithConfig: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pool.Ping: %w", err)
	}

	logger.Info().Msg("postgres connected")

	return &PG{pool: pool, logger: logger}, nil
}

func (p *PG) Pool() *pgxpool.Pool {
	return p.pool
}

func (p *PG) Close() {
	p.pool.Close()
}
