// Package bootstrap assembles the generation pipeline from configuration for both binaries.
package bootstrap

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"wanderplan/internal/adapters/llm"
	"wanderplan/internal/adapters/observability"
	redisad "wanderplan/internal/adapters/redis"
	"wanderplan/internal/app"
	"wanderplan/internal/domain"
	"wanderplan/internal/shared"
	mysqlrepo "wanderplan/internal/storage/mysql"
)

// Pipeline is a ready planner plus the optional collaborators it was built with.
type Pipeline struct {
	Planner *app.Planner
	Audit   *mysqlrepo.Repo // nil without MYSQL_DSN

	closers []func() error
}

// Close releases every connection opened by New.
func (p *Pipeline) Close() {
	for i := len(p.closers) - 1; i >= 0; i-- {
		if err := p.closers[i](); err != nil {
			log.Warn().Err(err).Msg("close failed")
		}
	}
}

// New wires model client, admission guard, audit sink and metrics. Optional stores that are
// configured but unreachable are logged and skipped: generation never depends on them.
func New(ctx context.Context, cfg shared.Config) *Pipeline {
	p := &Pipeline{}

	var budget domain.CallBudget
	if cfg.RedisAddr != "" && cfg.ModelCallsPerMinute > 0 {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		p.closers = append(p.closers, rc.Close)
		if err := ping(ctx, rc); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable; call budget will fail open")
		}
		budget = redisad.NewCallBudget(rc, cfg.ModelCallsPerMinute, time.Minute)
	}

	model := ModelClient(cfg, &p.closers)
	guarded := llm.NewGuard(model, llm.GuardConfig{
		RPS:         cfg.ModelRPS,
		MaxInflight: int64(cfg.ModelMaxInflight),
		Budget:      budget,
		Observe:     observability.ObserveAdmission,
	})

	recorders := app.Recorders{observability.OutcomeMetrics{}}
	if cfg.MySQLDSN != "" {
		if repo, err := OpenAudit(ctx, cfg.MySQLDSN, &p.closers); err != nil {
			log.Warn().Err(err).Msg("audit store unavailable; outcomes will not be persisted")
		} else {
			p.Audit = repo
			recorders = append(recorders, repo)
		}
	}

	p.Planner = app.NewPlanner(observability.InstrumentedModel{Next: guarded}, recorders, cfg.FallbackDelay)
	log.Info().
		Str("provider", model.Provider()).
		Bool("credential", cfg.ActiveKey() != "").
		Bool("call_budget", budget != nil).
		Bool("audit", p.Audit != nil).
		Msg("pipeline ready")
	return p
}

// ModelClient builds the configured provider client. closers collects its cleanup, if any.
func ModelClient(cfg shared.Config, closers *[]func() error) domain.ModelClient {
	temperature := cfg.ModelTemperature
	base := llm.Config{
		SystemPrompt: app.SystemInstruction,
		Temperature:  &temperature,
		MaxTokens:    cfg.ModelMaxTokens,
		Timeout:      cfg.ModelTimeout,
	}
	if cfg.ModelProvider == shared.ProviderGemini {
		base.APIKey, base.Model = cfg.GeminiAPIKey, cfg.GeminiModel
		g := llm.NewGemini(base)
		*closers = append(*closers, g.Close)
		return g
	}
	base.APIKey, base.Model, base.BaseURL = cfg.ModelAPIKey, cfg.ModelName, cfg.ModelBaseURL
	return llm.NewOpenAI(base)
}

// OpenAudit connects to MySQL and makes sure the outcomes table exists.
func OpenAudit(ctx context.Context, dsn string, closers *[]func() error) (*mysqlrepo.Repo, error) {
	dsn, err := mysqlrepo.NormalizeDSN(dsn)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(8)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	repo := mysqlrepo.New(db)
	if err := repo.Migrate(pctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	*closers = append(*closers, db.Close)
	log.Info().Msg("audit store connection ok")
	return repo, nil
}

func ping(ctx context.Context, rc *redis.Client) error {
	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return rc.Ping(pctx).Err()
}
