package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oakmontrealty/voicrm-coaching/internal/domain/model"
	"github.com/oakmontrealty/voicrm-coaching/internal/domain/scoring"
	"github.com/oakmontrealty/voicrm-coaching/internal/domain/skills"
	"github.com/oakmontrealty/voicrm-coaching/internal/domain/stats"
	"github.com/oakmontrealty/voicrm-coaching/pkg/logger"
)

// PostgresStore persists agent state as JSONB documents. Per-agent
// serialization comes from row-level locks (SELECT ... FOR UPDATE), so
// concurrent appends for different agents never contend.
type PostgresStore struct {
	pool *pgxpool.Pool
	log  logger.Logger
}

// NewPostgresStore connects, pings, and migrates the schema.
func NewPostgresStore(ctx context.Context, connURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connURL)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	s := &PostgresStore{pool: pool, log: logger.Named("postgres")}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres migrate: %w", err)
	}

	s.log.Info(ctx, "postgres store initialized")
	return s, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	ddl := `
		CREATE TABLE IF NOT EXISTS agent_metrics (
			agent_id TEXT PRIMARY KEY,
			doc      JSONB NOT NULL
		);

		CREATE TABLE IF NOT EXISTS agent_profiles (
			agent_id TEXT PRIMARY KEY,
			doc      JSONB NOT NULL
		);

		CREATE TABLE IF NOT EXISTS training_plans (
			id         TEXT PRIMARY KEY,
			agent_id   TEXT NOT NULL,
			status     TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			doc        JSONB NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_training_plans_agent ON training_plans (agent_id, created_at DESC);
	`
	_, err := s.pool.Exec(ctx, ddl)
	return err
}

func (s *PostgresStore) AppendScore(ctx context.Context, agentID string, rec model.ScoreRecord) (model.AgentMetrics, error) {
	var out model.AgentMetrics
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		m := model.AgentMetrics{AgentID: agentID}
		var doc []byte
		err := tx.QueryRow(ctx,
			`SELECT doc FROM agent_metrics WHERE agent_id = $1 FOR UPDATE`, agentID).Scan(&doc)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
		case err != nil:
			return fmt.Errorf("load metrics: %w", err)
		default:
			if err := json.Unmarshal(doc, &m); err != nil {
				return fmt.Errorf("decode metrics: %w", err)
			}
		}

		m.CallCount++
		m.TotalScore += rec.Score
		m.AverageScore = roundAverage(float64(m.TotalScore) / float64(m.CallCount))
		m.ScoreHistory = append(m.ScoreHistory, rec)
		m.Trend = stats.TrendFor(historyScores(m.ScoreHistory))

		updated, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("encode metrics: %w", err)
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO agent_metrics (agent_id, doc) VALUES ($1, $2)
			ON CONFLICT (agent_id) DO UPDATE SET doc = EXCLUDED.doc`, agentID, updated); err != nil {
			return fmt.Errorf("save metrics: %w", err)
		}
		out = m
		return nil
	})
	if err != nil {
		return model.AgentMetrics{}, err
	}
	return out, nil
}

func (s *PostgresStore) Metrics(ctx context.Context, agentID string) (model.AgentMetrics, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx,
		`SELECT doc FROM agent_metrics WHERE agent_id = $1`, agentID).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.AgentMetrics{}, fmt.Errorf("%w: %s", ErrAgentNotFound, agentID)
	}
	if err != nil {
		return model.AgentMetrics{}, fmt.Errorf("load metrics: %w", err)
	}

	var m model.AgentMetrics
	if err := json.Unmarshal(doc, &m); err != nil {
		return model.AgentMetrics{}, fmt.Errorf("decode metrics: %w", err)
	}
	return m, nil
}

func (s *PostgresStore) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT agent_id,
		       (doc->>'average_score')::FLOAT8,
		       (doc->>'call_count')::INT,
		       doc->>'trend'
		FROM agent_metrics
		WHERE (doc->>'call_count')::INT > 0
		ORDER BY 2 DESC, 3 DESC, 1 ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []model.LeaderboardEntry
	for rows.Next() {
		var entry model.LeaderboardEntry
		var trend string
		if err := rows.Scan(&entry.AgentID, &entry.AverageScore, &entry.CallCount, &trend); err != nil {
			return nil, fmt.Errorf("scan leaderboard row: %w", err)
		}
		entry.Rank = len(entries) + 1
		entry.Grade = scoring.GradeFor(int(math.Round(entry.AverageScore)))
		entry.Trend = model.Trend(trend)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *PostgresStore) Count(ctx context.Context) int {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM agent_profiles`).Scan(&count); err != nil {
		s.log.Warn(ctx, "count agents failed", logger.Error(err))
		return 0
	}
	return count
}

func (s *PostgresStore) EnsureProfile(ctx context.Context, agentID, name string) (model.AgentProfile, error) {
	var out model.AgentProfile
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		var doc []byte
		err := tx.QueryRow(ctx,
			`SELECT doc FROM agent_profiles WHERE agent_id = $1 FOR UPDATE`, agentID).Scan(&doc)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			out = *skills.NewProfile(agentID, name, "", time.Now())
		case err != nil:
			return fmt.Errorf("load profile: %w", err)
		default:
			if err := json.Unmarshal(doc, &out); err != nil {
				return fmt.Errorf("decode profile: %w", err)
			}
			if name != "" && out.Name == "" {
				out.Name = name
			}
		}
		return s.saveProfile(ctx, tx, out)
	})
	if err != nil {
		return model.AgentProfile{}, err
	}
	return out, nil
}

func (s *PostgresStore) Profile(ctx context.Context, agentID string) (model.AgentProfile, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx,
		`SELECT doc FROM agent_profiles WHERE agent_id = $1`, agentID).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.AgentProfile{}, fmt.Errorf("%w: %s", ErrAgentNotFound, agentID)
	}
	if err != nil {
		return model.AgentProfile{}, fmt.Errorf("load profile: %w", err)
	}

	var profile model.AgentProfile
	if err := json.Unmarshal(doc, &profile); err != nil {
		return model.AgentProfile{}, fmt.Errorf("decode profile: %w", err)
	}
	return profile, nil
}

func (s *PostgresStore) MutateProfile(ctx context.Context, agentID string, mutate func(*model.AgentProfile) error) (model.AgentProfile, error) {
	var out model.AgentProfile
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		var doc []byte
		err := tx.QueryRow(ctx,
			`SELECT doc FROM agent_profiles WHERE agent_id = $1 FOR UPDATE`, agentID).Scan(&doc)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: %s", ErrAgentNotFound, agentID)
		}
		if err != nil {
			return fmt.Errorf("load profile: %w", err)
		}
		if err := json.Unmarshal(doc, &out); err != nil {
			return fmt.Errorf("decode profile: %w", err)
		}

		if err := mutate(&out); err != nil {
			return err
		}
		out.LastUpdated = time.Now()
		return s.saveProfile(ctx, tx, out)
	})
	if err != nil {
		return model.AgentProfile{}, err
	}
	return out, nil
}

func (s *PostgresStore) saveProfile(ctx context.Context, tx pgx.Tx, profile model.AgentProfile) error {
	doc, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO agent_profiles (agent_id, doc) VALUES ($1, $2)
		ON CONFLICT (agent_id) DO UPDATE SET doc = EXCLUDED.doc`, profile.AgentID, doc); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreatePlan(ctx context.Context, plan model.TrainingPlan) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			UPDATE training_plans
			SET status = $1, doc = jsonb_set(doc, '{status}', to_jsonb($1::TEXT))
			WHERE agent_id = $2 AND status = $3`,
			string(model.PlanCompleted), plan.AgentID, string(model.PlanActive)); err != nil {
			return fmt.Errorf("supersede plans: %w", err)
		}

		doc, err := json.Marshal(plan)
		if err != nil {
			return fmt.Errorf("encode plan: %w", err)
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO training_plans (id, agent_id, status, created_at, doc)
			VALUES ($1, $2, $3, $4, $5)`,
			plan.ID, plan.AgentID, string(plan.Status), plan.CreatedAt, doc); err != nil {
			return fmt.Errorf("save plan: %w", err)
		}
		return nil
	})
}

func (s *PostgresStore) Plan(ctx context.Context, planID string) (model.TrainingPlan, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx,
		`SELECT doc FROM training_plans WHERE id = $1`, planID).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.TrainingPlan{}, fmt.Errorf("%w: %s", ErrPlanNotFound, planID)
	}
	if err != nil {
		return model.TrainingPlan{}, fmt.Errorf("load plan: %w", err)
	}
	return decodePlan(doc)
}

func (s *PostgresStore) ActivePlan(ctx context.Context, agentID string) (model.TrainingPlan, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx, `
		SELECT doc FROM training_plans
		WHERE agent_id = $1 AND status = $2
		ORDER BY created_at DESC LIMIT 1`, agentID, string(model.PlanActive)).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.TrainingPlan{}, fmt.Errorf("%w: no active plan for agent %s", ErrPlanNotFound, agentID)
	}
	if err != nil {
		return model.TrainingPlan{}, fmt.Errorf("load active plan: %w", err)
	}
	return decodePlan(doc)
}

func (s *PostgresStore) AgentPlans(ctx context.Context, agentID string) ([]model.TrainingPlan, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT doc FROM training_plans
		WHERE agent_id = $1 ORDER BY created_at DESC`, agentID)
	if err != nil {
		return nil, fmt.Errorf("load plans: %w", err)
	}
	defer rows.Close()

	var plans []model.TrainingPlan
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan plan row: %w", err)
		}
		plan, err := decodePlan(doc)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

func (s *PostgresStore) MutatePlan(ctx context.Context, planID string, mutate func(*model.TrainingPlan) error) (model.TrainingPlan, error) {
	var out model.TrainingPlan
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		var doc []byte
		err := tx.QueryRow(ctx,
			`SELECT doc FROM training_plans WHERE id = $1 FOR UPDATE`, planID).Scan(&doc)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: %s", ErrPlanNotFound, planID)
		}
		if err != nil {
			return fmt.Errorf("load plan: %w", err)
		}
		if out, err = decodePlan(doc); err != nil {
			return err
		}

		if err := mutate(&out); err != nil {
			return err
		}
		updated, err := json.Marshal(out)
		if err != nil {
			return fmt.Errorf("encode plan: %w", err)
		}
		if _, err := tx.Exec(ctx, `
			UPDATE training_plans SET status = $2, doc = $3 WHERE id = $1`,
			planID, string(out.Status), updated); err != nil {
			return fmt.Errorf("save plan: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.TrainingPlan{}, err
	}
	return out, nil
}

func decodePlan(doc []byte) (model.TrainingPlan, error) {
	var plan model.TrainingPlan
	if err := json.Unmarshal(doc, &plan); err != nil {
		return model.TrainingPlan{}, fmt.Errorf("decode plan: %w", err)
	}
	return plan, nil
}
