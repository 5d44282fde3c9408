package mysql

const createOutcomesSQL = `
CREATE TABLE IF NOT EXISTS generation_outcomes (
  id          CHAR(36)     NOT NULL PRIMARY KEY,
  provider    VARCHAR(32)  NOT NULL,
  tier        VARCHAR(16)  NOT NULL,
  source      VARCHAR(16)  NOT NULL,
  failure     VARCHAR(32)  NULL,
  duration_ms BIGINT       NOT NULL,
  created_at  DATETIME(3)  NOT NULL,
  KEY idx_outcomes_created (created_at),
  KEY idx_outcomes_source (source, created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4
`

const insertOutcomeSQL = `
INSERT INTO generation_outcomes (id, provider, tier, source, failure, duration_ms, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE id = id
`

// source counts since a cutoff, used by the CLI stats command
const countBySourceSQL = `
SELECT source, COUNT(*)
FROM generation_outcomes
WHERE created_at >= ?
GROUP BY source
ORDER BY source
`

const recentOutcomesSQL = `
SELECT id, provider, tier, source, failure, duration_ms, created_at
FROM generation_outcomes
ORDER BY created_at DESC
LIMIT ?
`
