package history

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/averyholdt/socialforge/internal/pipeline"
)

// Store persists completed runs and recorded engagement outcomes to SQLite.
// Runs are written once after completion; outcomes accumulate afterwards and
// feed back into later scoring calls as historical samples.
type Store struct {
	db    *sqlx.DB
	clock func() time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id          TEXT PRIMARY KEY,
	mode            TEXT NOT NULL,
	seed            INTEGER NOT NULL,
	prompt_text     TEXT NOT NULL,
	signals         TEXT NOT NULL DEFAULT '{}',
	summary         TEXT NOT NULL DEFAULT '{}',
	warnings        TEXT NOT NULL DEFAULT '[]',
	report_markdown TEXT NOT NULL DEFAULT '',
	started_at      TEXT NOT NULL,
	completed_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS deliverables (
	deliverable_id TEXT PRIMARY KEY,
	run_id         TEXT NOT NULL,
	position       INTEGER NOT NULL,
	platform       TEXT NOT NULL,
	format         TEXT NOT NULL,
	payload        TEXT NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS idx_deliverables_run ON deliverables (run_id, position);

CREATE TABLE IF NOT EXISTS outcomes (
	outcome_id     INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id         TEXT NOT NULL,
	deliverable_id TEXT NOT NULL DEFAULT '',
	platform       TEXT NOT NULL,
	format         TEXT NOT NULL,
	likes          INTEGER NOT NULL DEFAULT 0,
	comments       INTEGER NOT NULL DEFAULT 0,
	shares         INTEGER NOT NULL DEFAULT 0,
	saves          INTEGER NOT NULL DEFAULT 0,
	reach          INTEGER NOT NULL DEFAULT 0,
	recorded_at    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_outcomes_platform ON outcomes (platform, recorded_at);
`

func New(dbPath string, clock func() time.Time) (*Store, error) {
	if clock == nil {
		clock = time.Now
	}
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db, clock: clock}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// RunSummary is the listing row for a stored run.
type RunSummary struct {
	RunID          string           `json:"run_id"`
	Mode           pipeline.RunMode `json:"mode"`
	PromptText     string           `json:"prompt_text"`
	TotalGenerated int              `json:"total_generated"`
	AvgViralScore  float64          `json:"avg_viral_score"`
	CompletedAt    time.Time        `json:"completed_at"`
}

// RunRecord is a stored run rehydrated from SQLite.
type RunRecord struct {
	RunID          string                 `json:"run_id"`
	Mode           pipeline.RunMode       `json:"mode"`
	Seed           int64                  `json:"seed"`
	PromptText     string                 `json:"prompt_text"`
	Signals        pipeline.SignalSet     `json:"signals"`
	Summary        pipeline.Summary       `json:"summary"`
	Warnings       []pipeline.Warning     `json:"warnings"`
	Deliverables   []pipeline.Deliverable `json:"deliverables"`
	ReportMarkdown string                 `json:"report_markdown"`
	StartedAt      time.Time              `json:"started_at"`
	CompletedAt    time.Time              `json:"completed_at"`
}

// OutcomeInput is a recorded engagement outcome for one stored deliverable.
type OutcomeInput struct {
	DeliverableID string `json:"deliverable_id"`
	Likes         int    `json:"likes"`
	Comments      int    `json:"comments"`
	Shares        int    `json:"shares"`
	Saves         int    `json:"saves"`
	Reach         int    `json:"reach"`
}

func timeToString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func marshalJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// SaveRun persists a completed run plus its ranked deliverables.
func (s *Store) SaveRun(promptText string, result pipeline.Result, reportMarkdown string) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT OR REPLACE INTO runs (run_id, mode, seed, prompt_text, signals, summary, warnings, report_markdown, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.RunID,
		string(result.Metadata.Mode),
		result.Metadata.Seed,
		promptText,
		marshalJSON(result.Signals),
		marshalJSON(result.Summary),
		marshalJSON(result.Warnings),
		reportMarkdown,
		timeToString(result.Metadata.StartedAt),
		timeToString(result.Metadata.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}

	for i, d := range result.Deliverables {
		_, err = tx.Exec(`INSERT OR REPLACE INTO deliverables (deliverable_id, run_id, position, platform, format, payload)
			VALUES (?, ?, ?, ?, ?, ?)`,
			d.ID, result.RunID, i, string(d.Platform), string(d.Format), marshalJSON(d))
		if err != nil {
			return fmt.Errorf("save deliverable: %w", err)
		}
	}
	return tx.Commit()
}

func (s *Store) GetRun(runID string) (RunRecord, error) {
	var (
		rec                        RunRecord
		mode                       string
		signals, summary, warnings string
		startedAt, completedAt     string
	)
	row := s.db.QueryRow(`SELECT run_id, mode, seed, prompt_text, signals, summary, warnings, report_markdown, started_at, completed_at
		FROM runs WHERE run_id = ?`, runID)
	err := row.Scan(&rec.RunID, &mode, &rec.Seed, &rec.PromptText, &signals, &summary, &warnings, &rec.ReportMarkdown, &startedAt, &completedAt)
	if err != nil {
		return RunRecord{}, pipeline.NewNotFoundError(fmt.Sprintf("run %q not found", runID))
	}
	rec.Mode = pipeline.RunMode(mode)
	_ = json.Unmarshal([]byte(signals), &rec.Signals)
	_ = json.Unmarshal([]byte(summary), &rec.Summary)
	_ = json.Unmarshal([]byte(warnings), &rec.Warnings)
	rec.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
	rec.CompletedAt, _ = time.Parse(time.RFC3339Nano, completedAt)

	rows, err := s.db.Query(`SELECT payload FROM deliverables WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return RunRecord{}, fmt.Errorf("load deliverables: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return RunRecord{}, err
		}
		var d pipeline.Deliverable
		if err := json.Unmarshal([]byte(payload), &d); err != nil {
			continue
		}
		rec.Deliverables = append(rec.Deliverables, d)
	}
	return rec, rows.Err()
}

func (s *Store) ListRuns(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`SELECT run_id, mode, prompt_text, summary, completed_at
		FROM runs ORDER BY completed_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	out := []RunSummary{}
	for rows.Next() {
		var (
			rs          RunSummary
			mode        string
			summaryJSON string
			completedAt string
		)
		if err := rows.Scan(&rs.RunID, &mode, &rs.PromptText, &summaryJSON, &completedAt); err != nil {
			return nil, err
		}
		rs.Mode = pipeline.RunMode(mode)
		var summary pipeline.Summary
		_ = json.Unmarshal([]byte(summaryJSON), &summary)
		rs.TotalGenerated = summary.TotalGenerated
		rs.AvgViralScore = summary.AvgViralScore
		rs.CompletedAt, _ = time.Parse(time.RFC3339Nano, completedAt)
		out = append(out, rs)
	}
	return out, rows.Err()
}

// RecordOutcome stores one engagement outcome against a run's deliverable.
// The deliverable must belong to the run so the platform and format can be
// attributed correctly.
func (s *Store) RecordOutcome(runID string, in OutcomeInput) error {
	var platform, format string
	row := s.db.QueryRow(`SELECT platform, format FROM deliverables WHERE run_id = ? AND deliverable_id = ?`,
		runID, in.DeliverableID)
	if err := row.Scan(&platform, &format); err != nil {
		return pipeline.NewNotFoundError(fmt.Sprintf("deliverable %q not found in run %q", in.DeliverableID, runID))
	}

	_, err := s.db.Exec(`INSERT INTO outcomes (run_id, deliverable_id, platform, format, likes, comments, shares, saves, reach, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, in.DeliverableID, platform, format,
		in.Likes, in.Comments, in.Shares, in.Saves, in.Reach,
		timeToString(s.clock()))
	if err != nil {
		return fmt.Errorf("record outcome: %w", err)
	}
	return nil
}

// HistoricalSamples returns recorded outcomes for a platform, newest first,
// shaped for the scorer's historical input. Empty platform returns all.
func (s *Store) HistoricalSamples(platform pipeline.Platform, limit int) ([]pipeline.HistoricalSample, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT platform, format, likes, comments, shares, saves, reach, recorded_at
		FROM outcomes ORDER BY recorded_at DESC LIMIT ?`
	args := []any{limit}
	if platform != "" {
		query = `SELECT platform, format, likes, comments, shares, saves, reach, recorded_at
			FROM outcomes WHERE platform = ? ORDER BY recorded_at DESC LIMIT ?`
		args = []any{string(platform), limit}
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("load outcomes: %w", err)
	}
	defer rows.Close()

	out := []pipeline.HistoricalSample{}
	for rows.Next() {
		var (
			hs               pipeline.HistoricalSample
			p, f, recordedAt string
		)
		if err := rows.Scan(&p, &f, &hs.Likes, &hs.Comments, &hs.Shares, &hs.Saves, &hs.Reach, &recordedAt); err != nil {
			return nil, err
		}
		hs.Platform = pipeline.Platform(p)
		hs.Format = pipeline.Format(f)
		hs.RecordedAt, _ = time.Parse(time.RFC3339Nano, recordedAt)
		out = append(out, hs)
	}
	return out, rows.Err()
}
