package store

// Schema DDL for the run catalog. The catalog persists across runs, so
// tables are created only when missing.
const (
	createRuns = `CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    input_dir TEXT NOT NULL,
    started_at TEXT NOT NULL,
    finished_at TEXT,
    pixels INTEGER NOT NULL DEFAULT 0,
    error_pixels INTEGER NOT NULL DEFAULT 0
);`

	createClassCounts = `CREATE TABLE IF NOT EXISTS class_counts (
    run_id TEXT NOT NULL REFERENCES runs(run_id),
    year INTEGER NOT NULL,
    class_code INTEGER NOT NULL,
    pixels INTEGER NOT NULL,
    PRIMARY KEY (run_id, year, class_code)
);`

	createTrajectoryCounts = `CREATE TABLE IF NOT EXISTS trajectory_counts (
    run_id TEXT NOT NULL REFERENCES runs(run_id),
    label TEXT NOT NULL,
    pixels INTEGER NOT NULL,
    PRIMARY KEY (run_id, label)
);`
)

// schemaDDL lists every statement Open executes.
var schemaDDL = []string{
	createRuns,
	createClassCounts,
	createTrajectoryCounts,
}
