package main

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"time"

	_ "github.com/glebarez/go-sqlite"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

type Sqlite struct {
	pool *sql.DB
}

func NewSqlite(path string) (*Sqlite, error) {
	pool, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	if err := pool.PingContext(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// sqlite only takes one writer, workers would otherwise hit SQLITE_BUSY
	pool.SetMaxOpenConns(1)

	return &Sqlite{
		pool: pool,
	}, nil
}

//go:embed migrations/*.sql
var embedMigrations embed.FS

func (s *Sqlite) RunMigrations() error {
	migrationFs, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create fs.FS: %w", err)
	}

	d, err := iofs.New(migrationFs, ".")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	driver, err := sqlite3.WithInstance(s.pool, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to get driver with instance: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", d, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to make migration instance: %w", err)
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("doing migrations: %w", err)
	}

	return nil
}

func (s *Sqlite) Close() error {
	return s.pool.Close()
}

func (s *Sqlite) GetJobs() ([]Job, error) {
	querySQL := `SELECT id, flow_path, left_frame, right_frame, position, output_path FROM jobs
				WHERE done = false AND failed = false ORDER BY id`
	rows, err := s.pool.Query(querySQL)
	if err != nil {
		return []Job{}, err
	}

	defer rows.Close()
	jobs := []Job{}
	for rows.Next() {
		var j Job
		var pos float32
		if err := rows.Scan(&j.ID, &j.FlowPath, &j.LeftFrame, &j.RightFrame, &pos, &j.OutputPath); err != nil {
			return jobs, err
		}
		j.Position = &pos
		jobs = append(jobs, j)
	}

	// Check for errors from iterating over rows
	if err := rows.Err(); err != nil {
		return []Job{}, err
	}

	return jobs, nil
}

func (s *Sqlite) GetJob(id int64) (Job, bool, error) {
	querySQL := `SELECT id, flow_path, left_frame, right_frame, position, output_path, done FROM jobs WHERE id = ?`

	var j Job
	var pos float32
	err := s.pool.QueryRow(querySQL, id).
		Scan(&j.ID, &j.FlowPath, &j.LeftFrame, &j.RightFrame, &pos, &j.OutputPath, &j.Done)
	if errors.Is(err, sql.ErrNoRows) {
		return Job{}, false, nil
	}
	if err != nil {
		return Job{}, false, err
	}

	j.Position = &pos
	return j, true, nil
}

func (s *Sqlite) InsertJob(job *Job) (int64, error) {
	insertSQL := `INSERT INTO jobs (flow_path, left_frame, right_frame, position, output_path, done)
				VALUES (?, ?, ?, ?, ?, ?)`
	statement, err := s.pool.Prepare(insertSQL)
	if err != nil {
		return 0, err
	}

	defer statement.Close()
	result, err := statement.Exec(job.FlowPath, job.LeftFrame, job.RightFrame, *job.Position, job.OutputPath, false)
	if err != nil {
		return 0, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	job.ID = id
	return id, nil
}

var errJobNotFound = errors.New("job not found")

// MarkJobAsDone stores the result and flags the job done in one transaction.
// A job deleted while it was processed gets no result.
func (s *Sqlite) MarkJobAsDone(job *Job, result JobResult) error {
	tx, err := s.pool.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	updated, err := tx.Exec(`UPDATE jobs SET done = true WHERE id = ?`, job.ID)
	if err != nil {
		return err
	}

	affected, err := updated.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("marking job %d as done: %w", job.ID, errJobNotFound)
	}

	_, err = tx.Exec(`INSERT OR REPLACE INTO job_results
		(job_id, width, height, direct, filled, unreachable, passes) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		job.ID, result.Width, result.Height, result.Direct, result.Filled, result.Unreachable, result.Passes)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	job.Done = true
	return nil
}

func (s *Sqlite) GetJobResult(jobID int64) (JobResult, bool, error) {
	querySQL := `SELECT job_id, width, height, direct, filled, unreachable, passes FROM job_results WHERE job_id = ?`

	var r JobResult
	err := s.pool.QueryRow(querySQL, jobID).
		Scan(&r.JobID, &r.Width, &r.Height, &r.Direct, &r.Filled, &r.Unreachable, &r.Passes)
	if errors.Is(err, sql.ErrNoRows) {
		return JobResult{}, false, nil
	}
	if err != nil {
		return JobResult{}, false, err
	}

	return r, true, nil
}

func (s *Sqlite) GetJobRetries(job *Job) (int, error) {
	getRetrySQL := `SELECT retries FROM jobs WHERE id = ?`
	statement, err := s.pool.Prepare(getRetrySQL)
	if err != nil {
		return 0, err
	}
	defer statement.Close()

	retries := 0
	err = statement.QueryRow(job.ID).Scan(&retries)
	if err != nil {
		return 0, err
	}

	return retries, nil
}

func (s *Sqlite) UpdateJobRetries(job *Job, retries int) error {
	updateSQL := `UPDATE jobs SET retries = ? WHERE id = ?`
	statement, err := s.pool.Prepare(updateSQL)
	if err != nil {
		return err
	}
	defer statement.Close()

	_, err = statement.Exec(retries, job.ID)
	return err
}

func (s *Sqlite) FailJob(job *Job, output string, progErr string) error {
	tx, err := s.pool.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	insertSQL := `INSERT INTO failed_jobs (job_id, process_output, error) VALUES (?, ?, ?)`
	_, err = tx.Exec(insertSQL, job.ID, output, progErr)
	if err != nil {
		return err
	}

	markFailedSQL := `UPDATE jobs SET failed = ? WHERE id = ?`
	_, err = tx.Exec(markFailedSQL, true, job.ID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Sqlite) DeleteJobByID(id int64) error {
	tx, err := s.pool.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, deleteSQL := range []string{
		`DELETE FROM job_results WHERE job_id = ?`,
		`DELETE FROM failed_jobs WHERE job_id = ?`,
		`DELETE FROM jobs WHERE id = ?`,
	} {
		if _, err := tx.Exec(deleteSQL, id); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Sqlite) GetFailedJobs() ([]FailedJob, error) {
	querySQL := `SELECT f.id, f.process_output, f.error, j.id, j.flow_path, j.left_frame, j.right_frame, j.position, j.output_path
				FROM failed_jobs f
				INNER JOIN jobs j ON j.id = f.job_id
				ORDER BY f.id`
	rows, err := s.pool.Query(querySQL)
	if err != nil {
		return []FailedJob{}, err
	}

	defer rows.Close()
	jobs := []FailedJob{}
	for rows.Next() {
		var f FailedJob
		var pos float32
		if err := rows.Scan(&f.ID, &f.ProcessOutput, &f.Error, &f.Job.ID, &f.Job.FlowPath,
			&f.Job.LeftFrame, &f.Job.RightFrame, &pos, &f.Job.OutputPath); err != nil {
			return jobs, err
		}
		f.Job.Position = &pos
		jobs = append(jobs, f)
	}

	// Check for errors from iterating over rows
	if err := rows.Err(); err != nil {
		return []FailedJob{}, err
	}

	return jobs, nil
}
