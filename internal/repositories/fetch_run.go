package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/shared"
)

const fetchRunColumns = `id, sequence, generated_at, library_path, output_path,
	track_count, artist_count, video_count, track_matches, created_at, updated_at`

// FetchRunRepository implements models.Repository[*models.FetchRun] for the run history.
type FetchRunRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.FetchRun] = (*FetchRunRepository)(nil)

// NewFetchRunRepository creates a new FetchRunRepository with the given database connection
func NewFetchRunRepository(db *sql.DB) *FetchRunRepository {
	return &FetchRunRepository{db: db}
}

// Create inserts a new [models.FetchRun] into the database with generated ID and sequence
func (r *FetchRunRepository) Create(run *models.FetchRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "fetch_runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	run.SetID(shared.GenerateID())
	run.SetSequence(sequence)

	query := `INSERT INTO fetch_runs (` + fetchRunColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.Exec(query,
		run.ID(),
		run.Sequence(),
		run.GeneratedAt(),
		run.LibraryPath(),
		run.OutputPath(),
		run.TrackCount(),
		run.ArtistCount(),
		run.VideoCount(),
		run.TrackMatches(),
		run.CreatedAt(),
		run.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert fetch run: %w", err)
	}

	return nil
}

// Get retrieves a run by ID
func (r *FetchRunRepository) Get(id string) (*models.FetchRun, error) {
	query := `SELECT ` + fetchRunColumns + ` FROM fetch_runs WHERE id = ?`
	return scanFetchRun(r.db.QueryRow(query, id))
}

// Latest retrieves the run with the highest sequence
func (r *FetchRunRepository) Latest() (*models.FetchRun, error) {
	query := `SELECT ` + fetchRunColumns + ` FROM fetch_runs ORDER BY sequence DESC LIMIT 1`
	return scanFetchRun(r.db.QueryRow(query))
}

// Update stores the mutable fields of an existing run. Counts are fixed once a run is recorded.
func (r *FetchRunRepository) Update(run *models.FetchRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	result, err := r.db.Exec(
		`UPDATE fetch_runs SET output_path = ?, updated_at = ? WHERE id = ?`,
		run.OutputPath(), run.UpdatedAt(), run.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update fetch run: %w", err)
	}

	return expectAffected(result, run.ID())
}

// Delete removes a run by ID
func (r *FetchRunRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM fetch_runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete fetch run: %w", err)
	}

	return expectAffected(result, id)
}

// List retrieves runs newest first.
//
// Criteria: "limit" (int) caps the number of rows, "since" (time.Time) keeps runs generated at or
// after that instant.
func (r *FetchRunRepository) List(criteria map[string]any) ([]*models.FetchRun, error) {
	query := `SELECT ` + fetchRunColumns + ` FROM fetch_runs WHERE 1 = 1`
	args := []any{}

	if since, ok := criteria["since"].(time.Time); ok && !since.IsZero() {
		query += " AND generated_at >= ?"
		args = append(args, since)
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query fetch runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.FetchRun
	for rows.Next() {
		run, err := scanFetchRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanFetchRun scans a [sql.Row] or the current row of [sql.Rows] into a [models.FetchRun]
func scanFetchRun(row scanner) (*models.FetchRun, error) {
	var (
		id           string
		sequence     int
		generatedAt  time.Time
		libraryPath  string
		outputPath   string
		trackCount   int
		artistCount  int
		videoCount   int
		trackMatches int
		createdAt    time.Time
		updatedAt    time.Time
	)

	err := row.Scan(&id, &sequence, &generatedAt, &libraryPath, &outputPath,
		&trackCount, &artistCount, &videoCount, &trackMatches, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan fetch run: %w", err)
	}

	return models.RestoreFetchRun(id, sequence, generatedAt, libraryPath, outputPath,
		trackCount, artistCount, videoCount, trackMatches, createdAt, updatedAt), nil
}

func expectAffected(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrRunNotFound, id)
	}
	return nil
}
