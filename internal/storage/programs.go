package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/claude/ironcoach/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrProgramNotFound is returned when no program exists for the given ID.
var ErrProgramNotFound = errors.New("program not found")

// InsertProgram persists a freshly generated program. The row is written
// whole: raw inputs, calculated data, week structure, and the algorithm
// version that produced them.
func (db *DB) InsertProgram(ctx context.Context, row *models.ProgramRow) error {
	inputData, err := json.Marshal(row.InputData)
	if err != nil {
		return fmt.Errorf("encoding input data: %w", err)
	}
	calculatedData, err := json.Marshal(row.CalculatedData)
	if err != nil {
		return fmt.Errorf("encoding calculated data: %w", err)
	}
	weeks, err := json.Marshal(row.Weeks)
	if err != nil {
		return fmt.Errorf("encoding weeks: %w", err)
	}

	_, err = db.Pool.Exec(ctx,
		`INSERT INTO programs (id, name, description, builder_type, algorithm_version,
		 duration_weeks, days_per_week, input_data, calculated_data, weeks, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		row.ID, row.Name, row.Description, row.BuilderType, row.AlgorithmVersion,
		row.DurationWeeks, row.DaysPerWeek, inputData, calculatedData, weeks,
		row.CreatedAt, row.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting program: %w", err)
	}
	return nil
}

// GetProgram retrieves a single program with its full week structure.
func (db *DB) GetProgram(ctx context.Context, id uuid.UUID) (*models.ProgramRow, error) {
	var (
		row            models.ProgramRow
		inputData      []byte
		calculatedData []byte
		weeks          []byte
	)
	err := db.Pool.QueryRow(ctx,
		`SELECT id, name, description, builder_type, algorithm_version,
		 duration_weeks, days_per_week, input_data, calculated_data, weeks, created_at, updated_at
		 FROM programs WHERE id = $1`, id).
		Scan(&row.ID, &row.Name, &row.Description, &row.BuilderType, &row.AlgorithmVersion,
			&row.DurationWeeks, &row.DaysPerWeek, &inputData, &calculatedData, &weeks,
			&row.CreatedAt, &row.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProgramNotFound
		}
		return nil, fmt.Errorf("querying program: %w", err)
	}

	if err := json.Unmarshal(inputData, &row.InputData); err != nil {
		return nil, fmt.Errorf("decoding input data: %w", err)
	}
	if err := json.Unmarshal(calculatedData, &row.CalculatedData); err != nil {
		return nil, fmt.Errorf("decoding calculated data: %w", err)
	}
	if err := json.Unmarshal(weeks, &row.Weeks); err != nil {
		return nil, fmt.Errorf("decoding weeks: %w", err)
	}
	return &row, nil
}

// ListPrograms returns summary rows for all stored programs, newest first.
func (db *DB) ListPrograms(ctx context.Context) ([]models.ProgramSummary, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, builder_type, algorithm_version, duration_weeks, days_per_week,
		 created_at, updated_at
		 FROM programs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying programs: %w", err)
	}
	defer rows.Close()

	summaries := []models.ProgramSummary{}
	for rows.Next() {
		var s models.ProgramSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.BuilderType, &s.AlgorithmVersion,
			&s.DurationWeeks, &s.DaysPerWeek, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning program summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// UpdateProgramGeneration rewrites a program's computed payload after an
// explicit regeneration. Raw inputs are immutable; only the calculated data,
// week structure, and algorithm version change. This is the single opt-in
// path by which a stored program moves to a newer constants version.
func (db *DB) UpdateProgramGeneration(ctx context.Context, id uuid.UUID, algorithmVersion string,
	calculated map[string]models.MovementCalculations, weeks []models.WeekDetail) error {

	calculatedData, err := json.Marshal(calculated)
	if err != nil {
		return fmt.Errorf("encoding calculated data: %w", err)
	}
	weeksData, err := json.Marshal(weeks)
	if err != nil {
		return fmt.Errorf("encoding weeks: %w", err)
	}

	tag, err := db.Pool.Exec(ctx,
		`UPDATE programs
		 SET algorithm_version = $2, calculated_data = $3, weeks = $4, updated_at = $5
		 WHERE id = $1`,
		id, algorithmVersion, calculatedData, weeksData, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("updating program: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProgramNotFound
	}
	return nil
}
