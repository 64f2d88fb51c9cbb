package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/carebooker/carebooker-api/internal/model"
)

func (r *ratingRepository) Create(ctx context.Context, rating *model.DoctorRating) error {
	rating.ID = uuid.New()
	rating.CreatedAt = time.Now()
	rating.UpdatedAt = time.Now()

	query := `
		INSERT INTO doctor_ratings (id, doctor_id, patient_id, stars, review, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		rating.ID,
		rating.DoctorID,
		rating.PatientID,
		rating.Stars,
		rating.Review,
		rating.CreatedAt,
		rating.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create rating: %w", err)
	}
	return nil
}

func (r *ratingRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.DoctorRating, error) {
	query := `
		SELECT id, doctor_id, patient_id, stars, review, created_at, updated_at
		FROM doctor_ratings
		WHERE doctor_id = $1
		ORDER BY created_at ASC
	`
	var ratings []*model.DoctorRating
	if err := r.db.SelectContext(ctx, &ratings, query, doctorID); err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}
	return ratings, nil
}

func (r *ratingRepository) ListAll(ctx context.Context) ([]*model.DoctorRating, error) {
	query := `
		SELECT id, doctor_id, patient_id, stars, review, created_at, updated_at
		FROM doctor_ratings
		ORDER BY created_at ASC
	`
	var ratings []*model.DoctorRating
	if err := r.db.SelectContext(ctx, &ratings, query); err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}
	return ratings, nil
}
