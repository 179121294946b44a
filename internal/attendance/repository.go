package attendance

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrAlreadyCheckedOut = errors.New("attendance record already checked out")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, memberID int, checkInType CheckInType, sessionID *int) (*Record, error) {
	query := `
		INSERT INTO attendance_records (member_id, type, session_id, check_in_time)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, member_id, type, session_id, check_in_time, check_out_time
	`

	var record Record
	err := r.db.GetContext(ctx, &record, query, memberID, checkInType, sessionID)
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Record, error) {
	query := `
		SELECT id, member_id, type, session_id, check_in_time, check_out_time
		FROM attendance_records
		WHERE id = $1
	`

	var record Record
	err := r.db.GetContext(ctx, &record, query, id)
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *repository) SetCheckOut(ctx context.Context, id int) error {
	query := `
		UPDATE attendance_records
		SET check_out_time = NOW()
		WHERE id = $1 AND check_out_time IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrAlreadyCheckedOut
	}

	return nil
}

func (r *repository) ListByMember(ctx context.Context, memberID int) ([]Record, error) {
	query := `
		SELECT id, member_id, type, session_id, check_in_time, check_out_time
		FROM attendance_records
		WHERE member_id = $1
		ORDER BY check_in_time DESC
	`

	var records []Record
	err := r.db.SelectContext(ctx, &records, query, memberID)
	if err != nil {
		return nil, err
	}

	return records, nil
}
