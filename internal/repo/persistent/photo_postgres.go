package persistent

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/andreyxaxa/Photo-QC/internal/entity"
	"github.com/andreyxaxa/Photo-QC/pkg/postgres"
	"github.com/andreyxaxa/Photo-QC/pkg/types/errs"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	// Table
	photosTable = "photos"

	// Columns
	idColumn          = "id"
	propertyIDColumn  = "property_id"
	storageKeyColumn  = "storage_key"
	storageURLColumn  = "storage_url"
	photoTypeColumn   = "photo_type"
	sequenceColumn    = "sequence"
	capturedAtColumn  = "captured_at"
	deviceModelColumn = "device_model"
	gpsLatColumn      = "gps_lat"
	gpsLngColumn      = "gps_lng"
	qcStatusColumn    = "qc_status"
	qcNotesColumn     = "qc_notes"
	createdAtColumn   = "created_at"
)

type PhotoRepo struct {
	*postgres.Postgres
}

func NewPhotoRepo(pg *postgres.Postgres) *PhotoRepo {
	return &PhotoRepo{pg}
}

func (r *PhotoRepo) Create(ctx context.Context, photo *entity.Photo) error {
	sql, args, err := r.Builder.
		Insert(photosTable).
		Columns(
			idColumn,
			propertyIDColumn,
			storageKeyColumn,
			storageURLColumn,
			photoTypeColumn,
			sequenceColumn,
			qcStatusColumn,
			createdAtColumn,
		).
		Values(
			photo.ID,
			photo.PropertyID,
			photo.StorageKey,
			photo.StorageURL,
			photo.PhotoType,
			photo.Sequence,
			photo.QCStatus,
			photo.CreatedAt,
		).ToSql()
	if err != nil {
		return fmt.Errorf("PhotoRepo - Create - r.Builder.ToSql: %w", err)
	}

	// Pool / Tx
	executor := r.GetExecutor(ctx)

	_, err = executor.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("PhotoRepo - Create - executor.Exec: %w", err)
	}

	return nil
}

func (r *PhotoRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Photo, error) {
	sql, args, err := r.Builder.
		Select(
			idColumn,
			propertyIDColumn,
			storageKeyColumn,
			storageURLColumn,
			photoTypeColumn,
			sequenceColumn,
			capturedAtColumn,
			deviceModelColumn,
			gpsLatColumn,
			gpsLngColumn,
			qcStatusColumn,
			qcNotesColumn,
			createdAtColumn,
		).
		From(photosTable).
		Where(squirrel.Eq{idColumn: id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("PhotoRepo - GetByID - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	var photo entity.Photo
	err = executor.QueryRow(ctx, sql, args...).Scan(
		&photo.ID,
		&photo.PropertyID,
		&photo.StorageKey,
		&photo.StorageURL,
		&photo.PhotoType,
		&photo.Sequence,
		&photo.CapturedAt,
		&photo.DeviceModel,
		&photo.GPSLat,
		&photo.GPSLng,
		&photo.QCStatus,
		&photo.QCNotes,
		&photo.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("PhotoRepo - GetByID: %w", errs.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("PhotoRepo - GetByID - executor.QueryRow: %w", err)
	}

	return &photo, nil
}

// UpdateQC overwrites the extracted metadata and the QC verdict in a single statement.
func (r *PhotoRepo) UpdateQC(ctx context.Context, photo *entity.Photo) error {
	sql, args, err := r.Builder.
		Update(photosTable).
		Set(capturedAtColumn, photo.CapturedAt).
		Set(deviceModelColumn, photo.DeviceModel).
		Set(gpsLatColumn, photo.GPSLat).
		Set(gpsLngColumn, photo.GPSLng).
		Set(qcStatusColumn, photo.QCStatus).
		Set(qcNotesColumn, photo.QCNotes).
		Where(squirrel.Eq{idColumn: photo.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("PhotoRepo - UpdateQC - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	tag, err := executor.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("PhotoRepo - UpdateQC - executor.Exec: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("PhotoRepo - UpdateQC: %w", errs.ErrRecordNotFound)
	}

	return nil
}
