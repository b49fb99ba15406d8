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
	propertiesTable = "properties"

	propertyLatColumn = "lat"
	propertyLngColumn = "lng"
)

// PropertyRepo reads declared coordinates from the property aggregate. It never writes.
type PropertyRepo struct {
	*postgres.Postgres
}

func NewPropertyRepo(pg *postgres.Postgres) *PropertyRepo {
	return &PropertyRepo{pg}
}

func (r *PropertyRepo) GetLocation(ctx context.Context, propertyID uuid.UUID) (*entity.PropertyLocation, error) {
	sql, args, err := r.Builder.
		Select(idColumn, propertyLatColumn, propertyLngColumn).
		From(propertiesTable).
		Where(squirrel.Eq{idColumn: propertyID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("PropertyRepo - GetLocation - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	var loc entity.PropertyLocation
	err = executor.QueryRow(ctx, sql, args...).Scan(&loc.PropertyID, &loc.Lat, &loc.Lng)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("PropertyRepo - GetLocation: %w", errs.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("PropertyRepo - GetLocation - executor.QueryRow: %w", err)
	}

	return &loc, nil
}
