package photo

import (
	"encoding/json"
	"fmt"

	"github.com/andreyxaxa/Photo-QC/internal/dto"
	"github.com/andreyxaxa/Photo-QC/internal/entity"
	"github.com/google/uuid"
)

func originalKey(photoID uuid.UUID) string {
	return fmt.Sprintf("originals/%s", photoID)
}

func (uc *PhotoUseCase) createOutboxEvent(photo *entity.Photo) (*entity.OutboxEvent, error) {
	b, err := json.Marshal(dto.Task{
		PhotoID:    photo.ID,
		StorageURL: photo.StorageURL,
	})
	if err != nil {
		return nil, fmt.Errorf("PhotoUseCase - createOutboxEvent - json.Marshal: %w", err)
	}

	return &entity.OutboxEvent{
		ID:          uuid.New(),
		AggregateID: photo.ID,
		EventType:   entity.EventProcessPhoto,
		Payload:     b,
		Status:      entity.Pending,
		CreatedAt:   uc.now().UTC(),
		RetryCount:  0,
	}, nil
}

func eventIDs(events []*entity.OutboxEvent) uuid.UUIDs {
	IDs := make(uuid.UUIDs, 0, len(events))
	for _, event := range events {
		IDs = append(IDs, event.ID)
	}

	return IDs
}
