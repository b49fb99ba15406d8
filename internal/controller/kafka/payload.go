package kafka

import (
	"encoding/json"
	"fmt"

	"github.com/andreyxaxa/Photo-QC/internal/dto"
	infrakafka "github.com/andreyxaxa/Photo-QC/internal/infrastructure/kafka"
	"github.com/andreyxaxa/Photo-QC/pkg/types/errs"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

func decodeTask(event kafka.Message) (dto.Task, error) {
	var task dto.Task

	err := json.Unmarshal(event.Value, &task)
	if err != nil {
		return dto.Task{}, errs.Permanent(fmt.Errorf("KafkaController - decodeTask - json.Unmarshal: %w", err))
	}

	if task.PhotoID == uuid.Nil {
		return dto.Task{}, errs.Permanent(fmt.Errorf("KafkaController - decodeTask: photo_id is missing"))
	}

	return task, nil
}

// eventType reads the job name header; events written before it existed carry none.
func eventType(event kafka.Message) string {
	return infrakafka.Header(event, infrakafka.HeaderEventType)
}
