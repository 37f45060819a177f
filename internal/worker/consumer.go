package worker

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nsqio/go-nsq"

	"github.com/kwybro/cookbooks/internal/middleware"
	"github.com/kwybro/cookbooks/internal/pipeline"
)

type PipelineRunner interface {
	Run(ctx context.Context, task pipeline.Task) error
}

// TaskConsumer drives one pipeline run per queued task. A failed run
// is recorded on the index image itself, so the handler returns nil
// and relies on an explicit restart instead of NSQ requeueing.
type TaskConsumer struct {
	pipeline PipelineRunner
}

func NewTaskConsumer(p PipelineRunner) *TaskConsumer {
	return &TaskConsumer{pipeline: p}
}

func (h *TaskConsumer) HandleMessage(m *nsq.Message) error {
	if len(m.Body) == 0 {
		return nil
	}

	var task pipeline.Task
	if err := json.Unmarshal(m.Body, &task); err != nil {
		// Poison Pill: Invalid JSON, don't retry
		slog.Error("poison pill: invalid json", "error", err)
		return nil
	}

	if task.RunID == "" || task.IndexImageID == "" {
		slog.Error("poison pill: task missing run id or index image id")
		return nil
	}

	correlationID := task.CorrelationID
	if correlationID == "" {
		correlationID = uuid.NewString()
	}
	ctx := middleware.WithCorrelationID(context.Background(), correlationID)

	slog.InfoContext(ctx, "processing index image task",
		"run_id", task.RunID, "index_image_id", task.IndexImageID)

	if err := h.pipeline.Run(ctx, task); err != nil {
		slog.ErrorContext(ctx, "pipeline run failed",
			"error", err, "run_id", task.RunID, "index_image_id", task.IndexImageID)
		return nil
	}

	slog.InfoContext(ctx, "index image processed", "run_id", task.RunID, "index_image_id", task.IndexImageID)
	return nil
}
