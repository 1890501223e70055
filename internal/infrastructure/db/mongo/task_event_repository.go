package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dsalta/compliance-api/internal/core/domain"
	"github.com/dsalta/compliance-api/internal/core/ports"
)

const collectionTaskEvents = "task_events"

var _ ports.TaskEventRepository = (*TaskEventRepository)(nil)

// TaskEventRepository stores the append-only task audit trail.
type TaskEventRepository struct {
	col *mongo.Collection
}

func NewTaskEventRepository(db *mongo.Database) *TaskEventRepository {
	return &TaskEventRepository{col: db.Collection(collectionTaskEvents)}
}

type taskEventDoc struct {
	ID            string    `bson:"_id"`
	TaskID        string    `bson:"task_id"`
	Action        string    `bson:"action"`
	ActorID       string    `bson:"actor_id,omitempty"`
	ActorUsername string    `bson:"actor_username,omitempty"`
	OccurredAt    time.Time `bson:"occurred_at"`
	RecordedAt    time.Time `bson:"recorded_at"`
}

// InsertEvent persists an event. Replaying an already stored event id is a
// no-op.
func (r *TaskEventRepository) InsertEvent(ctx context.Context, e *domain.TaskEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := taskEventDoc{
		ID:            e.ID,
		TaskID:        e.TaskID,
		Action:        string(e.Action),
		ActorID:       e.ActorID,
		ActorUsername: e.ActorUsername,
		OccurredAt:    e.OccurredAt.UTC(),
		RecordedAt:    time.Now().UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("insert task event: %w", err)
	}
	return nil
}

// ListByTask returns the events of taskID in the order they occurred.
func (r *TaskEventRepository) ListByTask(ctx context.Context, taskID string) ([]*domain.TaskEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "occurred_at", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"task_id": taskID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find task events: %w", err)
	}

	var docs []taskEventDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode task events: %w", err)
	}

	events := make([]*domain.TaskEvent, 0, len(docs))
	for _, d := range docs {
		events = append(events, &domain.TaskEvent{
			ID:            d.ID,
			TaskID:        d.TaskID,
			Action:        domain.TaskAction(d.Action),
			ActorID:       d.ActorID,
			ActorUsername: d.ActorUsername,
			OccurredAt:    d.OccurredAt.UTC(),
		})
	}
	return events, nil
}

// EnsureIndexes creates the per-task lookup index.
func (r *TaskEventRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "task_id", Value: 1}, {Key: "occurred_at", Value: 1}},
	})
	return err
}
