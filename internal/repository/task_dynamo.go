package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"

	"github.com/jaekwang-park/taskdeck/internal/model"
)

// DynamoTaskRepository stores tasks in a DynamoDB table keyed by id.
// The table is small and unindexed beyond the key; listing scans the
// full table and orders client-side.
type DynamoTaskRepository struct {
	client *dynamodb.Client
	table  string
	now    func() time.Time
}

// NewDynamoClient loads the default AWS config for the given region.
// An endpoint override points the client at a local DynamoDB.
func NewDynamoClient(ctx context.Context, region, endpoint string) (*dynamodb.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

func NewDynamoTask(client *dynamodb.Client, table string) *DynamoTaskRepository {
	return &DynamoTaskRepository{
		client: client,
		table:  table,
		now:    time.Now,
	}
}

// dynamoTask is the stored item shape; timestamps are RFC3339 strings so
// the attribute encoding is explicit rather than marshaller-dependent.
type dynamoTask struct {
	ID          string  `dynamodbav:"id"`
	Title       string  `dynamodbav:"title"`
	Description string  `dynamodbav:"description"`
	Status      string  `dynamodbav:"status"`
	DueAt       *string `dynamodbav:"due_at,omitempty"`
	CreatedAt   string  `dynamodbav:"created_at"`
	UpdatedAt   string  `dynamodbav:"updated_at"`
}

func toDynamoTask(t model.Task) dynamoTask {
	item := dynamoTask{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:   t.UpdatedAt.Format(time.RFC3339Nano),
	}
	if t.DueAt != nil {
		s := t.DueAt.Format(time.RFC3339Nano)
		item.DueAt = &s
	}
	return item
}

func (d dynamoTask) toModel() (model.Task, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, d.CreatedAt)
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to parse created_at for task %s: %w", d.ID, err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, d.UpdatedAt)
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to parse updated_at for task %s: %w", d.ID, err)
	}
	task := model.Task{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Status:      model.Status(d.Status),
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
	if d.DueAt != nil {
		dueAt, err := time.Parse(time.RFC3339Nano, *d.DueAt)
		if err != nil {
			return model.Task{}, fmt.Errorf("failed to parse due_at for task %s: %w", d.ID, err)
		}
		task.DueAt = &dueAt
	}
	return task, nil
}

func (r *DynamoTaskRepository) Insert(ctx context.Context, draft model.TaskDraft) (model.Task, error) {
	now := r.now().UTC()
	task := model.Task{
		ID:          uuid.NewString(),
		Title:       draft.Title,
		Description: draft.Description,
		Status:      draft.Status,
		DueAt:       draft.Due.Resolve(now),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	item, err := attributevalue.MarshalMap(toDynamoTask(task))
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to marshal task: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to put task: %w", err)
	}
	return task, nil
}

func (r *DynamoTaskRepository) GetByID(ctx context.Context, id string) (model.Task, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       taskKey(id),
	})
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to get task: %w", err)
	}
	if out.Item == nil {
		return model.Task{}, ErrNotFound
	}

	var item dynamoTask
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return model.Task{}, fmt.Errorf("failed to unmarshal task: %w", err)
	}
	return item.toModel()
}

func (r *DynamoTaskRepository) ListAll(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task

	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName: aws.String(r.table),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tasks: %w", err)
		}
		var items []dynamoTask
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tasks: %w", err)
		}
		for _, item := range items {
			task, err := item.toModel()
			if err != nil {
				return nil, err
			}
			tasks = append(tasks, task)
		}
	}

	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

func (r *DynamoTaskRepository) UpdateStatus(ctx context.Context, id string, status model.Status) (model.Task, error) {
	now := r.now().UTC()
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.table),
		Key:                 taskKey(id),
		UpdateExpression:    aws.String("SET #status = :status, updated_at = :updated_at"),
		ConditionExpression: aws.String("attribute_exists(id)"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status":     &types.AttributeValueMemberS{Value: string(status)},
			":updated_at": &types.AttributeValueMemberS{Value: now.Format(time.RFC3339Nano)},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		return model.Task{}, mapDynamoError(err, "failed to update task status")
	}
	return unmarshalUpdated(out.Attributes)
}

func (r *DynamoTaskRepository) Update(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	now := r.now().UTC()

	set := "SET updated_at = :updated_at"
	remove := ""
	values := map[string]types.AttributeValue{
		":updated_at": &types.AttributeValueMemberS{Value: now.Format(time.RFC3339Nano)},
	}

	if patch.Description != nil {
		set += ", description = :description"
		values[":description"] = &types.AttributeValueMemberS{Value: *patch.Description}
	}
	if patch.Due != nil {
		if dueAt := patch.Due.Resolve(now); dueAt != nil {
			set += ", due_at = :due_at"
			values[":due_at"] = &types.AttributeValueMemberS{Value: dueAt.Format(time.RFC3339Nano)}
		} else {
			remove = " REMOVE due_at"
		}
	}

	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.table),
		Key:                       taskKey(id),
		UpdateExpression:          aws.String(set + remove),
		ConditionExpression:       aws.String("attribute_exists(id)"),
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		return model.Task{}, mapDynamoError(err, "failed to update task")
	}
	return unmarshalUpdated(out.Attributes)
}

func (r *DynamoTaskRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key:       taskKey(id),
	})
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

func taskKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

func unmarshalUpdated(attrs map[string]types.AttributeValue) (model.Task, error) {
	var item dynamoTask
	if err := attributevalue.UnmarshalMap(attrs, &item); err != nil {
		return model.Task{}, fmt.Errorf("failed to unmarshal updated task: %w", err)
	}
	return item.toModel()
}

// mapDynamoError translates the conditional-write failure used as an
// existence check into ErrNotFound; everything else is wrapped as-is.
func mapDynamoError(err error, prefix string) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ConditionalCheckFailedException" {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", prefix, err)
}

// ensure compile-time interface compliance
var _ TaskRepository = (*DynamoTaskRepository)(nil)
