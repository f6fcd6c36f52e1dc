package database

import (
	"context"

	"cloud.google.com/go/firestore"

	shared "github.com/stravarunart/runart-server/pkg"
	"github.com/stravarunart/runart-server/pkg/execution"
)

// FirestoreAdapter provides execution record storage using Firestore.
type FirestoreAdapter struct {
	Client *firestore.Client
}

func NewFirestoreAdapter(client *firestore.Client) *FirestoreAdapter {
	return &FirestoreAdapter{Client: client}
}

func (a *FirestoreAdapter) SetExecution(ctx context.Context, record *execution.Record) error {
	_, err := a.Client.Collection(shared.CollectionExecutions).Doc(record.ExecutionID).Set(ctx, record)
	return err
}

func (a *FirestoreAdapter) UpdateExecution(ctx context.Context, id string, data map[string]interface{}) error {
	_, err := a.Client.Collection(shared.CollectionExecutions).Doc(id).Set(ctx, data, firestore.MergeAll)
	return err
}
