package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agendamento/pkg/config"
	"agendamento/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "configuracoes"
	AgendaDocID    = "agenda"
	StatusDocID    = "status"
)

var (
	ErrNotFound          = errors.New("settings document not found")
	ErrRemoteUnavailable = errors.New("settings store unavailable")
)

// Repository reads and replaces the two singleton settings documents.
type Repository interface {
	GetStatus(ctx context.Context) (model.SystemStatus, error)
	SetStatus(ctx context.Context, status model.SystemStatus) error
	GetAgenda(ctx context.Context) (*model.AgendaOverride, error)
	SaveAgenda(ctx context.Context, cfg model.AgendaConfig) error
}

type statusDocument struct {
	ID     string             `bson:"_id"`
	Status model.SystemStatus `bson:"status"`
}

type agendaDocument struct {
	ID                 string `bson:"_id"`
	model.AgendaConfig `bson:",inline"`
}

type mongoRepository struct {
	collection   *mongo.Collection
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func NewMongoRepository(cfg *config.Config) Repository {
	r := &mongoRepository{
		readTimeout:  cfg.ReadTimeout,
		writeTimeout: cfg.WriteTimeout,
	}
	if client := cfg.Client.MongoDB(); client != nil {
		r.collection = client.Database(cfg.MongoDatabaseName).Collection(CollectionName)
	}
	return r
}

func (r *mongoRepository) findOne(ctx context.Context, id string, target any) error {
	if r.collection == nil {
		return ErrRemoteUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, r.readTimeout)
	defer cancel()

	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(target)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read %s settings: %w", id, err)
	}
	return nil
}

func (r *mongoRepository) replace(ctx context.Context, id string, doc any) error {
	if r.collection == nil {
		return ErrRemoteUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, r.writeTimeout)
	defer cancel()

	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save %s settings: %w", id, err)
	}
	return nil
}

func (r *mongoRepository) GetStatus(ctx context.Context) (model.SystemStatus, error) {
	var doc statusDocument
	if err := r.findOne(ctx, StatusDocID, &doc); err != nil {
		return "", err
	}
	return doc.Status, nil
}

func (r *mongoRepository) SetStatus(ctx context.Context, status model.SystemStatus) error {
	return r.replace(ctx, StatusDocID, statusDocument{ID: StatusDocID, Status: status})
}

func (r *mongoRepository) GetAgenda(ctx context.Context) (*model.AgendaOverride, error) {
	var override model.AgendaOverride
	if err := r.findOne(ctx, AgendaDocID, &override); err != nil {
		return nil, err
	}
	return &override, nil
}

func (r *mongoRepository) SaveAgenda(ctx context.Context, cfg model.AgendaConfig) error {
	return r.replace(ctx, AgendaDocID, agendaDocument{ID: AgendaDocID, AgendaConfig: cfg})
}
