package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gochat/internal/chat/models"
)

const MessagesCollection = "messages"

type messageDoc struct {
	ID         primitive.ObjectID  `bson:"_id"`
	SenderID   int64               `bson:"senderId"`
	ReceiverID int64               `bson:"receiverId"`
	Text       *string             `bson:"text"`
	Image      *string             `bson:"image"`
	ReplyTo    *primitive.ObjectID `bson:"replyTo,omitempty"`
	IsDeleted  bool                `bson:"isDeleted"`
	IsEdited   bool                `bson:"isEdited"`
	CreatedAt  time.Time           `bson:"createdAt"`
	UpdatedAt  time.Time           `bson:"updatedAt"`
}

func (d *messageDoc) toModel() *models.Message {
	m := &models.Message{
		ID:         d.ID.Hex(),
		SenderID:   uint64(d.SenderID),
		ReceiverID: uint64(d.ReceiverID),
		Text:       d.Text,
		Image:      d.Image,
		IsDeleted:  d.IsDeleted,
		IsEdited:   d.IsEdited,
		CreatedAt:  d.CreatedAt.UTC(),
		UpdatedAt:  d.UpdatedAt.UTC(),
	}
	if d.ReplyTo != nil {
		m.ReplyTo = models.RefTo(d.ReplyTo.Hex())
	}
	if m.IsDeleted {
		m.Redact()
	}
	return m
}

type mongoRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewMongoRepository(coll *mongo.Collection, timeout time.Duration) MessageRepository {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &mongoRepository{coll: coll, timeout: timeout}
}

// EnsureIndexes creates the conversation index. Safe to call on every start.
func EnsureIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "senderId", Value: 1},
			{Key: "receiverId", Value: 1},
			{Key: "createdAt", Value: 1},
		},
		Options: options.Index().SetName("conversation_created"),
	})
	if err != nil {
		return fmt.Errorf("create message index: %w", err)
	}
	return nil
}

func (r *mongoRepository) Insert(ctx context.Context, m *models.Message) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	doc := messageDoc{
		ID:         primitive.NewObjectID(),
		SenderID:   int64(m.SenderID),
		ReceiverID: int64(m.ReceiverID),
		Text:       m.Text,
		Image:      m.Image,
		IsDeleted:  m.IsDeleted,
		IsEdited:   m.IsEdited,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	if m.ReplyTo != nil {
		parent, err := primitive.ObjectIDFromHex(m.ReplyTo.ID)
		if err != nil {
			return ErrMessageNotFound
		}
		doc.ReplyTo = &parent
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	m.ID = doc.ID.Hex()
	return nil
}

func (r *mongoRepository) FindByID(ctx context.Context, id string) (*models.Message, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrMessageNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var doc messageDoc
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrMessageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find message %s: %w", id, err)
	}
	return doc.toModel(), nil
}

func (r *mongoRepository) FindByIDs(ctx context.Context, ids []string) ([]*models.Message, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return []*models.Message{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": oids}})
}

func (r *mongoRepository) FindConversation(ctx context.Context, a, b uint64) ([]*models.Message, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"senderId": int64(a), "receiverId": int64(b)},
		bson.M{"senderId": int64(b), "receiverId": int64(a)},
	}}
	return r.find(ctx, filter)
}

func (r *mongoRepository) find(ctx context.Context, filter bson.M) ([]*models.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find messages: %w", err)
	}
	defer cur.Close(ctx)

	out := []*models.Message{}
	for cur.Next(ctx) {
		var doc messageDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode message: %w", err)
		}
		out = append(out, doc.toModel())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return out, nil
}

func (r *mongoRepository) Redact(ctx context.Context, id string, at time.Time) (*models.Message, bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, false, ErrMessageNotFound
	}

	update := bson.M{"$set": bson.M{
		"isDeleted": true,
		"text":      nil,
		"image":     nil,
		"updatedAt": at,
	}}
	doc, err := r.updateLive(ctx, oid, update)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// either missing or already a tombstone
		m, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, false, err
		}
		return m, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redact message %s: %w", id, err)
	}
	return doc.toModel(), true, nil
}

func (r *mongoRepository) UpdateText(ctx context.Context, id, text string, at time.Time) (*models.Message, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrMessageNotFound
	}

	update := bson.M{"$set": bson.M{
		"text":      text,
		"isEdited":  true,
		"updatedAt": at,
	}}
	doc, err := r.updateLive(ctx, oid, update)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if _, err := r.FindByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrMessageDeleted
	}
	if err != nil {
		return nil, fmt.Errorf("edit message %s: %w", id, err)
	}
	return doc.toModel(), nil
}

// updateLive applies update only while the message is not deleted.
func (r *mongoRepository) updateLive(ctx context.Context, oid primitive.ObjectID, update bson.M) (*messageDoc, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc messageDoc
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid, "isDeleted": false}, update, opts).Decode(&doc)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}
