package repositories

import (
	"context"
	"expenselit-ai/internal/models"
	"expenselit-ai/pkg/mongodb"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ConversationRepository interface {
	Create(conversation *models.Conversation) error
	Update(id primitive.ObjectID, conversation *models.Conversation) error
	Delete(id primitive.ObjectID) error
	FindByID(id primitive.ObjectID) (*models.Conversation, error)
	FindByUserID(userID primitive.ObjectID, page, pageSize int) ([]*models.Conversation, int64, error)
	CreateTurn(turn *models.Turn) error
	FindTurnsByConversation(conversationID primitive.ObjectID, page, pageSize int) ([]*models.Turn, int64, error)
	LastTurnSequence(conversationID primitive.ObjectID) (int, error)
	DeleteTurns(conversationID primitive.ObjectID) error
}

type conversationRepository struct {
	conversationCollection *mongo.Collection
	turnCollection         *mongo.Collection
}

func NewConversationRepository(mongoClient *mongodb.MongoDBClient) ConversationRepository {
	return &conversationRepository{
		conversationCollection: mongoClient.GetCollectionByName("conversations"),
		turnCollection:         mongoClient.GetCollectionByName("turns"),
	}
}

func (r *conversationRepository) Create(conversation *models.Conversation) error {
	_, err := r.conversationCollection.InsertOne(context.Background(), conversation)
	return err
}

func (r *conversationRepository) Update(id primitive.ObjectID, conversation *models.Conversation) error {
	conversation.UpdatedAt = time.Now()
	filter := bson.M{"_id": id}
	update := bson.M{"$set": conversation}
	_, err := r.conversationCollection.UpdateOne(context.Background(), filter, update)
	return err
}

func (r *conversationRepository) Delete(id primitive.ObjectID) error {
	filter := bson.M{"_id": id}
	_, err := r.conversationCollection.DeleteOne(context.Background(), filter)
	return err
}

func (r *conversationRepository) FindByID(id primitive.ObjectID) (*models.Conversation, error) {
	var conversation models.Conversation
	err := r.conversationCollection.FindOne(context.Background(), bson.M{"_id": id}).Decode(&conversation)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (r *conversationRepository) FindByUserID(userID primitive.ObjectID, page, pageSize int) ([]*models.Conversation, int64, error) {
	var conversations []*models.Conversation
	filter := bson.M{"user_id": userID}

	total, err := r.conversationCollection.CountDocuments(context.Background(), filter)
	if err != nil {
		return nil, 0, err
	}

	skip := int64((page - 1) * pageSize)
	opts := options.Find().
		SetSkip(skip).
		SetLimit(int64(pageSize)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.conversationCollection.Find(context.Background(), filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(context.Background())

	err = cursor.All(context.Background(), &conversations)
	return conversations, total, err
}

func (r *conversationRepository) CreateTurn(turn *models.Turn) error {
	r.touchConversation(turn.ConversationID)
	_, err := r.turnCollection.InsertOne(context.Background(), turn)
	return err
}

func (r *conversationRepository) FindTurnsByConversation(conversationID primitive.ObjectID, page, pageSize int) ([]*models.Turn, int64, error) {
	var turns []*models.Turn
	filter := bson.M{"conversation_id": conversationID}

	total, err := r.turnCollection.CountDocuments(context.Background(), filter)
	if err != nil {
		return nil, 0, err
	}

	skip := int64((page - 1) * pageSize)
	opts := options.Find().
		SetSkip(skip).
		SetLimit(int64(pageSize)).
		SetSort(bson.D{{Key: "sequence", Value: 1}})

	cursor, err := r.turnCollection.Find(context.Background(), filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(context.Background())

	err = cursor.All(context.Background(), &turns)
	return turns, total, err
}

// LastTurnSequence returns the highest archived sequence number for a
// conversation, 0 when no turns exist yet.
func (r *conversationRepository) LastTurnSequence(conversationID primitive.ObjectID) (int, error) {
	filter := bson.M{"conversation_id": conversationID}
	opts := options.FindOne().SetSort(bson.D{{Key: "sequence", Value: -1}})

	var turn models.Turn
	err := r.turnCollection.FindOne(context.Background(), filter, opts).Decode(&turn)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return turn.Sequence, nil
}

func (r *conversationRepository) DeleteTurns(conversationID primitive.ObjectID) error {
	filter := bson.M{"conversation_id": conversationID}
	_, err := r.turnCollection.DeleteMany(context.Background(), filter)
	return err
}

func (r *conversationRepository) touchConversation(conversationID primitive.ObjectID) {
	go func() {
		filter := bson.M{"_id": conversationID}
		update := bson.M{"$set": bson.M{"updated_at": time.Now()}}
		_, _ = r.conversationCollection.UpdateOne(context.Background(), filter, update)
	}()
}
