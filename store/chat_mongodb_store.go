package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/petNanny/pn-server/domain"
)

const (
	CONVERSATION_COLLECTION = "conversations"
	MESSAGE_COLLECTION      = "messages"
)

type ConversationMongoDBStore struct {
	conversations *mongo.Collection
	tracer        trace.Tracer
}

func NewConversationMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.ConversationStore {
	conversations := client.Database(DATABASE).Collection(CONVERSATION_COLLECTION)
	return &ConversationMongoDBStore{
		conversations: conversations,
		tracer:        tracer,
	}
}

func (store *ConversationMongoDBStore) Insert(ctx context.Context, conversation *domain.Conversation) (*domain.Conversation, error) {
	ctx, span := store.tracer.Start(ctx, "ConversationStore.Insert")
	defer span.End()

	conversation.ID = primitive.NewObjectID()
	conversation.CreatedAt = time.Now()
	result, err := store.conversations.InsertOne(ctx, conversation)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	conversation.ID = result.InsertedID.(primitive.ObjectID)
	return conversation, nil
}

func (store *ConversationMongoDBStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Conversation, error) {
	ctx, span := store.tracer.Start(ctx, "ConversationStore.Get")
	defer span.End()

	var conversation *domain.Conversation
	err := store.conversations.FindOne(ctx, bson.M{"_id": id}).Decode(&conversation)
	return conversation, err
}

func (store *ConversationMongoDBStore) GetByMembers(ctx context.Context, first, second primitive.ObjectID) (*domain.Conversation, error) {
	ctx, span := store.tracer.Start(ctx, "ConversationStore.GetByMembers")
	defer span.End()

	filter := bson.M{"members": bson.M{"$all": bson.A{first, second}}}
	var conversation *domain.Conversation
	err := store.conversations.FindOne(ctx, filter).Decode(&conversation)
	return conversation, err
}

func (store *ConversationMongoDBStore) GetByMember(ctx context.Context, memberID primitive.ObjectID) ([]*domain.Conversation, error) {
	ctx, span := store.tracer.Start(ctx, "ConversationStore.GetByMember")
	defer span.End()

	filter := bson.M{"members": bson.M{"$in": bson.A{memberID}}}
	cursor, err := store.conversations.Find(ctx, filter)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer cursor.Close(ctx)

	var conversations []*domain.Conversation
	for cursor.Next(ctx) {
		var conversation domain.Conversation
		if err := cursor.Decode(&conversation); err != nil {
			return nil, err
		}
		conversations = append(conversations, &conversation)
	}
	return conversations, cursor.Err()
}

type MessageMongoDBStore struct {
	messages *mongo.Collection
	tracer   trace.Tracer
}

func NewMessageMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.MessageStore {
	messages := client.Database(DATABASE).Collection(MESSAGE_COLLECTION)
	return &MessageMongoDBStore{
		messages: messages,
		tracer:   tracer,
	}
}

func (store *MessageMongoDBStore) Insert(ctx context.Context, message *domain.Message) (*domain.Message, error) {
	ctx, span := store.tracer.Start(ctx, "MessageStore.Insert")
	defer span.End()

	message.ID = primitive.NewObjectID()
	message.CreatedAt = time.Now()
	result, err := store.messages.InsertOne(ctx, message)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	message.ID = result.InsertedID.(primitive.ObjectID)
	return message, nil
}

func (store *MessageMongoDBStore) GetByConversation(ctx context.Context, conversationID primitive.ObjectID) ([]*domain.Message, error) {
	ctx, span := store.tracer.Start(ctx, "MessageStore.GetByConversation")
	defer span.End()

	opts := options.Find().SetSort(bson.M{"createdAt": 1})
	cursor, err := store.messages.Find(ctx, bson.M{"conversationId": conversationID}, opts)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []*domain.Message
	for cursor.Next(ctx) {
		var message domain.Message
		if err := cursor.Decode(&message); err != nil {
			return nil, err
		}
		messages = append(messages, &message)
	}
	return messages, cursor.Err()
}
