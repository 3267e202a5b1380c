package application

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/petNanny/pn-server/domain"
	"github.com/petNanny/pn-server/errors"
)

// ChatService owns the durable side of the chat: conversations and message
// history in the document store. Live delivery is the relay's job and stays
// fully separate.
type ChatService struct {
	conversations domain.ConversationStore
	messages      domain.MessageStore
	owners        domain.PetOwnerStore
	tracer        trace.Tracer
	logger        *logrus.Logger
}

func NewChatService(conversations domain.ConversationStore, messages domain.MessageStore, owners domain.PetOwnerStore, tracer trace.Tracer, logger *logrus.Logger) *ChatService {
	return &ChatService{
		conversations: conversations,
		messages:      messages,
		owners:        owners,
		tracer:        tracer,
		logger:        logger,
	}
}

// StartConversation returns the existing conversation between the two users
// or creates a fresh one.
func (service *ChatService) StartConversation(ctx context.Context, senderID, receiverID primitive.ObjectID) (*domain.Conversation, bool, error) {
	ctx, span := service.tracer.Start(ctx, "ChatService.StartConversation")
	defer span.End()

	if _, err := service.owners.Get(ctx, senderID); err != nil {
		return nil, false, fmt.Errorf(errors.PetOwnerNotFoundError)
	}
	if _, err := service.owners.Get(ctx, receiverID); err != nil {
		return nil, false, fmt.Errorf(errors.PetOwnerNotFoundError)
	}

	existing, err := service.conversations.GetByMembers(ctx, senderID, receiverID)
	if err == nil {
		return existing, false, nil
	}
	if err != mongo.ErrNoDocuments {
		span.SetStatus(codes.Error, err.Error())
		return nil, false, err
	}

	conversation := &domain.Conversation{
		Members: []primitive.ObjectID{senderID, receiverID},
	}
	created, err := service.conversations.Insert(ctx, conversation)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, false, err
	}
	return created, true, nil
}

func (service *ChatService) GetConversation(ctx context.Context, id primitive.ObjectID) (*domain.Conversation, error) {
	ctx, span := service.tracer.Start(ctx, "ChatService.GetConversation")
	defer span.End()

	return service.conversations.Get(ctx, id)
}

func (service *ChatService) GetConversations(ctx context.Context, memberID primitive.ObjectID) ([]*domain.Conversation, error) {
	ctx, span := service.tracer.Start(ctx, "ChatService.GetConversations")
	defer span.End()

	if _, err := service.owners.Get(ctx, memberID); err != nil {
		return nil, fmt.Errorf(errors.PetOwnerNotFoundError)
	}
	return service.conversations.GetByMember(ctx, memberID)
}

// AddMessage appends one message to a conversation's history.
func (service *ChatService) AddMessage(ctx context.Context, message *domain.Message) (*domain.Message, error) {
	ctx, span := service.tracer.Start(ctx, "ChatService.AddMessage")
	defer span.End()

	if _, err := service.conversations.Get(ctx, message.ConversationID); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf(errors.ConversationNotFound)
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	created, err := service.messages.Insert(ctx, message)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return created, nil
}

func (service *ChatService) GetMessages(ctx context.Context, conversationID primitive.ObjectID) ([]*domain.Message, error) {
	ctx, span := service.tracer.Start(ctx, "ChatService.GetMessages")
	defer span.End()

	messages, err := service.messages.GetByConversation(ctx, conversationID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return messages, nil
}
