package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ConversationStore interface {
	Insert(ctx context.Context, conversation *Conversation) (*Conversation, error)
	Get(ctx context.Context, id primitive.ObjectID) (*Conversation, error)
	GetByMembers(ctx context.Context, first, second primitive.ObjectID) (*Conversation, error)
	GetByMember(ctx context.Context, memberID primitive.ObjectID) ([]*Conversation, error)
}

type MessageStore interface {
	Insert(ctx context.Context, message *Message) (*Message, error)
	GetByConversation(ctx context.Context, conversationID primitive.ObjectID) ([]*Message, error)
}
