package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/trace"

	"github.com/petNanny/pn-server/domain"
	"github.com/petNanny/pn-server/errors"
	application "github.com/petNanny/pn-server/service"
)

type ChatHandler struct {
	service *application.ChatService
	tracer  trace.Tracer
	logger  *logrus.Logger
}

func NewChatHandler(service *application.ChatService, tracer trace.Tracer, logger *logrus.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		tracer:  tracer,
		logger:  logger,
	}
}

func (handler *ChatHandler) Init(router *mux.Router) {
	router.Use(ExtractTraceInfoMiddleware)
	router.HandleFunc("/conversations", handler.StartConversation).Methods("POST")
	router.HandleFunc("/conversations/member/{memberId}", handler.GetConversations).Methods("GET")
	router.HandleFunc("/conversations/{id}", handler.GetConversation).Methods("GET")
	router.HandleFunc("/messages", handler.AddMessage).Methods("POST")
	router.HandleFunc("/messages/conversation/{conversationId}", handler.GetMessages).Methods("GET")
}

type startConversationRequest struct {
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
}

func (handler *ChatHandler) StartConversation(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ChatHandler.StartConversation")
	defer span.End()

	var request startConversationRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		http.Error(writer, errors.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}

	senderID, err := primitive.ObjectIDFromHex(request.SenderID)
	if err != nil {
		http.Error(writer, errors.InvalidObjectIDError, http.StatusBadRequest)
		return
	}
	receiverID, err := primitive.ObjectIDFromHex(request.ReceiverID)
	if err != nil {
		http.Error(writer, errors.InvalidObjectIDError, http.StatusBadRequest)
		return
	}

	conversation, created, err := handler.service.StartConversation(ctx, senderID, receiverID)
	if err != nil {
		if err.Error() == errors.PetOwnerNotFoundError {
			http.Error(writer, err.Error(), http.StatusNotFound)
			return
		}
		handler.logger.Error(err)
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	if created {
		writer.WriteHeader(http.StatusCreated)
	}
	jsonResponse(conversation, writer)
}

func (handler *ChatHandler) GetConversation(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ChatHandler.GetConversation")
	defer span.End()

	id, ok := objectIDVar(writer, req, "id")
	if !ok {
		return
	}

	conversation, err := handler.service.GetConversation(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			http.Error(writer, errors.ConversationNotFound, http.StatusNotFound)
			return
		}
		handler.logger.Error(err)
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	jsonResponse(conversation, writer)
}

func (handler *ChatHandler) GetConversations(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ChatHandler.GetConversations")
	defer span.End()

	memberID, ok := objectIDVar(writer, req, "memberId")
	if !ok {
		return
	}

	conversations, err := handler.service.GetConversations(ctx, memberID)
	if err != nil {
		if err.Error() == errors.PetOwnerNotFoundError {
			http.Error(writer, err.Error(), http.StatusNotFound)
			return
		}
		handler.logger.Error(err)
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	jsonResponse(conversations, writer)
}

func (handler *ChatHandler) AddMessage(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ChatHandler.AddMessage")
	defer span.End()

	var message domain.Message
	if err := json.NewDecoder(req.Body).Decode(&message); err != nil {
		http.Error(writer, errors.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}

	created, err := handler.service.AddMessage(ctx, &message)
	if err != nil {
		if err.Error() == errors.ConversationNotFound {
			http.Error(writer, err.Error(), http.StatusNotFound)
			return
		}
		handler.logger.Error(err)
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	writer.WriteHeader(http.StatusCreated)
	jsonResponse(created, writer)
}

func (handler *ChatHandler) GetMessages(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "ChatHandler.GetMessages")
	defer span.End()

	conversationID, ok := objectIDVar(writer, req, "conversationId")
	if !ok {
		return
	}

	messages, err := handler.service.GetMessages(ctx, conversationID)
	if err != nil {
		handler.logger.Error(err)
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	jsonResponse(messages, writer)
}
