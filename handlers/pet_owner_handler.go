package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/trace"

	"github.com/petNanny/pn-server/cache"
	"github.com/petNanny/pn-server/domain"
	"github.com/petNanny/pn-server/errors"
	application "github.com/petNanny/pn-server/service"
	"github.com/petNanny/pn-server/storage"
)

const maxAttachmentBytes = 10 << 20

type PetOwnerHandler struct {
	service    *application.PetOwnerService
	storage    *storage.FileStorage
	imageCache *cache.ImageCache
	tracer     trace.Tracer
	logger     *logrus.Logger
}

func NewPetOwnerHandler(service *application.PetOwnerService, fileStorage *storage.FileStorage, imageCache *cache.ImageCache, tracer trace.Tracer, logger *logrus.Logger) *PetOwnerHandler {
	return &PetOwnerHandler{
		service:    service,
		storage:    fileStorage,
		imageCache: imageCache,
		tracer:     tracer,
		logger:     logger,
	}
}

func (handler *PetOwnerHandler) Init(router *mux.Router) {
	router.Use(ExtractTraceInfoMiddleware)
	router.HandleFunc("", handler.GetAll).Methods("GET")
	router.HandleFunc("/{id}", handler.Get).Methods("GET")
	router.HandleFunc("/{id}", handler.Update).Methods("PATCH")
	router.HandleFunc("/{id}/deactivate", handler.Deactivate).Methods("POST")
	router.HandleFunc("/{id}/attachments", handler.UploadAttachment).Methods("POST")
	router.HandleFunc("/{id}/attachments", handler.ListAttachments).Methods("GET")
	router.HandleFunc("/{id}/attachments/{fileName}", handler.GetAttachment).Methods("GET")
}

func (handler *PetOwnerHandler) GetAll(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "PetOwnerHandler.GetAll")
	defer span.End()

	owners, err := handler.service.GetAll(ctx)
	if err != nil {
		handler.logger.Error(err)
		writer.WriteHeader(http.StatusInternalServerError)
		return
	}
	jsonResponse(owners, writer)
}

func (handler *PetOwnerHandler) Get(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "PetOwnerHandler.Get")
	defer span.End()

	id, ok := objectIDVar(writer, req, "id")
	if !ok {
		return
	}

	owner, err := handler.service.GetPetOwner(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			http.Error(writer, errors.PetOwnerNotFoundError, http.StatusNotFound)
			return
		}
		handler.logger.Error(err)
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	jsonResponse(owner, writer)
}

func (handler *PetOwnerHandler) Update(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "PetOwnerHandler.Update")
	defer span.End()

	id, ok := objectIDVar(writer, req, "id")
	if !ok {
		return
	}

	var owner domain.PetOwner
	if err := json.NewDecoder(req.Body).Decode(&owner); err != nil {
		http.Error(writer, errors.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}
	owner.ID = id

	updated, err := handler.service.UpdatePetOwner(ctx, &owner)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			http.Error(writer, errors.PetOwnerNotFoundError, http.StatusNotFound)
			return
		}
		handler.logger.Error(err)
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	jsonResponse(updated, writer)
}

func (handler *PetOwnerHandler) Deactivate(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "PetOwnerHandler.Deactivate")
	defer span.End()

	id, ok := objectIDVar(writer, req, "id")
	if !ok {
		return
	}

	if err := handler.service.DeactivateAccount(ctx, id); err != nil {
		if err == mongo.ErrNoDocuments {
			http.Error(writer, errors.PetOwnerNotFoundError, http.StatusNotFound)
			return
		}
		handler.logger.Error(err)
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	writer.WriteHeader(http.StatusOK)
}

// UploadAttachment stores one multipart file under the owner's directory;
// an avatar upload also updates the owner's avatar reference.
func (handler *PetOwnerHandler) UploadAttachment(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "PetOwnerHandler.UploadAttachment")
	defer span.End()

	id, ok := objectIDVar(writer, req, "id")
	if !ok {
		return
	}

	if err := req.ParseMultipartForm(maxAttachmentBytes); err != nil {
		http.Error(writer, "Unable to parse multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := req.FormFile("file")
	if err != nil {
		http.Error(writer, "Missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxAttachmentBytes))
	if err != nil {
		handler.logger.Error(err)
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	fileName := filepath.Base(header.Filename)
	if err := handler.storage.SaveAttachment(ctx, id.Hex(), fileName, content); err != nil {
		handler.logger.Error(err)
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := handler.imageCache.Post(ctx, id.Hex(), fileName, content); err != nil {
		handler.logger.Warnf("failed to cache uploaded attachment: %s", err)
	}

	if req.FormValue("isAvatar") == "true" {
		avatarURL := fmt.Sprintf("/api/petOwners/%s/attachments/%s", id.Hex(), fileName)
		if err := handler.service.UpdateAvatar(ctx, id, avatarURL); err != nil {
			handler.logger.Error(err)
			http.Error(writer, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	writer.WriteHeader(http.StatusCreated)
	jsonResponse(map[string]string{"fileName": fileName}, writer)
}

func (handler *PetOwnerHandler) ListAttachments(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "PetOwnerHandler.ListAttachments")
	defer span.End()

	id, ok := objectIDVar(writer, req, "id")
	if !ok {
		return
	}

	fileNames, err := handler.storage.ListAttachments(ctx, id.Hex())
	if err != nil {
		handler.logger.Error(err)
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	jsonResponse(fileNames, writer)
}

func (handler *PetOwnerHandler) GetAttachment(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "PetOwnerHandler.GetAttachment")
	defer span.End()

	id, ok := objectIDVar(writer, req, "id")
	if !ok {
		return
	}
	fileName := filepath.Base(mux.Vars(req)["fileName"])

	if handler.imageCache.Exists(id.Hex(), fileName) {
		content, err := handler.imageCache.Get(ctx, id.Hex(), fileName)
		if err == nil {
			writer.Header().Set("Content-Type", http.DetectContentType(content))
			writer.Write(content)
			return
		}
		handler.logger.Warnf("cache read failed, falling back to storage: %s", err)
	}

	content, err := handler.storage.ReadAttachment(ctx, id.Hex(), fileName)
	if err != nil {
		http.Error(writer, "Attachment not found", http.StatusNotFound)
		return
	}

	if err := handler.imageCache.Post(ctx, id.Hex(), fileName, content); err != nil {
		handler.logger.Warnf("failed to cache attachment: %s", err)
	}

	writer.Header().Set("Content-Type", http.DetectContentType(content))
	writer.Write(content)
}
