package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"github.com/petNanny/pn-server/authorization"
	"github.com/petNanny/pn-server/domain"
	"github.com/petNanny/pn-server/errors"
	application "github.com/petNanny/pn-server/service"
)

type AuthHandler struct {
	service *application.AuthService
	tracer  trace.Tracer
	logger  *logrus.Logger
}

func NewAuthHandler(service *application.AuthService, tracer trace.Tracer, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		tracer:  tracer,
		logger:  logger,
	}
}

func (handler *AuthHandler) Init(router *mux.Router) {
	router.Use(ExtractTraceInfoMiddleware)
	router.HandleFunc("/register", handler.Register).Methods("POST")
	router.HandleFunc("/login", handler.Login).Methods("POST")
	router.HandleFunc("/verifyAccount", handler.VerifyAccount).Methods("POST")
	router.HandleFunc("/resendVerify", handler.ResendVerificationToken).Methods("POST")
	router.HandleFunc("/changePassword", handler.ChangePassword).Methods("POST")
}

func (handler *AuthHandler) Register(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AuthHandler.Register")
	defer span.End()

	var owner domain.PetOwner
	if err := owner.FromJSON(req.Body); err != nil {
		http.Error(writer, "Unable to Decode JSON", http.StatusBadRequest)
		return
	}

	if err := owner.ValidateOwner(); err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := handler.service.Register(ctx, &owner)
	if err != nil {
		if err.Error() == errors.EmailAlreadyExist {
			http.Error(writer, err.Error(), http.StatusConflict)
			return
		}
		handler.logger.Error(err)
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	writer.WriteHeader(http.StatusCreated)
	jsonResponse(created, writer)
}

func (handler *AuthHandler) Login(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AuthHandler.Login")
	defer span.End()

	var credentials domain.Credentials
	if err := json.NewDecoder(req.Body).Decode(&credentials); err != nil {
		http.Error(writer, errors.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}

	token, err := handler.service.Login(ctx, &credentials)
	if err != nil {
		switch err.Error() {
		case errors.InvalidCredentials:
			http.Error(writer, err.Error(), http.StatusUnauthorized)
		case errors.NotActiveAccount:
			http.Error(writer, err.Error(), http.StatusLocked)
		default:
			handler.logger.Error(err)
			http.Error(writer, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	jsonResponse(map[string]string{"accessToken": token}, writer)
}

func (handler *AuthHandler) VerifyAccount(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AuthHandler.VerifyAccount")
	defer span.End()

	var request domain.RegisterValidation
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		http.Error(writer, errors.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}

	if len(request.UserToken) == 0 {
		http.Error(writer, errors.InvalidUserTokenError, http.StatusBadRequest)
		return
	}

	if err := handler.service.VerifyAccount(ctx, &request); err != nil {
		switch err.Error() {
		case errors.InvalidTokenError:
			http.Error(writer, err.Error(), http.StatusNotAcceptable)
		case errors.ExpiredTokenError:
			http.Error(writer, err.Error(), http.StatusNotFound)
		default:
			http.Error(writer, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	writer.WriteHeader(http.StatusOK)
}

func (handler *AuthHandler) ResendVerificationToken(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AuthHandler.ResendVerificationToken")
	defer span.End()

	var request domain.ResendVerificationRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		http.Error(writer, errors.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}

	if err := handler.service.ResendVerificationToken(ctx, &request); err != nil {
		if err.Error() == errors.InvalidRequestFormatError {
			http.Error(writer, err.Error(), http.StatusNotAcceptable)
			return
		}
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	writer.WriteHeader(http.StatusOK)
}

func (handler *AuthHandler) ChangePassword(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AuthHandler.ChangePassword")
	defer span.End()

	claims := authorization.ExtractClaims(req)
	if claims == nil {
		http.Error(writer, "unauthorized", http.StatusUnauthorized)
		return
	}

	ownerID, err := primitiveIDFromClaims(claims)
	if err != nil {
		http.Error(writer, errors.InvalidUserTokenError, http.StatusBadRequest)
		return
	}

	var change domain.PasswordChange
	if err := json.NewDecoder(req.Body).Decode(&change); err != nil {
		http.Error(writer, errors.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}

	if err := handler.service.ChangePassword(ctx, ownerID, &change); err != nil {
		switch err.Error() {
		case errors.InvalidCredentials:
			http.Error(writer, err.Error(), http.StatusConflict)
		case errors.InvalidRequestFormatError:
			http.Error(writer, err.Error(), http.StatusBadRequest)
		case errors.PetOwnerNotFoundError:
			http.Error(writer, err.Error(), http.StatusNotFound)
		default:
			http.Error(writer, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	writer.WriteHeader(http.StatusOK)
}
