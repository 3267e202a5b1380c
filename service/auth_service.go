package application

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cristalhq/jwt/v4"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/gomail.v2"

	"github.com/petNanny/pn-server/authorization"
	"github.com/petNanny/pn-server/domain"
	"github.com/petNanny/pn-server/errors"
)

var (
	smtpServer     = os.Getenv("SMTP_SERVER")
	smtpServerPort = 587
	smtpEmail      = os.Getenv("SMTP_AUTH_MAIL")
	smtpPassword   = os.Getenv("SMTP_AUTH_PASSWORD")
)

type AuthService struct {
	owners domain.PetOwnerStore
	cache  domain.VerificationCache
	tracer trace.Tracer
	logger *logrus.Logger
}

func NewAuthService(owners domain.PetOwnerStore, cache domain.VerificationCache, tracer trace.Tracer, logger *logrus.Logger) *AuthService {
	return &AuthService{
		owners: owners,
		cache:  cache,
		tracer: tracer,
		logger: logger,
	}
}

// Register creates a pet owner account, hashes the password and mails a
// verification token kept in the cache.
func (service *AuthService) Register(ctx context.Context, owner *domain.PetOwner) (*domain.PetOwner, error) {
	ctx, span := service.tracer.Start(ctx, "AuthService.Register")
	defer span.End()

	existing, err := service.owners.GetByEmail(ctx, owner.Email)
	if err != nil && err != mongo.ErrNoDocuments {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf(errors.EmailAlreadyExist)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(owner.Password), bcrypt.DefaultCost)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	owner.Password = string(hash)

	if owner.UserName == "" {
		owner.UserName = owner.FirstName
	}
	if len(owner.Roles) == 0 {
		owner.Roles = []string{"PetOwner"}
	}
	owner.IsActive = true
	owner.Verified = false
	owner.CreatedAt = time.Now()
	owner.UpdatedAt = owner.CreatedAt

	created, err := service.owners.Register(ctx, owner)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	validationToken := uuid.New()
	err = service.cache.PostCacheData(ctx, created.ID.Hex(), validationToken.String())
	if err != nil {
		service.logger.Errorf("failed to cache verification token: %s", err)
		return nil, err
	}

	if err := service.sendValidationMail(validationToken, created.Email); err != nil {
		service.logger.Errorf("failed to send verification mail: %s", err)
	}

	created.Password = ""
	return created, nil
}

// Login checks the credentials and issues a signed token.
func (service *AuthService) Login(ctx context.Context, credentials *domain.Credentials) (string, error) {
	ctx, span := service.tracer.Start(ctx, "AuthService.Login")
	defer span.End()

	owner, err := service.owners.GetByEmail(ctx, credentials.Email)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", fmt.Errorf(errors.InvalidCredentials)
		}
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	if !owner.IsActive {
		return "", fmt.Errorf(errors.NotActiveAccount)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(owner.Password), []byte(credentials.Password)); err != nil {
		return "", fmt.Errorf(errors.InvalidCredentials)
	}

	return GenerateJWT(owner)
}

func (service *AuthService) VerifyAccount(ctx context.Context, validation *domain.RegisterValidation) error {
	ctx, span := service.tracer.Start(ctx, "AuthService.VerifyAccount")
	defer span.End()

	token, err := service.cache.GetCachedValue(ctx, validation.UserToken)
	if err != nil {
		service.logger.Warnf("verification token missing from cache: %s", err)
		return fmt.Errorf(errors.ExpiredTokenError)
	}

	if validation.MailToken != token {
		return fmt.Errorf(errors.InvalidTokenError)
	}

	if err := service.cache.DelCachedValue(ctx, validation.UserToken); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	ownerID, err := primitive.ObjectIDFromHex(validation.UserToken)
	if err != nil {
		return fmt.Errorf(errors.InvalidUserTokenError)
	}

	return service.owners.SetVerified(ctx, ownerID)
}

func (service *AuthService) ResendVerificationToken(ctx context.Context, request *domain.ResendVerificationRequest) error {
	ctx, span := service.tracer.Start(ctx, "AuthService.ResendVerificationToken")
	defer span.End()

	if len(request.UserMail) == 0 {
		return fmt.Errorf(errors.InvalidRequestFormatError)
	}

	validationToken := uuid.New()
	if err := service.cache.PostCacheData(ctx, request.UserToken, validationToken.String()); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return service.sendValidationMail(validationToken, request.UserMail)
}

func (service *AuthService) ChangePassword(ctx context.Context, ownerID primitive.ObjectID, change *domain.PasswordChange) error {
	ctx, span := service.tracer.Start(ctx, "AuthService.ChangePassword")
	defer span.End()

	owner, err := service.owners.Get(ctx, ownerID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf(errors.PetOwnerNotFoundError)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(owner.Password), []byte(change.OldPassword)); err != nil {
		return fmt.Errorf(errors.InvalidCredentials)
	}

	if change.NewPassword == "" || change.NewPassword != change.NewPasswordConfirm {
		return fmt.Errorf(errors.InvalidRequestFormatError)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(change.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return service.owners.UpdatePassword(ctx, owner.ID, string(hash))
}

func (service *AuthService) sendValidationMail(validationToken uuid.UUID, email string) error {
	message := gomail.NewMessage()
	message.SetHeader("From", smtpEmail)
	message.SetHeader("To", email)
	message.SetHeader("Subject", "Verify your PetNanny account")

	bodyString := fmt.Sprintf("Your validation token for PetNanny is:\n%s", validationToken)
	message.SetBody("text", bodyString)

	client := gomail.NewDialer(smtpServer, smtpServerPort, smtpEmail, smtpPassword)
	return client.DialAndSend(message)
}

func GenerateJWT(owner *domain.PetOwner) (string, error) {
	key := []byte(os.Getenv("SECRET_KEY"))
	signer, err := jwt.NewSignerHS(jwt.HS256, key)
	if err != nil {
		return "", err
	}

	role := "PetOwner"
	if len(owner.Roles) > 0 {
		role = owner.Roles[0]
	}

	builder := jwt.NewBuilder(signer)
	claims := &authorization.Claims{
		UserID:    owner.ID.Hex(),
		Email:     owner.Email,
		Role:      role,
		ExpiresAt: time.Now().Add(time.Minute * 60),
	}

	token, err := builder.Build(claims)
	if err != nil {
		return "", err
	}
	return token.String(), nil
}
