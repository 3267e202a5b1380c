package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/petNanny/pn-server/domain"
)

type PetOwnerService struct {
	owners domain.PetOwnerStore
	tracer trace.Tracer
	logger *logrus.Logger
}

func NewPetOwnerService(owners domain.PetOwnerStore, tracer trace.Tracer, logger *logrus.Logger) *PetOwnerService {
	return &PetOwnerService{
		owners: owners,
		tracer: tracer,
		logger: logger,
	}
}

func (service *PetOwnerService) GetPetOwner(ctx context.Context, id primitive.ObjectID) (*domain.PetOwner, error) {
	ctx, span := service.tracer.Start(ctx, "PetOwnerService.GetPetOwner")
	defer span.End()

	owner, err := service.owners.Get(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	owner.Password = ""
	return owner, nil
}

func (service *PetOwnerService) GetAll(ctx context.Context) ([]*domain.PetOwner, error) {
	ctx, span := service.tracer.Start(ctx, "PetOwnerService.GetAll")
	defer span.End()

	owners, err := service.owners.GetAll(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	for _, owner := range owners {
		owner.Password = ""
	}
	return owners, nil
}

func (service *PetOwnerService) UpdatePetOwner(ctx context.Context, owner *domain.PetOwner) (*domain.PetOwner, error) {
	ctx, span := service.tracer.Start(ctx, "PetOwnerService.UpdatePetOwner")
	defer span.End()

	owner.UpdatedAt = time.Now()
	updated, err := service.owners.Update(ctx, owner)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	updated.Password = ""
	return updated, nil
}

func (service *PetOwnerService) UpdateAvatar(ctx context.Context, id primitive.ObjectID, avatarURL string) error {
	ctx, span := service.tracer.Start(ctx, "PetOwnerService.UpdateAvatar")
	defer span.End()

	return service.owners.UpdateAvatar(ctx, id, avatarURL)
}

func (service *PetOwnerService) DeactivateAccount(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := service.tracer.Start(ctx, "PetOwnerService.DeactivateAccount")
	defer span.End()

	return service.owners.Deactivate(ctx, id)
}
