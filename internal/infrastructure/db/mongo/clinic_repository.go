package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dentaflow/clinic-system/internal/core/domain"
)

const collectionClinics = "clinics"

type ClinicRepository struct {
	col *mongo.Collection
}

func NewClinicRepository(db *mongo.Database) *ClinicRepository {
	return &ClinicRepository{col: db.Collection(collectionClinics)}
}

type mongoClinic struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Phone     string    `bson:"phone,omitempty"`
	Email     string    `bson:"email,omitempty"`
	Address   string    `bson:"address,omitempty"`
	Active    bool      `bson:"active"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (m mongoClinic) toDomain() *domain.Clinic {
	return &domain.Clinic{
		ID:        m.ID,
		Name:      m.Name,
		Phone:     m.Phone,
		Email:     m.Email,
		Address:   m.Address,
		Active:    m.Active,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (r *ClinicRepository) Create(ctx context.Context, clinic *domain.Clinic) (*domain.Clinic, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoClinic{
		ID:        clinic.ID,
		Name:      clinic.Name,
		Phone:     clinic.Phone,
		Email:     clinic.Email,
		Address:   clinic.Address,
		Active:    clinic.Active,
		CreatedAt: clinic.CreatedAt,
		UpdatedAt: clinic.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrClinicExists
		}
		return nil, fmt.Errorf("insert clinic: %w", err)
	}
	return clinic, nil
}

func (r *ClinicRepository) FindByID(ctx context.Context, id string) (*domain.Clinic, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mc mongoClinic
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&mc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrClinicNotFound
		}
		return nil, fmt.Errorf("find clinic: %w", err)
	}
	return mc.toDomain(), nil
}

func (r *ClinicRepository) List(ctx context.Context) ([]domain.Clinic, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list clinics: %w", err)
	}
	defer cur.Close(ctx)

	var clinics []domain.Clinic
	for cur.Next(ctx) {
		var mc mongoClinic
		if err := cur.Decode(&mc); err != nil {
			return nil, fmt.Errorf("decode clinic: %w", err)
		}
		clinics = append(clinics, *mc.toDomain())
	}
	return clinics, cur.Err()
}

func (r *ClinicRepository) SetActive(ctx context.Context, id string, active bool) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"active": active, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("set clinic active: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrClinicNotFound
	}
	return nil
}
