package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dentaflow/clinic-system/internal/core/domain"
)

const collectionDoctors = "doctors"

type DoctorRepository struct {
	col *mongo.Collection
}

func NewDoctorRepository(db *mongo.Database) *DoctorRepository {
	return &DoctorRepository{col: db.Collection(collectionDoctors)}
}

type mongoDoctor struct {
	ID        string    `bson:"_id"`
	ClinicID  string    `bson:"clinic_id"`
	Name      string    `bson:"name"`
	Specialty string    `bson:"specialty,omitempty"`
	Phone     string    `bson:"phone,omitempty"`
	Active    bool      `bson:"active"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func toMongoDoctor(d *domain.Doctor) mongoDoctor {
	return mongoDoctor{
		ID:        d.ID,
		ClinicID:  d.ClinicID,
		Name:      d.Name,
		Specialty: d.Specialty,
		Phone:     d.Phone,
		Active:    d.Active,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (m mongoDoctor) toDomain() *domain.Doctor {
	return &domain.Doctor{
		ID:        m.ID,
		ClinicID:  m.ClinicID,
		Name:      m.Name,
		Specialty: m.Specialty,
		Phone:     m.Phone,
		Active:    m.Active,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (r *DoctorRepository) Create(ctx context.Context, doctor *domain.Doctor) (*domain.Doctor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, toMongoDoctor(doctor)); err != nil {
		return nil, fmt.Errorf("insert doctor: %w", err)
	}
	return doctor, nil
}

func (r *DoctorRepository) FindByID(ctx context.Context, clinicID, id string) (*domain.Doctor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := tenantFilter(clinicID)
	filter["_id"] = id

	var md mongoDoctor
	if err := r.col.FindOne(ctx, filter).Decode(&md); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDoctorNotFound
		}
		return nil, fmt.Errorf("find doctor: %w", err)
	}
	return md.toDomain(), nil
}

func (r *DoctorRepository) Update(ctx context.Context, doctor *domain.Doctor) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": doctor.ID, "clinic_id": doctor.ClinicID}
	res, err := r.col.ReplaceOne(ctx, filter, toMongoDoctor(doctor))
	if err != nil {
		return fmt.Errorf("update doctor: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrDoctorNotFound
	}
	return nil
}

func (r *DoctorRepository) Delete(ctx context.Context, clinicID, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := tenantFilter(clinicID)
	filter["_id"] = id

	res, err := r.col.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete doctor: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrDoctorNotFound
	}
	return nil
}

func (r *DoctorRepository) List(ctx context.Context, clinicID string) ([]domain.Doctor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := r.col.Find(ctx, tenantFilter(clinicID), opts)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	defer cur.Close(ctx)

	var doctors []domain.Doctor
	for cur.Next(ctx) {
		var md mongoDoctor
		if err := cur.Decode(&md); err != nil {
			return nil, fmt.Errorf("decode doctor: %w", err)
		}
		doctors = append(doctors, *md.toDomain())
	}
	return doctors, cur.Err()
}
