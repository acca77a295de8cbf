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

const collectionPatients = "patients"

type PatientRepository struct {
	col *mongo.Collection
}

func NewPatientRepository(db *mongo.Database) *PatientRepository {
	return &PatientRepository{col: db.Collection(collectionPatients)}
}

type mongoPatient struct {
	ID        string    `bson:"_id"`
	ClinicID  string    `bson:"clinic_id"`
	Name      string    `bson:"name"`
	Phone     string    `bson:"phone"`
	Email     string    `bson:"email,omitempty"`
	BirthDate string    `bson:"birth_date,omitempty"`
	Notes     string    `bson:"notes,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func toMongoPatient(p *domain.Patient) mongoPatient {
	return mongoPatient{
		ID:        p.ID,
		ClinicID:  p.ClinicID,
		Name:      p.Name,
		Phone:     p.Phone,
		Email:     p.Email,
		BirthDate: p.BirthDate,
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (m mongoPatient) toDomain() *domain.Patient {
	return &domain.Patient{
		ID:        m.ID,
		ClinicID:  m.ClinicID,
		Name:      m.Name,
		Phone:     m.Phone,
		Email:     m.Email,
		BirthDate: m.BirthDate,
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (r *PatientRepository) Create(ctx context.Context, patient *domain.Patient) (*domain.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, toMongoPatient(patient)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrPatientExists
		}
		return nil, fmt.Errorf("insert patient: %w", err)
	}
	return patient, nil
}

func (r *PatientRepository) FindByID(ctx context.Context, clinicID, id string) (*domain.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := tenantFilter(clinicID)
	filter["_id"] = id

	var mp mongoPatient
	if err := r.col.FindOne(ctx, filter).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPatientNotFound
		}
		return nil, fmt.Errorf("find patient: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *PatientRepository) FindByPhone(ctx context.Context, clinicID, phone string) (*domain.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := tenantFilter(clinicID)
	filter["phone"] = phone

	var mp mongoPatient
	if err := r.col.FindOne(ctx, filter).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPatientNotFound
		}
		return nil, fmt.Errorf("find patient by phone: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *PatientRepository) Update(ctx context.Context, patient *domain.Patient) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": patient.ID, "clinic_id": patient.ClinicID}
	res, err := r.col.ReplaceOne(ctx, filter, toMongoPatient(patient))
	if err != nil {
		return fmt.Errorf("update patient: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPatientNotFound
	}
	return nil
}

func (r *PatientRepository) Delete(ctx context.Context, clinicID, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := tenantFilter(clinicID)
	filter["_id"] = id

	res, err := r.col.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPatientNotFound
	}
	return nil
}

// List pages through patients ordered by name. A non-empty query matches
// name (case-insensitive prefix) or exact canonical phone.
func (r *PatientRepository) List(ctx context.Context, clinicID, query string, page, limit int) ([]domain.Patient, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := tenantFilter(clinicID)
	if query != "" {
		filter["$or"] = bson.A{
			bson.M{"name": bson.M{"$regex": "^" + query, "$options": "i"}},
			bson.M{"phone": query},
		}
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count patients: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list patients: %w", err)
	}
	defer cur.Close(ctx)

	var patients []domain.Patient
	for cur.Next(ctx) {
		var mp mongoPatient
		if err := cur.Decode(&mp); err != nil {
			return nil, 0, fmt.Errorf("decode patient: %w", err)
		}
		patients = append(patients, *mp.toDomain())
	}
	return patients, total, cur.Err()
}

// EnsureIndexes creates the per-clinic unique phone index that backs
// duplicate detection.
func (r *PatientRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "clinic_id", Value: 1}, {Key: "phone", Value: 1}}, Options: uniqueIndex()},
		{Keys: bson.D{{Key: "clinic_id", Value: 1}, {Key: "name", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
