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

const collectionAppointments = "appointments"

type AppointmentRepository struct {
	col *mongo.Collection
}

func NewAppointmentRepository(db *mongo.Database) *AppointmentRepository {
	return &AppointmentRepository{col: db.Collection(collectionAppointments)}
}

// mongoAppointment stores the duration in minutes; time.Duration nanoseconds
// are an implementation detail that shouldn't leak into documents.
type mongoAppointment struct {
	ID          string    `bson:"_id"`
	ClinicID    string    `bson:"clinic_id"`
	PatientID   string    `bson:"patient_id"`
	DoctorID    string    `bson:"doctor_id,omitempty"`
	StartsAt    time.Time `bson:"starts_at"`
	DurationMin int64     `bson:"duration_min"`
	Status      string    `bson:"status"`
	Notes       string    `bson:"notes,omitempty"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func toMongoAppointment(a *domain.Appointment) mongoAppointment {
	return mongoAppointment{
		ID:          a.ID,
		ClinicID:    a.ClinicID,
		PatientID:   a.PatientID,
		DoctorID:    a.DoctorID,
		StartsAt:    a.StartsAt,
		DurationMin: int64(a.Duration / time.Minute),
		Status:      string(a.Status),
		Notes:       a.Notes,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func (m mongoAppointment) toDomain() *domain.Appointment {
	return &domain.Appointment{
		ID:        m.ID,
		ClinicID:  m.ClinicID,
		PatientID: m.PatientID,
		DoctorID:  m.DoctorID,
		StartsAt:  m.StartsAt,
		Duration:  time.Duration(m.DurationMin) * time.Minute,
		Status:    domain.AppointmentStatus(m.Status),
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (r *AppointmentRepository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, toMongoAppointment(appt)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAppointmentConflict
		}
		return nil, fmt.Errorf("insert appointment: %w", err)
	}
	return appt, nil
}

func (r *AppointmentRepository) FindByID(ctx context.Context, clinicID, id string) (*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := tenantFilter(clinicID)
	filter["_id"] = id

	var ma mongoAppointment
	if err := r.col.FindOne(ctx, filter).Decode(&ma); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("find appointment: %w", err)
	}
	return ma.toDomain(), nil
}

func (r *AppointmentRepository) Update(ctx context.Context, appt *domain.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": appt.ID, "clinic_id": appt.ClinicID}
	res, err := r.col.ReplaceOne(ctx, filter, toMongoAppointment(appt))
	if err != nil {
		return fmt.Errorf("update appointment: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAppointmentNotFound
	}
	return nil
}

func (r *AppointmentRepository) Delete(ctx context.Context, clinicID, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := tenantFilter(clinicID)
	filter["_id"] = id

	res, err := r.col.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAppointmentNotFound
	}
	return nil
}

func (r *AppointmentRepository) List(ctx context.Context, clinicID string, from, to time.Time, page, limit int) ([]domain.Appointment, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := windowFilter(clinicID, from, to)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count appointments: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "starts_at", Value: 1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	appts, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return appts, total, nil
}

func (r *AppointmentRepository) ListWindow(ctx context.Context, clinicID string, from, to time.Time) ([]domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "starts_at", Value: 1}})
	return r.find(ctx, windowFilter(clinicID, from, to), opts)
}

func (r *AppointmentRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Appointment, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer cur.Close(ctx)

	var appts []domain.Appointment
	for cur.Next(ctx) {
		var ma mongoAppointment
		if err := cur.Decode(&ma); err != nil {
			return nil, fmt.Errorf("decode appointment: %w", err)
		}
		appts = append(appts, *ma.toDomain())
	}
	return appts, cur.Err()
}

// windowFilter matches appointments starting inside [from, to). Zero bounds
// leave that side open.
func windowFilter(clinicID string, from, to time.Time) bson.M {
	filter := tenantFilter(clinicID)
	window := bson.M{}
	if !from.IsZero() {
		window["$gte"] = from
	}
	if !to.IsZero() {
		window["$lt"] = to
	}
	if len(window) > 0 {
		filter["starts_at"] = window
	}
	return filter
}

func (r *AppointmentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "clinic_id", Value: 1}, {Key: "starts_at", Value: 1}}},
		{Keys: bson.D{{Key: "patient_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
