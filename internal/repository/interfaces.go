package repository

import (
	"context"

	"github.com/jwalitptl/careportal/internal/model"
	apperrors "github.com/jwalitptl/careportal/pkg/errors"
)

var (
	ErrUserNotFound    = apperrors.NewNotFound("user", nil)
	ErrDoctorNotFound  = apperrors.NewNotFound("doctor", nil)
	ErrPatientNotFound = apperrors.NewNotFound("patient", nil)
	ErrRequestNotFound = apperrors.NewNotFound("request", nil)
)

// All repository interfaces in one file
type (
	// UserRepository is the credential store.
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id string) (*model.User, error)
		// GetByEmail returns the first user registered with email.
		GetByEmail(ctx context.Context, email string) (*model.User, error)
	}

	DoctorRepository interface {
		CreateDoctor(ctx context.Context, doctor *model.Doctor) error
		GetDoctor(ctx context.Context, id string) (*model.Doctor, error)
		AssignPatientsToDoctor(ctx context.Context, doctorID string, patientNames []string) error
		DoctorView(ctx context.Context, doctorID string) (*model.DoctorView, error)
	}

	PatientRepository interface {
		UpsertRefillRequest(ctx context.Context, patientName, prescription, quantity, distributor string) (*model.RefillRequest, error)
		UpsertHealthRecord(ctx context.Context, patientName string, record model.HealthRecord) error
		SetRequestStatus(ctx context.Context, patientName, requestID, status string) error
		GetPatient(ctx context.Context, name string) (*model.Patient, error)
		ListPatients(ctx context.Context) ([]*model.Patient, error)
	}

	DistributorRepository interface {
		AddDistributor(ctx context.Context, distributor *model.Distributor) error
		ListDistributors(ctx context.Context) ([]*model.Distributor, error)
	}

	// RecordRepository is the domain record store: patients, doctors and
	// distributors behind one owner.
	RecordRepository interface {
		DoctorRepository
		PatientRepository
		DistributorRepository
	}
)
