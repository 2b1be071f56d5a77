package patient

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/careportal/internal/model"
	"github.com/jwalitptl/careportal/internal/repository"
	"github.com/jwalitptl/careportal/pkg/metrics"
)

type PatientService interface {
	RequestRefill(ctx context.Context, form *model.RefillRequestForm) (*model.RefillRequest, error)
	UpdateHealthRecord(ctx context.Context, form *model.HealthRecordForm) error
	Dashboard(ctx context.Context, name string) (*model.Patient, error)
	ListDistributors(ctx context.Context) ([]*model.Distributor, error)
}

type Service struct {
	repo    repository.RecordRepository
	metrics *metrics.Metrics
}

func NewService(repo repository.RecordRepository, m *metrics.Metrics) *Service {
	return &Service{
		repo:    repo,
		metrics: m,
	}
}

// RequestRefill appends a "Not Seen" request to the named patient, creating
// the patient on first use. Prescription and quantity are stored as given.
func (s *Service) RequestRefill(ctx context.Context, form *model.RefillRequestForm) (*model.RefillRequest, error) {
	req, err := s.repo.UpsertRefillRequest(ctx, form.PatientName, form.Prescription, form.Quantity, form.Distributor)
	if err != nil {
		return nil, fmt.Errorf("failed to add refill request: %w", err)
	}

	s.metrics.RefillRequests.Inc()
	log.Info().
		Str("patient", form.PatientName).
		Str("request_id", req.ID).
		Msg("refill requested")
	return req, nil
}

// UpdateHealthRecord replaces the patient's health record wholesale.
func (s *Service) UpdateHealthRecord(ctx context.Context, form *model.HealthRecordForm) error {
	if err := s.repo.UpsertHealthRecord(ctx, form.PatientName, form.HealthRecord); err != nil {
		return fmt.Errorf("failed to update health record: %w", err)
	}

	s.metrics.HealthRecordUpdates.Inc()
	log.Info().Str("patient", form.PatientName).Msg("health record updated")
	return nil
}

// Dashboard returns the patient record shown to a logged-in patient. A name
// with no record yet gets an empty patient rather than an error.
func (s *Service) Dashboard(ctx context.Context, name string) (*model.Patient, error) {
	p, err := s.repo.GetPatient(ctx, name)
	if errors.Is(err, repository.ErrPatientNotFound) {
		return &model.Patient{Name: name}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return p, nil
}

func (s *Service) ListDistributors(ctx context.Context) ([]*model.Distributor, error) {
	return s.repo.ListDistributors(ctx)
}
