package doctor

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/careportal/internal/model"
	"github.com/jwalitptl/careportal/internal/repository"
	"github.com/jwalitptl/careportal/pkg/metrics"
)

type Service interface {
	Dashboard(ctx context.Context, doctorID string) (*model.DoctorView, error)
	ManagePatients(ctx context.Context, form *model.ManagePatientsForm) error
	UpdateRequestStatus(ctx context.Context, form *model.UpdateRequestStatusForm) error
	AddDistributor(ctx context.Context, distributor *model.Distributor) error
	ListDistributors(ctx context.Context) ([]*model.Distributor, error)
	ListPatients(ctx context.Context) ([]*model.Patient, error)
}

type service struct {
	repo    repository.RecordRepository
	metrics *metrics.Metrics
}

func NewService(repo repository.RecordRepository, m *metrics.Metrics) Service {
	return &service{repo: repo, metrics: m}
}

// Dashboard projects the doctor's patients and their requests. An id with no
// doctor record yields an empty view.
func (s *service) Dashboard(ctx context.Context, doctorID string) (*model.DoctorView, error) {
	view, err := s.repo.DoctorView(ctx, doctorID)
	if errors.Is(err, repository.ErrDoctorNotFound) {
		return &model.DoctorView{Doctor: model.Doctor{ID: doctorID}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build doctor view: %w", err)
	}
	return view, nil
}

// ManagePatients replaces the doctor's patient set with form.Patients.
func (s *service) ManagePatients(ctx context.Context, form *model.ManagePatientsForm) error {
	if err := s.repo.AssignPatientsToDoctor(ctx, form.DoctorID, form.Patients); err != nil {
		return err
	}

	s.metrics.PatientAssignments.Inc()
	log.Info().
		Str("doctor_id", form.DoctorID).
		Int("patients", len(form.Patients)).
		Msg("doctor patients replaced")
	return nil
}

func (s *service) UpdateRequestStatus(ctx context.Context, form *model.UpdateRequestStatusForm) error {
	if err := s.repo.SetRequestStatus(ctx, form.PatientName, form.RequestID, form.Status); err != nil {
		return err
	}

	s.metrics.RequestStatusUpdates.Inc()
	log.Info().
		Str("patient", form.PatientName).
		Str("request_id", form.RequestID).
		Str("status", form.Status).
		Msg("request status updated")
	return nil
}

func (s *service) AddDistributor(ctx context.Context, distributor *model.Distributor) error {
	if err := s.repo.AddDistributor(ctx, distributor); err != nil {
		return fmt.Errorf("failed to add distributor: %w", err)
	}
	s.metrics.Distributors.Inc()
	log.Info().Str("distributor", distributor.Name).Msg("distributor added")
	return nil
}

func (s *service) ListDistributors(ctx context.Context) ([]*model.Distributor, error) {
	return s.repo.ListDistributors(ctx)
}

func (s *service) ListPatients(ctx context.Context) ([]*model.Patient, error) {
	return s.repo.ListPatients(ctx)
}
