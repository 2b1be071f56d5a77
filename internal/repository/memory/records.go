package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/careportal/internal/model"
	"github.com/jwalitptl/careportal/internal/repository"
)

// recordStore owns patients, doctors and distributors. A single lock guards
// all three so multi-collection reads like DoctorView see one snapshot.
type recordStore struct {
	mu           sync.RWMutex
	patients     []*model.Patient
	doctors      []*model.Doctor
	distributors []model.Distributor
	now          func() time.Time
}

// NewRecordRepository returns an empty in-memory domain record store.
func NewRecordRepository() repository.RecordRepository {
	return &recordStore{now: time.Now}
}

// findPatient must be called with mu held.
func (s *recordStore) findPatient(name string) *model.Patient {
	for _, p := range s.patients {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// findOrCreatePatient must be called with mu held for writing.
func (s *recordStore) findOrCreatePatient(name string) *model.Patient {
	if p := s.findPatient(name); p != nil {
		return p
	}
	p := &model.Patient{Name: name, CreatedAt: s.now()}
	s.patients = append(s.patients, p)
	return p
}

func (s *recordStore) findDoctor(id string) *model.Doctor {
	for _, d := range s.doctors {
		if d.ID == id {
			return d
		}
	}
	return nil
}

func (s *recordStore) UpsertRefillRequest(ctx context.Context, patientName, prescription, quantity, distributor string) (*model.RefillRequest, error) {
	req := model.RefillRequest{
		ID:           uuid.NewString(),
		Prescription: prescription,
		Quantity:     quantity,
		Distributor:  distributor,
		Status:       model.RequestStatusNotSeen,
		CreatedAt:    s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findOrCreatePatient(patientName)
	p.Requests = append(p.Requests, req)
	return &req, nil
}

func (s *recordStore) UpsertHealthRecord(ctx context.Context, patientName string, record model.HealthRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.findOrCreatePatient(patientName).HealthRecord = record
	return nil
}

func (s *recordStore) SetRequestStatus(ctx context.Context, patientName, requestID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findPatient(patientName)
	if p == nil {
		return repository.ErrPatientNotFound
	}
	for i := range p.Requests {
		if p.Requests[i].ID == requestID {
			p.Requests[i].Status = status
			return nil
		}
	}
	return repository.ErrRequestNotFound
}

func (s *recordStore) GetPatient(ctx context.Context, name string) (*model.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := s.findPatient(name)
	if p == nil {
		return nil, repository.ErrPatientNotFound
	}
	return p.Clone(), nil
}

func (s *recordStore) ListPatients(ctx context.Context) ([]*model.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Patient, 0, len(s.patients))
	for _, p := range s.patients {
		out = append(out, p.Clone())
	}
	return out, nil
}

func (s *recordStore) CreateDoctor(ctx context.Context, doctor *model.Doctor) error {
	cp := doctor.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doctors = append(s.doctors, cp)
	return nil
}

func (s *recordStore) GetDoctor(ctx context.Context, id string) (*model.Doctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d := s.findDoctor(id)
	if d == nil {
		return nil, repository.ErrDoctorNotFound
	}
	return d.Clone(), nil
}

// AssignPatientsToDoctor replaces the doctor's patient set. Names that do not
// match a patient are kept as nil slots rather than rejected.
func (s *recordStore) AssignPatientsToDoctor(ctx context.Context, doctorID string, patientNames []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.findDoctor(doctorID)
	if d == nil {
		return repository.ErrDoctorNotFound
	}

	resolved := make([]*string, 0, len(patientNames))
	for _, name := range patientNames {
		var slot *string
		if p := s.findPatient(name); p != nil {
			n := p.Name
			slot = &n
		}
		resolved = append(resolved, slot)
	}
	d.Patients = resolved
	return nil
}

func (s *recordStore) DoctorView(ctx context.Context, doctorID string) (*model.DoctorView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d := s.findDoctor(doctorID)
	if d == nil {
		return nil, repository.ErrDoctorNotFound
	}

	view := &model.DoctorView{
		Doctor:   *d.Clone(),
		Patients: []model.Patient{},
		Requests: []model.DoctorRequest{},
	}
	for _, name := range d.Patients {
		if name == nil {
			view.UnresolvedPatients++
			continue
		}
		p := s.findPatient(*name)
		if p == nil {
			view.UnresolvedPatients++
			continue
		}
		view.Patients = append(view.Patients, *p.Clone())
		for _, req := range p.Requests {
			view.Requests = append(view.Requests, model.DoctorRequest{
				PatientName:   p.Name,
				RefillRequest: req,
			})
		}
	}
	return view, nil
}

func (s *recordStore) AddDistributor(ctx context.Context, distributor *model.Distributor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.distributors = append(s.distributors, *distributor)
	return nil
}

func (s *recordStore) ListDistributors(ctx context.Context) ([]*model.Distributor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Distributor, 0, len(s.distributors))
	for i := range s.distributors {
		d := s.distributors[i]
		out = append(out, &d)
	}
	return out, nil
}
