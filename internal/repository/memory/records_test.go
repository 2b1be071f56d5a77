package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/careportal/internal/model"
	"github.com/jwalitptl/careportal/internal/repository"
)

func TestUpsertRefillRequest(t *testing.T) {
	ctx := context.Background()
	store := NewRecordRepository()

	first, err := store.UpsertRefillRequest(ctx, "Alice", "Ibuprofen", "2", "DistroCo")
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusNotSeen, first.Status)
	assert.NotEmpty(t, first.ID)

	patients, err := store.ListPatients(ctx)
	require.NoError(t, err)
	require.Len(t, patients, 1)
	require.Len(t, patients[0].Requests, 1)
	assert.Equal(t, "Ibuprofen", patients[0].Requests[0].Prescription)
	assert.Equal(t, "2", patients[0].Requests[0].Quantity)
	assert.Equal(t, "DistroCo", patients[0].Requests[0].Distributor)

	second, err := store.UpsertRefillRequest(ctx, "Alice", "Amoxicillin", "1", "DistroCo")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	patients, err = store.ListPatients(ctx)
	require.NoError(t, err)
	require.Len(t, patients, 1)
	assert.Len(t, patients[0].Requests, 2)
	assert.Equal(t, "Amoxicillin", patients[0].Requests[1].Prescription)
}

func TestUpsertHealthRecordOverwrites(t *testing.T) {
	ctx := context.Background()
	store := NewRecordRepository()

	require.NoError(t, store.UpsertHealthRecord(ctx, "Bob", model.HealthRecord{
		Age:       "40",
		Weight:    "80",
		Allergies: "penicillin",
	}))
	require.NoError(t, store.UpsertHealthRecord(ctx, "Bob", model.HealthRecord{
		Height: "180",
		Gender: "male",
	}))

	p, err := store.GetPatient(ctx, "Bob")
	require.NoError(t, err)
	assert.Equal(t, model.HealthRecord{Height: "180", Gender: "male"}, p.HealthRecord)
	assert.Empty(t, p.Requests)
}

func TestGetPatientReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewRecordRepository()
	_, err := store.UpsertRefillRequest(ctx, "Alice", "Ibuprofen", "2", "DistroCo")
	require.NoError(t, err)

	p, err := store.GetPatient(ctx, "Alice")
	require.NoError(t, err)
	p.Requests[0].Status = "tampered"
	p.HealthRecord.Age = "99"

	again, err := store.GetPatient(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusNotSeen, again.Requests[0].Status)
	assert.Empty(t, again.HealthRecord.Age)
}

func TestSetRequestStatus(t *testing.T) {
	ctx := context.Background()
	store := NewRecordRepository()
	req, err := store.UpsertRefillRequest(ctx, "Alice", "Ibuprofen", "2", "DistroCo")
	require.NoError(t, err)

	t.Run("unknown patient", func(t *testing.T) {
		err := store.SetRequestStatus(ctx, "Nobody", req.ID, "Approved")
		assert.ErrorIs(t, err, repository.ErrPatientNotFound)
	})

	t.Run("unknown request", func(t *testing.T) {
		err := store.SetRequestStatus(ctx, "Alice", "missing", "Approved")
		assert.ErrorIs(t, err, repository.ErrRequestNotFound)
	})

	t.Run("updates in place", func(t *testing.T) {
		require.NoError(t, store.SetRequestStatus(ctx, "Alice", req.ID, "Approved"))
		p, err := store.GetPatient(ctx, "Alice")
		require.NoError(t, err)
		assert.Equal(t, "Approved", p.Requests[0].Status)
	})
}

func TestAssignPatientsToDoctor(t *testing.T) {
	ctx := context.Background()
	store := NewRecordRepository()
	require.NoError(t, store.CreateDoctor(ctx, &model.Doctor{ID: "doc-1", Name: "Dr. House"}))
	_, err := store.UpsertRefillRequest(ctx, "Alice", "Ibuprofen", "2", "DistroCo")
	require.NoError(t, err)
	_, err = store.UpsertRefillRequest(ctx, "Bob", "Insulin", "5", "MedSupply")
	require.NoError(t, err)

	t.Run("unknown doctor leaves data unchanged", func(t *testing.T) {
		before, err := store.ListPatients(ctx)
		require.NoError(t, err)

		err = store.AssignPatientsToDoctor(ctx, "doc-404", []string{"Alice"})
		assert.ErrorIs(t, err, repository.ErrDoctorNotFound)

		after, err := store.ListPatients(ctx)
		require.NoError(t, err)
		assert.Equal(t, before, after)

		d, err := store.GetDoctor(ctx, "doc-1")
		require.NoError(t, err)
		assert.Empty(t, d.Patients)
	})

	t.Run("replaces the set and keeps unresolved slots", func(t *testing.T) {
		require.NoError(t, store.AssignPatientsToDoctor(ctx, "doc-1", []string{"Alice", "Ghost"}))
		require.NoError(t, store.AssignPatientsToDoctor(ctx, "doc-1", []string{"Bob", "Ghost"}))

		d, err := store.GetDoctor(ctx, "doc-1")
		require.NoError(t, err)
		require.Len(t, d.Patients, 2)
		assert.Nil(t, d.Patients[1])
		assert.Equal(t, []string{"Bob"}, d.AssignedNames())
	})

	t.Run("patient created after assignment stays unresolved", func(t *testing.T) {
		_, err := store.UpsertRefillRequest(ctx, "Ghost", "Vitamin D", "1", "DistroCo")
		require.NoError(t, err)

		view, err := store.DoctorView(ctx, "doc-1")
		require.NoError(t, err)
		assert.Equal(t, 1, view.UnresolvedPatients)
		require.Len(t, view.Patients, 1)
		assert.Equal(t, "Bob", view.Patients[0].Name)
	})
}

func TestDoctorViewIncludesPatientWithEmptyName(t *testing.T) {
	ctx := context.Background()
	store := NewRecordRepository()
	require.NoError(t, store.CreateDoctor(ctx, &model.Doctor{ID: "doc-1", Name: "Dr. Grey"}))
	_, err := store.UpsertRefillRequest(ctx, "", "Ibuprofen", "2", "DistroCo")
	require.NoError(t, err)
	require.NoError(t, store.AssignPatientsToDoctor(ctx, "doc-1", []string{"", "Ghost"}))

	view, err := store.DoctorView(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, 1, view.UnresolvedPatients)
	require.Len(t, view.Patients, 1)
	assert.Equal(t, "", view.Patients[0].Name)
	require.Len(t, view.Requests, 1)
	assert.Equal(t, "Ibuprofen", view.Requests[0].Prescription)
	assert.Equal(t, []string{""}, view.Doctor.AssignedNames())
}

func TestDoctorViewFlattensRequests(t *testing.T) {
	ctx := context.Background()
	store := NewRecordRepository()
	require.NoError(t, store.CreateDoctor(ctx, &model.Doctor{ID: "doc-1", Name: "Dr. Grey"}))
	_, err := store.UpsertRefillRequest(ctx, "Alice", "Ibuprofen", "2", "DistroCo")
	require.NoError(t, err)
	_, err = store.UpsertRefillRequest(ctx, "Alice", "Aspirin", "1", "DistroCo")
	require.NoError(t, err)
	_, err = store.UpsertRefillRequest(ctx, "Bob", "Insulin", "5", "MedSupply")
	require.NoError(t, err)
	_, err = store.UpsertRefillRequest(ctx, "Carol", "Statin", "3", "MedSupply")
	require.NoError(t, err)
	require.NoError(t, store.AssignPatientsToDoctor(ctx, "doc-1", []string{"Alice", "Bob"}))

	view, err := store.DoctorView(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "Dr. Grey", view.Doctor.Name)
	assert.Len(t, view.Patients, 2)
	require.Len(t, view.Requests, 3)

	owners := []string{view.Requests[0].PatientName, view.Requests[1].PatientName, view.Requests[2].PatientName}
	assert.Equal(t, []string{"Alice", "Alice", "Bob"}, owners)
	assert.Equal(t, "Insulin", view.Requests[2].Prescription)

	_, err = store.DoctorView(ctx, "doc-404")
	assert.ErrorIs(t, err, repository.ErrDoctorNotFound)
}

func TestAddDistributorAppendsWithoutDedup(t *testing.T) {
	ctx := context.Background()
	store := NewRecordRepository()
	d := &model.Distributor{Name: "DistroCo", Phone: "555-0100"}

	require.NoError(t, store.AddDistributor(ctx, d))
	require.NoError(t, store.AddDistributor(ctx, d))

	list, err := store.ListDistributors(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, *d, *list[0])
	assert.Equal(t, *d, *list[1])
}

func TestConcurrentRefillRequests(t *testing.T) {
	ctx := context.Background()
	store := NewRecordRepository()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := store.UpsertRefillRequest(ctx, "Alice", fmt.Sprintf("rx-%d", i), "1", "DistroCo")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	p, err := store.GetPatient(ctx, "Alice")
	require.NoError(t, err)
	assert.Len(t, p.Requests, 50)

	patients, err := store.ListPatients(ctx)
	require.NoError(t, err)
	assert.Len(t, patients, 1)
}
