package model

// Doctor mirrors a doctor user. Patients holds the names assigned by the last
// "manage patients" call; a nil entry marks a name that did not resolve to a
// patient at assignment time.
type Doctor struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Patients []*string `json:"patients"`
}

// AssignedNames returns the resolved patient names, skipping nil slots.
func (d Doctor) AssignedNames() []string {
	names := make([]string, 0, len(d.Patients))
	for _, name := range d.Patients {
		if name != nil {
			names = append(names, *name)
		}
	}
	return names
}

// Clone copies the doctor, including the slot pointers' targets.
func (d *Doctor) Clone() *Doctor {
	cp := *d
	if d.Patients != nil {
		cp.Patients = make([]*string, len(d.Patients))
		for i, name := range d.Patients {
			if name != nil {
				n := *name
				cp.Patients[i] = &n
			}
		}
	}
	return &cp
}

// ManagePatientsForm replaces a doctor's patient set.
type ManagePatientsForm struct {
	DoctorID string   `form:"doctorId"`
	Patients []string `form:"patients"`
}

// UpdateRequestStatusForm changes the status of one refill request.
type UpdateRequestStatusForm struct {
	PatientName string `form:"patientName" binding:"required"`
	RequestID   string `form:"requestId" binding:"required"`
	Status      string `form:"status"`
}

// DoctorRequest is a refill request annotated with its owner, for display.
type DoctorRequest struct {
	PatientName string `json:"patient_name"`
	RefillRequest
}

// DoctorView is the read projection behind the doctor dashboard.
type DoctorView struct {
	Doctor             Doctor          `json:"doctor"`
	Patients           []Patient       `json:"patients"`
	Requests           []DoctorRequest `json:"requests"`
	UnresolvedPatients int             `json:"unresolved_patients"`
}
