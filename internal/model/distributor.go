package model

// Distributor is a pharmacy distributor contact. There is no identity key.
type Distributor struct {
	Name          string `json:"name" form:"name"`
	Address       string `json:"address" form:"address"`
	Phone         string `json:"phone" form:"phone"`
	Email         string `json:"email" form:"email"`
	ContactPerson string `json:"contact_person" form:"contactPerson"`
}
