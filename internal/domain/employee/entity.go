package employee

import "time"

type Employee struct {
	ID           string
	FacilityID   string
	ShiftID      *string
	StaffID      string
	FirstName    string
	LastName     string
	Email        *string
	DeviceID     *string
	CardID       *string
	ProfileImage *string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (e Employee) FullName() string {
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}
