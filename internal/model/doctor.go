package model

type Shift string

const (
	ShiftDay     Shift = "day"
	ShiftEvening Shift = "evening"
)

type Doctor struct {
	Base
	Name             string   `db:"name" json:"name"`
	Email            string   `db:"email" json:"email"`
	ContactNo        string   `db:"contact_no" json:"contact_no"`
	Specialization   string   `db:"specialization" json:"specialization"`
	Shift            Shift    `db:"shift" json:"shift"`
	UnavailableJSON  string   `db:"unavailable_dates" json:"-"`
	UnavailableDates []string `json:"unavailable_dates"`
}

// Unavailable reports whether the doctor is marked off on the given
// calendar date ("YYYY-MM-DD").
func (d *Doctor) Unavailable(date string) bool {
	for _, u := range d.UnavailableDates {
		if u == date {
			return true
		}
	}
	return false
}

type CreateDoctorRequest struct {
	Name             string   `json:"name" binding:"required"`
	Email            string   `json:"email" binding:"required,email"`
	Password         string   `json:"password" binding:"required,min=8"`
	ContactNo        string   `json:"contact_no" binding:"required"`
	Specialization   string   `json:"specialization" binding:"required"`
	Shift            Shift    `json:"shift" binding:"required,oneof=day evening"`
	UnavailableDates []string `json:"unavailable_dates"`
}

type UpdateDoctorRequest struct {
	Name             *string   `json:"name"`
	Email            *string   `json:"email" binding:"omitempty,email"`
	ContactNo        *string   `json:"contact_no"`
	Specialization   *string   `json:"specialization"`
	Shift            *Shift    `json:"shift" binding:"omitempty,oneof=day evening"`
	UnavailableDates *[]string `json:"unavailable_dates"`
}

// DoctorWithRating is the booking-step listing: the doctor plus the mean
// of all submitted star ratings. HasRatings distinguishes "no ratings"
// from a genuine zero.
type DoctorWithRating struct {
	Doctor
	AverageRating float64 `json:"average_rating"`
	HasRatings    bool    `json:"has_ratings"`
}
