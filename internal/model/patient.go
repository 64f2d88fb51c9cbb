package model

type Patient struct {
	Base
	Name        string `db:"name" json:"name"`
	DateOfBirth string `db:"date_of_birth" json:"date_of_birth"`
	Address     string `db:"address" json:"address"`
	ContactNo   string `db:"contact_no" json:"contact_no"`
	Email       string `db:"email" json:"email"`
}

type CreatePatientRequest struct {
	Name        string `json:"name" binding:"required"`
	DateOfBirth string `json:"date_of_birth" binding:"required"`
	Address     string `json:"address" binding:"required"`
	ContactNo   string `json:"contact_no" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
}

type UpdatePatientRequest struct {
	Name        *string `json:"name"`
	DateOfBirth *string `json:"date_of_birth"`
	Address     *string `json:"address"`
	ContactNo   *string `json:"contact_no"`
	Email       *string `json:"email" binding:"omitempty,email"`
}
