package models

import "time"

// Address types. Free-text beyond these is rejected at validation.
const (
	AddressTypeHome   = "HOME"
	AddressTypeOffice = "OFFICE"
	AddressTypeOther  = "OTHER"
)

// Address is a saved delivery address. Addresses are replaced, never
// mutated in place; at most one address per user carries IsDefault.
type Address struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	UserID       string    `json:"user_id" gorm:"index;type:varchar(64)"`
	Name         string    `json:"name" validate:"required,min=2,max=100"`
	Phone        string    `json:"phone" validate:"required,min=10,max=15"`
	AddressLine1 string    `json:"address_line1" validate:"required,max=200"`
	AddressLine2 string    `json:"address_line2" validate:"omitempty,max=200"`
	Landmark     string    `json:"landmark" validate:"omitempty,max=100"`
	City         string    `json:"city" validate:"required,max=100"`
	State        string    `json:"state" validate:"required,max=100"`
	Pincode      string    `json:"pincode" validate:"required,len=6,numeric"`
	AddressType  string    `json:"address_type" validate:"required,oneof=HOME OFFICE OTHER"`
	IsDefault    bool      `json:"is_default"`
	CreatedAt    time.Time `json:"created_at"`
}
