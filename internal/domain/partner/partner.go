package partner

import (
	"net/mail"
	"strings"

	"github.com/erp/tilestock/internal/domain/shared"
)

// ContactInfo holds the contact attributes shared by customers and suppliers
type ContactInfo struct {
	Name    string `gorm:"type:varchar(200);not null"`
	Email   string `gorm:"type:varchar(200);index"`
	Phone   string `gorm:"type:varchar(50)"`
	Address string `gorm:"type:text"`
}

func (c ContactInfo) normalize() ContactInfo {
	return ContactInfo{
		Name:    strings.TrimSpace(c.Name),
		Email:   strings.TrimSpace(c.Email),
		Phone:   strings.TrimSpace(c.Phone),
		Address: strings.TrimSpace(c.Address),
	}
}

func (c ContactInfo) validate(kind string) shared.ValidationErrors {
	var errs shared.ValidationErrors
	if c.Name == "" {
		errs.Add("name", kind+" name cannot be empty")
	} else if len(c.Name) > 200 {
		errs.Add("name", kind+" name cannot exceed 200 characters")
	}
	if c.Email != "" {
		if _, err := mail.ParseAddress(c.Email); err != nil {
			errs.Add("email", "Invalid email format")
		}
	}
	if len(c.Phone) > 50 {
		errs.Add("phone", "Phone cannot exceed 50 characters")
	}
	return errs
}

// Customer buys tiles through sales orders
type Customer struct {
	shared.BaseAggregateRoot
	ContactInfo
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer
func NewCustomer(info ContactInfo) (*Customer, error) {
	c := &Customer{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	if err := c.Update(info); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the customer's contact details
func (c *Customer) Update(info ContactInfo) error {
	info = info.normalize()
	if err := info.validate("Customer").OrNil(); err != nil {
		return err
	}
	c.ContactInfo = info
	c.Touch()
	return nil
}

// Supplier sells tiles to us through purchase orders
type Supplier struct {
	shared.BaseAggregateRoot
	ContactInfo
	ContactPerson string `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new supplier
func NewSupplier(info ContactInfo, contactPerson string) (*Supplier, error) {
	s := &Supplier{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	if err := s.Update(info, contactPerson); err != nil {
		return nil, err
	}
	return s, nil
}

// Update replaces the supplier's contact details
func (s *Supplier) Update(info ContactInfo, contactPerson string) error {
	info = info.normalize()
	errs := info.validate("Supplier")
	contactPerson = strings.TrimSpace(contactPerson)
	if len(contactPerson) > 100 {
		errs.Add("contact_person", "Contact person cannot exceed 100 characters")
	}
	if err := errs.OrNil(); err != nil {
		return err
	}
	s.ContactInfo = info
	s.ContactPerson = contactPerson
	s.Touch()
	return nil
}
