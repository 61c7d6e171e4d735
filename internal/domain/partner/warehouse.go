package partner

import (
	"strings"

	"github.com/erp/tilestock/internal/domain/shared"
)

// Warehouse is a stock location
type Warehouse struct {
	shared.BaseAggregateRoot
	Code     string `gorm:"type:varchar(20);not null;uniqueIndex"`
	Name     string `gorm:"type:varchar(100);not null"`
	Address  string `gorm:"type:text"`
	IsActive bool   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Warehouse) TableName() string {
	return "warehouses"
}

// NewWarehouse creates a new active warehouse
func NewWarehouse(code, name, address string) (*Warehouse, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	var errs shared.ValidationErrors
	if code == "" {
		errs.Add("code", "Warehouse code cannot be empty")
	} else if len(code) > 20 {
		errs.Add("code", "Warehouse code cannot exceed 20 characters")
	}
	w := &Warehouse{BaseAggregateRoot: shared.NewBaseAggregateRoot(), Code: code, IsActive: true}
	if err := w.update(name, address, true, errs); err != nil {
		return nil, err
	}
	return w, nil
}

// Update replaces the warehouse's details
func (w *Warehouse) Update(name, address string, isActive bool) error {
	return w.update(name, address, isActive, nil)
}

func (w *Warehouse) update(name, address string, isActive bool, errs shared.ValidationErrors) error {
	name = strings.TrimSpace(name)
	if name == "" {
		errs.Add("name", "Warehouse name cannot be empty")
	} else if len(name) > 100 {
		errs.Add("name", "Warehouse name cannot exceed 100 characters")
	}
	if err := errs.OrNil(); err != nil {
		return err
	}
	w.Name = name
	w.Address = strings.TrimSpace(address)
	w.IsActive = isActive
	w.Touch()
	return nil
}

// EnsureActive returns an error when stock may not be moved through the warehouse
func (w *Warehouse) EnsureActive() error {
	if !w.IsActive {
		return shared.NewDomainError("WAREHOUSE_INACTIVE", "Warehouse "+w.Code+" is not active")
	}
	return nil
}
