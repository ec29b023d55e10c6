package domain

import (
	"strings"
	"time"
)

type CourtType string

const (
	CourtCircuit     CourtType = "circuit"
	CourtMagisterial CourtType = "magisterial"
	CourtDepartment  CourtType = "department"
)

func (t CourtType) Valid() bool {
	switch t {
	case CourtCircuit, CourtMagisterial, CourtDepartment:
		return true
	}
	return false
}

// Court is one of three variants selected by Type. Only magisterial courts
// carry CircuitCourtID; use the New* constructors to build valid shapes.
type Court struct {
	ID             string    `gorm:"primaryKey;size:24" bson:"_id" json:"id"`
	Name           string    `gorm:"size:200;not null" bson:"name" json:"name"`
	Type           CourtType `gorm:"size:16;not null;index" bson:"type" json:"type"`
	Location       string    `gorm:"size:200" bson:"location" json:"location"`
	Address        string    `gorm:"size:300" bson:"address" json:"address"`
	ContactInfo    string    `gorm:"size:200" bson:"contact_info" json:"contactInfo"`
	Description    string    `gorm:"type:text" bson:"description" json:"description"`
	IsActive       bool      `gorm:"not null" bson:"is_active" json:"isActive"`
	CircuitCourtID *string   `gorm:"size:24;index" bson:"circuit_court_id,omitempty" json:"circuitCourtId,omitempty"`
	CreatedAt      time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updatedAt"`
}

func (Court) TableName() string { return "courts" }

type CourtDetails struct {
	Name        string
	Location    string
	Address     string
	ContactInfo string
	Description string
}

func newCourt(t CourtType, d CourtDetails) *Court {
	return &Court{
		Name:        strings.TrimSpace(d.Name),
		Type:        t,
		Location:    d.Location,
		Address:     d.Address,
		ContactInfo: d.ContactInfo,
		Description: d.Description,
		IsActive:    true,
	}
}

func NewCircuitCourt(d CourtDetails) *Court { return newCourt(CourtCircuit, d) }

func NewDepartment(d CourtDetails) *Court { return newCourt(CourtDepartment, d) }

func NewMagisterialCourt(circuitID string, d CourtDetails) *Court {
	c := newCourt(CourtMagisterial, d)
	c.CircuitCourtID = &circuitID
	return c
}

// Validate checks the variant shape. It does not check that the parent
// circuit exists; that needs the store.
func (c *Court) Validate() error {
	if c.Name == "" {
		return Validation("Court name is required")
	}
	if !c.Type.Valid() {
		return Validation("Invalid court type")
	}
	switch c.Type {
	case CourtMagisterial:
		if c.CircuitCourtID == nil || !ValidID(*c.CircuitCourtID) {
			return Validation("Invalid circuit court")
		}
	default:
		if c.CircuitCourtID != nil {
			return Validation("Only magisterial courts reference a circuit court")
		}
	}
	return nil
}

// CourtRef is the expanded form of a court reference.
type CourtRef struct {
	ID   string    `json:"id"`
	Name string    `json:"name"`
	Type CourtType `json:"type"`
}

func (c *Court) Ref() *CourtRef {
	return &CourtRef{ID: c.ID, Name: c.Name, Type: c.Type}
}

// CourtPatch carries optional field updates; nil fields are left alone.
type CourtPatch struct {
	Name        *string
	Location    *string
	Address     *string
	ContactInfo *string
	Description *string
}

func (p CourtPatch) Apply(c *Court) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&c.Name, p.Name)
	set(&c.Location, p.Location)
	set(&c.Address, p.Address)
	set(&c.ContactInfo, p.ContactInfo)
	set(&c.Description, p.Description)
}

type CourtFilter struct {
	IDs            []string
	Type           CourtType
	CircuitCourtID string
	ActiveOnly     bool
}

// CourtSummary is a court listing row with its staff headcount.
type CourtSummary struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	CircuitCourt   *string `json:"circuitCourt,omitempty"`
	CircuitCourtID *string `json:"circuitCourtId,omitempty"`
	StaffCount     int64   `json:"staffCount"`
}

// CourtView is a court with its parent circuit expanded.
type CourtView struct {
	Court
	CircuitCourt *CourtRef `json:"circuitCourt,omitempty"`
}
