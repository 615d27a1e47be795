// Package models defines the rows shared by the server, its repositories and
// the terminal client.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/certshowcase/internal/common"
)

// CertificationType classifies a record.
type CertificationType string

const (
	TypeCertification CertificationType = "certification"
	TypeBadge         CertificationType = "badge"
	TypeQualification CertificationType = "qualification"
)

// CertificationTypes lists the accepted types in display order.
var CertificationTypes = []CertificationType{TypeCertification, TypeBadge, TypeQualification}

func (t CertificationType) Valid() bool {
	switch t {
	case TypeCertification, TypeBadge, TypeQualification:
		return true
	}
	return false
}

// CertificationStatus tracks whether a record has been earned yet.
type CertificationStatus string

const (
	StatusCompleted  CertificationStatus = "completed"
	StatusInProgress CertificationStatus = "in_progress"
)

// CertificationStatuses lists the accepted statuses in display order.
var CertificationStatuses = []CertificationStatus{StatusCompleted, StatusInProgress}

func (s CertificationStatus) Valid() bool {
	return s == StatusCompleted || s == StatusInProgress
}

// Certification is a row of the certifications table.
type Certification struct {
	ID                 string              `json:"id"`
	Title              string              `json:"title"`
	Issuer             string              `json:"issuer"`
	Type               CertificationType   `json:"type"`
	Status             CertificationStatus `json:"status"`
	IssuedDate         *Date               `json:"issued_date"`
	ExpiresDate        *Date               `json:"expires_date"`
	Description        *string             `json:"description"`
	OfficialLink       *string             `json:"official_link"`
	CertificateFileURL *string             `json:"certificate_file_url"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// EffectiveDate is issued_date when present, otherwise created_at.
func (c *Certification) EffectiveDate() time.Time {
	if c.IssuedDate != nil {
		return c.IssuedDate.Time
	}
	return c.CreatedAt
}

// Input returns the editable fields of c, e.g. to prefill an edit form.
func (c *Certification) Input() CertificationInput {
	return CertificationInput{
		Title:              c.Title,
		Issuer:             c.Issuer,
		Type:               c.Type,
		Status:             c.Status,
		IssuedDate:         c.IssuedDate,
		ExpiresDate:        c.ExpiresDate,
		Description:        c.Description,
		OfficialLink:       c.OfficialLink,
		CertificateFileURL: c.CertificateFileURL,
	}
}

// CheckShape rejects rows that could not have come from the certifications
// table: missing identity or required text, or enum values outside the set.
func (c *Certification) CheckShape() error {
	switch {
	case c.ID == "":
		return fmt.Errorf("%w: certification without id", common.ErrUnexpectedShape)
	case c.Title == "" || c.Issuer == "":
		return fmt.Errorf("%w: certification %s without title or issuer", common.ErrUnexpectedShape, c.ID)
	case !c.Type.Valid():
		return fmt.Errorf("%w: certification %s has type %q", common.ErrUnexpectedShape, c.ID, c.Type)
	case !c.Status.Valid():
		return fmt.Errorf("%w: certification %s has status %q", common.ErrUnexpectedShape, c.ID, c.Status)
	}
	return nil
}

// CertificationInput carries the editable fields of a certification. Create
// and update both send the full set; update replaces every field.
type CertificationInput struct {
	Title              string              `json:"title" validate:"required"`
	Issuer             string              `json:"issuer" validate:"required"`
	Type               CertificationType   `json:"type" validate:"omitempty,oneof=certification badge qualification"`
	Status             CertificationStatus `json:"status" validate:"omitempty,oneof=completed in_progress"`
	IssuedDate         *Date               `json:"issued_date"`
	ExpiresDate        *Date               `json:"expires_date"`
	Description        *string             `json:"description"`
	OfficialLink       *string             `json:"official_link" validate:"omitempty,url"`
	CertificateFileURL *string             `json:"certificate_file_url" validate:"omitempty,url"`
}

// Normalize trims text, turns blank optional strings into nil and fills the
// default type and status.
func (in *CertificationInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Issuer = strings.TrimSpace(in.Issuer)
	if in.Type == "" {
		in.Type = TypeCertification
	}
	if in.Status == "" {
		in.Status = StatusCompleted
	}
	in.Description = blankToNil(in.Description)
	in.OfficialLink = blankToNil(in.OfficialLink)
	in.CertificateFileURL = blankToNil(in.CertificateFileURL)
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
