package admin

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/certshowcase/internal/common"
	"github.com/dmitrijs2005/certshowcase/internal/filex"
	"github.com/dmitrijs2005/certshowcase/internal/models"
)

// AcceptedExtensions are the attachment types the form lets through.
var AcceptedExtensions = []string{".pdf", ".jpg", ".jpeg", ".png"}

// Form is the create/edit form. Dates are "YYYY-MM-DD" or empty; FilePath
// names a local file to attach.
type Form struct {
	Title        string                     `validate:"required"`
	Issuer       string                     `validate:"required"`
	Type         models.CertificationType   `validate:"required,oneof=certification badge qualification"`
	Status       models.CertificationStatus `validate:"required,oneof=completed in_progress"`
	IssuedDate   string                     `validate:"omitempty,datetime=2006-01-02"`
	ExpiresDate  string                     `validate:"omitempty,datetime=2006-01-02"`
	Description  string
	OfficialLink string `validate:"omitempty,url"`
	FilePath     string
}

// NewForm returns an empty form with the default type and status selected.
func NewForm() Form {
	return Form{Type: models.TypeCertification, Status: models.StatusCompleted}
}

// FormFrom prefills a form with c for editing.
func FormFrom(c *models.Certification) Form {
	in := c.Input()
	f := Form{
		Title:        in.Title,
		Issuer:       in.Issuer,
		Type:         in.Type,
		Status:       in.Status,
		Description:  deref(in.Description),
		OfficialLink: deref(in.OfficialLink),
	}
	if in.IssuedDate != nil {
		f.IssuedDate = in.IssuedDate.String()
	}
	if in.ExpiresDate != nil {
		f.ExpiresDate = in.ExpiresDate.String()
	}
	return f
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the required markers and the attachment type.
func (f Form) Validate() error {
	f.trim()
	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, strings.ToLower(fe.Field()))
			}
			return fmt.Errorf("%w: check %s", common.ErrorValidation, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	if f.FilePath != "" && !filex.HasExtension(f.FilePath, AcceptedExtensions) {
		return fmt.Errorf("%w: attachment must be one of %s", common.ErrorValidation, strings.Join(AcceptedExtensions, ", "))
	}
	return nil
}

// input converts the form into the record payload. fileURL is stored as is.
func (f Form) input(fileURL *string) (models.CertificationInput, error) {
	f.trim()
	in := models.CertificationInput{
		Title:              f.Title,
		Issuer:             f.Issuer,
		Type:               f.Type,
		Status:             f.Status,
		Description:        optional(f.Description),
		OfficialLink:       optional(f.OfficialLink),
		CertificateFileURL: fileURL,
	}

	var err error
	if in.IssuedDate, err = optionalDate(f.IssuedDate); err != nil {
		return in, err
	}
	if in.ExpiresDate, err = optionalDate(f.ExpiresDate); err != nil {
		return in, err
	}
	return in, nil
}

func (f *Form) trim() {
	f.Title = strings.TrimSpace(f.Title)
	f.Issuer = strings.TrimSpace(f.Issuer)
	f.IssuedDate = strings.TrimSpace(f.IssuedDate)
	f.ExpiresDate = strings.TrimSpace(f.ExpiresDate)
	f.OfficialLink = strings.TrimSpace(f.OfficialLink)
	f.FilePath = strings.TrimSpace(f.FilePath)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func optionalDate(s string) (*models.Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := models.ParseDate(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	return &d, nil
}
