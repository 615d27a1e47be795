// Package admin orchestrates the admin surface: certification create,
// update and delete with attachment upload, the nested skills of each record,
// transient notifications and a full refetch after every successful change.
package admin

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dmitrijs2005/certshowcase/internal/client/api"
	"github.com/dmitrijs2005/certshowcase/internal/common"
	"github.com/dmitrijs2005/certshowcase/internal/logging"
	"github.com/dmitrijs2005/certshowcase/internal/models"
)

// API is the part of the api.Client the console drives.
type API interface {
	ListCertifications(ctx context.Context) ([]*models.Certification, error)
	CreateCertification(ctx context.Context, in models.CertificationInput) (*models.Certification, error)
	UpdateCertification(ctx context.Context, id string, in models.CertificationInput) (*models.Certification, error)
	DeleteCertification(ctx context.Context, id string) error
	ListSkills(ctx context.Context, certificationID string) ([]*models.Skill, error)
	AddSkill(ctx context.Context, certificationID, name string) (*models.Skill, error)
	RemoveSkill(ctx context.Context, certificationID, name string) (int64, error)
	Upload(ctx context.Context, filename string, r io.Reader) (*api.UploadedFile, error)
}

type Kind int

const (
	KindSuccess Kind = iota
	KindError
)

func (k Kind) String() string {
	if k == KindError {
		return "Error"
	}
	return "Success"
}

// Notification is a transient message for the user. Descriptions are
// generic; backend detail goes to the log only.
type Notification struct {
	Kind        Kind
	Title       string
	Description string
}

type Notifier func(Notification)

// openFile is replaced in tests.
var openFile = func(path string) (io.ReadCloser, error) { return os.Open(path) }

// Console holds the admin's view of the records.
type Console struct {
	api    API
	notify Notifier
	logger logging.Logger

	mu      sync.Mutex
	records []*models.Certification
}

func NewConsole(a API, notify Notifier, logger logging.Logger) *Console {
	if notify == nil {
		notify = func(Notification) {}
	}
	return &Console{api: a, notify: notify, logger: logger.With("module", "admin")}
}

// Records returns the list as of the last refetch.
func (c *Console) Records() []*models.Certification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.records
}

// Refresh refetches the full list.
func (c *Console) Refresh(ctx context.Context) error {
	records, err := c.api.ListCertifications(ctx)
	if err != nil {
		c.fail(ctx, "Failed to load certifications", err)
		return err
	}
	c.mu.Lock()
	c.records = records
	c.mu.Unlock()
	return nil
}

// Create uploads the attachment, if any, and then writes the record. A failed
// upload aborts before anything is written.
func (c *Console) Create(ctx context.Context, f Form) (*models.Certification, error) {
	f.trim()
	if err := f.Validate(); err != nil {
		c.fail(ctx, "Failed to create certification", err)
		return nil, err
	}

	var fileURL *string
	if f.FilePath != "" {
		url, err := c.upload(ctx, f.FilePath)
		if err != nil {
			c.fail(ctx, "Failed to upload file", err)
			return nil, err
		}
		fileURL = &url
	}

	in, err := f.input(fileURL)
	if err != nil {
		c.fail(ctx, "Failed to create certification", err)
		return nil, err
	}
	created, err := c.api.CreateCertification(ctx, in)
	if err != nil {
		c.fail(ctx, "Failed to create certification", err)
		return nil, err
	}

	c.succeed(ctx, "Certification created")
	return created, nil
}

// Update replaces every editable field of existing. Without a new file the
// stored attachment URL is kept; a new file replaces the URL and the old
// object stays in the bucket.
func (c *Console) Update(ctx context.Context, existing *models.Certification, f Form) (*models.Certification, error) {
	f.trim()
	if err := f.Validate(); err != nil {
		c.fail(ctx, "Failed to update certification", err)
		return nil, err
	}

	fileURL := existing.CertificateFileURL
	if f.FilePath != "" {
		url, err := c.upload(ctx, f.FilePath)
		if err != nil {
			c.fail(ctx, "Failed to upload file", err)
			return nil, err
		}
		fileURL = &url
	}

	in, err := f.input(fileURL)
	if err != nil {
		c.fail(ctx, "Failed to update certification", err)
		return nil, err
	}
	updated, err := c.api.UpdateCertification(ctx, existing.ID, in)
	if err != nil {
		c.fail(ctx, "Failed to update certification", err)
		return nil, err
	}

	c.succeed(ctx, "Certification updated")
	return updated, nil
}

// Delete removes id. Its skills go with it through the foreign key.
func (c *Console) Delete(ctx context.Context, id string) error {
	if err := c.api.DeleteCertification(ctx, id); err != nil {
		c.fail(ctx, "Failed to delete certification", err)
		return err
	}
	c.succeed(ctx, "Certification deleted")
	return nil
}

// Skills returns the skill names of id in alphabetical order.
func (c *Console) Skills(ctx context.Context, id string) ([]string, error) {
	list, err := c.api.ListSkills(ctx, id)
	if err != nil {
		c.fail(ctx, "Failed to load skills", err)
		return nil, err
	}
	return models.SkillNames(list), nil
}

// AddSkill appends name to id. Duplicates are accepted.
func (c *Console) AddSkill(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		err := fmt.Errorf("%w: skill name is empty", common.ErrorValidation)
		c.fail(ctx, "Failed to add skill", err)
		return err
	}
	if _, err := c.api.AddSkill(ctx, id, name); err != nil {
		c.fail(ctx, "Failed to add skill", err)
		return err
	}
	c.succeed(ctx, "Skill added")
	return nil
}

// RemoveSkill deletes every skill of id named name.
func (c *Console) RemoveSkill(ctx context.Context, id, name string) error {
	if _, err := c.api.RemoveSkill(ctx, id, name); err != nil {
		c.fail(ctx, "Failed to remove skill", err)
		return err
	}
	c.succeed(ctx, "Skill removed")
	return nil
}

func (c *Console) upload(ctx context.Context, path string) (string, error) {
	f, err := openFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorUploadFailed, err)
	}
	defer f.Close()

	uploaded, err := c.api.Upload(ctx, filepath.Base(path), f)
	if err != nil {
		return "", err
	}
	return uploaded.URL, nil
}

func (c *Console) succeed(ctx context.Context, title string) {
	c.notify(Notification{Kind: KindSuccess, Title: "Success", Description: title})
	// a failed refetch is reported on its own
	_ = c.Refresh(ctx)
}

func (c *Console) fail(ctx context.Context, description string, err error) {
	c.logger.Warn(ctx, description, "error", err)
	c.notify(Notification{Kind: KindError, Title: "Error", Description: description})
}
