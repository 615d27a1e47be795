package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/certshowcase/internal/client/admin"
	"github.com/dmitrijs2005/certshowcase/internal/models"
)

const notAvailable = "N/A"

func (a *App) adminCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage certifications and their skills (signed-in only)",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List every certification",
			Args:  cobra.NoArgs,
			RunE: a.guard(func(cmd *cobra.Command, _ []string) error {
				return a.AdminList(cmd.Context())
			}),
		},
		a.createCommand(),
		a.updateCommand(),
		a.deleteCommand(),
		a.skillsCommand(),
	)
	return cmd
}

// AdminList refetches and prints the admin listing.
func (a *App) AdminList(ctx context.Context) error {
	if err := a.console.Refresh(ctx); err != nil {
		return ErrReported
	}
	records := a.console.Records()
	if len(records) == 0 {
		fmt.Fprintln(a.out, "No certifications yet.")
		return nil
	}

	a.printTable(records)
	return nil
}

func (a *App) printTable(records []*models.Certification) {
	rows := make([][]string, 0, len(records))
	for _, c := range records {
		rows = append(rows, []string{c.ID, c.Title, c.Issuer, string(c.Type), string(c.Status), dateOrNA(c.IssuedDate), dateOrNA(c.ExpiresDate)})
	}
	t := table.New().
		Headers("ID", "TITLE", "ISSUER", "TYPE", "STATUS", "ISSUED", "EXPIRES").
		Rows(rows...)
	fmt.Fprintln(a.out, t.String())
}

// formFlags are the editable certification fields as flags. Only flags the
// user set are applied, so an update keeps everything else.
type formFlags struct {
	title, issuer, typ, status  string
	issued, expires             string
	description, link, filePath string
}

func (f *formFlags) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.title, "title", "", "certification title")
	fl.StringVar(&f.issuer, "issuer", "", "issuing organisation")
	fl.StringVar(&f.typ, "type", string(models.TypeCertification), "certification, badge or qualification")
	fl.StringVar(&f.status, "status", string(models.StatusCompleted), "completed or in_progress")
	fl.StringVar(&f.issued, "issued", "", "issue date, YYYY-MM-DD")
	fl.StringVar(&f.expires, "expires", "", "expiry date, YYYY-MM-DD")
	fl.StringVar(&f.description, "description", "", `description; "-" reads it from stdin`)
	fl.StringVar(&f.link, "link", "", "official link")
	fl.StringVar(&f.filePath, "file", "", "certificate to attach (.pdf, .jpg, .jpeg, .png)")
}

func (a *App) apply(cmd *cobra.Command, f *formFlags, form *admin.Form) error {
	set := func(name string, dst *string, v string) {
		if cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	set("title", &form.Title, f.title)
	set("issuer", &form.Issuer, f.issuer)
	set("issued", &form.IssuedDate, f.issued)
	set("expires", &form.ExpiresDate, f.expires)
	set("link", &form.OfficialLink, f.link)
	set("file", &form.FilePath, f.filePath)
	if cmd.Flags().Changed("type") {
		form.Type = models.CertificationType(f.typ)
	}
	if cmd.Flags().Changed("status") {
		form.Status = models.CertificationStatus(f.status)
	}
	if cmd.Flags().Changed("description") {
		form.Description = f.description
		if f.description == "-" {
			text, err := readParagraph(a.in, a.out, "Description")
			if err != nil {
				return err
			}
			form.Description = text
		}
	}
	return nil
}

func (a *App) createCommand() *cobra.Command {
	var f formFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a certification, uploading the attachment first",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.guard(func(cmd *cobra.Command, _ []string) error {
		form := admin.NewForm()
		if err := a.apply(cmd, &f, &form); err != nil {
			return err
		}
		created, err := a.console.Create(cmd.Context(), form)
		if err != nil {
			return ErrReported
		}
		fmt.Fprintln(a.out, created.ID)
		return nil
	})
	f.bind(cmd)
	return cmd
}

func (a *App) updateCommand() *cobra.Command {
	var f formFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace the fields of a certification; unset flags keep their value",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = a.guard(func(cmd *cobra.Command, args []string) error {
		existing, err := a.api.GetCertification(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		form := admin.FormFrom(existing)
		if err := a.apply(cmd, &f, &form); err != nil {
			return err
		}
		if _, err := a.console.Update(cmd.Context(), existing, form); err != nil {
			return ErrReported
		}
		return nil
	})
	f.bind(cmd)
	return cmd
}

func (a *App) deleteCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a certification and, through the database, its skills",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = a.guard(func(cmd *cobra.Command, args []string) error {
		id := args[0]
		if !yes {
			answer, err := readLine(a.in, a.out, fmt.Sprintf("Delete certification %s? [y/N]", id))
			if err != nil {
				return err
			}
			if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
				fmt.Fprintln(a.out, "Cancelled")
				return nil
			}
		}
		if err := a.console.Delete(cmd.Context(), id); err != nil {
			return ErrReported
		}
		return nil
	})
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func (a *App) skillsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skills",
		Short: "List, add and remove the skills of a certification",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list <certification-id>",
			Short: "List skills alphabetically",
			Args:  cobra.ExactArgs(1),
			RunE: a.guard(func(cmd *cobra.Command, args []string) error {
				names, err := a.console.Skills(cmd.Context(), args[0])
				if err != nil {
					return ErrReported
				}
				if len(names) == 0 {
					fmt.Fprintln(a.out, "No skills yet.")
				}
				for _, n := range names {
					fmt.Fprintln(a.out, n)
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:   "add <certification-id> <name...>",
			Short: "Add a skill; duplicates are allowed",
			Args:  cobra.MinimumNArgs(2),
			RunE: a.guard(func(cmd *cobra.Command, args []string) error {
				if err := a.console.AddSkill(cmd.Context(), args[0], strings.Join(args[1:], " ")); err != nil {
					return ErrReported
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:   "remove <certification-id> <name...>",
			Short: "Remove every skill with that name",
			Args:  cobra.MinimumNArgs(2),
			RunE: a.guard(func(cmd *cobra.Command, args []string) error {
				if err := a.console.RemoveSkill(cmd.Context(), args[0], strings.Join(args[1:], " ")); err != nil {
					return ErrReported
				}
				return nil
			}),
		},
	)
	return cmd
}

func dateOrNA(d *models.Date) string {
	if d == nil {
		return notAvailable
	}
	return d.String()
}
