package browse

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dmitrijs2005/certshowcase/internal/models"
)

const (
	defaultWidth = 80
	notAvailable = "N/A"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	filterStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	cardStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	selectedStyle = cardStyle.BorderForeground(lipgloss.Color("63"))
	enterStyle    = cardStyle.BorderForeground(lipgloss.Color("42")).Bold(true)
	exitStyle     = cardStyle.BorderForeground(lipgloss.Color("238")).Faint(true).Strikethrough(true)
	badgeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Padding(0, 1)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Certifications"))
	b.WriteString("\n")
	if m.searching || m.criteria.Search != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}
	b.WriteString(filterStyle.Render(fmt.Sprintf("issuer: %s  type: %s  status: %s  sort: %s",
		m.criteria.Issuer, m.criteria.Type, m.criteria.Status, m.criteria.SortBy)))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString("Loading...\n")
	case m.err != nil:
		b.WriteString(errorStyle.Render("Failed to load certifications"))
		b.WriteString("\n")
	default:
		width := max(m.width-4, 20)
		if len(m.visible) == 0 {
			b.WriteString("No certifications match the current filters.\n")
		}
		for i, c := range m.visible {
			style := cardStyle
			switch {
			case m.transition.Transitioning() && m.entering[c.ID]:
				style = enterStyle
			case i == m.cursor:
				style = selectedStyle
			}
			body := card(c)
			if c.ID == m.open {
				body += "\n" + m.skillsLine()
			}
			b.WriteString(style.Width(width).Render(body))
			b.WriteString("\n")
		}
		if m.transition.Transitioning() {
			for _, c := range m.exiting {
				b.WriteString(exitStyle.Width(width).Render(card(c)))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString(helpStyle.Render("enter details • / search • i issuer • t type • s status • o sort • c clear • r reload • q quit"))
	return b.String()
}

func (m *Model) skillsLine() string {
	switch {
	case m.skillsLoading:
		return "skills: loading..."
	case m.skillsErr != nil:
		return errorStyle.Render("Failed to load skills")
	case len(m.skills) == 0:
		return "skills: none listed"
	}
	return "skills: " + strings.Join(m.skills, ", ")
}

func card(c *models.Certification) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", lipgloss.NewStyle().Bold(true).Render(c.Title), badgeStyle.Render(string(c.Type)))
	fmt.Fprintf(&b, "%s · %s\n", c.Issuer, strings.ReplaceAll(string(c.Status), "_", " "))
	fmt.Fprintf(&b, "issued %s · expires %s", date(c.IssuedDate), date(c.ExpiresDate))
	if c.Description != nil {
		fmt.Fprintf(&b, "\n%s", *c.Description)
	}
	if c.OfficialLink != nil {
		fmt.Fprintf(&b, "\n%s", *c.OfficialLink)
	}
	if c.CertificateFileURL != nil {
		fmt.Fprintf(&b, "\ncertificate: %s", *c.CertificateFileURL)
	}
	return b.String()
}

func date(d *models.Date) string {
	if d == nil {
		return notAvailable
	}
	return d.String()
}
