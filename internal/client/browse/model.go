// Package browse is the public listing TUI. It fetches the full record set
// once on start, derives the visible subset with the catalog engine and marks
// listing changes for the transition window.
package browse

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dmitrijs2005/certshowcase/internal/catalog"
	"github.com/dmitrijs2005/certshowcase/internal/common"
	"github.com/dmitrijs2005/certshowcase/internal/logging"
	"github.com/dmitrijs2005/certshowcase/internal/models"
)

// Lister is the read side of the api.Client.
type Lister interface {
	ListCertifications(ctx context.Context) ([]*models.Certification, error)
	ListSkills(ctx context.Context, certificationID string) ([]*models.Skill, error)
}

type recordsMsg struct {
	records []*models.Certification
	err     error
}

type skillsMsg struct {
	certificationID string
	skills          []string
	err             error
}

type transitionDoneMsg struct {
	gen uint64
}

const (
	keyQuit    = "q"
	keyCtrlC   = "ctrl+c"
	keySearch  = "/"
	keyEnter   = "enter"
	keyEsc     = "esc"
	keyIssuer  = "i"
	keyType    = "t"
	keyStatus  = "s"
	keySort    = "o"
	keyReset   = "c"
	keyRefresh = "r"
	keyUp      = "up"
	keyDown    = "down"
)

var (
	typeChoices   = []string{common.FilterAll, string(models.TypeCertification), string(models.TypeBadge), string(models.TypeQualification)}
	statusChoices = []string{common.FilterAll, string(models.StatusCompleted), string(models.StatusInProgress)}
)

// Model is the bubbletea model of the listing.
type Model struct {
	ctx        context.Context
	api        Lister
	logger     logging.Logger
	transition *catalog.Transition

	criteria  catalog.Criteria
	records   []*models.Certification
	issuers   []string
	visible   []*models.Certification
	exiting   []*models.Certification
	entering  map[string]bool
	search    textinput.Model
	searching bool
	loading   bool
	err       error
	cursor    int
	width     int

	// open is the id of the expanded card; its skills are read on opening.
	open          string
	skills        []string
	skillsErr     error
	skillsLoading bool
}

// New returns the listing with default criteria. window is the transition
// duration; zero means catalog.TransitionWindow.
func New(ctx context.Context, api Lister, window time.Duration, logger logging.Logger) *Model {
	search := textinput.New()
	search.Placeholder = "Search by title or issuer"
	search.Prompt = "/ "
	search.CharLimit = 120

	return &Model{
		ctx:        ctx,
		api:        api,
		logger:     logger.With("module", "browse"),
		transition: catalog.NewTransition(window),
		criteria:   catalog.DefaultCriteria(),
		search:     search,
		loading:    true,
		entering:   map[string]bool{},
		width:      defaultWidth,
	}
}

// Init fetches the records.
func (m *Model) Init() tea.Cmd {
	return m.fetch()
}

func (m *Model) fetch() tea.Cmd {
	ctx, api := m.ctx, m.api
	return func() tea.Msg {
		records, err := api.ListCertifications(ctx)
		return recordsMsg{records: records, err: err}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case recordsMsg:
		return m, m.handleRecords(msg)
	case skillsMsg:
		if msg.certificationID == m.open {
			m.skillsLoading = false
			m.skills, m.skillsErr = msg.skills, msg.err
			if msg.err != nil {
				m.logger.Error(m.ctx, "failed to load skills", "certification_id", msg.certificationID, "error", msg.err)
			}
		}
		return m, nil
	case transitionDoneMsg:
		m.transition.Expire(msg.gen)
		if !m.transition.Transitioning() {
			m.exiting = nil
			m.entering = map[string]bool{}
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if m.searching {
			return m, m.updateSearch(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleRecords(msg recordsMsg) tea.Cmd {
	m.loading = false
	if msg.err != nil {
		m.logger.Error(m.ctx, "failed to load certifications", "error", msg.err)
		m.err = msg.err
		return nil
	}
	m.err = nil
	m.records = msg.records
	m.issuers = catalog.Issuers(msg.records)
	if !slices.Contains(m.issuers, m.criteria.Issuer) {
		m.criteria.Issuer = common.FilterAll
	}
	return m.recompute()
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyQuit, keyCtrlC:
		return m, tea.Quit
	case keySearch:
		m.searching = true
		return m, m.search.Focus()
	case keyIssuer:
		m.criteria.Issuer = next(append([]string{common.FilterAll}, m.issuers...), m.criteria.Issuer)
	case keyType:
		m.criteria.Type = next(typeChoices, m.criteria.Type)
	case keyStatus:
		m.criteria.Status = next(statusChoices, m.criteria.Status)
	case keySort:
		m.criteria.SortBy = next(catalog.SortModes, m.criteria.SortBy)
	case keyReset:
		m.criteria = catalog.DefaultCriteria()
		m.search.SetValue("")
	case keyEnter:
		return m, m.toggleOpen()
	case keyEsc:
		m.open = ""
		return m, nil
	case keyRefresh:
		m.loading = true
		return m, m.fetch()
	case keyUp:
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case keyDown:
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
		return m, nil
	default:
		return m, nil
	}
	return m, m.recompute()
}

// toggleOpen expands the card under the cursor and reads its skills, or
// collapses it when it is already open.
func (m *Model) toggleOpen() tea.Cmd {
	if m.cursor >= len(m.visible) {
		return nil
	}
	id := m.visible[m.cursor].ID
	if m.open == id {
		m.open = ""
		return nil
	}
	m.open, m.skills, m.skillsErr, m.skillsLoading = id, nil, nil, true

	ctx, api := m.ctx, m.api
	return func() tea.Msg {
		skills, err := api.ListSkills(ctx, id)
		if err != nil {
			return skillsMsg{certificationID: id, err: err}
		}
		names := make([]string, 0, len(skills))
		for _, sk := range skills {
			names = append(names, sk.SkillName)
		}
		slices.SortFunc(names, func(a, b string) int {
			return strings.Compare(strings.ToLower(a), strings.ToLower(b))
		})
		return skillsMsg{certificationID: id, skills: names}
	}
}

func (m *Model) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case keyEnter, keyEsc:
		m.searching = false
		m.search.Blur()
		return nil
	case keyCtrlC:
		return tea.Quit
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == m.criteria.Search {
		return cmd
	}
	m.criteria.Search = m.search.Value()
	return tea.Batch(cmd, m.recompute())
}

// recompute derives the visible listing and, when its identity sequence
// changed, schedules the end of the transition window.
func (m *Model) recompute() tea.Cmd {
	prev := m.visible
	m.visible = catalog.Apply(m.records, m.criteria)
	if m.cursor >= len(m.visible) {
		m.cursor = max(len(m.visible)-1, 0)
	}
	if m.open != "" && !slices.ContainsFunc(m.visible, func(c *models.Certification) bool { return c.ID == m.open }) {
		m.open = ""
	}

	tick, changed := m.transition.Observe(catalog.IDs(m.visible))
	if !changed {
		return nil
	}

	now := make(map[string]bool, len(m.visible))
	for _, c := range m.visible {
		now[c.ID] = true
	}
	was := make(map[string]bool, len(prev))
	m.exiting = m.exiting[:0]
	for _, c := range prev {
		was[c.ID] = true
		if !now[c.ID] {
			m.exiting = append(m.exiting, c)
		}
	}
	m.entering = make(map[string]bool)
	for id := range now {
		if !was[id] {
			m.entering[id] = true
		}
	}

	return tea.Tick(tick.After, func(time.Time) tea.Msg {
		return transitionDoneMsg{gen: tick.Gen}
	})
}

// Visible returns the derived listing.
func (m *Model) Visible() []*models.Certification {
	return m.visible
}

// Criteria returns the current filter and sort selection.
func (m *Model) Criteria() catalog.Criteria {
	return m.criteria
}

func next[T comparable](choices []T, current T) T {
	i := slices.Index(choices, current)
	return choices[(i+1)%len(choices)]
}
