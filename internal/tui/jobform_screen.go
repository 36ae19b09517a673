package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/andy/jobtrack/internal/app"
	"github.com/andy/jobtrack/internal/catalog"
	"github.com/andy/jobtrack/internal/domain"
	"github.com/andy/jobtrack/internal/service"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// formTab is one of the three job form tabs
type formTab int

const (
	tabDetails formTab = iota
	tabItems
	tabSummary
)

func (t formTab) String() string {
	switch t {
	case tabDetails:
		return "Details"
	case tabItems:
		return "Parts & Labour"
	case tabSummary:
		return "Summary"
	default:
		return "Unknown"
	}
}

// details form field indices
const (
	jobFieldDescription = iota
	jobFieldDate
	jobFieldNotes
	jobFieldCount
)

type formClientsMsg struct {
	clients []*domain.Client
	err     error
}

type catalogDataMsg struct {
	kind catalog.Kind
	res  catalog.Result
}

// jobFormModel is the three-tab job editor hosted by the jobs screen.
// New jobs start with a client pick step; edits keep the stored client.
type jobFormModel struct {
	app           *app.App
	existingJobID string

	// Client pick step (new jobs only)
	pickingClient bool
	clients       []*domain.Client
	clientCursor  int
	clientID      string
	clientName    string
	loading       bool

	tab formTab

	// Details tab
	fields     []textinput.Model
	fieldFocus int

	// Parts & Labour tab
	selection      *service.Selection
	kind           catalog.Kind
	catalogItems   map[catalog.Kind][]domain.CatalogItem
	catalogWarn    map[catalog.Kind]string
	catalogLoaded  map[catalog.Kind]bool
	catalogLoading bool
	catCursor      int
	search         textinput.Model
	searching      bool

	err    error
	saving bool
}

// newJobForm builds a form for a new job (editing nil) or for an
// existing one with its items loaded into the selection
func newJobForm(a *app.App, editing *domain.Job) *jobFormModel {
	f := &jobFormModel{
		app:           a,
		selection:     service.NewSelection(),
		kind:          catalog.KindParts,
		catalogItems:  make(map[catalog.Kind][]domain.CatalogItem),
		catalogWarn:   make(map[catalog.Kind]string),
		catalogLoaded: make(map[catalog.Kind]bool),
	}

	f.fields = make([]textinput.Model, jobFieldCount)

	f.fields[jobFieldDescription] = textinput.New()
	f.fields[jobFieldDescription].Placeholder = "What is this job?"
	f.fields[jobFieldDescription].CharLimit = 200
	f.fields[jobFieldDescription].Width = 50

	f.fields[jobFieldDate] = textinput.New()
	f.fields[jobFieldDate].Placeholder = domain.DateLayout
	f.fields[jobFieldDate].CharLimit = 10
	f.fields[jobFieldDate].Width = 15

	f.fields[jobFieldNotes] = textinput.New()
	f.fields[jobFieldNotes].Placeholder = "Optional notes"
	f.fields[jobFieldNotes].CharLimit = 500
	f.fields[jobFieldNotes].Width = 50

	f.search = textinput.New()
	f.search.Placeholder = "Filter catalog"
	f.search.CharLimit = 50
	f.search.Width = 30

	if editing != nil {
		f.existingJobID = editing.ID
		f.clientID = editing.ClientID
		if editing.Client != nil {
			f.clientName = editing.Client.Name
		}
		f.fields[jobFieldDescription].SetValue(editing.Description)
		f.fields[jobFieldDate].SetValue(editing.Date)
		f.fields[jobFieldNotes].SetValue(editing.Notes)
		f.selection.Load(editing.Items)
	} else {
		f.pickingClient = true
		f.loading = true
		f.fields[jobFieldDate].SetValue(time.Now().Format(domain.DateLayout))
	}

	f.fieldFocus = jobFieldDescription
	f.fields[jobFieldDescription].Focus()

	return f
}

func (f *jobFormModel) Init() tea.Cmd {
	if f.pickingClient {
		return f.loadClients()
	}
	return nil
}

func (f *jobFormModel) loadClients() tea.Cmd {
	return func() tea.Msg {
		clients, err := f.app.ClientService.ListClients(context.Background())
		return formClientsMsg{clients: clients, err: err}
	}
}

func (f *jobFormModel) fetchCatalog(kind catalog.Kind) tea.Cmd {
	return func() tea.Msg {
		res := f.app.Catalog.Fetch(context.Background(), kind)
		return catalogDataMsg{kind: kind, res: res}
	}
}

// ensureCatalog fetches the current kind's catalog on first visit
func (f *jobFormModel) ensureCatalog() tea.Cmd {
	if f.catalogLoaded[f.kind] || f.catalogLoading {
		return nil
	}
	f.catalogLoading = true
	return f.fetchCatalog(f.kind)
}

func (f *jobFormModel) save() tea.Cmd {
	f.saving = true
	draft := &domain.Job{
		ClientID:    f.clientID,
		Description: f.fields[jobFieldDescription].Value(),
		Date:        f.fields[jobFieldDate].Value(),
		Notes:       f.fields[jobFieldNotes].Value(),
	}
	items := f.selection.Items()
	existingID := f.existingJobID
	return func() tea.Msg {
		job, err := f.app.JobService.SaveJob(context.Background(), draft, items, existingID)
		return jobSavedMsg{job: job, err: err}
	}
}

// failValidation routes a rejected save back to the offending field
func (f *jobFormModel) failValidation(vErr *service.ValidationError) {
	f.saving = false
	f.err = vErr

	if vErr.Field == "clientId" {
		f.pickingClient = true
		f.loading = true
		return
	}

	f.tab = tabDetails
	f.fields[f.fieldFocus].Blur()
	switch vErr.Field {
	case "description":
		f.fieldFocus = jobFieldDescription
	case "date":
		f.fieldFocus = jobFieldDate
	}
	f.fields[f.fieldFocus].Focus()
}

// Update handles a message. The second return value is true when the
// form was cancelled and should be closed.
func (f *jobFormModel) Update(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case formClientsMsg:
		f.loading = false
		if msg.err != nil {
			f.err = msg.err
			return nil, false
		}
		f.clients = msg.clients
		if f.clientCursor >= len(f.clients) {
			f.clientCursor = 0
		}
		return nil, false

	case catalogDataMsg:
		f.catalogLoading = false
		f.catalogLoaded[msg.kind] = true
		f.catalogItems[msg.kind] = msg.res.Data
		if msg.res.Err != nil {
			f.catalogWarn[msg.kind] = msg.res.Err.Error()
		} else {
			f.catalogWarn[msg.kind] = ""
		}
		if f.catCursor >= len(msg.res.Data) {
			f.catCursor = 0
		}
		return nil, false

	case tea.KeyMsg:
		if f.saving {
			return nil, false
		}
		if f.pickingClient {
			return f.updateClientPick(msg)
		}
		if f.tab == tabItems && f.searching {
			return f.updateSearch(msg)
		}
		switch f.tab {
		case tabDetails:
			return f.updateDetails(msg)
		case tabItems:
			return f.updateItems(msg)
		case tabSummary:
			return f.updateSummary(msg)
		}
	}

	return nil, false
}

func (f *jobFormModel) updateClientPick(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "esc":
		return nil, true
	case "up":
		if f.clientCursor > 0 {
			f.clientCursor--
		}
	case "down":
		if f.clientCursor < len(f.clients)-1 {
			f.clientCursor++
		}
	case "enter":
		if len(f.clients) > 0 && f.clientCursor < len(f.clients) {
			f.clientID = f.clients[f.clientCursor].ID
			f.clientName = f.clients[f.clientCursor].Name
			f.pickingClient = false
			f.err = nil
			f.fields[f.fieldFocus].Blur()
			f.fieldFocus = jobFieldDescription
			return f.fields[jobFieldDescription].Focus(), false
		}
	}
	return nil, false
}

func (f *jobFormModel) updateDetails(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "esc":
		return nil, true

	case "ctrl+s":
		return f.save(), false

	case "tab", "down":
		f.fields[f.fieldFocus].Blur()
		f.fieldFocus = (f.fieldFocus + 1) % jobFieldCount
		return f.fields[f.fieldFocus].Focus(), false

	case "shift+tab", "up":
		f.fields[f.fieldFocus].Blur()
		f.fieldFocus = (f.fieldFocus - 1 + jobFieldCount) % jobFieldCount
		return f.fields[f.fieldFocus].Focus(), false

	case "enter":
		// Advance through the fields, then move on to the items tab
		if f.fieldFocus == jobFieldCount-1 {
			f.fields[f.fieldFocus].Blur()
			f.tab = tabItems
			return f.ensureCatalog(), false
		}
		f.fields[f.fieldFocus].Blur()
		f.fieldFocus++
		return f.fields[f.fieldFocus].Focus(), false
	}

	var cmd tea.Cmd
	f.fields[f.fieldFocus], cmd = f.fields[f.fieldFocus].Update(msg)
	return cmd, false
}

func (f *jobFormModel) updateSearch(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "esc":
		f.searching = false
		f.search.Blur()
		return nil, false
	case "enter":
		f.searching = false
		f.search.Blur()
		return nil, false
	}

	var cmd tea.Cmd
	f.search, cmd = f.search.Update(msg)
	f.catCursor = 0
	return cmd, false
}

func (f *jobFormModel) updateItems(msg tea.KeyMsg) (tea.Cmd, bool) {
	filtered := f.filteredCatalog()

	switch msg.String() {
	case "esc":
		return nil, true

	case "ctrl+s":
		return f.save(), false

	case "tab":
		f.tab = tabSummary
		return nil, false

	case "shift+tab":
		f.tab = tabDetails
		return f.fields[f.fieldFocus].Focus(), false

	case "/":
		f.searching = true
		return f.search.Focus(), false

	case "p":
		if f.kind != catalog.KindParts {
			f.kind = catalog.KindParts
			f.catCursor = 0
			return f.ensureCatalog(), false
		}

	case "l":
		if f.kind != catalog.KindLabour {
			f.kind = catalog.KindLabour
			f.catCursor = 0
			return f.ensureCatalog(), false
		}

	case "up":
		if f.catCursor > 0 {
			f.catCursor--
		}

	case "down":
		if f.catCursor < len(filtered)-1 {
			f.catCursor++
		}

	case "enter", "a", "+", "=":
		if len(filtered) > 0 && f.catCursor < len(filtered) {
			f.selection.Add(filtered[f.catCursor], f.kind.ItemType())
		}

	case "-", "_":
		if len(filtered) > 0 && f.catCursor < len(filtered) {
			ci := filtered[f.catCursor]
			if existing := f.selection.Get(ci.ID, f.kind.ItemType()); existing != nil {
				f.selection.SetQuantity(ci.ID, f.kind.ItemType(), existing.Quantity-1)
			}
		}

	case "x":
		if len(filtered) > 0 && f.catCursor < len(filtered) {
			f.selection.Remove(filtered[f.catCursor].ID, f.kind.ItemType())
		}
	}

	return nil, false
}

func (f *jobFormModel) updateSummary(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "esc":
		return nil, true
	case "tab":
		f.tab = tabDetails
		return f.fields[f.fieldFocus].Focus(), false
	case "shift+tab":
		f.tab = tabItems
		return nil, false
	case "enter", "ctrl+s":
		return f.save(), false
	}
	return nil, false
}

// filteredCatalog applies the search filter to the current kind's items
func (f *jobFormModel) filteredCatalog() []domain.CatalogItem {
	items := f.catalogItems[f.kind]
	query := strings.ToLower(strings.TrimSpace(f.search.Value()))
	if query == "" {
		return items
	}

	var filtered []domain.CatalogItem
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Name), query) ||
			strings.Contains(strings.ToLower(item.Category), query) ||
			strings.Contains(strings.ToLower(item.ID), query) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func (f *jobFormModel) View() string {
	if f.pickingClient {
		return f.viewClientPick()
	}

	var s string
	s += f.viewTabs() + "\n\n"

	switch f.tab {
	case tabDetails:
		s += f.viewDetails()
	case tabItems:
		s += f.viewItems()
	case tabSummary:
		s += f.viewSummary()
	}

	return s
}

func (f *jobFormModel) viewTabs() string {
	title := "New Job"
	if f.existingJobID != "" {
		title = "Edit Job"
	}

	var tabs []string
	for _, t := range []formTab{tabDetails, tabItems, tabSummary} {
		if t == f.tab {
			tabs = append(tabs, tabActiveStyle.Render(t.String()))
		} else {
			tabs = append(tabs, tabInactiveStyle.Render(t.String()))
		}
	}

	s := titleStyle.Render(title)
	if f.clientName != "" {
		s += subtitleStyle.Render("  for "+f.clientName)
	}
	return s + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (f *jobFormModel) viewClientPick() string {
	var s string
	s += titleStyle.Render("New Job - Choose Client") + "\n\n"

	if f.loading {
		s += "Loading clients...\n"
		return s
	}

	if f.err != nil {
		s += lipgloss.NewStyle().Foreground(errorColor).
			Render(fmt.Sprintf("  Error: %v", f.err)) + "\n\n"
	}

	if len(f.clients) == 0 {
		s += subtitleStyle.Render("  No clients yet. Add a client first (press esc, then 'c').") + "\n"
		return s
	}

	for i, client := range f.clients {
		indicator := "  "
		style := lipgloss.NewStyle()
		if i == f.clientCursor {
			indicator = "> "
			style = style.Bold(true).Foreground(primaryColor)
		}
		s += style.Render(fmt.Sprintf("%s%s", indicator, client.Name)) + "\n"
	}

	s += "\n" + helpStyle.Render("  ↑/↓: navigate  enter: choose  esc: cancel")
	return s
}

func (f *jobFormModel) viewDetails() string {
	var s string

	labels := []string{"Description:", "Date:", "Notes:"}
	for i, label := range labels {
		indicator := "  "
		if i == f.fieldFocus {
			indicator = "> "
		}
		labelStyle := subtitleStyle
		if i == f.fieldFocus {
			labelStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
		}
		s += fmt.Sprintf("%s%s\n  %s\n\n", indicator, labelStyle.Render(label), f.fields[i].View())
	}

	if f.err != nil {
		s += lipgloss.NewStyle().Foreground(errorColor).
			Render(fmt.Sprintf("  Error: %v", f.err)) + "\n\n"
	}

	s += helpStyle.Render("  tab: next field  enter: next/items  ctrl+s: save  esc: cancel")
	return s
}

func (f *jobFormModel) viewItems() string {
	var s string

	// Kind toggle
	parts := "Parts"
	labour := "Labour"
	if f.kind == catalog.KindParts {
		parts = selectedStyle.Render(" Parts ")
	} else {
		labour = selectedStyle.Render(" Labour ")
	}
	s += fmt.Sprintf("  %s  %s    %s\n\n", parts, labour, f.search.View())

	if warn := f.catalogWarn[f.kind]; warn != "" {
		s += warningStyle.Render("  ⚠ "+warn) + "\n\n"
	}

	if f.catalogLoading {
		s += "  Loading catalog...\n"
		return s
	}

	filtered := f.filteredCatalog()
	if len(filtered) == 0 {
		s += subtitleStyle.Render("  No catalog items match") + "\n"
	}

	for i, item := range filtered {
		indicator := "  "
		style := lipgloss.NewStyle()
		if i == f.catCursor {
			indicator = "> "
			style = style.Bold(true).Foreground(primaryColor)
		}

		qty := ""
		if existing := f.selection.Get(item.ID, f.kind.ItemType()); existing != nil {
			qty = lipgloss.NewStyle().Foreground(successColor).
				Render(fmt.Sprintf("  [x%d]", existing.Quantity))
		}

		line := fmt.Sprintf("%s%-32s %8s  %s", indicator,
			truncateStr(item.Name, 32), item.UnitPrice, truncateStr(item.Category, 18))
		s += style.Render(line) + qty + "\n"
	}

	totals := service.ComputeTotals(f.selection.Items())
	s += "\n" + subtitleStyle.Render(fmt.Sprintf("  Selected: %d part(s), %d labour  |  %s",
		totals.PartCount, totals.LabourCount, formatMoney(totals.Total))) + "\n"

	s += "\n" + helpStyle.Render("  p/l: parts/labour  /: filter  enter/+: add  -: less  x: remove  tab: summary  esc: cancel")
	return s
}

func (f *jobFormModel) viewSummary() string {
	var s string

	s += fmt.Sprintf("  %s  %s\n",
		f.fields[jobFieldDate].Value(),
		truncateStr(f.fields[jobFieldDescription].Value(), 45))
	if notes := f.fields[jobFieldNotes].Value(); notes != "" {
		s += subtitleStyle.Render("  "+truncateStr(notes, 60)) + "\n"
	}
	s += "\n"

	s += renderItemSummary(f.selection.Items())

	if f.err != nil {
		s += "\n" + lipgloss.NewStyle().Foreground(errorColor).
			Render(fmt.Sprintf("  Error: %v", f.err)) + "\n"
	}

	if f.saving {
		s += "\n  Saving...\n"
	}

	s += "\n" + helpStyle.Render("  enter/ctrl+s: save  shift+tab: items  esc: cancel")
	return s
}
