package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/andy/jobtrack/internal/app"
	"github.com/andy/jobtrack/internal/domain"
	"github.com/andy/jobtrack/internal/service"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// jobMode represents the current screen mode
type jobMode int

const (
	jobModeList jobMode = iota
	jobModeDetail
	jobModeConfirmDelete // y/n confirmation before delete
	jobModeForm
)

// JobsModel displays persisted jobs and hosts the job form
type JobsModel struct {
	app       *app.App
	jobs      []*domain.Job
	cursor    int
	loading   bool
	err       error
	statusMsg string

	mode jobMode
	form *jobFormModel
}

type jobsDataMsg struct {
	jobs []*domain.Job
	err  error
}

type jobDeletedMsg struct {
	err error
}

// jobSavedMsg reports the outcome of JobService.SaveJob
type jobSavedMsg struct {
	job *domain.Job
	err error
}

// NewJobsModel creates a new jobs screen model
func NewJobsModel(a *app.App) tea.Model {
	return &JobsModel{
		app:     a,
		loading: true,
	}
}

// IsCapturingInput returns true while the form or delete confirmation is active
func (m *JobsModel) IsCapturingInput() bool {
	return m.mode == jobModeForm || m.mode == jobModeConfirmDelete
}

// HasUnsavedWork reports whether a job form is open
func (m *JobsModel) HasUnsavedWork() bool {
	return m.mode == jobModeForm
}

func (m *JobsModel) Init() tea.Cmd {
	return m.loadJobs()
}

func (m *JobsModel) loadJobs() tea.Cmd {
	return func() tea.Msg {
		jobs, err := m.app.JobService.ListJobs(context.Background(), nil)
		return jobsDataMsg{jobs: jobs, err: err}
	}
}

func (m *JobsModel) deleteJob() tea.Cmd {
	return func() tea.Msg {
		job := m.jobs[m.cursor]
		return jobDeletedMsg{err: m.app.JobService.DeleteJob(context.Background(), job.ID)}
	}
}

func (m *JobsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Saves resolve here so validation failures can be routed back into
	// the form while everything else closes it
	if saved, ok := msg.(jobSavedMsg); ok {
		var vErr *service.ValidationError
		if saved.err != nil && errors.As(saved.err, &vErr) && m.form != nil {
			m.form.failValidation(vErr)
			return m, nil
		}
		if saved.err != nil {
			m.err = saved.err
			m.mode = jobModeList
			m.form = nil
			return m, nil
		}
		m.mode = jobModeList
		m.form = nil
		m.statusMsg = fmt.Sprintf("Saved: %s", truncateStr(saved.job.Description, 40))
		m.loading = true
		return m, m.loadJobs()
	}

	if m.mode == jobModeForm && m.form != nil {
		cmd, closed := m.form.Update(msg)
		if closed {
			m.mode = jobModeList
			m.form = nil
			m.loading = true
			return m, m.loadJobs()
		}
		return m, cmd
	}

	if m.mode == jobModeConfirmDelete {
		return m.updateConfirmDelete(msg)
	}

	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.loading = true
		return m, m.loadJobs()

	case jobsDataMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.jobs = msg.jobs
			if m.cursor >= len(m.jobs) {
				m.cursor = max(0, len(m.jobs)-1)
			}
		}
		return m, nil

	case jobDeletedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.mode = jobModeList
		m.statusMsg = "Job deleted"
		m.loading = true
		return m, m.loadJobs()

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}

		m.statusMsg = ""
		m.err = nil

		if m.mode == jobModeDetail {
			return m.updateDetail(msg)
		}

		switch {
		case key.Matches(msg, DefaultKeyMap.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, DefaultKeyMap.Down):
			if m.cursor < len(m.jobs)-1 {
				m.cursor++
			}
		case msg.String() == "n":
			form := newJobForm(m.app, nil)
			m.form = form
			m.mode = jobModeForm
			return m, form.Init()
		case msg.String() == "e":
			if len(m.jobs) > 0 && m.cursor < len(m.jobs) {
				form := newJobForm(m.app, m.jobs[m.cursor])
				m.form = form
				m.mode = jobModeForm
				return m, form.Init()
			}
		case key.Matches(msg, DefaultKeyMap.Select):
			if len(m.jobs) > 0 && m.cursor < len(m.jobs) {
				m.mode = jobModeDetail
			}
		case msg.String() == "d":
			if len(m.jobs) > 0 && m.cursor < len(m.jobs) {
				m.mode = jobModeConfirmDelete
			}
		}
	}

	return m, nil
}

func (m *JobsModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace":
		m.mode = jobModeList
	case "e":
		form := newJobForm(m.app, m.jobs[m.cursor])
		m.form = form
		m.mode = jobModeForm
		return m, form.Init()
	case "d":
		m.mode = jobModeConfirmDelete
	}
	return m, nil
}

func (m *JobsModel) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "y", "Y":
			m.mode = jobModeList
			return m, m.deleteJob()
		case "n", "N", "esc":
			m.mode = jobModeList
			return m, nil
		}
	}
	return m, nil
}

func (m *JobsModel) View() string {
	switch m.mode {
	case jobModeForm:
		if m.form != nil {
			return m.form.View()
		}
		return ""
	case jobModeDetail:
		return m.viewDetail()
	case jobModeConfirmDelete:
		return m.viewConfirmDelete()
	default:
		return m.viewList()
	}
}

func (m *JobsModel) viewList() string {
	if m.loading {
		return "Loading jobs..."
	}

	if m.err != nil {
		return lipgloss.NewStyle().Foreground(errorColor).
			Render(fmt.Sprintf("Error: %v", m.err))
	}

	var s string
	s += titleStyle.Render("Jobs") + "\n\n"

	if m.statusMsg != "" {
		s += lipgloss.NewStyle().Foreground(successColor).
			Render("  "+m.statusMsg) + "\n\n"
	}

	if len(m.jobs) == 0 {
		s += subtitleStyle.Render("  No jobs yet. Press 'n' to create one.") + "\n"
		return s
	}

	for i, job := range m.jobs {
		s += m.renderJob(i, job) + "\n"
	}

	s += "\n" + helpStyle.Render("  ↑/↓: navigate  n: new  e: edit  enter: details  d: delete")

	return s
}

func (m *JobsModel) renderJob(index int, job *domain.Job) string {
	selected := index == m.cursor

	clientName := "(unknown client)"
	if job.Client != nil {
		clientName = job.Client.Name
	}

	totals := service.ComputeTotals(job.Items)

	indicator := "  "
	if selected {
		indicator = "> "
	}

	line1 := fmt.Sprintf("%s%s  %s", indicator, job.Date, truncateStr(job.Description, 45))
	line2 := fmt.Sprintf("    %s  |  %d item(s)  |  %s",
		clientName, len(job.Items), formatMoney(totals.Total))

	nameStyle := lipgloss.NewStyle()
	if selected {
		nameStyle = nameStyle.Bold(true).Foreground(primaryColor)
	}

	return nameStyle.Render(line1) + "\n" + subtitleStyle.Render(line2)
}

func (m *JobsModel) viewDetail() string {
	job := m.jobs[m.cursor]

	clientName := "(unknown client)"
	if job.Client != nil {
		clientName = job.Client.Name
	}

	var s string
	s += titleStyle.Render("Job Details") + "\n\n"
	s += fmt.Sprintf("  Client: %s\n", clientName)
	s += fmt.Sprintf("  Date:   %s\n", job.Date)
	s += fmt.Sprintf("  %s\n", job.Description)
	if job.Notes != "" {
		s += subtitleStyle.Render(fmt.Sprintf("  %s", job.Notes)) + "\n"
	}
	s += "\n"
	s += renderItemSummary(job.Items)
	s += "\n" + helpStyle.Render("  e: edit  d: delete  esc: back")
	return s
}

func (m *JobsModel) viewConfirmDelete() string {
	job := m.jobs[m.cursor]

	var s string
	s += titleStyle.Render("Delete Job") + "\n\n"
	s += fmt.Sprintf("  Delete %q and its %d item(s)?\n", truncateStr(job.Description, 40), len(job.Items))
	s += "\n" + helpStyle.Render("  y: delete  n/esc: cancel")
	return s
}

// renderItemSummary renders grouped line items with totals, shared by the
// job detail view and the form's summary tab
func renderItemSummary(items []*domain.JobItem) string {
	var s string

	renderGroup := func(heading string, itemType domain.ItemType) {
		var lines string
		for _, item := range items {
			if item.ItemType != itemType {
				continue
			}
			lines += fmt.Sprintf("    %-32s x%-3d %10s\n",
				truncateStr(item.Name, 32), item.Quantity, formatMoney(item.Amount()))
		}
		if lines != "" {
			s += subtitleStyle.Render("  "+heading) + "\n" + lines
		}
	}

	renderGroup("Parts", domain.ItemTypePart)
	renderGroup("Labour", domain.ItemTypeLabour)

	totals := service.ComputeTotals(items)
	if totals.PartCount == 0 && totals.LabourCount == 0 {
		s += subtitleStyle.Render("  No items") + "\n"
		return s
	}

	s += "\n"
	s += fmt.Sprintf("  Parts total:  %s\n", formatMoney(totals.PartTotal))
	s += fmt.Sprintf("  Labour total: %s\n", formatMoney(totals.LabourTotal))
	s += titleStyle.Render(fmt.Sprintf("  Job total:    %s", formatMoney(totals.Total))) + "\n"
	return s
}
