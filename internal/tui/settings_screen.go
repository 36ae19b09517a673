package tui

import (
	"fmt"

	"github.com/andy/jobtrack/internal/app"
	"github.com/andy/jobtrack/internal/catalog"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type settingsMode int

const (
	settingsModeView settingsMode = iota
	settingsModeEdit
)

// settings form field indices
const (
	settingsFieldPartsURL = iota
	settingsFieldLabourURL
	settingsFieldCount
)

type settingsSavedMsg struct {
	err error
}

// SettingsModel manages the settings screen
type SettingsModel struct {
	app        *app.App
	mode       settingsMode
	fields     []textinput.Model
	fieldFocus int
	err        error
	statusMsg  string
}

// NewSettingsModel creates a new settings screen
func NewSettingsModel(a *app.App) tea.Model {
	return &SettingsModel{
		app:  a,
		mode: settingsModeView,
	}
}

// IsCapturingInput returns true when the edit form is active
func (m *SettingsModel) IsCapturingInput() bool {
	return m.mode == settingsModeEdit
}

func (m *SettingsModel) Init() tea.Cmd {
	return nil
}

func (m *SettingsModel) initForm() {
	m.fields = make([]textinput.Model, settingsFieldCount)
	cfg := m.app.Config.Catalog

	// Parts catalog URL
	m.fields[settingsFieldPartsURL] = textinput.New()
	m.fields[settingsFieldPartsURL].Placeholder = "https://example.com/api/parts"
	m.fields[settingsFieldPartsURL].CharLimit = 256
	m.fields[settingsFieldPartsURL].Width = 60
	m.fields[settingsFieldPartsURL].SetValue(cfg.PartsURL)

	// Labour catalog URL
	m.fields[settingsFieldLabourURL] = textinput.New()
	m.fields[settingsFieldLabourURL].Placeholder = "https://example.com/api/labour"
	m.fields[settingsFieldLabourURL].CharLimit = 256
	m.fields[settingsFieldLabourURL].Width = 60
	m.fields[settingsFieldLabourURL].SetValue(cfg.LabourURL)

	m.fieldFocus = settingsFieldPartsURL
	m.fields[settingsFieldPartsURL].Focus()
}

func (m *SettingsModel) saveSettings() tea.Cmd {
	return func() tea.Msg {
		partsURL := m.fields[settingsFieldPartsURL].Value()
		labourURL := m.fields[settingsFieldLabourURL].Value()

		if !catalog.IsValidURL(partsURL) {
			return settingsSavedMsg{err: fmt.Errorf("parts URL must be an absolute http(s) URL")}
		}
		if !catalog.IsValidURL(labourURL) {
			return settingsSavedMsg{err: fmt.Errorf("labour URL must be an absolute http(s) URL")}
		}

		m.app.Config.Catalog.PartsURL = partsURL
		m.app.Config.Catalog.LabourURL = labourURL

		if err := m.app.SaveConfig(); err != nil {
			return settingsSavedMsg{err: fmt.Errorf("failed to save config: %w", err)}
		}

		return settingsSavedMsg{}
	}
}

func (m *SettingsModel) resetDefaults() tea.Cmd {
	return func() tea.Msg {
		m.app.Config.ResetCatalogURLs()
		if err := m.app.SaveConfig(); err != nil {
			return settingsSavedMsg{err: fmt.Errorf("failed to save config: %w", err)}
		}
		return settingsSavedMsg{}
	}
}

func (m *SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.mode == settingsModeEdit {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.statusMsg = "Settings saved"
		return m, nil

	case tea.KeyMsg:
		m.err = nil
		switch msg.String() {
		case "enter":
			m.mode = settingsModeEdit
			m.statusMsg = ""
			m.initForm()
			return m, m.fields[m.fieldFocus].Focus()
		case "r":
			m.statusMsg = ""
			return m, m.resetDefaults()
		}
	}

	return m, nil
}

func (m *SettingsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case settingsSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.mode = settingsModeView
		m.statusMsg = "Settings saved"
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.mode = settingsModeView
			m.err = nil
			return m, nil

		case "tab", "down":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus + 1) % settingsFieldCount
			return m, m.fields[m.fieldFocus].Focus()

		case "shift+tab", "up":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus - 1 + settingsFieldCount) % settingsFieldCount
			return m, m.fields[m.fieldFocus].Focus()

		case "enter":
			if m.fieldFocus == settingsFieldCount-1 {
				return m, m.saveSettings()
			}
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus++
			return m, m.fields[m.fieldFocus].Focus()

		case "ctrl+s":
			return m, m.saveSettings()
		}
	}

	var cmd tea.Cmd
	m.fields[m.fieldFocus], cmd = m.fields[m.fieldFocus].Update(msg)
	return m, cmd
}

func (m *SettingsModel) View() string {
	if m.mode == settingsModeEdit {
		return m.viewForm()
	}
	return m.viewSettings()
}

func (m *SettingsModel) viewForm() string {
	var s string
	s += titleStyle.Render("Edit Settings") + "\n\n"

	labels := []string{"Parts catalog URL:", "Labour catalog URL:"}
	for i, label := range labels {
		indicator := "  "
		if i == m.fieldFocus {
			indicator = "> "
		}
		labelStyle := subtitleStyle
		if i == m.fieldFocus {
			labelStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
		}
		s += fmt.Sprintf("%s%s\n  %s\n\n", indicator, labelStyle.Render(label), m.fields[i].View())
	}

	if m.err != nil {
		s += lipgloss.NewStyle().Foreground(errorColor).
			Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	s += helpStyle.Render("  tab/shift+tab: navigate fields  ctrl+s: save  enter: next/save  esc: cancel")
	return s
}

func (m *SettingsModel) viewSettings() string {
	cfg := m.app.Config

	var s string
	s += titleStyle.Render("Settings") + "\n\n"

	if m.statusMsg != "" {
		s += lipgloss.NewStyle().Foreground(successColor).
			Render("  "+m.statusMsg) + "\n\n"
	}
	if m.err != nil {
		s += lipgloss.NewStyle().Foreground(errorColor).
			Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	s += subtitleStyle.Render("  Parts catalog URL:") + "\n"
	s += fmt.Sprintf("    %s\n\n", cfg.Catalog.PartsURL)
	s += subtitleStyle.Render("  Labour catalog URL:") + "\n"
	s += fmt.Sprintf("    %s\n\n", cfg.Catalog.LabourURL)
	s += subtitleStyle.Render("  Database:") + "\n"
	s += fmt.Sprintf("    %s\n\n", cfg.Database.Path)
	s += subtitleStyle.Render("  Log file:") + "\n"
	s += fmt.Sprintf("    %s\n", cfg.Log.Path)

	s += "\n" + helpStyle.Render("  enter: edit catalog URLs  r: reset to defaults")
	return s
}
