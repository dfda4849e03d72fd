// Package tui implements the interactive tabbed browse screen over the
// profile directory.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/saarthi-app/saarthi/internal/cli"
	"github.com/saarthi-app/saarthi/internal/model"
	"github.com/saarthi-app/saarthi/internal/query"
	"github.com/saarthi-app/saarthi/internal/service"
)

var tabs = []query.View{
	query.ViewDirectory,
	query.ViewLoans,
	query.ViewInvestments,
	query.ViewCIBIL,
}

var categoriesByView = map[query.View][]string{
	query.ViewLoans:       {"all", "vehicle", "home", "personal", "education", "gold", "high-risk"},
	query.ViewInvestments: {"all", "stocks", "mutual-funds", "fixed-deposits", "gold", "high-value"},
}

var loanSortFields = []query.SortField{
	query.SortByName,
	query.SortByTotalLoans,
	query.SortByTotalEMIs,
	query.SortBySalary,
}

type peopleLoadedMsg struct {
	people []model.Person
}

type loadFailedMsg struct {
	err error
}

// BrowseModel is the bubbletea model for the browse screen. Changing the
// active tab, category, or search term always resets the page to 1 so a
// shorter filtered list never leaves the user on a blank page.
type BrowseModel struct {
	store    service.Storage
	err      error
	search   textinput.Model
	people   []model.Person
	currency string

	activeTab int
	category  int
	sortField int
	sortDesc  bool
	page      int
	width     int
	loaded    bool
}

// NewBrowseModel creates the browse screen backed by the given storage.
func NewBrowseModel(store service.Storage, currency string) BrowseModel {
	search := textinput.New()
	search.Placeholder = "name, state, or number"
	search.Prompt = "/ "
	search.CharLimit = 64

	return BrowseModel{
		store:    store,
		search:   search,
		currency: currency,
		page:     1,
	}
}

// Init loads the snapshot from storage.
func (m BrowseModel) Init() tea.Cmd {
	return m.loadPeople()
}

func (m BrowseModel) loadPeople() tea.Cmd {
	return func() tea.Msg {
		people, err := m.store.GetAllPeople(context.Background())
		if err != nil {
			return loadFailedMsg{err: err}
		}
		return peopleLoadedMsg{people: people}
	}
}

// Update handles messages.
func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case peopleLoadedMsg:
		m.people = msg.people
		m.loaded = true
		return m, nil

	case loadFailedMsg:
		m.err = msg.err
		m.loaded = true
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.search.Focused() {
			switch msg.String() {
			case "enter", "esc":
				m.search.Blur()
				return m, nil
			default:
				before := m.search.Value()
				var cmd tea.Cmd
				m.search, cmd = m.search.Update(msg)
				if m.search.Value() != before {
					m.page = 1
				}
				return m, cmd
			}
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab", "right":
			m.activeTab = (m.activeTab + 1) % len(tabs)
			m.resetView()
			return m, nil
		case "shift+tab", "left":
			m.activeTab = (m.activeTab + len(tabs) - 1) % len(tabs)
			m.resetView()
			return m, nil
		case "/":
			m.search.Focus()
			return m, textinput.Blink
		case "c":
			if cats := categoriesByView[m.currentView()]; len(cats) > 0 {
				m.category = (m.category + 1) % len(cats)
				m.page = 1
			}
			return m, nil
		case "s":
			if m.currentView() == query.ViewLoans {
				m.sortField = (m.sortField + 1) % len(loanSortFields)
			}
			return m, nil
		case "o":
			if m.currentView() == query.ViewLoans {
				m.sortDesc = !m.sortDesc
			}
			return m, nil
		case "n", "pgdown":
			if m.page < m.run().TotalPages {
				m.page++
			}
			return m, nil
		case "p", "pgup":
			if m.page > 1 {
				m.page--
			}
			return m, nil
		case "r":
			return m, m.loadPeople()
		}
	}

	return m, nil
}

func (m *BrowseModel) resetView() {
	m.category = 0
	m.page = 1
}

func (m BrowseModel) currentView() query.View {
	return tabs[m.activeTab]
}

func (m BrowseModel) currentCategory() string {
	cats := categoriesByView[m.currentView()]
	if len(cats) == 0 {
		return ""
	}
	return cats[m.category]
}

func (m BrowseModel) params() query.Params {
	params := query.Params{
		View:     m.currentView(),
		Category: m.currentCategory(),
		Search:   m.search.Value(),
		Page:     m.page,
	}
	if params.View == query.ViewLoans {
		params.SortField = loanSortFields[m.sortField]
		params.SortOrder = query.SortAsc
		if m.sortDesc {
			params.SortOrder = query.SortDesc
		}
	}
	return params
}

func (m BrowseModel) run() query.Result {
	return query.Run(m.people, m.params())
}

// View renders the browse screen.
func (m BrowseModel) View() string {
	if !m.loaded {
		return cli.SubtleStyle.Render("Loading profiles...")
	}
	if m.err != nil {
		return cli.FormatError(fmt.Sprintf("failed to load profiles: %v", m.err))
	}

	result := m.run()

	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(m.search.View())
	b.WriteString("\n\n")
	b.WriteString(m.renderRows(result))
	b.WriteString("\n")
	b.WriteString(m.renderFooter(result))
	return b.String()
}

func (m BrowseModel) renderTabs() string {
	active := lipgloss.NewStyle().Bold(true).Foreground(cli.PrimaryColor).Padding(0, 1)
	inactive := cli.SubtleStyle.Padding(0, 1)

	rendered := make([]string, 0, len(tabs))
	for i, tab := range tabs {
		label := strings.ToUpper(string(tab[0])) + string(tab[1:])
		if i == m.activeTab {
			rendered = append(rendered, active.Render(label))
		} else {
			rendered = append(rendered, inactive.Render(label))
		}
	}

	line := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	if cat := m.currentCategory(); cat != "" && cat != "all" {
		line += cli.InfoStyle.Render("  [" + cat + "]")
	}
	return line
}

func (m BrowseModel) renderRows(result query.Result) string {
	if len(result.Entries) == 0 {
		return cli.SubtleStyle.Render("No matching profiles.")
	}

	var b strings.Builder
	header := fmt.Sprintf("%-5s %-20s %-15s %14s %14s  %s",
		"No", "Name", "State", m.amountHeader(), "Salary", "Flags")
	b.WriteString(cli.TableHeaderStyle.Render(header))
	b.WriteString("\n")

	for _, entry := range result.Entries {
		flags := ""
		if entry.Metrics.HighRisk() {
			flags = cli.FormatRisk("high risk")
		}
		b.WriteString(fmt.Sprintf("%-5d %-20s %-15s %14s %14s  %s\n",
			entry.Person.No,
			truncate(entry.Person.Name, 20),
			truncate(entry.Person.State, 15),
			m.amount(entry),
			m.money(entry.Person.Salary),
			flags))
	}
	return b.String()
}

// amountHeader names the view-specific amount column.
func (m BrowseModel) amountHeader() string {
	switch m.currentView() {
	case query.ViewLoans:
		return "Total EMIs"
	case query.ViewInvestments:
		return "Invested"
	case query.ViewCIBIL:
		return "Uploaded"
	default:
		return "Saving"
	}
}

func (m BrowseModel) amount(entry query.Entry) string {
	switch m.currentView() {
	case query.ViewLoans:
		return m.money(entry.Metrics.TotalEMIs)
	case query.ViewInvestments:
		return m.money(entry.Metrics.TotalInvestment)
	case query.ViewCIBIL:
		return entry.Person.CreatedAt.Format("2006-01-02")
	default:
		return m.money(entry.Person.Saving)
	}
}

func (m BrowseModel) money(amount float64) string {
	return money.NewFromFloat(amount, m.currency).Display()
}

func (m BrowseModel) renderFooter(result query.Result) string {
	totalPages := result.TotalPages
	if totalPages == 0 {
		totalPages = 1
	}
	status := fmt.Sprintf("Page %d/%d • %d profiles", result.Page, totalPages, result.TotalMatches)
	help := "tab: view • /: search • c: category • s/o: sort • n/p: page • r: reload • q: quit"
	return cli.SubtleStyle.Render(status + "\n" + help)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
