package screens

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/carddex/pkg/app/components"
	"github.com/kerbaras/carddex/pkg/app/styles"
	"github.com/kerbaras/carddex/pkg/data"
	"github.com/kerbaras/carddex/pkg/search"
	"github.com/kerbaras/carddex/pkg/services"
)

// Controller is what the screens need from services.CardController.
type Controller interface {
	Load(ctx context.Context) (*services.HarvestReport, error)
	Refresh(ctx context.Context, refreshPacks bool) (*services.HarvestReport, error)
	ClearCache() error
	Search(query string) (search.Match, error)
	MultiSearch(raw string) ([]search.Match, error)
	Catalog() *data.Catalog
	Export(title string, matches []search.Match) (string, error)
	GetProgressChannel() <-chan services.HarvestProgress
}

type screenType int

const (
	searchView screenType = iota
	multiSearchView
	catalogView
	detailsView
)

var tabNames = []string{"Search", "Multi Search", "Catalog"}

type RootScreen struct {
	controller Controller

	currentView  screenType
	previousView screenType
	search       *SearchScreen
	multiSearch  *SearchScreen
	catalog      *CatalogScreen
	details      *DetailsScreen
	progress     *components.ProgressTracker

	busy   bool
	status string
	isErr  bool

	width  int
	height int
}

func NewRootScreen(controller Controller) *RootScreen {
	return &RootScreen{
		controller:  controller,
		currentView: searchView,
		search:      NewSearchScreen(controller, false),
		multiSearch: NewSearchScreen(controller, true),
		catalog:     NewCatalogScreen(controller),
		progress:    components.NewProgressTracker(80),
		busy:        true,
		status:      "Loading cards...",
	}
}

func (r *RootScreen) Init() tea.Cmd {
	return tea.Batch(
		r.loadCatalog,
		r.listenForProgress,
		r.search.Init(),
	)
}

func (r *RootScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.width = msg.Width
		r.height = msg.Height
		r.progress.SetWidth(msg.Width - 4)
		// every screen keeps its own layout
		inner := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 6}
		r.search.Update(inner)
		r.multiSearch.Update(inner)
		r.catalog.Update(inner)
		if r.details != nil {
			r.details.Update(inner)
		}
		return r, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return r, tea.Quit
		case "q":
			if !r.typing() {
				return r, tea.Quit
			}
		case "tab":
			if r.currentView == detailsView {
				break
			}
			r.currentView = (r.currentView + 1) % screenType(len(tabNames))
			return r, r.initView()
		case "ctrl+r":
			if r.busy {
				r.setStatus("Busy, try again once the current job finishes", true)
				return r, nil
			}
			r.busy = true
			r.setStatus("Refreshing database...", false)
			return r, r.refresh
		case "ctrl+x":
			if r.busy {
				r.setStatus("Busy, try again once the current job finishes", true)
				return r, nil
			}
			return r, r.clearCache
		}

	case services.HarvestProgress:
		r.progress.Update(msg)
		return r, r.listenForProgress

	case catalogLoadedMsg:
		r.busy = false
		r.progress.Clear()
		switch {
		case msg.err != nil:
			r.setStatus(fmt.Sprintf("Error: %s", msg.err), true)
		case msg.report != nil:
			r.setStatus(msg.report.String(), false)
		default:
			r.setStatus(fmt.Sprintf("Loaded %d cards from cache", r.controller.Catalog().Len()), false)
		}
		return r, r.broadcast(catalogChangedMsg{})

	case cacheClearedMsg:
		if msg.err != nil {
			r.setStatus(fmt.Sprintf("Error: %s", msg.err), true)
			return r, nil
		}
		r.setStatus("Cache cleared", false)
		return r, r.broadcast(catalogChangedMsg{})

	case searchResultMsg:
		// results go back to the screen that asked, even after a tab switch
		target := r.search
		if msg.multi {
			target = r.multiSearch
		}
		_, cmd = target.Update(msg)
		return r, cmd

	case StatusMsg:
		r.setStatus(msg.Text, msg.Err)
		return r, nil

	case SwitchScreenMsg:
		switch msg.Screen {
		case "details":
			if match, ok := msg.Data.(search.Match); ok && match.Card != nil {
				r.details = NewDetailsScreen(r.controller, match)
				r.details.Update(tea.WindowSizeMsg{Width: r.width, Height: r.height - 6})
				r.previousView = r.currentView
				r.currentView = detailsView
				cmd = r.details.Init()
			}
		case "back":
			r.currentView = r.previousView
			r.details = nil
			cmd = r.initView()
		}
		return r, cmd
	}

	// Forward message to active screen
	switch r.currentView {
	case searchView:
		_, cmd = r.search.Update(msg)
	case multiSearchView:
		_, cmd = r.multiSearch.Update(msg)
	case catalogView:
		_, cmd = r.catalog.Update(msg)
	case detailsView:
		if r.details != nil {
			_, cmd = r.details.Update(msg)
		}
	}

	return r, cmd
}

func (r *RootScreen) View() string {
	tabs := r.renderTabs()

	var content string
	switch r.currentView {
	case searchView:
		content = r.search.View()
	case multiSearchView:
		content = r.multiSearch.View()
	case catalogView:
		content = r.catalog.View()
	case detailsView:
		if r.details != nil {
			content = r.details.View()
		}
	}

	if progress := r.progress.View(); progress != "" {
		content = progress + "\n" + content
	}

	return fmt.Sprintf("%s\n%s\n\n%s", tabs, r.renderStatus(), content)
}

func (r *RootScreen) renderTabs() string {
	if r.currentView == detailsView {
		return styles.SubtitleStyle.Render("Card details")
	}

	var tabs []string
	for i, name := range tabNames {
		if screenType(i) == r.currentView {
			tabs = append(tabs, styles.ActiveTabStyle.Render(name))
		} else {
			tabs = append(tabs, styles.InactiveTabStyle.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (r *RootScreen) renderStatus() string {
	cards := styles.MutedStyle.Render(fmt.Sprintf("%d cards • ctrl+r: refresh • ctrl+x: clear cache", r.controller.Catalog().Len()))
	if r.status == "" {
		return cards
	}

	style := styles.StatusOK
	switch {
	case r.isErr:
		style = styles.StatusError
	case r.busy:
		style = styles.StatusBusy
	}
	return style.Render(r.status) + "  " + cards
}

func (r *RootScreen) setStatus(text string, isErr bool) {
	r.status = text
	r.isErr = isErr
}

// typing reports whether a text input has focus, so "q" is a letter and not quit.
func (r *RootScreen) typing() bool {
	switch r.currentView {
	case searchView:
		return r.search.input.Focused()
	case multiSearchView:
		return r.multiSearch.input.Focused()
	}
	return false
}

func (r *RootScreen) initView() tea.Cmd {
	switch r.currentView {
	case searchView:
		return r.search.Init()
	case multiSearchView:
		return r.multiSearch.Init()
	case catalogView:
		return r.catalog.Init()
	}
	return nil
}

func (r *RootScreen) broadcast(msg tea.Msg) tea.Cmd {
	_, c1 := r.search.Update(msg)
	_, c2 := r.multiSearch.Update(msg)
	_, c3 := r.catalog.Update(msg)
	return tea.Batch(c1, c2, c3)
}

// Messages
type catalogLoadedMsg struct {
	report *services.HarvestReport
	err    error
}

type cacheClearedMsg struct {
	err error
}

// catalogChangedMsg tells screens to drop results that point at the old catalog.
type catalogChangedMsg struct{}

// StatusMsg replaces the status line.
type StatusMsg struct {
	Text string
	Err  bool
}

// SwitchScreenMsg asks the root to change view. Screen is "details" (Data is a
// search.Match) or "back".
type SwitchScreenMsg struct {
	Screen string
	Data   interface{}
}

// Commands
func (r *RootScreen) loadCatalog() tea.Msg {
	report, err := r.controller.Load(context.Background())
	return catalogLoadedMsg{report: report, err: err}
}

func (r *RootScreen) refresh() tea.Msg {
	report, err := r.controller.Refresh(context.Background(), false)
	return catalogLoadedMsg{report: report, err: err}
}

func (r *RootScreen) clearCache() tea.Msg {
	return cacheClearedMsg{err: r.controller.ClearCache()}
}

func (r *RootScreen) listenForProgress() tea.Msg {
	progress, ok := <-r.controller.GetProgressChannel()
	if !ok {
		return nil
	}
	return progress
}
