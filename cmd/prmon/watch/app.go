package watch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/wangxiyuan/pr-notification/cmd/prmon/watch/add"
	"github.com/wangxiyuan/pr-notification/monitor"
)

var docStyle = lipgloss.NewStyle().Margin(1, 2)

const (
	titleRunning    = "Watch list"
	titleStopped    = "Watch list (stopped)"
	titleRefreshing = "Refreshing"
)

const fetchTimeout = 8 * time.Second

type modelView int

const (
	listView modelView = iota
	addItemView
	detailView
)

type refreshIntervalMsg struct{}

type refreshCompleteMsg struct {
	items []item
	// scheduled refreshes re-arm the interval timer on completion,
	// manual ones leave the existing schedule untouched.
	scheduled bool
}

type itemRefreshedMsg struct {
	item item
}

// Model is the top-level Bubble Tea model for the watch list.
type Model struct {
	watchFile string
	interval  time.Duration
	fetcher   monitor.StatusFetcher

	view       modelView
	list       list.Model
	add        add.Model
	paused     bool
	refreshing bool
	height     int
}

// New builds the watch list model, loading previously watched pull
// requests from watchFile and merging in any extra refs from the
// command line.
func New(fetcher monitor.StatusFetcher, interval time.Duration, watchFile string, extra []monitor.PullRequestRef) (Model, error) {
	if err := monitor.ValidateInterval(interval); err != nil {
		return Model{}, err
	}

	items, err := load(watchFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Model{}, fmt.Errorf("loading watch list %s: %w", watchFile, err)
	}

	for _, ref := range extra {
		if !containsRef(items, ref) {
			items = append(items, newItem(ref))
		}
	}

	return Model{
		watchFile: watchFile,
		interval:  interval,
		fetcher:   fetcher,
		view:      listView,
		list:      newList(items),
		add:       add.New(),
	}, nil
}

func containsRef(items []item, ref monitor.PullRequestRef) bool {
	for _, i := range items {
		if i.ref == ref {
			return true
		}
	}
	return false
}

func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return refreshIntervalMsg{} }
}

func (m Model) View() string {
	switch m.view {
	case addItemView:
		return docStyle.Render(m.add.View())
	case detailView:
		return docStyle.Render(m.detailContent())
	default:
		return docStyle.Render(m.list.View())
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.height = msg.Height - v
		m.list.SetSize(msg.Width-h, m.height)
		m.add.SetHeight(m.height)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case addItemView:
			return m.updateAddItemView(msg)
		case detailView:
			switch msg.String() {
			case "esc", "enter":
				m.view = listView
			}
			return m, nil
		default:
			return m.updateListView(msg)
		}

	case refreshIntervalMsg:
		if m.paused {
			return m, nil
		}
		if m.refreshing {
			// A manual refresh is in flight, keep the schedule alive.
			return m, m.refreshIntervalCmd()
		}
		pending := m.pendingItems()
		if len(pending) == 0 {
			return m, m.refreshIntervalCmd()
		}
		m.refreshing = true
		m.list.Title = titleRefreshing
		return m, tea.Batch(m.list.StartSpinner(), refreshItems(m.fetcher, pending, true))

	case refreshCompleteMsg:
		m.refreshing = false
		m.list.Title = m.title()
		m.list.StopSpinner()

		var cmds []tea.Cmd
		for _, updated := range msg.items {
			for idx, existing := range m.items() {
				if existing.Key() != updated.Key() {
					continue
				}
				if !existing.Completed() && updated.Completed() {
					cmds = append(cmds, tea.Printf("\a"))
				}
				cmds = append(cmds, m.list.SetItem(idx, updated))
			}
		}
		if msg.scheduled {
			cmds = append(cmds, m.refreshIntervalCmd())
		}
		return m, tea.Batch(cmds...)

	case itemRefreshedMsg:
		for idx, existing := range m.items() {
			if existing.Key() == msg.item.Key() {
				return m, m.list.SetItem(idx, msg.item)
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, listKeys.quit):
		return m, tea.Quit

	case key.Matches(msg, listKeys.add):
		m.view = addItemView
		m.add.Reset()
		return m, m.add.Focus()

	case key.Matches(msg, listKeys.delete):
		idx := m.list.Index()
		items := m.items()
		if idx < 0 || idx >= len(items) {
			return m, nil
		}
		m.list.RemoveItem(idx)
		return m, m.save()

	case key.Matches(msg, listKeys.refresh):
		return m.refreshNow()

	case key.Matches(msg, listKeys.toggle):
		return m.togglePaused()

	case key.Matches(msg, listKeys.clear):
		return m.clearStatus()

	case key.Matches(msg, listKeys.detail):
		if len(m.items()) > 0 {
			m.view = detailView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateAddItemView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, add.ExitKey) {
		m.view = listView
		return m, nil
	}

	var cmd tea.Cmd
	m.add, cmd = m.add.Update(msg)
	if !m.add.Completed {
		return m, cmd
	}

	m.view = listView
	ref := m.add.Ref
	if containsRef(m.items(), ref) {
		return m, m.list.NewStatusMessage("Already watching " + ref.String())
	}

	i := newItem(ref)
	return m, tea.Batch(
		m.list.InsertItem(0, i),
		refreshItem(m.fetcher, i),
		m.save(),
	)
}

func (m Model) refreshNow() (tea.Model, tea.Cmd) {
	if m.paused {
		return m, m.list.NewStatusMessage("Stopped, press s to resume")
	}
	if m.refreshing {
		return m, nil
	}
	pending := m.pendingItems()
	if len(pending) == 0 {
		return m, nil
	}
	m.refreshing = true
	m.list.Title = titleRefreshing
	return m, tea.Batch(m.list.StartSpinner(), refreshItems(m.fetcher, pending, false))
}

func (m Model) togglePaused() (tea.Model, tea.Cmd) {
	m.paused = !m.paused
	m.list.Title = m.title()
	if m.paused {
		return m, nil
	}
	return m, func() tea.Msg { return refreshIntervalMsg{} }
}

func (m Model) clearStatus() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	for idx, i := range m.items() {
		i.status = nil
		i.err = nil
		cmds = append(cmds, m.list.SetItem(idx, i))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) title() string {
	if m.paused {
		return titleStopped
	}
	return titleRunning
}

func (m Model) items() []item {
	listItems := m.list.Items()
	items := make([]item, 0, len(listItems))
	for _, li := range listItems {
		items = append(items, li.(item))
	}
	return items
}

// pendingItems returns the items still worth polling. Merged and closed
// pull requests never change again.
func (m Model) pendingItems() []item {
	var pending []item
	for _, i := range m.items() {
		if i.Completed() {
			continue
		}
		pending = append(pending, i)
	}
	return pending
}

func (m Model) refreshIntervalCmd() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return refreshIntervalMsg{}
	})
}

func (m Model) save() tea.Cmd {
	return func() tea.Msg {
		if err := save(m.watchFile, m.items()); err != nil {
			return m.list.NewStatusMessage("Save failed: " + err.Error())()
		}
		return m.list.NewStatusMessage("Saved")()
	}
}

func refreshItems(fetcher monitor.StatusFetcher, items []item, scheduled bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		updated := make([]item, len(items))
		var g errgroup.Group
		for idx, i := range items {
			idx, i := idx, i
			g.Go(func() error {
				updated[idx] = i.refresh(ctx, fetcher)
				return nil
			})
		}
		g.Wait()

		return refreshCompleteMsg{items: updated, scheduled: scheduled}
	}
}

func refreshItem(fetcher monitor.StatusFetcher, i item) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		return itemRefreshedMsg{item: i.refresh(ctx, fetcher)}
	}
}

func save(filename string, items []item) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

// load reads the persisted watch list. Entries whose URL no longer
// parses are dropped instead of failing the whole load.
func load(filename string) ([]item, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var stored []item
	if err := json.NewDecoder(f).Decode(&stored); err != nil {
		return nil, err
	}

	items := make([]item, 0, len(stored))
	for _, i := range stored {
		ref, err := monitor.ParseURL(i.URL)
		if err != nil {
			continue
		}
		i.ref = ref
		items = append(items, i)
	}
	return items, nil
}
