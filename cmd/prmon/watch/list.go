package watch

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"

	"github.com/wangxiyuan/pr-notification/cmd/prmon/watch/style"
)

func newList(items []item) list.Model {
	listItems := make([]list.Item, 0, len(items))
	for _, item := range items {
		listItems = append(listItems, item)
	}

	m := list.New(listItems, newItemDelegate(), 0, 0)
	m.Title = titleRunning
	m.SetStatusBarItemName("pull request", "pull requests")
	m.SetShowStatusBar(false)
	m.SetFilteringEnabled(false)
	m.DisableQuitKeybindings()
	m.Styles.Title = m.Styles.Title.Background(style.Highlight)

	return m
}

type listKeyMap struct {
	quit    key.Binding
	add     key.Binding
	delete  key.Binding
	refresh key.Binding
	toggle  key.Binding
	clear   key.Binding
	detail  key.Binding
}

var listKeys = listKeyMap{
	quit: key.NewBinding(
		key.WithKeys("ctrl+c", "q"),
		key.WithHelp("q", "quit"),
	),
	add: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add"),
	),
	delete: key.NewBinding(
		key.WithKeys("d", "backspace"),
		key.WithHelp("d", "delete"),
	),
	refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh now"),
	),
	toggle: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "stop/resume"),
	),
	clear: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "clear status"),
	),
	detail: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "details"),
	),
}

func newItemDelegate() list.DefaultDelegate {
	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = d.Styles.SelectedTitle.BorderForeground(style.Highlight).Foreground(style.Highlight)
	d.Styles.SelectedDesc = d.Styles.SelectedDesc.BorderForeground(style.Highlight)

	d.ShortHelpFunc = func() []key.Binding {
		return []key.Binding{
			listKeys.add,
			listKeys.delete,
			listKeys.refresh,
			listKeys.toggle,
			listKeys.quit,
		}
	}

	d.FullHelpFunc = func() [][]key.Binding {
		return [][]key.Binding{{
			listKeys.add,
			listKeys.delete,
			listKeys.refresh,
			listKeys.toggle,
			listKeys.clear,
			listKeys.detail,
			listKeys.quit,
		}}
	}

	return d
}
