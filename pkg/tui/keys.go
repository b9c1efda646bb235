package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Prev     key.Binding
	Next     key.Binding
	PrevYear key.Binding
	NextYear key.Binding
	Up       key.Binding
	Down     key.Binding
	Select   key.Binding
	Pick     key.Binding
	Month    key.Binding
	Week     key.Binding
	Day      key.Binding
	Back     key.Binding
	Today    key.Binding
	GoTo     key.Binding
	Reload   key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Prev:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev")),
		Next:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
		PrevYear: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev year")),
		NextYear: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next year")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "cursor up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "cursor down")),
		Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open day")),
		Pick:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pick month")),
		Month:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "month")),
		Week:     key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "week")),
		Day:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "day")),
		Back:     key.NewBinding(key.WithKeys("esc")),
		Today:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		GoTo:     key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "go to date")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Select, k.Pick, k.Month, k.Week, k.Day, k.Today, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.PrevYear, k.NextYear},
		{k.Up, k.Down, k.Select, k.Pick},
		{k.Month, k.Week, k.Day, k.Today},
		{k.GoTo, k.Reload, k.Quit},
	}
}

// pickerKeyMap drives the month/year picker while it is open.
type pickerKeyMap struct {
	PrevMonth key.Binding
	NextMonth key.Binding
	PrevYear  key.Binding
	NextYear  key.Binding
	Confirm   key.Binding
	Cancel    key.Binding
}

func defaultPickerKeyMap() pickerKeyMap {
	return pickerKeyMap{
		PrevMonth: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "month")),
		NextMonth: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "month")),
		PrevYear:  key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "year")),
		NextYear:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "year")),
		Confirm:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "jump")),
		Cancel:    key.NewBinding(key.WithKeys("esc", "p"), key.WithHelp("esc", "cancel")),
	}
}

// ShortHelp implements help.KeyMap.
func (k pickerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevMonth, k.NextMonth, k.PrevYear, k.NextYear, k.Confirm, k.Cancel}
}

// FullHelp implements help.KeyMap.
func (k pickerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
