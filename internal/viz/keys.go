package viz

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Pause       key.Binding
	Reset       key.Binding
	Constraints key.Binding
	Left        key.Binding
	Right       key.Binding
	Up          key.Binding
	Down        key.Binding
	Roll        key.Binding
	ZoomIn      key.Binding
	ZoomOut     key.Binding
	Faster      key.Binding
	Slower      key.Binding
	Theme       key.Binding
	Help        key.Binding
	Quit        key.Binding
}

var defaultKeys = keyMap{
	Pause: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "pause"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset"),
	),
	Constraints: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "constraints"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "rotate left"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "rotate right"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "tilt up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "tilt down"),
	),
	Roll: key.NewBinding(
		key.WithKeys("z"),
		key.WithHelp("z", "roll"),
	),
	ZoomIn: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "zoom in"),
	),
	ZoomOut: key.NewBinding(
		key.WithKeys("-", "_"),
		key.WithHelp("-", "zoom out"),
	),
	Faster: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "faster"),
	),
	Slower: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "slower"),
	),
	Theme: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "theme"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Reset, k.Constraints, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.Reset, k.Constraints, k.Faster, k.Slower},
		{k.Left, k.Right, k.Up, k.Down, k.Roll},
		{k.ZoomIn, k.ZoomOut, k.Theme, k.Help, k.Quit},
	}
}
