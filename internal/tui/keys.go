package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap はTUIのキーバインド。
type keyMap struct {
	Quit        key.Binding
	QuitList    key.Binding
	NextField   key.Binding
	PrevField   key.Binding
	Submit      key.Binding
	ToggleBreak key.Binding
	Up          key.Binding
	Down        key.Binding
	Delete      key.Binding
	Reload      key.Binding
	Confirm     key.Binding
	Cancel      key.Binding
	Dismiss     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:        key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "終了")),
		QuitList:    key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "終了")),
		NextField:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "次の項目")),
		PrevField:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "前の項目")),
		Submit:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "保存")),
		ToggleBreak: key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "休憩開始/終了")),
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "上へ")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "下へ")),
		Delete:      key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "削除")),
		Reload:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "再読み込み")),
		Confirm:     key.NewBinding(key.WithKeys("y", "enter"), key.WithHelp("y", "削除する")),
		Cancel:      key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "キャンセル")),
		Dismiss:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "エラーを閉じる")),
	}
}
