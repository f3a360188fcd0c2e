// Package tui はsession.Sessionを操作するターミナルUIを提供する。
// 時計と休憩タイマーはtea.Tickで1秒ごとに駆動し、API呼び出しはtea.Cmdとして非同期に実行する。
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hitoshi/timesheet/internal/model"
	"github.com/hitoshi/timesheet/internal/session"
)

// 入力フォームの項目。fieldCountは一覧へのフォーカス位置を兼ねる。
const (
	fieldDate = iota
	fieldClockIn
	fieldClockOut
	fieldProject
	fieldNotes
	fieldCount
)

var fieldLabels = [fieldCount]string{"日付*", "出勤時刻*", "退勤時刻", "プロジェクト", "メモ"}

// --- メッセージ ---

type clockTickMsg time.Time

type breakTickMsg struct {
	gen uint64
}

type entriesLoadedMsg struct {
	entries []*model.TimesheetEntry
	err     error
}

type entryCreatedMsg struct {
	entry *model.TimesheetEntry
	err   error
}

type entryDeletedMsg struct {
	id  string
	err error
}

// Model はbubbleteaのルートモデル。
type Model struct {
	ctx     context.Context
	api     session.API
	session *session.Session
	keys    keyMap

	inputs   []textinput.Model
	focus    int
	selected int
	width    int
	quitting bool
}

// New はModelを生成する。ctxはAPI呼び出しに使い、TUI終了時にキャンセルされる想定。
func New(ctx context.Context, api session.API, sess *session.Session) Model {
	m := Model{
		ctx:     ctx,
		api:     api,
		session: sess,
		keys:    defaultKeyMap(),
		inputs:  make([]textinput.Model, fieldCount),
	}

	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 100
		ti.Width = 30
		m.inputs[i] = ti
	}
	m.inputs[fieldDate].Placeholder = "YYYY-MM-DD"
	m.inputs[fieldClockIn].Placeholder = "HH:MM"
	m.inputs[fieldClockOut].Placeholder = "HH:MM"
	m.inputs[fieldProject].Placeholder = strings.Join(model.ProjectChoices, " / ")
	m.inputs[fieldProject].ShowSuggestions = true
	m.inputs[fieldProject].SetSuggestions(model.ProjectChoices)
	m.inputs[fieldNotes].CharLimit = 2000
	m.inputs[fieldNotes].Width = 50

	m.loadDraft()
	m.inputs[fieldDate].Focus()
	return m
}

// Session は操作対象のSessionを返す。
func (m Model) Session() *session.Session {
	return m.session
}

// Init は時計の開始と初回の一覧取得を行う。
func (m Model) Init() tea.Cmd {
	m.session.BeginLoad()
	return tea.Batch(clockTick(), m.loadCmd(), textinput.Blink)
}

// Update はメッセージを処理する。
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case clockTickMsg:
		m.session.Tick(time.Time(msg))
		if m.quitting {
			return m, nil
		}
		return m, clockTick()

	case breakTickMsg:
		// 切り替え前の世代のtickはBreakTickがfalseを返し、そのまま止まる
		if m.session.BreakTick(msg.gen) {
			return m, breakTick(msg.gen)
		}
		return m, nil

	case entriesLoadedMsg:
		m.session.CompleteLoad(msg.entries, msg.err)
		m.clampSelection()
		return m, nil

	case entryCreatedMsg:
		m.session.CompleteSubmit(msg.entry, msg.err)
		if msg.err == nil {
			m.loadDraft()
		}
		return m, nil

	case entryDeletedMsg:
		m.session.CompleteDelete(msg.id, msg.err)
		m.clampSelection()
		return m, nil
	}

	if m.focus < fieldCount {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}

	// 削除確認中は確認・キャンセル以外を受け付けない
	if m.session.DeleteState() == session.DeletePending {
		switch {
		case key.Matches(msg, m.keys.Confirm):
			if id, ok := m.session.ConfirmDelete(); ok {
				return m, m.deleteCmd(id)
			}
		case key.Matches(msg, m.keys.Cancel):
			m.session.CancelDelete()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Dismiss) && m.session.ErrorMessage() != "":
		m.session.DismissError()
		return m, nil

	case key.Matches(msg, m.keys.ToggleBreak):
		gen := m.session.ToggleBreak()
		if m.session.BreakActive() {
			return m, breakTick(gen)
		}
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		m.acceptProjectSuggestion()
		return m, m.setFocus((m.focus + 1) % (fieldCount + 1))

	case key.Matches(msg, m.keys.PrevField):
		return m, m.setFocus((m.focus + fieldCount) % (fieldCount + 1))
	}

	if m.focus == fieldCount {
		return m.handleListKey(msg)
	}

	if key.Matches(msg, m.keys.Submit) {
		m.storeDraft()
		input, ok := m.session.BeginSubmit()
		if !ok {
			return m, nil
		}
		return m, m.createCmd(input)
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.storeDraft()
	return m, cmd
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	entries := m.session.Entries()

	switch {
	case key.Matches(msg, m.keys.QuitList):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}

	case key.Matches(msg, m.keys.Down):
		if m.selected < len(entries)-1 {
			m.selected++
		}

	case key.Matches(msg, m.keys.Delete):
		if len(entries) == 0 {
			return m, nil
		}
		if id, start := m.session.RequestDelete(entries[m.selected].ID); start {
			return m, m.deleteCmd(id)
		}

	case key.Matches(msg, m.keys.Reload):
		m.session.BeginLoad()
		return m, m.loadCmd()
	}
	return m, nil
}

// setFocus はフォーカスを移し、入力欄のフォーカス状態を合わせる。
func (m *Model) setFocus(i int) tea.Cmd {
	m.focus = i
	var cmd tea.Cmd
	for j := range m.inputs {
		if j == i {
			cmd = m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
	return cmd
}

// acceptProjectSuggestion はプロジェクト欄で候補が表示されていれば、その候補で確定する。
func (m *Model) acceptProjectSuggestion() {
	if m.focus != fieldProject {
		return
	}
	ti := &m.inputs[fieldProject]
	if s := ti.CurrentSuggestion(); s != "" && ti.Value() != "" {
		ti.SetValue(s)
		m.storeDraft()
	}
}

func (m *Model) storeDraft() {
	m.session.SetDraft(session.Draft{
		Date:     m.inputs[fieldDate].Value(),
		ClockIn:  m.inputs[fieldClockIn].Value(),
		ClockOut: m.inputs[fieldClockOut].Value(),
		Project:  m.inputs[fieldProject].Value(),
		Notes:    m.inputs[fieldNotes].Value(),
	})
}

func (m *Model) loadDraft() {
	d := m.session.Draft()
	m.inputs[fieldDate].SetValue(d.Date)
	m.inputs[fieldClockIn].SetValue(d.ClockIn)
	m.inputs[fieldClockOut].SetValue(d.ClockOut)
	m.inputs[fieldProject].SetValue(d.Project)
	m.inputs[fieldNotes].SetValue(d.Notes)
}

func (m *Model) clampSelection() {
	n := len(m.session.Entries())
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

// --- コマンド ---

func clockTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}

func breakTick(gen uint64) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return breakTickMsg{gen: gen}
	})
}

// recoverAs はAPI呼び出し中のpanicをエラーに変換し、完了メッセージが必ず届くようにする。
func recoverAs(msg *tea.Msg, build func(error) tea.Msg) {
	if r := recover(); r != nil {
		*msg = build(fmt.Errorf("unexpected panic: %v", r))
	}
}

func (m Model) loadCmd() tea.Cmd {
	api, ctx := m.api, m.ctx
	return func() (msg tea.Msg) {
		defer recoverAs(&msg, func(err error) tea.Msg { return entriesLoadedMsg{err: err} })
		entries, err := api.List(ctx)
		return entriesLoadedMsg{entries: entries, err: err}
	}
}

func (m Model) createCmd(input model.CreateTimesheetInput) tea.Cmd {
	api, ctx := m.api, m.ctx
	return func() (msg tea.Msg) {
		defer recoverAs(&msg, func(err error) tea.Msg { return entryCreatedMsg{err: err} })
		entry, err := api.Create(ctx, input)
		return entryCreatedMsg{entry: entry, err: err}
	}
}

func (m Model) deleteCmd(id string) tea.Cmd {
	api, ctx := m.api, m.ctx
	return func() (msg tea.Msg) {
		defer recoverAs(&msg, func(err error) tea.Msg { return entryDeletedMsg{id: id, err: err} })
		return entryDeletedMsg{id: id, err: api.Delete(ctx, id)}
	}
}
