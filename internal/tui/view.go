package tui

import (
	"fmt"
	"strings"

	"github.com/hitoshi/timesheet/internal/model"
	"github.com/hitoshi/timesheet/internal/session"
)

// View は画面全体を描画する。
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	if msg := m.session.ErrorMessage(); msg != "" {
		b.WriteString(styleError.Render("エラー: "+msg) + "  " + styleDim.Render("(esc で閉じる)") + "\n\n")
	}

	b.WriteString(styleClock.Render(m.session.ClockDisplay()) + "\n")
	b.WriteString(styleDim.Render("ログインユーザー: "+m.session.User()) + "\n")

	m.renderBreak(&b)
	m.renderForm(&b)
	m.renderEntries(&b)

	if m.session.DeleteState() == session.DeletePending {
		b.WriteString(styleDialog.Render(
			"勤務記録の削除\nこの勤務記録を削除しますか？この操作は取り消せません。\n\n" +
				styleDim.Render("y: 削除する  n: キャンセル"),
		))
		b.WriteString("\n")
	}

	b.WriteString("\n" + styleDim.Render(m.helpLine()) + "\n")
	return b.String()
}

func (m Model) renderBreak(b *strings.Builder) {
	b.WriteString(styleHeader.Render("休憩タイマー") + "\n")
	if m.session.BreakActive() {
		b.WriteString("休憩中\n")
	} else {
		b.WriteString(styleDim.Render("休憩を開始できます") + "\n")
	}
	if m.session.ShowBreakTimer() {
		b.WriteString(styleTimer.Render(m.session.BreakDisplay()) + "\n")
	}
}

func (m Model) renderForm(b *strings.Builder) {
	b.WriteString(styleHeader.Render("勤務記録の追加") + "\n")
	for i, ti := range m.inputs {
		label := styleLabel.Render(fieldLabels[i])
		if i == m.focus {
			label = styleSelected.Render("> ") + label
		} else {
			label = "  " + label
		}
		b.WriteString(label + ti.View() + "\n")
	}
	if m.session.Submitting() {
		b.WriteString(styleDim.Render("  保存中...") + "\n")
	}
}

func (m Model) renderEntries(b *strings.Builder) {
	b.WriteString(styleHeader.Render("最近の勤務記録") + "\n")
	if m.session.Loading() {
		b.WriteString(styleDim.Render("読み込み中...") + "\n")
		return
	}

	entries := m.session.Entries()
	if len(entries) == 0 {
		b.WriteString(styleDim.Render("勤務記録はありません") + "\n")
		return
	}

	b.WriteString(styleDim.Render(fmt.Sprintf("  %-10s  %-8s  %-8s  %-12s  %s", "日付", "出勤", "退勤", "プロジェクト", "メモ")) + "\n")
	for i, e := range entries {
		line := formatEntry(e)
		if m.focus == fieldCount && i == m.selected {
			b.WriteString(styleSelected.Render("> "+line) + "\n")
			continue
		}
		b.WriteString("  " + line + "\n")
	}
}

// formatEntry は一覧の1行を整形する。未入力の任意項目は "-" で表示する。
func formatEntry(e *model.TimesheetEntry) string {
	return fmt.Sprintf("%-10s  %-8s  %-8s  %-12s  %s",
		e.Date.String(), e.ClockIn, orDash(e.ClockOut), orDash(e.Project), orDash(firstLine(e.Notes)))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + "…"
	}
	return s
}

func (m Model) helpLine() string {
	bindings := []string{
		m.keys.NextField.Help().Key + " " + m.keys.NextField.Help().Desc,
		m.keys.ToggleBreak.Help().Key + " " + m.keys.ToggleBreak.Help().Desc,
	}
	if m.focus == fieldCount {
		bindings = append(bindings,
			m.keys.Delete.Help().Key+" "+m.keys.Delete.Help().Desc,
			m.keys.Reload.Help().Key+" "+m.keys.Reload.Help().Desc,
			m.keys.QuitList.Help().Key+" "+m.keys.QuitList.Help().Desc,
		)
	} else {
		bindings = append(bindings, m.keys.Submit.Help().Key+" "+m.keys.Submit.Help().Desc)
	}
	bindings = append(bindings, m.keys.Quit.Help().Key+" "+m.keys.Quit.Help().Desc)
	return strings.Join(bindings, " • ")
}
