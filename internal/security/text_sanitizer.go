// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizer は勤務記録の自由入力テキスト（プロジェクト名・メモ・作成者）から
// HTMLタグを取り除き、プレーンテキストとして保存できる形に正規化する。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizerService はプレーンテキストのサニタイズ機能のインターフェースを定義する。
type TextSanitizerService interface {
	// Sanitize は全てのHTMLタグを除去し、前後の空白を取り除いた文字列を返す。
	// script, styleはタグだけでなく中身も除去される。
	// 空文字列の入力には空文字列を返す。
	Sanitize(raw string) string
}

// TextSanitizer はTextSanitizerServiceの実装。
// bluemondayのStrictPolicyを保持し、スレッドセーフにサニタイズ処理を行う。
type TextSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerの新しいインスタンスを生成する。
func NewTextSanitizer() *TextSanitizer {
	return &TextSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は全てのHTMLタグを除去したプレーンテキストを返す。
// StrictPolicyは出力をHTMLエスケープするため、保存前に元の文字へ戻す。
func (s *TextSanitizer) Sanitize(raw string) string {
	if raw == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(raw)))
}
