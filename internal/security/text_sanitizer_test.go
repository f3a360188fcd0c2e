package security

import "testing"

func TestTextSanitizer_ImplementsInterface(t *testing.T) {
	var _ TextSanitizerService = (*TextSanitizer)(nil)
}

func TestTextSanitizer_Sanitize(t *testing.T) {
	sanitizer := NewTextSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "空文字列はそのまま", input: "", want: ""},
		{name: "プレーンテキストはそのまま", input: "Development", want: "Development"},
		{name: "日本語テキストはそのまま", input: "定例ミーティング", want: "定例ミーティング"},
		{name: "アンパサンドはエスケープされない", input: "R&D", want: "R&D"},
		{name: "引用符はエスケープされない", input: `"quoted" it's`, want: `"quoted" it's`},
		{name: "不等号を含む文はそのまま", input: "1 < 2", want: "1 < 2"},
		{name: "タグは除去され中身は残る", input: "<b>bold</b> text", want: "bold text"},
		{name: "scriptは中身ごと除去される", input: "note<script>alert(1)</script>", want: "note"},
		{name: "styleは中身ごと除去される", input: "<style>body{}</style>memo", want: "memo"},
		{name: "イベント属性付きタグも除去される", input: `<img src=x onerror="alert(1)">after`, want: "after"},
		{name: "前後の空白は除去される", input: "  Design  ", want: "Design"},
		{name: "改行は保持される", input: "line1\nline2", want: "line1\nline2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizer.Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestTextSanitizer_ConcurrentUse は複数goroutineから同時に呼び出せることを検証する。
func TestTextSanitizer_ConcurrentUse(t *testing.T) {
	sanitizer := NewTextSanitizer()

	done := make(chan string, 10)
	for i := 0; i < 10; i++ {
		go func() {
			done <- sanitizer.Sanitize("<p>hello</p>")
		}()
	}
	for i := 0; i < 10; i++ {
		if got := <-done; got != "hello" {
			t.Errorf("Sanitize = %q, want %q", got, "hello")
		}
	}
}
