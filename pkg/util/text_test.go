package util

import (
	"reflect"
	"strings"
	"testing"
)

func TestCountWords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"single word", "hello", 1},
		{"latin words", "one two three", 3},
		{"extra whitespace", "  one \t two\nthree  ", 3},
		{"cjk counts per rune", "你好世界", 4},
		{"mixed latin and cjk", "hello 世界 world", 4},
		{"punctuation attaches to word", "it's done, right?", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountWords(tt.text); got != tt.want {
				t.Errorf("CountWords(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestMakeExcerpt(t *testing.T) {
	if got := MakeExcerpt("short text", 200); got != "short text" {
		t.Errorf("MakeExcerpt() = %q, want unchanged", got)
	}

	// 连续空白压缩为单个空格
	if got := MakeExcerpt("a\n\nb\t c", 200); got != "a b c" {
		t.Errorf("MakeExcerpt() = %q, want %q", got, "a b c")
	}

	// 超长截断并追加省略号
	long := strings.Repeat("x", 300)
	got := MakeExcerpt(long, 10)
	if got != strings.Repeat("x", 10)+"..." {
		t.Errorf("MakeExcerpt() = %q", got)
	}

	// 按字符而不是字节截断
	got = MakeExcerpt(strings.Repeat("汉", 20), 5)
	if got != strings.Repeat("汉", 5)+"..." {
		t.Errorf("MakeExcerpt() cjk = %q", got)
	}

	if got := MakeExcerpt("anything", 0); got != "" {
		t.Errorf("MakeExcerpt() with zero limit = %q, want empty", got)
	}
}

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil", nil, []string{}},
		{"trims whitespace", []string{" go ", "notes"}, []string{"go", "notes"}},
		{"drops empty", []string{"", "  ", "go"}, []string{"go"}},
		{"dedup keeps first", []string{"go", "notes", "go"}, []string{"go", "notes"}},
		{"dedup after trim", []string{"go", " go"}, []string{"go"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTags(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeTags(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestEstimateReadingTime(t *testing.T) {
	tests := []struct {
		words int
		wpm   int
		want  int
	}{
		{0, 200, 0},
		{1, 200, 1},
		{200, 200, 1},
		{201, 200, 2},
		{1000, 200, 5},
		{100, 0, 1}, // 无效速度回退默认值
	}
	for _, tt := range tests {
		if got := EstimateReadingTime(tt.words, tt.wpm); got != tt.want {
			t.Errorf("EstimateReadingTime(%d, %d) = %d, want %d", tt.words, tt.wpm, got, tt.want)
		}
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"24h", "24h0m0s", false},
		{"7d", "168h0m0s", false},
		{"30m", "30m0s", false},
		{"soon", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseDuration(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseDuration(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDuration(%q) error = %v", tt.in, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("ParseDuration(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestGenerateShareToken(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		token := GenerateShareToken()
		if len(token) == 0 {
			t.Fatal("empty token")
		}
		if _, ok := seen[token]; ok {
			t.Fatalf("duplicate token generated: %s", token)
		}
		seen[token] = struct{}{}
	}
}
