package htmltext

import "testing"

func TestText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"電車", "電車"},
		{"  猫 ", "猫"},
		{"<b>猫</b>", "猫"},
		{`<span style="color:red">食べる</span>&nbsp;`, "食べる"},
		{"train<br>electric train", "train\nelectric train"},
		{"A &amp; B", "A & B"},
		{"<div><ruby>漢<rt>かん</rt></ruby>字</div>", "漢かん字"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Text(tt.in); got != tt.want {
			t.Errorf("Text(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
