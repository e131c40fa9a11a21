package markdown

import "testing"

func TestStrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain text unchanged",
			in:   "Moonchain had a great day.",
			want: "Moonchain had a great day.",
		},
		{
			name: "emphasis and links",
			in:   "**Bold** text and [link](http://example.com) and `code`.",
			want: "Bold text and link and code.",
		},
		{
			name: "headings paragraphs and lists",
			in:   "# Title\n\nFirst paragraph.\n\n- one\n- two\n",
			want: "Title\nFirst paragraph.\none\ntwo",
		},
		{
			name: "soft line breaks kept",
			in:   "line one\nline two",
			want: "line one\nline two",
		},
		{
			name: "thematic break becomes divider",
			in:   "Part one.\n\n***\n\nPart two.",
			want: "Part one.\n---\nPart two.",
		},
		{
			name: "inline html dropped",
			in:   "Hello <b>world</b>!",
			want: "Hello world!",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Strip(tt.in); got != tt.want {
				t.Errorf("Strip() = %q, want %q", got, tt.want)
			}
		})
	}
}
