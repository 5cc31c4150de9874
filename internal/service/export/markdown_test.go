package export

import "testing"

func TestPlainText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"headers", "# Título\n\n## Sección", "Título\n\nSección"},
		{"bold and italic", "**fuerte** y *suave*", "fuerte y suave"},
		{"inline code", "usa `ley 50/1980` aquí", "usa ley 50/1980 aquí"},
		{"code blocks removed", "antes\n```go\ncode\n```\ndespués", "antes\n\ndespués"},
		{"links keep text", "ver [el código civil](https://example.com)", "ver el código civil"},
		{"images removed", "foto ![esquema](https://example.com/img.png) fin", "foto  fin"},
		{"bullets", "- uno\n- dos\n+ tres", "uno\ndos\ntres"},
		{"numbered lists", "1. uno\n2. dos", "uno\ndos"},
		{"blockquotes", "> cita legal", "cita legal"},
		{"horizontal rule", "uno\n\n---\n\ndos", "uno\n\ndos"},
		{"collapses blank runs", "uno\n\n\n\n\ndos", "uno\n\ndos"},
		{"strikethrough", "~~derogado~~", "derogado"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := PlainText(tc.in); got != tc.want {
				t.Fatalf("PlainText(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestPlainTextTrims(t *testing.T) {
	if got := PlainText("\n\n  texto  \n\n"); got != "texto" {
		t.Fatalf("unexpected result: %q", got)
	}
}
