package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTermDictionary_Highlight(t *testing.T) {
	d := newTermDictionary()
	d.add("Кобзар", 1)
	d.add("Кирило-Мефодіївське братство", 2)
	d.add("братство", 3)
	d.add("Шевченко", 4)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "single word ignores case",
			in:   "Він видав КОБЗАР у 1840.",
			want: `Він видав <span class="term" data-term-id="1">КОБЗАР</span> у 1840.`,
		},
		{
			name: "longest phrase wins",
			in:   "Член Кирило-Мефодіївське братство з 1846",
			want: `Член <span class="term" data-term-id="2">Кирило-Мефодіївське братство</span> з 1846`,
		},
		{
			name: "phrase does not cross tags",
			in:   "<p>Мефодіївське</p> братство",
			want: `<p>Мефодіївське</p> <span class="term" data-term-id="3">братство</span>`,
		},
		{
			name: "tag attributes are not matched",
			in:   `<a title="Шевченко">вірш</a>`,
			want: `<a title="Шевченко">вірш</a>`,
		},
		{
			name: "less-than sign in text is not a tag",
			in:   "5 < 6 і Шевченко",
			want: `5 < 6 і <span class="term" data-term-id="4">Шевченко</span>`,
		},
		{
			name: "closing tag and comment are skipped",
			in:   "<!-- Шевченко --><b>Кобзар</b>",
			want: `<!-- Шевченко --><b><span class="term" data-term-id="1">Кобзар</span></b>`,
		},
		{
			name: "word inside a longer word is not matched",
			in:   "Шевченкове слово",
			want: "Шевченкове слово",
		},
		{
			name: "every occurrence is wrapped",
			in:   "Шевченко, Шевченко",
			want: `<span class="term" data-term-id="4">Шевченко</span>, <span class="term" data-term-id="4">Шевченко</span>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.highlight(tt.in))
		})
	}
}

func TestTermDictionary_FirstRegistrationWins(t *testing.T) {
	d := newTermDictionary()
	d.add("Kobzar", 1)
	d.add("kobzar", 2)
	assert.Equal(t, `<span class="term" data-term-id="1">kobzar</span>`, d.highlight("kobzar"))
}

func TestTermDictionary_Empty(t *testing.T) {
	d := newTermDictionary()
	d.add("  ", 1)
	assert.Equal(t, "text", d.highlight("text"))
}
