package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "hello", want: "hello"},
		{name: "trims", in: "  hello \n", want: "hello"},
		{name: "keeps tags", in: "use the <div> tag", want: "use the <div> tag"},
		{name: "keeps entities", in: "I typed &amp; literally", want: "I typed &amp; literally"},
		{name: "markup only", in: "<b></b>", want: "<b></b>"},
		{name: "blank", in: " \n\t", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.in))
		})
	}
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short", Excerpt("short"))
	assert.Equal(t, "Тестовый пост д", Excerpt("Тестовый пост для проверки"))
	assert.Equal(t, "bold title here", Excerpt("<b>bold</b> title here and more"))
	assert.Equal(t, "a < b & c", Excerpt("a < b & c"))
}

func TestParsePage(t *testing.T) {
	assert.Equal(t, 1, ParsePage(""))
	assert.Equal(t, 1, ParsePage("abc"))
	assert.Equal(t, 1, ParsePage("-3"))
	assert.Equal(t, 1, ParsePage("0"))
	assert.Equal(t, 4, ParsePage("4"))
}

func TestParseID(t *testing.T) {
	id, ok := ParseID("12")
	assert.True(t, ok)
	assert.Equal(t, uint(12), id)

	_, ok = ParseID("0")
	assert.False(t, ok)
	_, ok = ParseID("x")
	assert.False(t, ok)
}
