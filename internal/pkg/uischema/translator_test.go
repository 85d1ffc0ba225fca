package uischema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTranslator_LanguageMatching(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{header: "", want: "en"},
		{header: "zh-CN,zh;q=0.9,en;q=0.8", want: "zh-Hans"},
		{header: "zh-Hans", want: "zh-Hans"},
		{header: "de-DE,de;q=0.9", want: "en"},
		{header: "en-GB", want: "en"},
		{header: ";;;garbage", want: "en"},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, NewTranslator(tt.header).Language())
		})
	}
}

func TestTranslator_T(t *testing.T) {
	en := NewTranslator("en")
	zh := NewTranslator("zh-CN")

	assert.Equal(t, "Storage", en.T("section.builder-storage.title"))
	assert.Equal(t, "存储", zh.T("section.builder-storage.title"))
	assert.Equal(t, "Connected to photos.", en.T("provider.test.ok", "photos"))
	assert.Equal(t, "missing.key", zh.T("missing.key"))
}

func TestSchema_FilterSections(t *testing.T) {
	s := Schema{Sections: []Section{
		{ID: "site", Groups: []Group{{Fields: []Field{{Key: "site.name"}}}}},
		{ID: "builder-storage", Groups: []Group{{Fields: []Field{{Key: "a"}, {Key: "b"}}}}},
	}}

	filtered := s.FilterSections(func(sec Section) bool { return sec.ID == "builder-storage" })
	assert.Len(t, filtered.Sections, 1)
	assert.Len(t, s.Sections, 2)
	assert.Equal(t, []string{"a", "b"}, filtered.FieldKeys())
}
