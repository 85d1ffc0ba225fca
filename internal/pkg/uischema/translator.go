package uischema

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

var supported = []language.Tag{
	language.English,
	language.SimplifiedChinese,
}

var (
	defaultLanguage = language.English
	matcher         = language.NewMatcher(supported)
	messageCatalog  = buildCatalog()
)

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(defaultLanguage))
	for tag, entries := range messages {
		for key, text := range entries {
			// SetString only fails for malformed tags, which the table cannot hold.
			_ = b.SetString(tag, key, text)
		}
	}
	return b
}

// Translator renders UI schema text in one language.
type Translator struct {
	tag     language.Tag
	printer *message.Printer
}

// NewTranslator picks the best supported language for an Accept-Language
// header value. English is used when nothing matches.
func NewTranslator(acceptLanguage string) *Translator {
	tag := defaultLanguage
	if tags, _, err := language.ParseAcceptLanguage(acceptLanguage); err == nil && len(tags) > 0 {
		_, idx, confidence := matcher.Match(tags...)
		if confidence != language.No {
			tag = supported[idx]
		}
	}
	return &Translator{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(messageCatalog)),
	}
}

// T translates a message key. Unknown keys are returned unchanged.
func (t *Translator) T(key string, args ...interface{}) string {
	return t.printer.Sprintf(key, args...)
}

// Language is the BCP 47 tag in use.
func (t *Translator) Language() string {
	return t.tag.String()
}
