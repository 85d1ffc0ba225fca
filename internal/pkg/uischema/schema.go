// Package uischema describes settings forms rendered by the dashboard.
package uischema

// FieldType selects the dashboard input component.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldSecret   FieldType = "secret"
	FieldTextarea FieldType = "textarea"
	FieldSelect   FieldType = "select"
	FieldSwitch   FieldType = "switch"
	FieldJSON     FieldType = "json"
)

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type Field struct {
	Key         string    `json:"key"`
	Type        FieldType `json:"type"`
	Label       string    `json:"label"`
	Description string    `json:"description,omitempty"`
	Placeholder string    `json:"placeholder,omitempty"`
	Required    bool      `json:"required,omitempty"`
	Sensitive   bool      `json:"sensitive,omitempty"`
	Options     []Option  `json:"options,omitempty"`
}

type Group struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Fields      []Field `json:"fields"`
}

type Section struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Groups      []Group `json:"groups"`
}

type Schema struct {
	Version  string    `json:"version"`
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

// FilterSections returns a copy of the schema keeping only the sections
// accepted by keep.
func (s Schema) FilterSections(keep func(Section) bool) Schema {
	out := s
	out.Sections = make([]Section, 0, len(s.Sections))
	for _, section := range s.Sections {
		if keep(section) {
			out.Sections = append(out.Sections, section)
		}
	}
	return out
}

// FieldKeys lists every field key in schema order.
func (s Schema) FieldKeys() []string {
	var keys []string
	for _, section := range s.Sections {
		for _, group := range section.Groups {
			for _, field := range group.Fields {
				keys = append(keys, field.Key)
			}
		}
	}
	return keys
}
