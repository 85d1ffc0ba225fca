package storage

import "github.com/afilmory/core/internal/pkg/uischema"

// ProviderForm describes the dialog used to add or edit a provider.
type ProviderForm struct {
	Title       string                            `json:"title"`
	Description string                            `json:"description"`
	Common      []uischema.Field                  `json:"common"`
	Types       []uischema.Option                 `json:"types"`
	Fields      map[ProviderType][]uischema.Field `json:"fields"`
}

type fieldSpec struct {
	key         string
	kind        uischema.FieldType
	required    bool
	placeholder bool
}

var providerFields = map[ProviderType][]fieldSpec{
	ProviderS3: {
		{key: "bucket", kind: uischema.FieldText, required: true},
		{key: "region", kind: uischema.FieldText, placeholder: true},
		{key: "endpoint", kind: uischema.FieldText, placeholder: true},
		{key: "accessKeyId", kind: uischema.FieldText, required: true},
		{key: "secretAccessKey", kind: uischema.FieldSecret, required: true},
		{key: "prefix", kind: uischema.FieldText},
		{key: "customDomain", kind: uischema.FieldText, placeholder: true},
	},
	ProviderGitHub: {
		{key: "owner", kind: uischema.FieldText, required: true},
		{key: "repo", kind: uischema.FieldText, required: true},
		{key: "branch", kind: uischema.FieldText, placeholder: true},
		{key: "token", kind: uischema.FieldSecret, required: true},
		{key: "path", kind: uischema.FieldText},
	},
	ProviderLocal: {
		{key: "basePath", kind: uischema.FieldText, required: true, placeholder: true},
		{key: "baseUrl", kind: uischema.FieldText},
	},
	ProviderEagle: {
		{key: "libraryPath", kind: uischema.FieldText, required: true, placeholder: true},
		{key: "baseUrl", kind: uischema.FieldText},
	},
}

// ProviderFormSchema builds the translated provider form.
func ProviderFormSchema(t *uischema.Translator) ProviderForm {
	form := ProviderForm{
		Title:       t.T("provider.form.title"),
		Description: t.T("provider.form.description"),
		Common: []uischema.Field{
			{Key: "name", Type: uischema.FieldText, Label: t.T("provider.field.name.label"), Placeholder: t.T("provider.field.name.placeholder")},
		},
		Fields: make(map[ProviderType][]uischema.Field, len(providerFields)),
	}

	typeOptions := make([]uischema.Option, 0, len(ProviderTypes))
	for _, pt := range ProviderTypes {
		typeOptions = append(typeOptions, uischema.Option{Value: string(pt), Label: t.T("provider.type." + string(pt))})

		specs := providerFields[pt]
		fields := make([]uischema.Field, 0, len(specs))
		for _, spec := range specs {
			f := uischema.Field{
				Key:       spec.key,
				Type:      spec.kind,
				Label:     t.T("provider.field." + spec.key + ".label"),
				Required:  spec.required,
				Sensitive: spec.kind == uischema.FieldSecret,
			}
			if spec.placeholder {
				f.Placeholder = t.T("provider.field." + spec.key + ".placeholder")
			}
			fields = append(fields, f)
		}
		form.Fields[pt] = fields
	}
	form.Types = typeOptions
	form.Common = append(form.Common, uischema.Field{
		Key:      "type",
		Type:     uischema.FieldSelect,
		Label:    t.T("provider.field.type.label"),
		Required: true,
		Options:  typeOptions,
	})
	return form
}

// MissingRequiredFields lists required config keys the provider leaves blank.
func MissingRequiredFields(p *Provider) []string {
	var missing []string
	for _, spec := range providerFields[p.Type] {
		if spec.required && p.ConfigString(spec.key) == "" {
			missing = append(missing, spec.key)
		}
	}
	return missing
}
