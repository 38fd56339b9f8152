package common

// Resolution selects how var() usages are resolved.
type Resolution struct {
	Type ResolutionType `yaml:"type"`
	// Name is module specifier of the resolver, used with ResolutionTypeModule only.
	Name string `yaml:"name,omitempty" validate:"required_if=Type 1"`
}

// CustomPropertiesConfig is custom property policy of stylesheets.
type CustomPropertiesConfig struct {
	AllowDefinition bool       `yaml:"allow_definition"`
	Resolution      Resolution `yaml:"resolution"`
}

// StylesheetConfig groups stylesheet pipeline settings.
type StylesheetConfig struct {
	CustomProperties CustomPropertiesConfig `yaml:"custom_properties"`
	Scoping          Scoping                `yaml:"scoping"`
}

// OutputConfig groups output shaping settings.
type OutputConfig struct {
	Minify bool `yaml:"minify"`
}

// TransformOptions is the complete set of options recognized by a single
// transform call. It is passed by value and never retained.
type TransformOptions struct {
	// Namespace and Name identify the component. They are used to derive
	// scoping tokens and import specifiers.
	Namespace string
	Name      string

	StylesheetConfig StylesheetConfig
	OutputConfig     OutputConfig

	// Stylesheets lists module specifiers of stylesheets resolved for the
	// component; they are imported by the generated template module.
	Stylesheets []string
}

// NativeResolution returns options value for native var() resolution.
func NativeResolution() Resolution {
	return Resolution{Type: ResolutionTypeNative}
}

// ModuleResolution returns options value resolving var() through module.
func ModuleResolution(name string) Resolution {
	return Resolution{Type: ResolutionTypeModule, Name: name}
}
