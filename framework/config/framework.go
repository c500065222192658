package config

// AppMapping is the framework's own application settings, bound at "app".
// With the default sources, app.port is read from APP_PORT and so on.
var AppMapping = &Mapping{
	Name:   "AppConfig",
	Prefix: "app",
	Properties: []Property{
		{Name: "name", Type: Scalar("string"), Default: DefaultValue("GoLaravel")},
		{Name: "env", Type: Scalar("string"), Default: DefaultValue("local"), Rules: "in:local,production,testing"},
		{Name: "debug", Type: Scalar("bool"), Default: DefaultValue("true")},
		{Name: "url", Type: Custom("url"), Default: DefaultValue("http://localhost")},
		{Name: "port", Type: Scalar("int"), Default: DefaultValue("8000"), Rules: "integer|gte:1|lte:65535"},
		{Name: "key", Type: Optional(Scalar("string"))},
	},
}

// LoggingMapping configures framework logging, bound at "logging".
var LoggingMapping = &Mapping{
	Name:   "LoggingConfig",
	Prefix: "logging",
	Properties: []Property{
		{Name: "level", Type: Scalar("string"), Default: DefaultValue("info"), Rules: "in:debug,info,warn,error"},
		{Name: "format", Type: Scalar("string"), Default: DefaultValue("text"), Rules: "in:text,json"},
	},
}

// AppConfig is the typed view of AppMapping.
type AppConfig struct {
	Name  string
	Env   string // local | production | testing
	Debug bool
	URL   string
	Port  int
	Key   string
}

// LoggingConfig is the typed view of LoggingMapping.
type LoggingConfig struct {
	Level  string
	Format string
}

// AppFrom copies bound AppMapping values into an AppConfig.
func AppFrom(v *MappedValues) AppConfig {
	cfg := AppConfig{
		Name:  v.String("name"),
		Env:   v.String("env"),
		Debug: v.Bool("debug"),
		Port:  v.Int("port"),
		Key:   v.String("key"),
	}
	if u, ok := v.Get("url"); ok {
		if s, ok := u.(interface{ String() string }); ok {
			cfg.URL = s.String()
		}
	}
	return cfg
}

// LoggingFrom copies bound LoggingMapping values into a LoggingConfig.
func LoggingFrom(v *MappedValues) LoggingConfig {
	return LoggingConfig{Level: v.String("level"), Format: v.String("format")}
}
