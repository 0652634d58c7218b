package config

// Settings holds everything the server needs at startup. Values come from
// an optional YAML file, TABBIT_-prefixed environment variables, and
// command-line flags, in increasing order of precedence.
type Settings struct {
	Server   ServerSettings   `mapstructure:"server"`
	Database DatabaseSettings `mapstructure:"database"`
	Log      LogSettings      `mapstructure:"log"`
	Admin    AdminSettings    `mapstructure:"admin"`
	Draw     DrawSettings     `mapstructure:"draw"`
}

// ServerSettings configures the HTTP listener.
type ServerSettings struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port" validate:"gte=1,lte=65535"`
}

// DatabaseSettings configures the SQLite store.
type DatabaseSettings struct {
	Path string `mapstructure:"path" validate:"required"`
}

// LogSettings configures log level and the optional rotating file.
type LogSettings struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn warning error"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"gte=0"`
	Compress   bool   `mapstructure:"compress"`
	HTTP       bool   `mapstructure:"http"`
}

// AdminSettings configures tab-staff authentication. An empty password is
// replaced by a generated one at startup.
type AdminSettings struct {
	Password string `mapstructure:"password"`
}

// DrawSettings supplies the draw configuration for newly created
// tournaments. Existing tournaments keep their own stored configuration.
type DrawSettings struct {
	Sides                 int    `mapstructure:"sides" validate:"gte=2"`
	PanelSize             int    `mapstructure:"panel_size" validate:"gte=1"`
	AvoidInstitutionClash bool   `mapstructure:"avoid_institution_clash"`
	ByePolicy             string `mapstructure:"bye_policy" validate:"oneof=lowest_rank_bye no_bye"`
	PairingMethod         string `mapstructure:"pairing_method" validate:"oneof=adjacent fold"`
}

// Default returns the settings used when no file, environment, or flags
// override them.
func Default() Settings {
	return Settings{
		Server: ServerSettings{
			Host: "0.0.0.0",
			Port: 8090,
		},
		Database: DatabaseSettings{
			Path: "tabbit.db",
		},
		Log: LogSettings{
			Level:      "info",
			MaxSizeMB:  20,
			MaxBackups: 5,
			MaxAgeDays: 30,
		},
		Draw: DrawSettings{
			Sides:                 2,
			PanelSize:             1,
			AvoidInstitutionClash: true,
			ByePolicy:             "lowest_rank_bye",
			PairingMethod:         "adjacent",
		},
	}
}
