package config

import (
	stderrors "errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	apperrors "github.com/tabbitapp/tabbit/internal/errors"
)

var validate = validator.New()

// Load builds Settings from defaults, an optional YAML file, and
// TABBIT_-prefixed environment variables (server.port becomes
// TABBIT_SERVER_PORT). Pass an empty path to skip the file.
func Load(path string) (Settings, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// AutomaticEnv only surfaces keys viper already knows about, so every
	// key gets a registered default.
	defaults := Default()
	v.SetDefault("server.host", defaults.Server.Host)
	v.SetDefault("server.port", defaults.Server.Port)
	v.SetDefault("database.path", defaults.Database.Path)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.file", defaults.Log.File)
	v.SetDefault("log.max_size_mb", defaults.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", defaults.Log.MaxBackups)
	v.SetDefault("log.max_age_days", defaults.Log.MaxAgeDays)
	v.SetDefault("log.compress", defaults.Log.Compress)
	v.SetDefault("log.http", defaults.Log.HTTP)
	v.SetDefault("admin.password", defaults.Admin.Password)
	v.SetDefault("draw.sides", defaults.Draw.Sides)
	v.SetDefault("draw.panel_size", defaults.Draw.PanelSize)
	v.SetDefault("draw.avoid_institution_clash", defaults.Draw.AvoidInstitutionClash)
	v.SetDefault("draw.bye_policy", defaults.Draw.ByePolicy)
	v.SetDefault("draw.pairing_method", defaults.Draw.PairingMethod)

	v.SetEnvPrefix("TABBIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, apperrors.Wrap(err, apperrors.ErrInvalidInput, "reading config file")
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, apperrors.Wrap(err, apperrors.ErrInvalidInput, "parsing config")
	}
	if err := validate.Struct(&s); err != nil {
		var verrs validator.ValidationErrors
		if stderrors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return Settings{}, apperrors.Validationf("config: %s failed %s check", strings.ToLower(f.Namespace()), f.Tag())
		}
		return Settings{}, apperrors.Wrap(err, apperrors.ErrValidation, "validating config")
	}
	return s, nil
}
