package envloader

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	type Config struct {
		Port     int    `env:"ENVLOADER_PORT" envDefault:"8080"`
		Host     string `env:"ENVLOADER_HOST" envDefault:"0.0.0.0"`
		LogLevel string `env:"ENVLOADER_LOG_LEVEL" envDefault:"info"`
	}

	config := &Config{}
	err := Load(config)
	require.NoError(t, err)

	assert.Equal(t, 8080, config.Port)
	assert.Equal(t, "0.0.0.0", config.Host)
	assert.Equal(t, "info", config.LogLevel)
}

func TestLoad_EnvOverridesDefault(t *testing.T) {
	type Config struct {
		Port int  `env:"ENVLOADER_PORT" envDefault:"8080"`
		Dev  bool `env:"ENVLOADER_DEV" envDefault:"false"`
	}

	os.Setenv("ENVLOADER_PORT", "9090")
	os.Setenv("ENVLOADER_DEV", "true")
	defer os.Unsetenv("ENVLOADER_PORT")
	defer os.Unsetenv("ENVLOADER_DEV")

	config := &Config{}
	err := Load(config)
	require.NoError(t, err)

	assert.Equal(t, 9090, config.Port)
	assert.True(t, config.Dev)
}

func TestLoad_DurationFields(t *testing.T) {
	type Config struct {
		Timeout time.Duration `env:"ENVLOADER_TIMEOUT" envDefault:"180s"`
		Quiet   time.Duration `env:"ENVLOADER_QUIET" envDefault:"4500ms"`
	}

	config := &Config{}
	err := Load(config)
	require.NoError(t, err)

	assert.Equal(t, 180*time.Second, config.Timeout)
	assert.Equal(t, 4500*time.Millisecond, config.Quiet)

	os.Setenv("ENVLOADER_TIMEOUT", "2m")
	defer os.Unsetenv("ENVLOADER_TIMEOUT")

	config2 := &Config{}
	require.NoError(t, Load(config2))
	assert.Equal(t, 2*time.Minute, config2.Timeout)
}

func TestLoad_InvalidDuration(t *testing.T) {
	type Config struct {
		Timeout time.Duration `env:"ENVLOADER_TIMEOUT" envDefault:"banana"`
	}

	err := Load(&Config{})
	require.Error(t, err)

	var fieldErr *FieldError
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "Timeout", fieldErr.FieldName)
}

func TestLoad_NestedStructs(t *testing.T) {
	type Redis struct {
		Addr string `env:"ENVLOADER_REDIS_ADDR" envDefault:"localhost:6379"`
		DB   int    `env:"ENVLOADER_REDIS_DB" envDefault:"0"`
	}
	type Config struct {
		Name  string `env:"ENVLOADER_NAME" envDefault:"gateway"`
		Redis Redis
		Extra *Redis
	}

	config := &Config{}
	err := Load(config)
	require.NoError(t, err)

	assert.Equal(t, "gateway", config.Name)
	assert.Equal(t, "localhost:6379", config.Redis.Addr)
	require.NotNil(t, config.Extra)
	assert.Equal(t, "localhost:6379", config.Extra.Addr)
}

func TestLoad_NotAPointer(t *testing.T) {
	type Config struct{}

	err := Load(Config{})
	require.Error(t, err)

	var invalidErr *InvalidConfigError
	assert.True(t, errors.As(err, &invalidErr))
}

func TestLoad_ConversionError(t *testing.T) {
	type Config struct {
		Port int `env:"ENVLOADER_PORT"`
	}

	os.Setenv("ENVLOADER_PORT", "abc")
	defer os.Unsetenv("ENVLOADER_PORT")

	err := Load(&Config{})
	require.Error(t, err)

	var fieldErr *FieldError
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "ENVLOADER_PORT", fieldErr.EnvVar)
	assert.Equal(t, "abc", fieldErr.Value)
}

func TestMustLoad_PanicsOnError(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustLoad deveria entrar em panic com config inválida")
		}
	}()
	MustLoad("não é struct")
}
