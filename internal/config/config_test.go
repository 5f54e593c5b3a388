package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParse_Defaults(t *testing.T) {
	o, err := parse([]string{"-c", filepath.Join(t.TempDir(), "missing.json")}, env(nil))
	require.NoError(t, err)

	assert.Equal(t, DefaultAddress, o.Port)
	assert.Equal(t, DefaultStoreDSN, o.StoreDSN)
	assert.Equal(t, DefaultCurrency, o.Currency)
	assert.Equal(t, DefaultLogLevel, o.LogLevel)
	assert.Equal(t, DefaultRetention, o.Retention.Duration)
	assert.Empty(t, o.TemplatesDir)
}

func TestParse_Precedence(t *testing.T) {
	jsonFile := writeFile(t, "config.json", `{"server_address":"file:1","store_dsn":"memory:","currency":"USD","retention":"1h","log_level":"debug"}`)
	tomlFile := writeFile(t, "config.toml", "server_address = \"toml:1\"\nstore_dsn = \"sqlite:x.db\"\nretention = \"2h\"\n")

	tests := []struct {
		name      string
		args      []string
		env       map[string]string
		wantAddr  string
		wantDSN   string
		wantCur   string
		wantRet   time.Duration
		wantLevel string
	}{
		{
			name:      "json file over defaults",
			args:      []string{"-c", jsonFile},
			wantAddr:  "file:1",
			wantDSN:   "memory:",
			wantCur:   "USD",
			wantRet:   time.Hour,
			wantLevel: "debug",
		},
		{
			name:      "toml file",
			args:      []string{"-config", tomlFile},
			wantAddr:  "toml:1",
			wantDSN:   "sqlite:x.db",
			wantCur:   DefaultCurrency,
			wantRet:   2 * time.Hour,
			wantLevel: DefaultLogLevel,
		},
		{
			name:      "explicit flag over file",
			args:      []string{"-c", jsonFile, "-a", "flag:1", "-retention", "0s"},
			wantAddr:  "flag:1",
			wantDSN:   "memory:",
			wantCur:   "USD",
			wantRet:   0,
			wantLevel: "debug",
		},
		{
			name:      "env over everything",
			args:      []string{"-a", "flag:1"},
			env:       map[string]string{"CONFIG": jsonFile, "SERVER_ADDRESS": "env:1", "STORE_DSN": "file:env.json", "CURRENCY": "EUR", "LOG_LEVEL": "warn"},
			wantAddr:  "env:1",
			wantDSN:   "file:env.json",
			wantCur:   "EUR",
			wantRet:   time.Hour,
			wantLevel: "warn",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := parse(tt.args, env(tt.env))
			require.NoError(t, err)
			assert.Equal(t, tt.wantAddr, o.Port)
			assert.Equal(t, tt.wantDSN, o.StoreDSN)
			assert.Equal(t, tt.wantCur, o.Currency)
			assert.Equal(t, tt.wantRet, o.Retention.Duration)
			assert.Equal(t, tt.wantLevel, o.LogLevel)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.json")
	tests := []struct {
		name string
		args []string
	}{
		{"bad json", []string{"-c", writeFile(t, "bad.json", "{")}},
		{"bad toml", []string{"-c", writeFile(t, "bad.toml", "= nope")}},
		{"bad duration in file", []string{"-c", writeFile(t, "dur.json", `{"retention":"soon"}`)}},
		{"bad duration flag", []string{"-c", missing, "-retention", "soon"}},
		{"unknown flag", []string{"-c", missing, "-nope"}},
		{"tls half configured", []string{"-c", missing, "-tls-cert", "cert.pem"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(tt.args, env(nil))
			assert.Error(t, err)
		})
	}
}

func TestDuration_Text(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("90m")))
	assert.Equal(t, 90*time.Minute, d.Duration)

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1h30m0s", string(text))
}
