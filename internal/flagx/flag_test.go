package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "short flag with separate value",
			args:         []string{"-c", "conf.json", "-a", ":8080"},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{"-c", "conf.json"},
		},
		{
			name:         "flag with equals",
			args:         []string{"-config=alt.json", "-a", ":8080"},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{"-config=alt.json"},
		},
		{
			name:         "unknown flags ignored",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
		{
			name:         "flag without value at end is kept",
			args:         []string{"-c"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "next dash token is not a value",
			args:         []string{"-c", "-d", "data"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "several allowed flags keep order",
			args:         []string{"-a", ":9000", "-w", "key", "-d", "data"},
			allowedFlags: []string{"-d", "-a"},
			want:         []string{"-a", ":9000", "-d", "data"},
		},
		{
			name:         "empty args",
			args:         []string{},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArgs(tt.args, tt.allowedFlags)
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfigFileFlag(t *testing.T) {
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })

	os.Args = []string{"bin", "-a", ":1", "-c", "cfg.json"}
	assert.Equal(t, "cfg.json", ConfigFileFlag())

	os.Args = []string{"bin", "-config=other.json"}
	assert.Equal(t, "other.json", ConfigFileFlag())

	os.Args = []string{"bin", "-a", ":1"}
	assert.Equal(t, "", ConfigFileFlag())
}

func TestEnvOr(t *testing.T) {
	t.Setenv("CROPCARE_TEST_KEY", "from-env")
	assert.Equal(t, "from-env", EnvOr("CROPCARE_TEST_KEY", "fallback"))

	t.Setenv("CROPCARE_TEST_KEY", "")
	assert.Equal(t, "fallback", EnvOr("CROPCARE_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", EnvOr("CROPCARE_TEST_MISSING", "fallback"))
}
