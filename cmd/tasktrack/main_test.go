package main

import (
	"errors"
	"testing"

	"github.com/spf13/pflag"
)

func TestParseFlags(t *testing.T) {
	t.Setenv("TASKTRACK_CONFIG", "")

	tests := []struct {
		name    string
		args    []string
		env     string
		want    options
		wantErr bool
	}{
		{"defaults", nil, "", options{configPath: defaultConfigPath}, false},
		{"env path", nil, "/etc/tasktrack.yaml", options{configPath: "/etc/tasktrack.yaml"}, false},
		{"flag beats env", []string{"--config", "local.yaml"}, "/etc/tasktrack.yaml", options{configPath: "local.yaml"}, false},
		{"short flag", []string{"-c", "local.yaml"}, "", options{configPath: "local.yaml"}, false},
		{"rollback", []string{"--migrate-down"}, "", options{configPath: defaultConfigPath, migrateDown: true}, false},
		{"version", []string{"--version"}, "", options{configPath: defaultConfigPath, showVersion: true}, false},
		{"stray argument", []string{"serve"}, "", options{}, true},
		{"unknown flag", []string{"--verbose"}, "", options{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TASKTRACK_CONFIG", tt.env)

			got, err := parseFlags(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseFlags(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseFlags(%v) = %+v, want %+v", tt.args, got, tt.want)
			}
		})
	}
}

func TestParseFlags_Help(t *testing.T) {
	_, err := parseFlags([]string{"--help"})
	if !errors.Is(err, pflag.ErrHelp) {
		t.Errorf("parseFlags(--help) error = %v, want pflag.ErrHelp", err)
	}
}
