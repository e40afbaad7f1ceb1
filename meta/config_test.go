package meta

import (
	"errors"
	"strings"
	"testing"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"insts too small", func(c *Config) { c.MaxInsts = 1 }, "MaxInsts"},
		{"insts too large", func(c *Config) { c.MaxInsts = 1<<24 + 1 }, "MaxInsts"},
		{"zero nesting", func(c *Config) { c.MaxNestingDepth = 0 }, "MaxNestingDepth"},
		{"repeat too large", func(c *Config) { c.MaxRepeatCount = 1_000_001 }, "MaxRepeatCount"},
		{"visited too small", func(c *Config) { c.MaxVisitedBits = 63 }, "MaxVisitedBits"},
		{"valid edge", func(c *Config) { c.MaxInsts = 2; c.MaxVisitedBits = 64 }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modify(&config)
			err := config.Validate()
			if tt.field == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("Validate() = %v, want *ConfigError", err)
			}
			if ce.Field != tt.field {
				t.Errorf("Field = %s, want %s", ce.Field, tt.field)
			}
			if !strings.Contains(ce.Error(), tt.field) {
				t.Errorf("Error() = %q lacks field name", ce.Error())
			}
		})
	}
}
