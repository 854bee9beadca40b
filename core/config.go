package core

import (
	"fmt"
	"strings"
)

const (
	HookErrorPolicyLog    = "log"
	HookErrorPolicyReturn = "return"
)

type Config struct {
	ServiceName     string `koanf:"service_name" mapstructure:"service_name"`
	HookErrorPolicy string `koanf:"hook_error_policy" mapstructure:"hook_error_policy"`
	LogSuccess      bool   `koanf:"log_success" mapstructure:"log_success"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName:     "apicall",
		HookErrorPolicy: HookErrorPolicyLog,
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	switch normalizeHookErrorPolicy(c.HookErrorPolicy) {
	case HookErrorPolicyLog, HookErrorPolicyReturn:
	default:
		return fmt.Errorf("core: hook_error_policy %q is invalid", c.HookErrorPolicy)
	}
	return nil
}

func normalizeHookErrorPolicy(policy string) string {
	policy = strings.TrimSpace(strings.ToLower(policy))
	if policy == "" {
		return HookErrorPolicyLog
	}
	return policy
}
