package config

import (
	"strings"
	"testing"

	"github.com/grand-thief-cash/todolist/internal/consts"
)

func TestDefaultsNeedSecret(t *testing.T) {
	c := Default()
	if err := c.Validate(); err == nil || !strings.Contains(err.Error(), "auth.secret") {
		t.Fatalf("expected secret error, got %v", err)
	}
	c.Auth.Secret = "0123456789abcdef"
	if err := c.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !c.Scoped() {
		t.Fatalf("default ownership should be scoped")
	}
}

func TestApplyEnvOverridesSecret(t *testing.T) {
	t.Setenv(consts.ENV_JWT_SECRET, "secret-from-environment")
	c := Default()
	c.Auth.Secret = "from-file"
	c.ApplyEnv()
	if c.Auth.Secret != "secret-from-environment" {
		t.Fatalf("secret=%q", c.Auth.Secret)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name string
		mut  func(c *BizConfig)
		want string
	}{
		{"driver", func(c *BizConfig) { c.Storage.Driver = "sqlite" }, "storage.driver"},
		{"datasource", func(c *BizConfig) { c.Storage.Driver = consts.STORAGE_MYSQL; c.Storage.DataSource = "" }, "data_source"},
		{"ownership", func(c *BizConfig) { c.Tasks.Ownership = "team" }, "tasks.ownership"},
		{"ttl", func(c *BizConfig) { c.Auth.TokenTTL = 0 }, "token_ttl"},
		{"revocation", func(c *BizConfig) { c.Auth.Revocation = "file" }, "auth.revocation"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Default()
			c.Auth.Secret = "0123456789abcdef"
			tc.mut(c)
			err := c.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("want error containing %q, got %v", tc.want, err)
			}
		})
	}
}
