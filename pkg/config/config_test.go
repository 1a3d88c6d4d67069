package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
estimator:
  service_url: http://localhost:5000
costs:
  path: data/institution_costs.csv
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Server.Host != "0.0.0.0" || c.Server.Port != 8000 {
		t.Fatalf("listen default = %s:%d", c.Server.Host, c.Server.Port)
	}
	if r := c.Cache.Redis; r.PoolSize != 10 || r.MinIdleConns != 2 || r.PoolTimeout != 30*time.Second {
		t.Fatalf("redis pool defaults not applied: %+v", r)
	}
	if c.ROI.AnnualRate != 0.105 || c.ROI.LoanYears != 10 || c.ROI.HorizonYears != 10 {
		t.Fatalf("roi defaults not applied: %+v", c.ROI)
	}
	if c.ROI.ModelRMSE != DefaultModelRMSE || c.ROI.ModelRSquared != DefaultModelRSquared {
		t.Fatalf("model accuracy defaults not applied: %+v", c.ROI)
	}
	if c.Costs.NameColumn != "INSTNM" || c.Costs.PriceColumn != "COMBINED_NET_PRICE" {
		t.Fatalf("cost column defaults not applied: %+v", c.Costs)
	}
	if c.Estimator.Timeout != 5*time.Second {
		t.Fatalf("estimator timeout default = %v", c.Estimator.Timeout)
	}
	if c.Narrative.Provider != "template" || c.Recorder.Backend != "none" || c.Cache.Type != "none" {
		t.Fatalf("provider defaults not applied")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"missing service url": "costs:\n  path: x.csv\n",
		"missing costs":       "estimator:\n  service_url: http://x\n",
		"bad backend":         "estimator:\n  backend: grpc\ncosts:\n  path: x.csv\n",
		"bad provider":        "estimator:\n  service_url: http://x\ncosts:\n  path: x.csv\nnarrative:\n  provider: claude\n",
		"kafka no brokers":    "estimator:\n  service_url: http://x\ncosts:\n  path: x.csv\nrecorder:\n  backend: kafka\n",
		"artifact no path":    "estimator:\n  backend: artifact\ncosts:\n  path: x.csv\n",
		"negative loan term":  "estimator:\n  service_url: http://x\ncosts:\n  path: x.csv\nroi:\n  loan_years: -1\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body)); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
estimator:
  service_url: http://localhost:5000
costs:
  path: data/institution_costs.csv
narrative:
  provider: gemini
`)
	t.Setenv("MODEL_SERVICE_URL", "http://model:9000")
	t.Setenv("PORT", "9090")
	t.Setenv("GEMINI_API_KEY", "secret")
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	c, err := LoadWithEnv(path)
	if err != nil {
		t.Fatalf("LoadWithEnv: %v", err)
	}
	if c.Estimator.ServiceURL != "http://model:9000" {
		t.Fatalf("service url = %s", c.Estimator.ServiceURL)
	}
	if c.Server.Port != 9090 {
		t.Fatalf("port = %d", c.Server.Port)
	}
	if c.Narrative.APIKey != "secret" {
		t.Fatalf("gemini key not applied")
	}
	if c.Cache.Redis.Host != "cache" || c.Cache.Redis.Port != 6380 {
		t.Fatalf("redis addr = %s:%d", c.Cache.Redis.Host, c.Cache.Redis.Port)
	}
	if len(c.Kafka.Brokers) != 2 {
		t.Fatalf("brokers = %v", c.Kafka.Brokers)
	}
}

func TestLoadWithEnvFillsRequiredFields(t *testing.T) {
	path := writeConfig(t, `
estimator:
  backend: http
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected Load to reject missing service_url and costs.path")
	}

	t.Setenv("MODEL_SERVICE_URL", "http://model:9000")
	t.Setenv("COST_DATASET_PATH", "/data/costs.csv")
	c, err := LoadWithEnv(path)
	if err != nil {
		t.Fatalf("LoadWithEnv: %v", err)
	}
	if c.Costs.Path != "/data/costs.csv" {
		t.Fatalf("costs path = %s", c.Costs.Path)
	}
}

func TestLoadWithEnvIgnoresMalformedPorts(t *testing.T) {
	path := writeConfig(t, `
estimator:
  service_url: http://localhost:5000
costs:
  path: data/institution_costs.csv
`)
	t.Setenv("PORT", "eighty")
	t.Setenv("REDIS_ADDR", "cache:port")

	c, err := LoadWithEnv(path)
	if err != nil {
		t.Fatalf("LoadWithEnv: %v", err)
	}
	if c.Server.Port != 8000 {
		t.Fatalf("port = %d", c.Server.Port)
	}
	if c.Cache.Redis.Host != "cache" || c.Cache.Redis.Port != 6379 {
		t.Fatalf("redis = %s:%d", c.Cache.Redis.Host, c.Cache.Redis.Port)
	}
}
