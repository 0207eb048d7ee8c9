package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":8080")
	}
	if cfg.TimerStaleness != "5m" {
		t.Errorf("TimerStaleness = %q, want %q", cfg.TimerStaleness, "5m")
	}
	if cfg.BusinessUTCOffset != -5 {
		t.Errorf("BusinessUTCOffset = %d, want -5", cfg.BusinessUTCOffset)
	}
	if cfg.EventsKafkaTopic != "timetrack-events" {
		t.Errorf("EventsKafkaTopic = %q, want %q", cfg.EventsKafkaTopic, "timetrack-events")
	}
	if cfg.KafkaGroupID != "timetrack-event-worker" {
		t.Errorf("KafkaGroupID = %q, want %q", cfg.KafkaGroupID, "timetrack-event-worker")
	}
	if cfg.OTLPEndpoint != "" || cfg.OTLPInsecure {
		t.Error("OTLP export should be disabled by default")
	}
}

func TestLoad_EnvVarOverride(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":9090")
	os.Setenv("TIMER_STALENESS", "2m")
	os.Setenv("BUSINESS_UTC_OFFSET", "2")
	os.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":9090")
	}
	if cfg.Staleness() != 2*time.Minute {
		t.Errorf("Staleness = %s, want 2m", cfg.Staleness())
	}
	if cfg.BusinessUTCOffset != 2 {
		t.Errorf("BusinessUTCOffset = %d, want 2", cfg.BusinessUTCOffset)
	}
	brokers := cfg.KafkaBrokersList()
	if len(brokers) != 2 || brokers[0] != "k1:9092" || brokers[1] != "k2:9092" {
		t.Errorf("KafkaBrokersList = %v", brokers)
	}
}

func TestLoad_InvalidOffset(t *testing.T) {
	os.Clearenv()
	os.Setenv("BUSINESS_UTC_OFFSET", "30")

	if _, err := Load(); err == nil {
		t.Fatal("offset outside -12..14 should fail")
	}
}

func TestConfig_StalenessFallback(t *testing.T) {
	for _, raw := range []string{"", "bogus", "-3m", "0s"} {
		cfg := &Config{TimerStaleness: raw}
		if got := cfg.Staleness(); got != 5*time.Minute {
			t.Errorf("Staleness(%q) = %s, want 5m", raw, got)
		}
	}
}

func TestConfig_KafkaBrokersListEmpty(t *testing.T) {
	cfg := &Config{}
	if got := cfg.KafkaBrokersList(); got != nil {
		t.Errorf("empty brokers: want nil, got %v", got)
	}
}
