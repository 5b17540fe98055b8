package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("server.host = %q, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.WS.Port != 8081 {
		t.Errorf("ws.port = %d, want 8081", cfg.WS.Port)
	}
	if cfg.Redis.Address != "localhost:6379" {
		t.Errorf("redis.address = %q", cfg.Redis.Address)
	}
	if !cfg.MySQL.AutoMigrate {
		t.Error("mysql.auto_migrate should default to true")
	}
	if cfg.MySQL.MaxOpenConns != 25 {
		t.Errorf("mysql.max_open_conns = %d, want 25", cfg.MySQL.MaxOpenConns)
	}
	if cfg.MySQL.ConnMaxLifetime != 5*time.Minute {
		t.Errorf("mysql.conn_max_lifetime = %v, want 5m", cfg.MySQL.ConnMaxLifetime)
	}
	if cfg.Listings.RequireBooking {
		t.Error("listings.require_booking should default to false")
	}
	if cfg.Listings.CompletedRetention != 0 {
		t.Errorf("listings.completed_retention = %v, want 0", cfg.Listings.CompletedRetention)
	}
	if cfg.Leader.TTL != 30*time.Second {
		t.Errorf("leader.ttl = %v, want 30s", cfg.Leader.TTL)
	}
	if cfg.Instance.ID != "listing-service-1" {
		t.Errorf("instance.id = %q", cfg.Instance.ID)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("log.level = %q, want info", cfg.Log.Level)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("LISTINGS_REQUIRE_BOOKING", "true")
	t.Setenv("LISTINGS_COMPLETED_RETENTION", "24h")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("server.port = %d, want 9999", cfg.Server.Port)
	}
	if !cfg.Listings.RequireBooking {
		t.Error("listings.require_booking not overridden")
	}
	if cfg.Listings.CompletedRetention != 24*time.Hour {
		t.Errorf("listings.completed_retention = %v, want 24h", cfg.Listings.CompletedRetention)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want debug", cfg.Log.Level)
	}
}
