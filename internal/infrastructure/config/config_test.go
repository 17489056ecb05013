package config

import (
	"context"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("default port: %q", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("default env: %q", cfg.Env)
	}
	if cfg.Store.Driver != DriverMongo {
		t.Errorf("default driver: %q", cfg.Store.Driver)
	}
	if cfg.Store.Mongo.Database != "roadmaster" {
		t.Errorf("default mongo database: %q", cfg.Store.Mongo.Database)
	}
	if cfg.IsProduction() {
		t.Error("development config reports production")
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_DRIVER", "sql")
	t.Setenv("DATABASE_URL", "postgres://rm:rm@db:5432/roadmaster")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_PASSWORD", "hunter2")
	t.Setenv("REDIS_TLS", "true")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("port: %q", cfg.Port)
	}
	if cfg.Store.Driver != DriverSQL {
		t.Errorf("driver: %q", cfg.Store.Driver)
	}
	if cfg.Store.SQL.URL == "" {
		t.Error("database url not read")
	}
	if cfg.Redis.Addr != "redis:6379" {
		t.Errorf("redis addr: %q", cfg.Redis.Addr)
	}
	if cfg.Redis.Password != "hunter2" || !cfg.Redis.TLS {
		t.Errorf("redis options not read: %+v", cfg.Redis)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "development mongo without uri",
			cfg:  Config{Env: "development", Store: StoreConfig{Driver: DriverMongo}},
		},
		{
			name:    "production mongo without uri",
			cfg:     Config{Env: "production", Store: StoreConfig{Driver: DriverMongo}},
			wantErr: true,
		},
		{
			name: "production mongo with uri",
			cfg: Config{Env: "production", Store: StoreConfig{
				Driver: DriverMongo,
				Mongo:  MongoConfig{URI: "mongodb+srv://cluster.example.net"},
			}},
		},
		{
			name:    "production sql without url",
			cfg:     Config{Env: "production", Store: StoreConfig{Driver: DriverSQL}},
			wantErr: true,
		},
		{
			name: "production sql with url",
			cfg: Config{Env: "production", Store: StoreConfig{
				Driver: DriverSQL,
				SQL:    SQLConfig{URL: "postgres://rm:rm@db:5432/roadmaster"},
			}},
		},
		{
			name:    "unknown driver",
			cfg:     Config{Env: "development", Store: StoreConfig{Driver: "dynamo"}},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected an error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestMongoURI_Fallback(t *testing.T) {
	cfg := Config{}
	if got := cfg.MongoURI(); got != "mongodb://localhost:27017" {
		t.Errorf("fallback uri: %q", got)
	}
	cfg.Store.Mongo.URI = "mongodb://db:27017"
	if got := cfg.MongoURI(); got != "mongodb://db:27017" {
		t.Errorf("configured uri: %q", got)
	}
}
