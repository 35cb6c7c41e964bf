package config

import (
	"reflect"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestLoadSettingsDefaults(t *testing.T) {
	for _, key := range []string{
		"API_PORT", "PORT", "DB_MAX_OPEN_CONNS", "SKIP_MIGRATIONS", "CLIENT_CACHE_TTL_SECONDS",
		"PAYMENT_LOCK_ENABLED", "PAYMENT_LOCK_TTL_SECONDS", "DEBT_ID_MAX_ATTEMPTS",
		"RATE_LIMIT_ENABLED", "RATE_LIMIT_MAX_REQUESTS", "RATE_LIMIT_WINDOW_SECONDS", "GO_ENV",
	} {
		t.Setenv(key, "")
	}

	s := LoadSettings()
	if s.Port != "8080" {
		t.Fatalf("Port = %q", s.Port)
	}
	if s.DBMaxOpenConns != 50 || s.DBConnMaxLifetime != 300*time.Second {
		t.Fatalf("unexpected pool defaults %d/%s", s.DBMaxOpenConns, s.DBConnMaxLifetime)
	}
	if s.SkipMigrations || s.ClientCacheTTL != 0 || s.RateLimitEnabled || s.Production {
		t.Fatalf("unexpected toggles %+v", s)
	}
	if !s.PaymentLockEnabled || s.PaymentLockTTL != 10*time.Second || s.DebtIdMaxAttempts != 5 {
		t.Fatalf("unexpected payment defaults %+v", s)
	}
	if s.RateLimitMax != 600 || s.RateLimitWindow != time.Minute {
		t.Fatalf("unexpected rate limit defaults %d/%s", s.RateLimitMax, s.RateLimitWindow)
	}
}

func TestLoadSettingsOverrides(t *testing.T) {
	t.Setenv("API_PORT", "")
	t.Setenv("PORT", "9090")
	t.Setenv("SKIP_MIGRATIONS", "true")
	t.Setenv("PAYMENT_LOCK_ENABLED", "0")
	t.Setenv("PAYMENT_LOCK_TTL_SECONDS", "3")
	t.Setenv("DEBT_ID_MAX_ATTEMPTS", "not-a-number")
	t.Setenv("GO_ENV", "Production")
	t.Setenv("PUBSUB_PROJECT_ID", "debt-gateway-dev")

	s := LoadSettings()
	if s.Port != "9090" {
		t.Fatalf("Port = %q, want the PORT fallback", s.Port)
	}
	if !s.SkipMigrations || s.PaymentLockEnabled || s.PaymentLockTTL != 3*time.Second {
		t.Fatalf("unexpected overrides %+v", s)
	}
	if s.DebtIdMaxAttempts != 5 {
		t.Fatalf("an unparsable value should keep the default, got %d", s.DebtIdMaxAttempts)
	}
	if !s.Production || s.PubSubProjectID != "debt-gateway-dev" {
		t.Fatalf("unexpected environment %+v", s)
	}

	t.Setenv("API_PORT", "7070")
	if got := LoadSettings().Port; got != "7070" {
		t.Fatalf("API_PORT should win over PORT, got %q", got)
	}
}

func TestSplitAndTrim(t *testing.T) {
	cases := map[string][]string{
		"":                                 nil,
		"   ":                              nil,
		"https://a.example":                {"https://a.example"},
		" https://a.example , ,https://b ": {"https://a.example", "https://b"},
	}
	for in, want := range cases {
		if got := SplitAndTrim(in); !reflect.DeepEqual(got, want) {
			t.Fatalf("SplitAndTrim(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRetryDelay(t *testing.T) {
	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{0, time.Second},
		{1, 2 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},
		{12, 30 * time.Second},
	}
	for _, tc := range cases {
		if got := retryDelay(tc.attempt); got != tc.want {
			t.Fatalf("retryDelay(%d) = %s, want %s", tc.attempt, got, tc.want)
		}
	}
}

func TestDSN(t *testing.T) {
	s := Settings{DBUser: "app", DBPassword: "pw", DBHost: "127.0.0.1", DBPort: "3306", DBName: "debts"}
	want := "app:pw@tcp(127.0.0.1:3306)/debts?parseTime=true&loc=UTC&charset=utf8mb4"
	if got := DSN(s); got != want {
		t.Fatalf("DSN = %q, want %q", got, want)
	}

	s.DBHost = "/cloudsql/project:region:instance"
	want = "app:pw@unix(/cloudsql/project:region:instance)/debts?parseTime=true&loc=UTC&charset=utf8mb4"
	if got := DSN(s); got != want {
		t.Fatalf("DSN = %q, want %q", got, want)
	}
}

func TestSetLogLevel(t *testing.T) {
	defer GetLogger().SetLevel(logrus.ErrorLevel)

	SetLogLevel("debug")
	if GetLogger().GetLevel() != logrus.DebugLevel {
		t.Fatalf("level = %s, want debug", GetLogger().GetLevel())
	}
	SetLogLevel("loud")
	if GetLogger().GetLevel() != logrus.DebugLevel {
		t.Fatalf("an unknown level should keep the current one, got %s", GetLogger().GetLevel())
	}
	SetLogLevel("")
	if GetLogger().GetLevel() != logrus.DebugLevel {
		t.Fatalf("an empty level should keep the current one")
	}
}
