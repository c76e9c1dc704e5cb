package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments and have no safe fallback
// - default: Values common across all environments (timezone, timeout, pricing rules, etc.)
// -----------------------------------------------------------------------------

const (
	StoreDriverMemory   = "memory"
	StoreDriverPostgres = "postgres"

	BookingModeWalkIn      = "walk_in"
	BookingModeReservation = "reservation"
)

type Config struct {
	Server  ServerConfig
	Store   StoreConfig
	DB      DBConfig
	Redis   RedisConfig
	CORS    CORSConfig
	Log     LogConfig
	Booking BookingConfig
	Pricing PricingConfig
	Reaper  ReaperConfig
	Layout  LayoutConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8080"`
}

type StoreConfig struct {
	Driver string `envconfig:"STORE_DRIVER" default:"memory"`
}

type DBConfig struct {
	Host        string `envconfig:"DB_HOST" default:"localhost"`
	Port        string `envconfig:"DB_PORT" default:"5432"`
	User        string `envconfig:"DB_USER" default:"parking"`
	Password    string `envconfig:"DB_PASSWORD" default:"parking"`
	DBName      string `envconfig:"DB_NAME" default:"parking"`
	SSLMode     string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone    string `envconfig:"DB_TIMEZONE" default:"UTC"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"true"`
}

// RedisConfig enables the distributed reaper lease when Addr is set.
type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:""`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,X-User-ID,X-User-Role"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

type BookingConfig struct {
	Mode                   string  `envconfig:"BOOKING_MODE" default:"reservation"`
	CheckinWindowMinutes   int     `envconfig:"BOOKING_CHECKIN_WINDOW_MINUTES" default:"30"`
	CancellationFeePercent float64 `envconfig:"BOOKING_CANCELLATION_FEE_PERCENT" default:"10"`
	LoyaltyDivisor         float64 `envconfig:"BOOKING_LOYALTY_DIVISOR" default:"10"`
	MinBalanceHours        float64 `envconfig:"BOOKING_MIN_BALANCE_HOURS" default:"2"`
	PrepayHours            float64 `envconfig:"BOOKING_PREPAY_HOURS" default:"1"`
	TicketPrefix           string  `envconfig:"BOOKING_TICKET_PREFIX" default:"PKG"`
}

type PricingConfig struct {
	PeakPercent             float64 `envconfig:"PRICING_PEAK_PERCENT" default:"50"`
	WeekendPercent          float64 `envconfig:"PRICING_WEEKEND_PERCENT" default:"30"`
	NightMultiplier         float64 `envconfig:"PRICING_NIGHT_MULTIPLIER" default:"5"`
	LongStayHours           float64 `envconfig:"PRICING_LONG_STAY_HOURS" default:"5"`
	LongStayDiscountPercent float64 `envconfig:"PRICING_LONG_STAY_DISCOUNT_PERCENT" default:"10"`
	PeakStartHour           int     `envconfig:"PRICING_PEAK_START_HOUR" default:"9"`
	PeakEndHour             int     `envconfig:"PRICING_PEAK_END_HOUR" default:"18"`
	NightStartHour          int     `envconfig:"PRICING_NIGHT_START_HOUR" default:"22"`
	NightEndHour            int     `envconfig:"PRICING_NIGHT_END_HOUR" default:"6"`
	TimeZone                string  `envconfig:"PRICING_TIMEZONE" default:"UTC"`
}

type ReaperConfig struct {
	Enabled   bool          `envconfig:"REAPER_ENABLED" default:"true"`
	Interval  time.Duration `envconfig:"REAPER_INTERVAL" default:"1m"`
	BatchSize int           `envconfig:"REAPER_BATCH_SIZE" default:"200"`
	LeaseKey  string        `envconfig:"REAPER_LEASE_KEY" default:"parking:reaper:lease"`
	LeaseTTL  time.Duration `envconfig:"REAPER_LEASE_TTL" default:"30s"`
}

type LayoutConfig struct {
	File        string `envconfig:"LAYOUT_FILE" default:""`
	SeedOnStart bool   `envconfig:"LAYOUT_SEED_ON_START" default:"true"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreDriverMemory, StoreDriverPostgres:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}
	switch c.Booking.Mode {
	case BookingModeWalkIn, BookingModeReservation:
	default:
		return fmt.Errorf("unknown BOOKING_MODE %q", c.Booking.Mode)
	}
	if c.Booking.LoyaltyDivisor <= 0 {
		return errors.New("BOOKING_LOYALTY_DIVISOR must be positive")
	}
	if c.Booking.CancellationFeePercent < 0 || c.Booking.CancellationFeePercent > 100 {
		return errors.New("BOOKING_CANCELLATION_FEE_PERCENT must be within [0,100]")
	}
	if c.Reaper.Enabled && c.Reaper.Interval <= 0 {
		return errors.New("REAPER_INTERVAL must be positive")
	}
	return nil
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		Store: StoreConfig{Driver: StoreDriverMemory},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeZone:   "UTC",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		Booking: BookingConfig{
			Mode:                   BookingModeReservation,
			CheckinWindowMinutes:   30,
			CancellationFeePercent: 10,
			LoyaltyDivisor:         10,
			MinBalanceHours:        2,
			PrepayHours:            1,
			TicketPrefix:           "PKG",
		},
		Pricing: PricingConfig{
			PeakPercent:             50,
			WeekendPercent:          30,
			NightMultiplier:         5,
			LongStayHours:           5,
			LongStayDiscountPercent: 10,
			PeakStartHour:           9,
			PeakEndHour:             18,
			NightStartHour:          22,
			NightEndHour:            6,
			TimeZone:                "UTC",
		},
		Reaper: ReaperConfig{
			Enabled:   false,
			Interval:  time.Minute,
			BatchSize: 200,
			LeaseKey:  "parking:reaper:lease",
			LeaseTTL:  30 * time.Second,
		},
	}
}
