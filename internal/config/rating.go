package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// RatingParams carries the tunable limits the rating engine consumes.
// Values are owned here; the engine treats them as opaque inputs.
type RatingParams struct {
	MinTariffableSeconds int      `mapstructure:"minTariffableSeconds"`
	MaxCallSeconds       int      `mapstructure:"maxCallSeconds"`
	MinExtensionLen      int      `mapstructure:"minExtensionLen"`
	MaxExtensionLen      int      `mapstructure:"maxExtensionLen"`
	IgnoredAuthCodes     []string `mapstructure:"ignoredAuthCodes"`
	MinCaptureDate       string   `mapstructure:"minCaptureDate"`
	MaxCaptureDelayDays  int      `mapstructure:"maxCaptureDelayDays"`
}

func DefaultRatingParams() RatingParams {
	return RatingParams{
		MinTariffableSeconds: 1,
		MaxCallSeconds:       4 * 3600,
		MinExtensionLen:      2,
		MaxExtensionLen:      5,
		IgnoredAuthCodes:     []string{"0"},
		MinCaptureDate:       "2000-01-01",
		MaxCaptureDelayDays:  30,
	}
}

// MinCaptureTime parses the configured lower bound for origination timestamps.
func (p RatingParams) MinCaptureTime() time.Time {
	t, err := time.Parse("2006-01-02", p.MinCaptureDate)
	if err != nil {
		t, _ = time.Parse("2006-01-02", DefaultRatingParams().MinCaptureDate)
	}
	return t.UTC()
}

// IsIgnoredAuthCode reports whether code is configured as non-assignable.
func (p RatingParams) IsIgnoredAuthCode(code string) bool {
	code = strings.TrimSpace(code)
	for _, ignored := range p.IgnoredAuthCodes {
		if code == strings.TrimSpace(ignored) {
			return true
		}
	}
	return false
}

type RatingParamsHolder struct {
	current atomic.Value // holds RatingParams
}

// NewRatingParamsHolder loads rating.yml and keeps it hot-reloaded.
func NewRatingParamsHolder() (*RatingParamsHolder, error) {
	v := viper.New()

	v.SetConfigName("rating")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/cdrmed/config")
	v.AddConfigPath("/etc/cdrmed")
	v.AddConfigPath(".")

	v.SetEnvPrefix("CDRMED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultRatingParams()
		v.SetDefault("rating.minTariffableSeconds", defaults.MinTariffableSeconds)
		v.SetDefault("rating.maxCallSeconds", defaults.MaxCallSeconds)
		v.SetDefault("rating.minExtensionLen", defaults.MinExtensionLen)
		v.SetDefault("rating.maxExtensionLen", defaults.MaxExtensionLen)
		v.SetDefault("rating.ignoredAuthCodes", defaults.IgnoredAuthCodes)
		v.SetDefault("rating.minCaptureDate", defaults.MinCaptureDate)
		v.SetDefault("rating.maxCaptureDelayDays", defaults.MaxCaptureDelayDays)
	}

	var params RatingParams
	if err := v.UnmarshalKey("rating", &params); err != nil {
		return nil, err
	}
	if err := validateRatingParams(params); err != nil {
		return nil, err
	}

	holder := &RatingParamsHolder{}
	holder.current.Store(params)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated RatingParams
		if err := v.UnmarshalKey("rating", &updated); err != nil {
			log.Printf("[rating-config] reload failed: %v", err)
			return
		}
		if err := validateRatingParams(updated); err != nil {
			log.Printf("[rating-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[rating-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticRatingParamsHolder wraps fixed params, mostly for tests.
func NewStaticRatingParamsHolder(params RatingParams) *RatingParamsHolder {
	holder := &RatingParamsHolder{}
	holder.current.Store(params)
	return holder
}

func (h *RatingParamsHolder) Get() RatingParams {
	return h.current.Load().(RatingParams)
}

func validateRatingParams(params RatingParams) error {
	if params.MaxCallSeconds <= 0 {
		return errors.New("rating.maxCallSeconds must be positive")
	}
	if params.MinExtensionLen <= 0 || params.MaxExtensionLen < params.MinExtensionLen {
		return errors.New("rating.extension length bounds are inconsistent")
	}
	return nil
}
