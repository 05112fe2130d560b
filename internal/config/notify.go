package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// NotifyConfig controls the schedule-change fan-out.
type NotifyConfig struct {
	Channel       string `mapstructure:"channel"`
	BatchSize     int    `mapstructure:"batchSize"`
	PushEnabled   bool   `mapstructure:"pushEnabled"`
	SilentWindows []struct {
		From string `mapstructure:"from"`
		To   string `mapstructure:"to"`
	} `mapstructure:"silentWindows"`
}

func DefaultNotifyConfig() NotifyConfig {
	return NotifyConfig{
		Channel:     "festguide.schedule.changed",
		BatchSize:   500,
		PushEnabled: true,
	}
}

// NotifyConfigHolder keeps the current fan-out settings and hot-reloads them
// when the backing file changes.
type NotifyConfigHolder struct {
	current atomic.Value // holds NotifyConfig
}

func NewNotifyConfigHolder() (*NotifyConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("notify")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/festguide/config")
	v.AddConfigPath("/etc/festguide")
	v.AddConfigPath(".")

	v.SetEnvPrefix("FESTGUIDE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultNotifyConfig()
		v.SetDefault("notify.channel", defaults.Channel)
		v.SetDefault("notify.batchSize", defaults.BatchSize)
		v.SetDefault("notify.pushEnabled", defaults.PushEnabled)
	}

	var cfg NotifyConfig
	if err := v.UnmarshalKey("notify", &cfg); err != nil {
		return nil, err
	}
	if err := validateNotifyConfig(cfg); err != nil {
		return nil, err
	}

	holder := &NotifyConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated NotifyConfig
		if err := v.UnmarshalKey("notify", &updated); err != nil {
			log.Printf("[notify-config] reload failed: %v", err)
			return
		}
		if err := validateNotifyConfig(updated); err != nil {
			log.Printf("[notify-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[notify-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *NotifyConfigHolder) Get() NotifyConfig {
	return h.current.Load().(NotifyConfig)
}

func validateNotifyConfig(cfg NotifyConfig) error {
	if strings.TrimSpace(cfg.Channel) == "" {
		return errors.New("notify.channel cannot be empty")
	}
	if cfg.BatchSize <= 0 {
		return errors.New("notify.batchSize must be positive")
	}
	return nil
}
