package config

import (
	_ "embed"
	"encoding/json"
	"os"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

type Config struct {
	Oracle struct {
		BaseURL        string `json:"base_url"`
		UserAgent      string `json:"user_agent"`
		TimeoutSeconds uint32 `json:"timeout_seconds"`
		MaxBatchSize   int    `json:"max_batch_size"`
	} `json:"oracle"`

	Scheduler struct {
		CronExpression      string `json:"cron_expression"`
		Timezone            string `json:"timezone"`
		InitialDelaySeconds uint32 `json:"initial_delay_seconds"`
	} `json:"scheduler"`

	Bot struct {
		ReplyCleanupSeconds uint32 `json:"reply_cleanup_seconds"`
	} `json:"bot"`
}

const settingsFilePath = "data/settings.json"

var (
	//go:embed default_settings.json
	defaultConfig []byte

	configValue atomic.Value
	configMu    sync.Mutex

	InProductionMode bool
)

func init() {
	var cfg Config
	if err := json.Unmarshal(defaultConfig, &cfg); err != nil {
		panic("config: invalid embedded default settings: " + err.Error())
	}
	configValue.Store(cfg)
}

func ReadSettings() {
	data, err := os.ReadFile(settingsFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn("Settings file not found, creating with default configuration")

			if err := os.MkdirAll("data", os.ModePerm); err != nil {
				log.Error("Error creating directory for settings file:", err)
				return
			}

			if err := os.WriteFile(settingsFilePath, defaultConfig, os.ModePerm); err != nil {
				log.Error("Error writing default settings file:", err)
				return
			}

			data = defaultConfig
		} else {
			log.Error("Error reading settings file:", err)
			return
		}
	}

	var newConfig Config
	if err := json.Unmarshal(data, &newConfig); err != nil {
		log.Error("Error unmarshalling settings file:", err)
		return
	}

	applyConfigUpdate(newConfig, false)
	log.Debug("Settings file loaded successfully")
}

func SetConfig(newConfig Config) {
	applyConfigUpdate(newConfig, true)
	log.Debug("Configuration updated and written to file successfully")
}

func applyConfigUpdate(newConfig Config, persistToFile bool) {
	configMu.Lock()
	defer configMu.Unlock()

	configValue.Store(newConfig)

	if !persistToFile {
		return
	}

	data, err := json.MarshalIndent(newConfig, "", "  ")
	if err != nil {
		log.Error("Error marshalling new configuration:", err)
		return
	}
	if err := os.WriteFile(settingsFilePath, data, os.ModePerm); err != nil {
		log.Error("Error writing new configuration to file:", err)
	}
}

func GetConfig() Config {
	// Get the current Config atomically
	return configValue.Load().(Config)
}

func SetProductionMode(productionMode bool) {
	InProductionMode = productionMode
}
