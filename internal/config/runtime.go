package config

import (
	"os"
	"strconv"
)

type Runtime struct {
	RulesFile     string
	Steps         int
	Vehicles      int
	CacheMaxItems int
	ObsBuffer     int
	DOTOut        string
}

func Load() Runtime {
	return Runtime{
		RulesFile:     getenv("OTL_RULES_FILE", ""),
		Steps:         getenvInt("OTL_STEPS", 300, 1),
		Vehicles:      getenvInt("OTL_VEHICLES", 12, 1),
		CacheMaxItems: getenvInt("OTL_CACHE_MAX_ITEMS", 1024, 1),
		ObsBuffer:     getenvInt("OTL_OBS_BUFFER", 4096, 1),
		DOTOut:        getenv("OTL_DOT_OUT", ""),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback, min int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min {
		return fallback
	}
	return v
}
