package app_setting

import (
	"io/ioutil"
	"log"

	"gopkg.in/yaml.v2"
)

// ServerAppSetting tunes the API server binary. Values come from a YAML
// file so a deployment can retune job cadence without a rebuild; any key
// the file omits keeps its default.
type ServerAppSetting struct {
	// Port the HTTP server listens on.
	SERVER_PORT int `yaml:"SERVER_PORT"`
	// Drain buffered view counters into posts.views every interval.
	VIEW_FLUSH_INTERVAL_SECOND int64 `yaml:"VIEW_FLUSH_INTERVAL_SECOND"`
	// Rebuild every user's total_views aggregate every interval.
	TOTAL_VIEWS_RECOMPUTE_INTERVAL_SECOND int64 `yaml:"TOTAL_VIEWS_RECOMPUTE_INTERVAL_SECOND"`
}

func DefaultServerAppSetting() ServerAppSetting {
	return ServerAppSetting{
		SERVER_PORT:                           8000,
		VIEW_FLUSH_INTERVAL_SECOND:            300,
		TOTAL_VIEWS_RECOMPUTE_INTERVAL_SECOND: 3600,
	}
}

// ParseServerAppSetting loads settings from path on top of the defaults.
// An empty path means no settings file is deployed and defaults apply; a
// path that cannot be read or parsed is a deployment error.
func ParseServerAppSetting(path string) ServerAppSetting {
	c := DefaultServerAppSetting()
	if path == "" {
		return c
	}
	yamlFile, err := ioutil.ReadFile(path)
	if err != nil {
		log.Fatal("yamlFile. get err: ", err.Error())
	}
	err = yaml.Unmarshal(yamlFile, &c)
	if err != nil {
		log.Fatal("Unmarshal: ", err)
	}
	return c
}
