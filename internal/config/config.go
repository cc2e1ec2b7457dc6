package config

import (
	"fmt"
	"os"

	"github.com/creasty/defaults"
)

type GlobalConfig struct {
	Server   Server   `mapstructure:",squash"`
	Log      Log      `mapstructure:",squash"`
	Trace    Trace    `mapstructure:",squash"`
	Dataset  Dataset  `mapstructure:",squash"`
	Database Database `mapstructure:",squash"`
	Sweep    Sweep    `mapstructure:",squash"`
	Report   Report   `mapstructure:",squash"`
	RPC      RPC      `mapstructure:",squash"`
}

var config = &GlobalConfig{}

func init() {
	if err := defaults.Set(config); err != nil {
		fmt.Printf("set default err: %+v", err)
		os.Exit(1)
	}
}

func Global() *GlobalConfig {
	return config
}

// Default returns a fresh config populated only from default tags.
func Default() (*GlobalConfig, error) {
	conf := &GlobalConfig{}
	if err := defaults.Set(conf); err != nil {
		return nil, err
	}
	return conf, nil
}
