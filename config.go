package main

import (
	"errors"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type Config struct {
	BindAddress                string               `yaml:"bindAddress"`
	Port                       int32                `yaml:"port"`
	ProcessFolder              string               `yaml:"processFolder"`
	DatabasePath               string               `yaml:"databasePath"`
	LogPath                    string               `yaml:"logPath"`
	Workers                    int                  `yaml:"workers"`
	RetryLimit                 int                  `yaml:"retryLimit"`
	DefaultPosition            *float32             `yaml:"defaultPosition"`
	FlowBuilderBinary          string               `yaml:"flowBuilderBinary"`
	FlowBuilderExtraArguments  string               `yaml:"flowBuilderExtraArguments"`
	Visualization              VisualizationOptions `yaml:"visualization"`
	DeleteFlowFileWhenFinished *bool                `yaml:"deleteFlowFileWhenFinished"`
}

type VisualizationOptions struct {
	Format string  `yaml:"format"`
	Scale  float32 `yaml:"scale"`
}

// Verify config and set defaults
func verifyConfig(config *Config) error {
	if config == nil {
		return errors.New("cannot verify config, config is nil")
	}

	if config.BindAddress == "" {
		config.BindAddress = "127.0.0.1"
	}

	if config.Port == 0 {
		config.Port = 8080
	}

	if config.ProcessFolder == "" {
		return errors.New("missing temp process folder in config")
	}

	if config.DatabasePath == "" {
		return errors.New("missing database path in config")
	}

	if config.LogPath == "" {
		config.LogPath = "./logs"
	}

	if config.Workers == 0 {
		config.Workers = 1
	}

	if config.Workers < 0 {
		return errors.New("workers must be positive")
	}

	if config.RetryLimit == 0 {
		config.RetryLimit = 5
	}

	if config.DefaultPosition == nil {
		defaultVal := float32(0.5)
		config.DefaultPosition = &defaultVal
	}

	if !ValidPosition(*config.DefaultPosition) {
		return errors.New("default position must be between 0 and 1")
	}

	if config.Visualization.Format == "" {
		config.Visualization.Format = "png"
	}

	if _, err := EncoderFor(config.Visualization.Format); err != nil {
		return err
	}

	if config.Visualization.Scale == 0 {
		config.Visualization.Scale = 8
	}

	if config.DeleteFlowFileWhenFinished == nil {
		defaultVal := false
		config.DeleteFlowFileWhenFinished = &defaultVal
	}

	return nil
}

func ValidPosition(pos float32) bool {
	return pos >= 0 && pos <= 1
}

func GetConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	config := Config{}

	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return Config{}, err
	}

	// Override with env variables if they are passed in
	err = envconfig.ProcessWithOptions("", &config, envconfig.Options{SplitWords: true})
	if err != nil {
		return Config{}, err
	}

	err = verifyConfig(&config)
	if err != nil {
		return Config{}, err
	}

	return config, nil
}
