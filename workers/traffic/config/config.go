package config

import (
	"bikeflow/communication"
	"bikeflow/domain/business/scale"
	tripLoader "bikeflow/loaders/trip"
	"bikeflow/utils"
	"fmt"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
	"os"
	"strconv"
)

const DefaultConfigFilepath = "./workers/traffic/config/config.yaml"

type TrafficWorkerConfig struct {
	TripsFile           string                                   `yaml:"trips_file" validate:"required"`
	StationsFile        string                                   `yaml:"stations_file" validate:"required"`
	TimestampLayouts    []string                                 `yaml:"timestamp_layouts"`
	ValidColumnsIndexes tripLoader.ValidColumns                  `yaml:"valid_columns"`
	DataFieldDelimiter  string                                   `yaml:"data_field_delimiter" validate:"len=1"`
	RollupWorkers       int                                      `yaml:"rollup_workers" validate:"gte=0"`
	Scale               scale.Ranges                             `yaml:"scale"`
	RequestQueue        communication.QueueDeclarationConfig     `yaml:"request_queue"`
	RequestConsumption  communication.ConsumptionConfig          `yaml:"request_consumption"`
	ResponseQueue       communication.QueueDeclarationConfig     `yaml:"response_queue"`
	ResponseExchange    *communication.ExchangeDeclarationConfig `yaml:"response_exchange"`
	PrefetchCount       int                                      `yaml:"prefetch_count" validate:"gte=0"`
	PublishTimeoutMS    int                                      `yaml:"publish_timeout_ms" validate:"gt=0"`
	ID                  int
}

// LoadConfig reads the yaml file in configFilepath, applies the environment overrides
// (TRIPS_FILE, STATIONS_FILE, WORKER_ID) and validates the result
func LoadConfig(configFilepath string) (*TrafficWorkerConfig, error) {
	configFile, err := utils.GetConfigFile(configFilepath)
	if err != nil {
		return nil, err
	}

	trafficConfig := TrafficWorkerConfig{
		ValidColumnsIndexes: tripLoader.DefaultValidColumns,
		DataFieldDelimiter:  ",",
		Scale:               scale.DefaultRanges,
		PublishTimeoutMS:    5000,
	}
	err = yaml.Unmarshal(configFile, &trafficConfig)
	if err != nil {
		return nil, fmt.Errorf("error parsing traffic worker config file: %w", err)
	}

	trafficConfig.TripsFile = utils.GetEnv("TRIPS_FILE", trafficConfig.TripsFile)
	trafficConfig.StationsFile = utils.GetEnv("STATIONS_FILE", trafficConfig.StationsFile)
	if workerID := os.Getenv("WORKER_ID"); workerID != "" {
		trafficConfig.ID, err = strconv.Atoi(workerID)
		if err != nil {
			return nil, fmt.Errorf("invalid WORKER_ID %q: %w", workerID, err)
		}
	}

	err = validator.New().Struct(trafficConfig)
	if err != nil {
		return nil, fmt.Errorf("invalid traffic worker config: %w", err)
	}

	return &trafficConfig, nil
}

// GetDelimiter returns the field delimiter of the trips file as a rune
func (c *TrafficWorkerConfig) GetDelimiter() rune {
	return []rune(c.DataFieldDelimiter)[0]
}
