package main

import (
	"fmt"
	"os"

	"cultivation-service/internal/adaptive"
	"cultivation-service/internal/calculator"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Scenario is a calc input file. Field names match the API payloads.
type Scenario struct {
	Setup  calculator.SetupParams  `yaml:"setup"`
	Cycle  calculator.CycleParams  `yaml:"cycle"`
	Market calculator.MarketParams `yaml:"market"`
}

type AdaptiveScenario struct {
	Setup  calculator.SetupParams  `yaml:"setup"`
	Cycle  adaptive.CycleParams    `yaml:"cycle"`
	Market calculator.MarketParams `yaml:"market"`
}

// The HTTP API validates through gin's "binding" tags, so the CLI reads the same ones.
var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")
	return v
}()

func loadScenario(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read scenario: %w", err)
	}
	if err := decodeScenario(data, out); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func decodeScenario(data []byte, out any) error {
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse scenario: %w", err)
	}
	if err := validate.Struct(out); err != nil {
		return fmt.Errorf("invalid scenario: %w", err)
	}
	return nil
}
