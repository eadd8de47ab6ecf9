package models

import "testing"

func validConfig() Configuration {
	return Configuration{
		ExposureCUIs: []CUI{"C0011570"},
		OutcomeCUIs:  []CUI{"C0002395"},
		Predicates:   []Predicate{"CAUSES"},
		Degree:       2,
		Threshold:    10,
	}
}

func TestValidateAcceptsWellFormedConfig(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateRejectsEmptyPredicates(t *testing.T) {
	c := validConfig()
	c.Predicates = nil
	err := c.Validate()
	if err == nil {
		t.Fatal("expected ConfigError for empty predicates")
	}
	if _, ok := err.(*ConfigError); !ok {
		t.Fatalf("expected *ConfigError, got %T", err)
	}
}

func TestValidateRejectsNonPositiveDegree(t *testing.T) {
	c := validConfig()
	c.Degree = 0
	if err := c.Validate(); err == nil {
		t.Fatal("expected ConfigError for zero degree")
	}
}

func TestValidateRejectsThresholdByDegreeOutOfRange(t *testing.T) {
	c := validConfig()
	c.ThresholdsByDegree = map[int]int{3: 10}
	if err := c.Validate(); err == nil {
		t.Fatal("expected ConfigError for out-of-range hop key")
	}
}

func TestValidateRejectsBlocklistExposureOverlap(t *testing.T) {
	c := validConfig()
	c.BlocklistCUIs = []CUI{"C0011570"}
	if err := c.Validate(); err == nil {
		t.Fatal("expected ConfigError for blocklist/exposure overlap")
	}
}

func TestValidateAllowsThresholdsByDegreeWithoutFlatThreshold(t *testing.T) {
	c := validConfig()
	c.Threshold = 0
	c.ThresholdsByDegree = map[int]int{1: 50, 2: 10}
	if err := c.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}
