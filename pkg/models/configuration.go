package models

// Validate rejects a Configuration at the boundary, before any
// database activity, per the ConfigError taxonomy.
func (c Configuration) Validate() error {
	if len(c.ExposureCUIs) == 0 {
		return &ConfigError{Field: "ExposureCUIs", Reason: "must be non-empty"}
	}
	if len(c.OutcomeCUIs) == 0 {
		return &ConfigError{Field: "OutcomeCUIs", Reason: "must be non-empty"}
	}
	if len(c.Predicates) == 0 {
		return &ConfigError{Field: "Predicates", Reason: "must be non-empty"}
	}
	if c.Degree <= 0 {
		return &ConfigError{Field: "Degree", Reason: "must be a positive integer"}
	}
	if c.Threshold <= 0 && len(c.ThresholdsByDegree) == 0 {
		return &ConfigError{Field: "Threshold", Reason: "must be positive when ThresholdsByDegree is unset"}
	}
	for hop := range c.ThresholdsByDegree {
		if hop < 1 || hop > c.Degree {
			return &ConfigError{Field: "ThresholdsByDegree", Reason: "hop key out of range [1, Degree]"}
		}
	}
	if c.Threshold <= 0 {
		for hop := 1; hop <= c.Degree; hop++ {
			if _, ok := c.ThresholdsByDegree[hop]; !ok {
				return &ConfigError{Field: "ThresholdsByDegree", Reason: "missing a hop in [1, Degree] and Threshold is unset"}
			}
		}
	}
	blocked := make(map[CUI]bool, len(c.BlocklistCUIs))
	for _, cui := range c.BlocklistCUIs {
		blocked[cui] = true
	}
	for _, cui := range c.ExposureCUIs {
		if blocked[cui] {
			return &ConfigError{Field: "BlocklistCUIs", Reason: "overlaps an exposure CUI"}
		}
	}
	for _, cui := range c.OutcomeCUIs {
		if blocked[cui] {
			return &ConfigError{Field: "BlocklistCUIs", Reason: "overlaps an outcome CUI"}
		}
	}
	return nil
}
