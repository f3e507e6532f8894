package merge

// Maps recursively fills keys missing from override with values from
// defaults and returns the effective map. Values present in override win;
// nested maps are merged key by key, so keys added to the defaults after an
// override was saved always come out populated. Neither input is mutated.
func Maps(defaults, override map[string]interface{}) map[string]interface{} {
	if override == nil {
		return cloneMap(defaults)
	}

	result := make(map[string]interface{}, len(defaults)+len(override))
	for key, value := range override {
		result[key] = cloneValue(value)
	}

	for key, defaultValue := range defaults {
		overrideValue, ok := result[key]
		if !ok {
			result[key] = cloneValue(defaultValue)
			continue
		}

		defaultChild, defaultIsMap := defaultValue.(map[string]interface{})
		overrideChild, overrideIsMap := overrideValue.(map[string]interface{})
		if defaultIsMap && overrideIsMap {
			result[key] = Maps(defaultChild, overrideChild)
		}
	}

	return result
}

func cloneMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return map[string]interface{}{}
	}
	result := make(map[string]interface{}, len(m))
	for key, value := range m {
		result[key] = cloneValue(value)
	}
	return result
}

func cloneValue(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		return cloneMap(v)
	case []interface{}:
		items := make([]interface{}, len(v))
		for i, item := range v {
			items[i] = cloneValue(item)
		}
		return items
	default:
		return value
	}
}
