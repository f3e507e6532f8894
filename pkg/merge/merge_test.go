package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapsFillsMissingKeys(t *testing.T) {
	defaults := map[string]interface{}{
		"paper_size":  "A4",
		"orientation": "portrait",
	}
	override := map[string]interface{}{
		"orientation": "landscape",
	}

	result := Maps(defaults, override)

	assert.Equal(t, "A4", result["paper_size"])
	assert.Equal(t, "landscape", result["orientation"])
}

func TestMapsMergesNestedBlocks(t *testing.T) {
	defaults := map[string]interface{}{
		"margins": map[string]interface{}{
			"top":    20,
			"bottom": 20,
			"left":   20,
		},
	}
	override := map[string]interface{}{
		"margins": map[string]interface{}{
			"top": 35,
		},
	}

	result := Maps(defaults, override)

	margins, ok := result["margins"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 35, margins["top"])
	assert.Equal(t, 20, margins["bottom"])
	assert.Equal(t, 20, margins["left"])
}

func TestMapsKeysAddedAfterSaveArePresent(t *testing.T) {
	// An override saved against an older defaults schema must come out with
	// the new keys filled in.
	saved := map[string]interface{}{
		"header": map[string]interface{}{
			"lab_name": "Custom Lab",
		},
	}
	defaults := map[string]interface{}{
		"header": map[string]interface{}{
			"lab_name":   "Default Lab",
			"title_size": 18,
		},
		"custom_texts": map[string]interface{}{
			"show_footer": true,
		},
	}

	result := Maps(defaults, saved)

	header := result["header"].(map[string]interface{})
	assert.Equal(t, "Custom Lab", header["lab_name"])
	assert.Equal(t, 18, header["title_size"])

	customTexts, ok := result["custom_texts"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, customTexts["show_footer"])
}

func TestMapsOverrideTypeMismatchWins(t *testing.T) {
	defaults := map[string]interface{}{
		"letterhead_space": map[string]interface{}{"height": 0},
	}
	override := map[string]interface{}{
		"letterhead_space": 60,
	}

	result := Maps(defaults, override)

	assert.Equal(t, 60, result["letterhead_space"])
}

func TestMapsNilOverrideReturnsDefaults(t *testing.T) {
	defaults := map[string]interface{}{"scale": 100}

	result := Maps(defaults, nil)

	assert.Equal(t, 100, result["scale"])
}

func TestMapsDoesNotMutateInputs(t *testing.T) {
	defaults := map[string]interface{}{
		"sections": map[string]interface{}{"spacing": 20},
	}
	override := map[string]interface{}{
		"sections": map[string]interface{}{"spacing": 10},
	}

	result := Maps(defaults, override)
	result["sections"].(map[string]interface{})["spacing"] = 99

	assert.Equal(t, 20, defaults["sections"].(map[string]interface{})["spacing"])
	assert.Equal(t, 10, override["sections"].(map[string]interface{})["spacing"])
}
