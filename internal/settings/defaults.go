// Package settings seeds the platform's default configuration rows.
package settings

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/callgrid/platform-bootstrap/internal/db"
)

//go:embed seed/platform_defaults.json
var defaultsJSON []byte

//go:embed seed/platform_defaults.schema.json
var defaultsSchemaJSON []byte

// seedSetting mirrors one entry of the seed file.
type seedSetting struct {
	Key          string  `json:"key"`
	DisplayName  string  `json:"display_name"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	SettingType  string  `json:"setting_type"`
	StringValue  *string `json:"string_value"`
	IntegerValue *int64  `json:"integer_value"`
	DecimalValue *string `json:"decimal_value"`
	BooleanValue *bool   `json:"boolean_value"`
}

// LoadDefaults validates the embedded seed file against its JSON Schema and
// returns the default settings in seed order.
func LoadDefaults() ([]db.PlatformSetting, error) {
	return loadDefaults(defaultsJSON, defaultsSchemaJSON)
}

func loadDefaults(seed, schema []byte) ([]db.PlatformSetting, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schema),
		gojsonschema.NewBytesLoader(seed),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to validate settings seed: %w", err)
	}
	if !result.Valid() {
		var sb strings.Builder
		sb.WriteString("settings seed is invalid:")
		for _, desc := range result.Errors() {
			fmt.Fprintf(&sb, "\n  %s: %s", desc.Field(), desc.Description())
		}
		return nil, fmt.Errorf("%s", sb.String())
	}

	var seeds []seedSetting
	if err := json.Unmarshal(seed, &seeds); err != nil {
		return nil, fmt.Errorf("failed to parse settings seed: %w", err)
	}

	settings := make([]db.PlatformSetting, 0, len(seeds))
	for _, s := range seeds {
		settings = append(settings, db.PlatformSetting{
			Key:          s.Key,
			DisplayName:  s.DisplayName,
			Description:  s.Description,
			Category:     s.Category,
			SettingType:  s.SettingType,
			StringValue:  s.StringValue,
			IntegerValue: s.IntegerValue,
			DecimalValue: s.DecimalValue,
			BooleanValue: s.BooleanValue,
			IsActive:     true,
		})
	}
	return settings, nil
}
