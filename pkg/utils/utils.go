package utils

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/shopspring/decimal"
)

// GetSchemaFromConfig reflects a JSON schema from any config struct.
func GetSchemaFromConfig(config any) (string, error) {
	schema := jsonschema.Reflect(config)

	jsonSchemaBytes, err := json.Marshal(schema)
	if err != nil {
		return "", err
	}

	return string(jsonSchemaBytes), nil
}

// RoundToCurrency rounds a price to 2 decimal places using decimal
// arithmetic so repeated roundings stay stable.
func RoundToCurrency(v float64) float64 {
	r, _ := decimal.NewFromFloat(v).Round(2).Float64()

	return r
}
