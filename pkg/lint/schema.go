package lint

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed report.schema.json
var reportSchemaJSON []byte

var (
	reportSchemaOnce sync.Once
	reportSchema     *jsonschema.Schema
	reportSchemaErr  error
)

// ReportSchema returns the JSON Schema of the report wire contract.
func ReportSchema() []byte {
	return bytes.Clone(reportSchemaJSON)
}

func compiledReportSchema() (*jsonschema.Schema, error) {
	reportSchemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(reportSchemaJSON))
		if err != nil {
			reportSchemaErr = fmt.Errorf("unmarshal schema JSON: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("report.schema.json", doc); err != nil {
			reportSchemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		reportSchema, reportSchemaErr = c.Compile("report.schema.json")
	})
	return reportSchema, reportSchemaErr
}

// ValidateReportJSON checks an encoded Report or ErrorReport against the
// wire contract schema.
func ValidateReportJSON(data []byte) error {
	schema, err := compiledReportSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	// jsonschema.UnmarshalJSON keeps numbers as json.Number, which the
	// validator requires for integer checks.
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
