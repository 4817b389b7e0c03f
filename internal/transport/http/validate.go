package http

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"bias-assessment-service/internal/domain"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
)

const submitSchemaURL = "schema://assessment-submit.json"

const submitSchema = `{
  "type": "object",
  "required": ["sessionId", "answers"],
  "properties": {
    "sessionId": {"type": "string", "minLength": 1},
    "answers": {"type": "array", "items": {"type": "integer", "minimum": 0}},
    "totalScore": {"type": "number"},
    "categoryScores": {"type": "object", "additionalProperties": {"type": "number"}},
    "completedAt": {"type": "string"}
  }
}`

var (
	submitSchemaOnce     sync.Once
	submitSchemaCompiled *jsonschema.Schema
	submitSchemaErr      error
)

func compiledSubmitSchema() (*jsonschema.Schema, error) {
	submitSchemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(submitSchema))
		if err != nil {
			submitSchemaErr = fmt.Errorf("parse submit schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(submitSchemaURL, doc); err != nil {
			submitSchemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		submitSchemaCompiled, submitSchemaErr = c.Compile(submitSchemaURL)
	})
	return submitSchemaCompiled, submitSchemaErr
}

// validateSubmitBody checks raw against the submit schema. A non-nil error
// means the body is not JSON at all; schema failures come back as violations.
func validateSubmitBody(raw []byte) ([]domain.FieldViolation, error) {
	schema, err := compiledSubmitSchema()
	if err != nil {
		return nil, err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	verr, ok := schema.Validate(inst).(*jsonschema.ValidationError)
	if !ok || verr == nil {
		return nil, nil
	}
	var out []domain.FieldViolation
	collectViolations(verr, &out)
	return out, nil
}

func collectViolations(e *jsonschema.ValidationError, out *[]domain.FieldViolation) {
	if len(e.Causes) > 0 {
		for _, c := range e.Causes {
			collectViolations(c, out)
		}
		return
	}
	field := fieldName(e.InstanceLocation)
	switch k := e.ErrorKind.(type) {
	case *kind.Required:
		for _, name := range k.Missing {
			*out = append(*out, domain.FieldViolation{Field: joinField(field, name), Message: "is required"})
		}
	case *kind.Type:
		*out = append(*out, domain.FieldViolation{Field: field, Message: "must be of type " + strings.Join(k.Want, " or ")})
	default:
		*out = append(*out, domain.FieldViolation{Field: field, Message: "violates " + strings.Join(k.KeywordPath(), "/")})
	}
}

// fieldName renders ["answers","3"] as answers[3].
func fieldName(location []string) string {
	var b strings.Builder
	for _, seg := range location {
		if _, err := strconv.Atoi(seg); err == nil && b.Len() > 0 {
			b.WriteString("[" + seg + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg)
	}
	if b.Len() == 0 {
		return "body"
	}
	return b.String()
}

func joinField(parent, name string) string {
	if parent == "body" {
		return name
	}
	return parent + "." + name
}
