package analysis

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"interviewlens/internal/errors"
	"interviewlens/internal/types"

	"github.com/go-playground/validator/v10"
)

// SchemaViolation is one way a decoded report breaks the report contract
type SchemaViolation struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

var (
	vld     *validator.Validate
	vldOnce sync.Once
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() {
		vld = validator.New()
		vld.RegisterTagNameFunc(jsonName)
	})
	return vld
}

// ValidateReport converts a decoded object into a typed report. Every field
// must be present with the right JSON type, and scores and alignment rows
// must be in range. Unknown keys are dropped. Nothing is defaulted.
func ValidateReport(generic map[string]any) (*types.Report, error) {
	var violations []SchemaViolation
	checkShape(reflect.TypeOf(types.Report{}), generic, "", &violations)
	if len(violations) > 0 {
		return nil, schemaViolation(violations)
	}

	data, err := encodeGeneric(generic)
	if err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeServerError, "Failed to re-encode report", err)
	}
	var report types.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, schemaViolation([]SchemaViolation{{Path: "", Reason: err.Error()}})
	}

	if err := getValidator().Struct(report); err != nil {
		var ve validator.ValidationErrors
		if !stderrors.As(err, &ve) {
			return nil, errors.NewInternalError(errors.ErrCodeServerError, "Report validation failed", err)
		}
		for _, fe := range ve {
			violations = append(violations, SchemaViolation{
				Path:   fieldPath(fe.Namespace()),
				Reason: ruleReason(fe),
			})
		}
		return nil, schemaViolation(violations)
	}

	return &report, nil
}

// Violations returns the schema violations carried by err, if any
func Violations(err error) []SchemaViolation {
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeAISchemaViolation {
		return nil
	}
	v, _ := appErr.Context["violations"].([]SchemaViolation)
	return v
}

func schemaViolation(violations []SchemaViolation) error {
	return errors.NewAIError(errors.ErrCodeAISchemaViolation,
		fmt.Sprintf("Model output violates the report schema (%d problems)", len(violations)), nil).
		WithContext("violations", violations)
}

// checkShape walks t alongside the decoded value v and records missing keys
// and JSON type mismatches.
func checkShape(t reflect.Type, v any, path string, out *[]SchemaViolation) {
	switch t.Kind() {
	case reflect.Struct:
		obj, ok := v.(map[string]any)
		if !ok {
			*out = append(*out, SchemaViolation{Path: path, Reason: "must be an object"})
			return
		}
		for i := range t.NumField() {
			f := t.Field(i)
			name := jsonName(f)
			if name == "" {
				continue
			}
			child := joinPath(path, name)
			val, present := obj[name]
			if !present || val == nil {
				*out = append(*out, SchemaViolation{Path: child, Reason: "is required"})
				continue
			}
			checkShape(f.Type, val, child, out)
		}
	case reflect.Slice:
		arr, ok := v.([]any)
		if !ok {
			*out = append(*out, SchemaViolation{Path: path, Reason: "must be an array"})
			return
		}
		for i, el := range arr {
			checkShape(t.Elem(), el, fmt.Sprintf("%s[%d]", path, i), out)
		}
	case reflect.String:
		if _, ok := v.(string); !ok {
			*out = append(*out, SchemaViolation{Path: path, Reason: "must be a string"})
		}
	case reflect.Int, reflect.Int64:
		n, ok := v.(json.Number)
		if !ok {
			*out = append(*out, SchemaViolation{Path: path, Reason: "must be an integer"})
			return
		}
		if _, err := strconv.ParseInt(n.String(), 10, 64); err != nil {
			*out = append(*out, SchemaViolation{Path: path, Reason: "must be an integer"})
		}
	}
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

// fieldPath drops the leading struct name from a validator namespace
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func ruleReason(fe validator.FieldError) string {
	isList := fe.Kind() == reflect.Slice
	switch fe.Tag() {
	case "min":
		if isList {
			return "must have at least " + fe.Param() + " items"
		}
		return "must be >= " + fe.Param()
	case "max":
		if isList {
			return "must have at most " + fe.Param() + " items"
		}
		return "must be <= " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}
