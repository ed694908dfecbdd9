package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message,omitempty"`
}

var jsonNamesOnce sync.Once

// useJSONFieldNames makes validator report fields by their json tag, so
// errors name "itemType" rather than "ItemType".
func useJSONFieldNames() {
	jsonNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(sf reflect.StructField) string {
			name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
			switch name {
			case "-":
				return ""
			case "":
				return sf.Name
			}
			return name
		})
	})
}

// BindJSON decodes and validates the body into out. On failure it has
// already written a 400 (or 413) and the handler should return.
func BindJSON(ctx *gin.Context, out any) bool {
	useJSONFieldNames()

	err := ctx.ShouldBindJSON(out)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		RespondPayloadTooLarge(ctx, "Request body is too large")
		return false
	}

	RespondBadRequest(ctx, "Invalid request body", bindErrorDetails(err))
	return false
}

func bindErrorDetails(err error) gin.H {
	var (
		validationErrs validator.ValidationErrors
		syntaxErr      *json.SyntaxError
		typeErr        *json.UnmarshalTypeError
	)

	switch {
	case errors.As(err, &validationErrs):
		fields := make([]FieldError, 0, len(validationErrs))
		for _, fe := range validationErrs {
			fields = append(fields, FieldError{
				Field:   fe.Field(),
				Rule:    fe.Tag(),
				Param:   fe.Param(),
				Message: validationMessage(fe.Tag(), fe.Param()),
			})
		}
		return gin.H{"fields": fields}

	case errors.As(err, &syntaxErr):
		return gin.H{"json": "invalid_json_syntax", "offset": syntaxErr.Offset}

	case errors.As(err, &typeErr):
		// encoding/json already reports the json path
		field := typeErr.Field
		return gin.H{
			"json":  "invalid_json_type",
			"field": field,
			"fields": []FieldError{{
				Field:   field,
				Rule:    "type",
				Message: "must be of type " + typeErr.Type.String(),
			}},
		}

	case errors.Is(err, io.EOF):
		return gin.H{"json": "empty_body"}

	case errors.Is(err, io.ErrUnexpectedEOF):
		return gin.H{"json": "truncated_body"}
	}

	return gin.H{"reason": err.Error()}
}

func validationMessage(rule, param string) string {
	switch rule {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + param
	case "max":
		return "must be at most " + param
	case "oneof":
		return "must be one of " + strings.ReplaceAll(param, " ", ", ")
	}

	if param != "" {
		return fmt.Sprintf("failed %s validation (%s)", rule, param)
	}
	return "failed " + rule + " validation"
}
