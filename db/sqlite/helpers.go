package sqlite

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	db2 "github.com/project-launch/project-launch-be/db"
)

var validate = validator.New()

// checkReq validates a Create* request struct, converting the first violation
// into a ValidationError.
func checkReq(req interface{}) error {
	if req == nil {
		return &db2.ValidationError{Message: "request data is required"}
	}
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return &db2.ValidationError{
			Message: fmt.Sprintf("field %v failed %q", fieldErrs[0].Field(), fieldErrs[0].Tag()),
		}
	}
	return &db2.ValidationError{Message: err.Error()}
}

// toJSON serializes nested structures into TEXT columns. nil marshals to "".
func toJSON(v interface{}) (string, error) {
	if v == nil {
		return "", nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func stringsToJSON(values []string) string {
	if values == nil {
		values = []string{}
	}
	raw, _ := json.Marshal(values)
	return string(raw)
}

func stringsFromJSON(raw string) ([]string, error) {
	if raw == "" || raw == "null" {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, err
	}
	return values, nil
}

func fromJSON(raw string, target interface{}) error {
	if raw == "" || raw == "null" {
		return nil
	}
	return json.Unmarshal([]byte(raw), target)
}
