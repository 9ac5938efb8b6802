package handlers

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/you/foodauth/internal/validation"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators installs the phone and role tags on gin's validator and
// reports fields by their JSON names. Safe to call more than once.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin validator engine is not validator/v10")
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
		registerErr = validation.Register(v)
	})
	return registerErr
}

func jsonFieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}
