package xlref

import (
	"fmt"
	"log/slog"
	"reflect"
)

// PropertyGetter is implemented by objects that expose named properties
// without reflection.
type PropertyGetter interface {
	GetProperty(name string) (any, error)
}

// PropertySetter is implemented by objects whose properties can be set by name.
type PropertySetter interface {
	SetProperty(name, value string) error
}

// Accessor reads a named property of an object.
type Accessor func(obj any, name string) (any, error)

// GetProperty reads name from a map[string]any or a PropertyGetter.
// A map without the key yields nil, like a missing map entry.
func GetProperty(obj any, name string) (any, error) {
	switch o := obj.(type) {
	case map[string]any:
		return o[name], nil
	case PropertyGetter:
		v, err := o.GetProperty(name)
		if err != nil {
			return nil, &PropertyError{Property: name, Object: obj, Err: err}
		}
		return v, nil
	}
	return nil, &PropertyError{Property: name, Object: obj, Err: ErrPropertyNotFound}
}

// FieldAccessor reads an exported struct field, falling back to GetProperty
// for maps and PropertyGetter implementations.
func FieldAccessor(obj any, name string) (any, error) {
	v := reflect.ValueOf(obj)
	if v.Kind() == reflect.Ptr && !v.IsNil() {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return GetProperty(obj, name)
	}
	sf, ok := v.Type().FieldByName(name)
	if !ok || !sf.IsExported() {
		return GetProperty(obj, name)
	}
	return v.FieldByIndex(sf.Index).Interface(), nil
}

// GetPropertyOrNil reads a property through accessor and swallows failures.
// A nil accessor means GetProperty; a nil logger means slog.Default().
func GetPropertyOrNil(obj any, name string, accessor Accessor, logger *slog.Logger) any {
	if accessor == nil {
		accessor = GetProperty
	}
	v, err := accessor(obj, name)
	if err != nil {
		loggerOrDefault(logger).Debug("failed to get property",
			"property", name, "type", fmt.Sprintf("%T", obj), "error", err)
		return nil
	}
	return v
}

// SetProperty writes value into a map[string]any or a PropertySetter. When
// ignoreNonExisting is set a failure is logged and nil is returned.
func SetProperty(obj any, name, value string, ignoreNonExisting bool, logger *slog.Logger) error {
	var err error
	switch o := obj.(type) {
	case map[string]any:
		if o == nil {
			err = ErrPropertyNotFound
			break
		}
		o[name] = value
	case PropertySetter:
		err = o.SetProperty(name, value)
	default:
		err = ErrPropertyNotFound
	}
	if err == nil {
		return nil
	}
	perr := &PropertyError{Property: name, Object: obj, Err: err}
	log := loggerOrDefault(logger)
	if ignoreNonExisting {
		log.Info("failed to set property", "property", name, "value", value, "error", perr)
		return nil
	}
	log.Warn("failed to set property", "property", name, "value", value, "error", perr)
	return perr
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
