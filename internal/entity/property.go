package entity

import (
	"fmt"
	"strconv"
)

// Property binds a prefab property name to a setter on a component.
type Property struct {
	Name string
	Set  func(value string) error
}

func FloatProperty(name string, dst *float64) Property {
	return Property{Name: name, Set: func(v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("want a number, got %q", v)
		}
		*dst = f
		return nil
	}}
}

func BoolProperty(name string, dst *bool) Property {
	return Property{Name: name, Set: func(v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("want true or false, got %q", v)
		}
		*dst = b
		return nil
	}}
}

func StringProperty(name string, dst *string) Property {
	return Property{Name: name, Set: func(v string) error {
		*dst = v
		return nil
	}}
}
