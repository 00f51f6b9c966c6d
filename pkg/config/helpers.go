package config

import (
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/glorpus-work/imgurdl/pkg/errors"
)

// ImgurKeyPrefix prefixes the keys of the imgur section in get/set/show.
const ImgurKeyPrefix = "imgur."

// maskedValue is shown instead of secrets.
const maskedValue = "********"

var secretKeys = map[string]bool{
	"imgur.client_secret": true,
	"imgur.access_token":  true,
}

// SetValue sets a configuration value by key.
// Settings keys are used bare (workers, download_dir, ...); credentials and the
// API endpoint use the imgur. prefix (imgur.client_id, imgur.base_url, ...).
func (c *Config) SetValue(key, value string) error {
	field, ok := c.field(key)
	if !ok {
		return errors.ErrUnknownConfigKeyWithName(key)
	}

	switch field.Interface().(type) {
	case time.Duration:
		d, err := time.ParseDuration(value)
		if err != nil {
			return errors.Wrapf(err, "invalid duration for %s", key)
		}
		field.SetInt(int64(d))
	case int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return errors.Wrapf(err, "invalid number for %s", key)
		}
		field.SetInt(int64(n))
	default:
		field.SetString(value)
	}
	return nil
}

// GetValue returns the value of a key as a string. Secrets are returned unmasked.
func (c *Config) GetValue(key string) (string, error) {
	field, ok := c.field(key)
	if !ok {
		return "", errors.ErrUnknownConfigKeyWithName(key)
	}
	return formatValue(field), nil
}

// ToMap flattens the configuration for display. Secrets are masked.
func (c *Config) ToMap() map[string]string {
	result := make(map[string]string)
	for _, key := range Keys() {
		field, _ := c.field(key)
		value := formatValue(field)
		if secretKeys[key] && value != "" {
			value = maskedValue
		}
		result[key] = value
	}
	return result
}

// Keys lists every key accepted by GetValue and SetValue in sorted order.
func Keys() []string {
	var keys []string
	keys = append(keys, yamlKeys(reflect.TypeOf(ImgurConfig{}), ImgurKeyPrefix)...)
	keys = append(keys, yamlKeys(reflect.TypeOf(Settings{}), "")...)
	sort.Strings(keys)
	return keys
}

func yamlKeys(t reflect.Type, prefix string) []string {
	keys := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if name := yamlName(t.Field(i)); name != "" {
			keys = append(keys, prefix+name)
		}
	}
	return keys
}

func (c *Config) field(key string) (reflect.Value, bool) {
	section := reflect.ValueOf(&c.Settings).Elem()
	name := key
	if strings.HasPrefix(key, ImgurKeyPrefix) {
		section = reflect.ValueOf(&c.Imgur).Elem()
		name = strings.TrimPrefix(key, ImgurKeyPrefix)
	}

	t := section.Type()
	for i := 0; i < t.NumField(); i++ {
		if yamlName(t.Field(i)) == name {
			return section.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func yamlName(field reflect.StructField) string {
	tag := field.Tag.Get("yaml")
	if tag == "" || tag == "-" {
		return ""
	}
	return strings.Split(tag, ",")[0]
}

func formatValue(v reflect.Value) string {
	switch val := v.Interface().(type) {
	case time.Duration:
		return val.String()
	case int:
		return strconv.Itoa(val)
	case string:
		return val
	default:
		return ""
	}
}
