package profile

import (
	"fmt"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
)

// DecodeStartup decodes a generic record. Fields that cannot be coerced keep
// their zero value and are reported through the returned error; the profile
// is usable either way.
func DecodeStartup(record map[string]any) (StartupProfile, error) {
	var out StartupProfile
	err := decode(record, &out)
	out.Metrics.Provided = hasMetrics(record["metrics"])
	return out, err
}

func DecodeInvestor(record map[string]any) (InvestorProfile, error) {
	var out InvestorProfile
	err := decode(record, &out)
	return out, err
}

// AsStartup accepts a StartupProfile, a non-nil pointer to one, or a generic
// record. Anything else is an InvalidInputError. Malformed optional fields in
// a record are tolerated.
func AsStartup(v any) (StartupProfile, error) {
	switch val := v.(type) {
	case StartupProfile:
		return val, nil
	case *StartupProfile:
		if val != nil {
			return *val, nil
		}
	case map[string]any:
		if val != nil {
			p, _ := DecodeStartup(val)
			return p, nil
		}
	}
	return StartupProfile{}, invalid("startup", v)
}

func AsInvestor(v any) (InvestorProfile, error) {
	switch val := v.(type) {
	case InvestorProfile:
		return val, nil
	case *InvestorProfile:
		if val != nil {
			return *val, nil
		}
	case map[string]any:
		if val != nil {
			p, _ := DecodeInvestor(val)
			return p, nil
		}
	}
	return InvestorProfile{}, invalid("investor", v)
}

func decode(input any, result any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           result,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			timeToString,
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("create decoder: %w", err)
	}
	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("decode profile: %w", err)
	}
	return nil
}

// timeToString lets callers pass parsed dates where the record expects text.
func timeToString(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.String {
		return data, nil
	}
	switch v := data.(type) {
	case time.Time:
		return v.Format(time.RFC3339), nil
	case *time.Time:
		if v == nil {
			return "", nil
		}
		return v.Format(time.RFC3339), nil
	}
	return data, nil
}

func hasMetrics(v any) bool {
	switch m := v.(type) {
	case map[string]any:
		return len(m) > 0
	case map[any]any:
		return len(m) > 0
	case Metrics:
		return true
	case *Metrics:
		return m != nil
	}
	return false
}
