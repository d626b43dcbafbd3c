package swapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Unknown is the sentinel the API uses for missing numeric values.
const Unknown = "unknown"

// Earth reference periods used for the derived ratios.
const (
	EarthOrbitalPeriodDays   = 365.26
	EarthRotationPeriodHours = 24.0
)

// Character is one enriched people record.
type Character struct {
	ID         string
	Attributes map[string]string
	Homeworld  *World
}

// Attr returns the named attribute, or "" when it was not requested.
func (c Character) Attr(name string) string {
	return c.Attributes[name]
}

// Name is shorthand for Attr("name").
func (c Character) Name() string {
	return c.Attributes["name"]
}

// World is one planets record attached to a character.
type World struct {
	ID           string
	Attributes   map[string]string
	ToEarthYears Ratio
	ToEarthDays  Ratio
}

// Attr returns the named attribute, or "" when it was not requested.
func (w World) Attr(name string) string {
	return w.Attributes[name]
}

// Name is shorthand for Attr("name").
func (w World) Name() string {
	return w.Attributes["name"]
}

// NewWorld builds a World and computes its earth-relative ratios from the
// orbital_period and rotation_period attributes.
func NewWorld(id string, attrs map[string]string) World {
	return World{
		ID:           id,
		Attributes:   attrs,
		ToEarthYears: ratioOf(attrs["orbital_period"], EarthOrbitalPeriodDays),
		ToEarthDays:  ratioOf(attrs["rotation_period"], EarthRotationPeriodHours),
	}
}

// ratioOf divides a numeric attribute by base. Missing, "unknown" and
// non-numeric values yield an unknown ratio.
func ratioOf(raw string, base float64) Ratio {
	if raw == "" || raw == Unknown {
		return UnknownRatio()
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return UnknownRatio()
	}
	return KnownRatio(v / base)
}

// Ratio is a derived number that may be unknown.
// It encodes as a JSON number, or as the string "unknown".
type Ratio struct {
	Value float64
	Known bool
}

// KnownRatio returns a known ratio with value v.
func KnownRatio(v float64) Ratio {
	return Ratio{Value: v, Known: true}
}

// UnknownRatio returns the unknown ratio.
func UnknownRatio() Ratio {
	return Ratio{}
}

// String renders the ratio with two decimals, or "unknown".
func (r Ratio) String() string {
	if !r.Known {
		return Unknown
	}
	return strconv.FormatFloat(r.Value, 'f', 2, 64)
}

// MarshalJSON implements json.Marshaler.
func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.Known {
		return json.Marshal(Unknown)
	}
	return json.Marshal(r.Value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Ratio) UnmarshalJSON(data []byte) error {
	if r == nil {
		return errors.New("cannot unmarshal into nil Ratio")
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != Unknown {
			return fmt.Errorf("invalid ratio %q", s)
		}
		*r = UnknownRatio()
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid ratio: %w", err)
	}
	*r = KnownRatio(v)
	return nil
}

// Reserved JSON keys in the flat record encoding.
const (
	keyID           = "id"
	keyHomeworld    = "homeworld"
	keyToEarthYears = "to_earth_years"
	keyToEarthDays  = "to_earth_days"
)

// MarshalJSON encodes the character as one flat object: id, attributes and an
// optional nested homeworld object.
func (c Character) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.Attributes)+2) //nolint:mnd // id + homeworld.
	for k, v := range c.Attributes {
		out[k] = v
	}
	out[keyID] = c.ID
	if c.Homeworld != nil {
		out[keyHomeworld] = c.Homeworld
	} else {
		delete(out, keyHomeworld)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the flat object produced by MarshalJSON.
func (c *Character) UnmarshalJSON(data []byte) error {
	if c == nil {
		return errors.New("cannot unmarshal into nil Character")
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*c = Character{Attributes: make(map[string]string, len(raw))}
	for k, v := range raw {
		switch k {
		case keyID:
			if err := json.Unmarshal(v, &c.ID); err != nil {
				return fmt.Errorf("character id: %w", err)
			}
		case keyHomeworld:
			var w World
			if err := json.Unmarshal(v, &w); err != nil {
				return fmt.Errorf("character homeworld: %w", err)
			}
			c.Homeworld = &w
		default:
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				return fmt.Errorf("character attribute %s: %w", k, err)
			}
			c.Attributes[k] = s
		}
	}
	return nil
}

// MarshalJSON encodes the world as one flat object including the derived ratios.
func (w World) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(w.Attributes)+3) //nolint:mnd // id + two ratios.
	for k, v := range w.Attributes {
		out[k] = v
	}
	out[keyID] = w.ID
	out[keyToEarthYears] = w.ToEarthYears
	out[keyToEarthDays] = w.ToEarthDays
	return json.Marshal(out)
}

// UnmarshalJSON decodes the flat object produced by MarshalJSON.
func (w *World) UnmarshalJSON(data []byte) error {
	if w == nil {
		return errors.New("cannot unmarshal into nil World")
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*w = World{Attributes: make(map[string]string, len(raw))}
	for k, v := range raw {
		var err error
		switch k {
		case keyID:
			err = json.Unmarshal(v, &w.ID)
		case keyToEarthYears:
			err = json.Unmarshal(v, &w.ToEarthYears)
		case keyToEarthDays:
			err = json.Unmarshal(v, &w.ToEarthDays)
		default:
			var s string
			err = json.Unmarshal(v, &s)
			w.Attributes[k] = s
		}
		if err != nil {
			return fmt.Errorf("world field %s: %w", k, err)
		}
	}
	return nil
}

// Wire types for the swapi.tech responses.

type rootResponse struct {
	Result map[string]string `json:"result"`
}

type peopleResponse struct {
	Result []resource `json:"result"`
}

type planetResponse struct {
	Result resource `json:"result"`
}

type resource struct {
	UID        string         `json:"uid"`
	Properties map[string]any `json:"properties"`
}

// property returns a scalar property as a string. Lists and objects are not
// representable as attribute values and report false.
func (r resource) property(name string) (string, bool) {
	switch v := r.Properties[name].(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	default:
		return "", false
	}
}
