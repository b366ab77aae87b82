package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Droplet is the subset of a droplet representation the watcher and event
// publishers care about. Client results stay untyped; this is extracted on
// demand.
type Droplet struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Status string `json:"status,omitempty"`
	Region string `json:"region,omitempty"`
	Size   string `json:"size,omitempty"`
}

// DropletsFromResult extracts droplets from a list response, which is either
// {"droplets": [...]} or a bare array.
func DropletsFromResult(res any) ([]Droplet, error) {
	var items []any
	switch v := res.(type) {
	case nil:
		return nil, nil
	case []any:
		items = v
	case map[string]any:
		raw, ok := v["droplets"]
		if !ok {
			return nil, fmt.Errorf("response has no droplets key")
		}
		if raw == nil {
			return nil, nil
		}
		arr, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("droplets is %T, want array", raw)
		}
		items = arr
	default:
		return nil, fmt.Errorf("unexpected list response type %T", res)
	}

	out := make([]Droplet, 0, len(items))
	for i, item := range items {
		d, err := DropletFromObject(item)
		if err != nil {
			return nil, fmt.Errorf("droplets[%d]: %w", i, err)
		}
		out = append(out, d)
	}
	return out, nil
}

// DropletFromResult extracts the droplet of a create/get response
// ({"droplet": {...}}).
func DropletFromResult(res any) (Droplet, error) {
	obj, ok := res.(map[string]any)
	if !ok {
		return Droplet{}, fmt.Errorf("unexpected droplet response type %T", res)
	}
	if inner, ok := obj["droplet"]; ok {
		return DropletFromObject(inner)
	}
	return DropletFromObject(obj)
}

// DropletFromObject reads a single droplet representation.
func DropletFromObject(v any) (Droplet, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return Droplet{}, fmt.Errorf("droplet is %T, want object", v)
	}
	id := idString(obj["id"])
	if id == "" {
		return Droplet{}, fmt.Errorf("droplet has no id")
	}

	d := Droplet{
		ID:     id,
		Name:   stringField(obj, "name"),
		Status: stringField(obj, "status"),
		Size:   stringField(obj, "size_slug"),
	}
	if region, ok := obj["region"].(map[string]any); ok {
		d.Region = stringField(region, "slug")
	}
	return d, nil
}

func idString(v any) string {
	switch id := v.(type) {
	case json.Number:
		return id.String()
	case string:
		return strings.TrimSpace(id)
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case int:
		return strconv.Itoa(id)
	case int64:
		return strconv.FormatInt(id, 10)
	default:
		return ""
	}
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return strings.TrimSpace(s)
}
