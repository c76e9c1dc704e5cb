// Package layout reads the parking structure description used to seed slots.
package layout

import (
	"bytes"
	"os"

	"parking-engine/internal/domain/slot"
	"parking-engine/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type file struct {
	Floors      int               `yaml:"floors"`
	Sections    []string          `yaml:"sections"`
	Positions   []position        `yaml:"positions"`
	Rates       map[string]string `yaml:"rates"`
	Multipliers map[string]string `yaml:"multipliers"`
}

type position struct {
	Position    int    `yaml:"position"`
	VehicleType string `yaml:"vehicle_type"`
	SlotType    string `yaml:"slot_type"`
}

// Load reads a layout file. An empty path yields slot.DefaultLayout.
func Load(path string) (slot.Layout, error) {
	if path == "" {
		return slot.DefaultLayout(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return slot.Layout{}, errs.Wrapf(err, "failed to read layout file %s", path)
	}
	return Parse(data)
}

func Parse(data []byte) (slot.Layout, error) {
	var f file
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return slot.Layout{}, errs.Reason(slot.ErrInvalidLayout, "malformed layout: %v", err)
	}

	l := slot.Layout{
		Floors:      f.Floors,
		Sections:    f.Sections,
		Positions:   make([]slot.PositionRule, 0, len(f.Positions)),
		Rates:       make(map[slot.VehicleType]decimal.Decimal, len(f.Rates)),
		Multipliers: make(map[slot.Type]decimal.Decimal, len(f.Multipliers)),
	}

	seen := make(map[int]bool, len(f.Positions))
	for _, p := range f.Positions {
		vt, st := slot.VehicleType(p.VehicleType), slot.Type(p.SlotType)
		if st == "" {
			st = slot.TypeRegular
		}
		switch {
		case p.Position <= 0 || p.Position > 99:
			return slot.Layout{}, errs.Reason(slot.ErrInvalidLayout, "position %d out of range 1-99", p.Position)
		case seen[p.Position]:
			return slot.Layout{}, errs.Reason(slot.ErrInvalidLayout, "position %d listed twice", p.Position)
		case !vt.IsValid():
			return slot.Layout{}, errs.Reason(slot.ErrInvalidLayout, "unknown vehicle type %q", p.VehicleType)
		case !st.IsValid():
			return slot.Layout{}, errs.Reason(slot.ErrInvalidLayout, "unknown slot type %q", p.SlotType)
		}
		seen[p.Position] = true
		l.Positions = append(l.Positions, slot.PositionRule{Position: p.Position, VehicleType: vt, Type: st})
	}

	for k, v := range f.Rates {
		vt := slot.VehicleType(k)
		if !vt.IsValid() {
			return slot.Layout{}, errs.Reason(slot.ErrInvalidLayout, "rate for unknown vehicle type %q", k)
		}
		rate, err := positiveDecimal(v)
		if err != nil {
			return slot.Layout{}, errs.Reason(slot.ErrInvalidLayout, "rate for %s: %v", k, err)
		}
		l.Rates[vt] = rate
	}
	for k, v := range f.Multipliers {
		st := slot.Type(k)
		if !st.IsValid() {
			return slot.Layout{}, errs.Reason(slot.ErrInvalidLayout, "multiplier for unknown slot type %q", k)
		}
		m, err := positiveDecimal(v)
		if err != nil {
			return slot.Layout{}, errs.Reason(slot.ErrInvalidLayout, "multiplier for %s: %v", k, err)
		}
		l.Multipliers[st] = m
	}
	return l, nil
}

func positiveDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, errs.Reason(slot.ErrInvalidLayout, "%s is not positive", s)
	}
	return d, nil
}
