package store

import (
	"github.com/sirupsen/logrus"
)

// ColorStore owns the category color assignment.
type ColorStore struct {
	sink   Sink
	log    *logrus.Entry
	colors ColorMap
}

// NewColorStore creates a store holding the default colors.
func NewColorStore(sink Sink) *ColorStore {
	return &ColorStore{
		sink:   sinkOrDiscard(sink),
		log:    logrus.WithField("component", "colors"),
		colors: DefaultColors(),
	}
}

// Get returns a copy of the current map.
func (s *ColorStore) Get() ColorMap {
	return s.colors.clone()
}

// Color returns the hex color for category.
func (s *ColorStore) Color(c Category) string {
	return s.colors[c]
}

// Set assigns a palette color (name or hex) to a category.
func (s *ColorStore) Set(c Category, color string) error {
	category, err := ParseCategory(string(c))
	if err != nil {
		return err
	}
	hex, err := ResolveColor(color)
	if err != nil {
		return err
	}
	s.colors[category] = hex
	s.persist()
	return nil
}

// Reset restores the default colors. The defaults are written like any
// other change.
func (s *ColorStore) Reset() {
	s.colors = DefaultColors()
	s.persist()
}

func (s *ColorStore) replace(colors ColorMap) {
	s.colors = colors.clone()
}

func (s *ColorStore) persist() {
	value, err := EncodeColors(s.colors)
	if err != nil {
		s.log.WithError(err).Warn("encoding colors")
		return
	}
	s.sink.Save(KeyColors, value)
}
