package models

import (
	"encoding"
	"fmt"
)

// Category is the coarse retention state of an item.
type Category string

const (
	CategoryNew           Category = "new"
	CategoryCorrect       Category = "correct"
	CategoryStillLearning Category = "still_learning"
	CategoryIncorrect     Category = "incorrect"
	CategoryMastered      Category = "mastered"
)

var (
	_ encoding.TextMarshaler   = Category("")
	_ encoding.TextUnmarshaler = (*Category)(nil)
)

// IsValid reports whether c is one of the known categories.
func (c Category) IsValid() bool {
	switch c {
	case CategoryNew, CategoryCorrect, CategoryStillLearning, CategoryIncorrect, CategoryMastered:
		return true
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	if !c.IsValid() {
		return nil, fmt.Errorf("models: invalid category: %q", string(c))
	}
	return []byte(c), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	v := Category(text)
	if !v.IsValid() {
		return fmt.Errorf("models: invalid category: %q", text)
	}
	*c = v
	return nil
}
