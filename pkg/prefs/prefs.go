// Package prefs keeps small per-user settings on disk.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

const (
	keyDisplayName = "userName"

	// DefaultDisplayName is used until the user sets one.
	DefaultDisplayName = "User"
)

var ErrEmptyName = errors.New("please enter your name")

// Store is a diskv-backed key-value store, one file per key.
type Store struct {
	d        *diskv.Diskv
	basePath string
}

// Open returns a store rooted at basePath. The directory is created on first write.
func Open(basePath string) *Store {
	return &Store{
		d: diskv.New(diskv.Options{
			BasePath:     basePath,
			Transform:    func(string) []string { return []string{} },
			CacheSizeMax: 64 * 1024,
		}),
		basePath: basePath,
	}
}

// BasePath is the directory the store writes to.
func (s *Store) BasePath() string {
	return s.basePath
}

// HasDisplayName reports whether a name was ever saved.
func (s *Store) HasDisplayName() bool {
	return s.d.Has(keyDisplayName)
}

// DisplayName returns the saved name, or DefaultDisplayName.
func (s *Store) DisplayName() string {
	val, err := s.d.Read(keyDisplayName)
	if err != nil {
		return DefaultDisplayName
	}
	name := strings.TrimSpace(string(val))
	if name == "" {
		return DefaultDisplayName
	}
	return name
}

// SetDisplayName trims and saves name.
func (s *Store) SetDisplayName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if err := s.d.Write(keyDisplayName, []byte(name)); err != nil {
		return fmt.Errorf("failed to save display name: %w", err)
	}
	return nil
}

// Greeting is the welcome line shown on start.
func (s *Store) Greeting() string {
	return fmt.Sprintf("Welcome back,\n%s!", s.DisplayName())
}

// Clear forgets every preference.
func (s *Store) Clear() error {
	if err := s.d.EraseAll(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to clear preferences: %w", err)
	}
	return nil
}
