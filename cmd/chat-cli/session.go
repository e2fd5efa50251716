package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// profile is what login leaves behind in ~/.gochat.yaml.
type profile struct {
	Server string `yaml:"server"`
	Token  string `yaml:"token"`
	UserID uint64 `yaml:"user_id"`
	Handle string `yaml:"handle"`
}

func profilePath(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".gochat.yaml"), nil
}

func loadProfile(path string) (*profile, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &profile{}, nil
	}
	if err != nil {
		return nil, err
	}
	var p profile
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &p, nil
}

func saveProfile(path string, p *profile) error {
	raw, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}
