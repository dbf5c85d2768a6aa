package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// runOptions collects the flags shared by run, dump, and watch.
type runOptions struct {
	ConfigPath   string
	PluginPath   string
	PluginGroups []string
	Verbose      bool
	DryRun       bool
}

func validateConfigPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil // config file is optional (§6)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("config file does not exist: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("config path %s is a directory", abs)
	}
	return nil
}
