// Package project reads the project file that binds a working directory
// to a device group.
//
// A project file is a small JSON document, .impt.project by default:
//
//	{
//	  "deviceGroupId": "5a1f...",
//	  "deviceFile": "device.nut",
//	  "agentFile": "agent.nut"
//	}
//
// Commands that accept -u/--use-project (and dg info without -g) resolve
// the device group from it and use that group as their scope hint.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultFileName is the project file looked up when none is configured.
const DefaultFileName = ".impt.project"

var (
	// ErrNoProject is returned when the directory has no project file.
	ErrNoProject = errors.New("project: no project file in the current directory")

	// ErrNoDeviceGroup is returned when a project file names no device group.
	ErrNoDeviceGroup = errors.New("project: project file has no device group")
)

// File is the content of a project file.
type File struct {
	DeviceGroupID string `json:"deviceGroupId"`
	DeviceFile    string `json:"deviceFile,omitempty"`
	AgentFile     string `json:"agentFile,omitempty"`

	// Path is where the file was read from.
	Path string `json:"-"`
}

// Load reads the project file name in dir. An empty name means
// DefaultFileName. A missing file is ErrNoProject.
func Load(dir, name string) (*File, error) {
	if name == "" {
		name = DefaultFileName
	}
	path := filepath.Join(dir, name)

	data, err := os.ReadFile(path) //nolint:gosec // Path is the working directory plus a configured name
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoProject
		}
		return nil, fmt.Errorf("reading project file: %w", err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing project file %s: %w", path, err)
	}
	f.DeviceGroupID = strings.TrimSpace(f.DeviceGroupID)
	if f.DeviceGroupID == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrNoDeviceGroup)
	}
	f.Path = path
	return &f, nil
}
