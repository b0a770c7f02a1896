/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package objmgr

import (
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// sidecar records {prefix, currentMax} for recovery (spec.md §6), where
// currentMax is the highest segment index that has ever been created.
type sidecar struct {
	Prefix     string `json:"prefix"`
	CurrentMax int    `json:"currentMax"`
}

func sidecarPath(dir, prefix string) string {
	return filepath.Join(dir, prefix+".sidecar.json")
}

func loadSidecar(dir, prefix string) (*sidecar, error) {
	path := sidecarPath(dir, prefix)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &sidecar{Prefix: prefix, CurrentMax: 0}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read sidecar %s", path)
	}
	var sc sidecar
	if err := jsonAPI.Unmarshal(data, &sc); err != nil {
		return nil, errors.Wrapf(err, "parse sidecar %s", path)
	}
	return &sc, nil
}

func (sc *sidecar) save(dir string) error {
	data, err := jsonAPI.Marshal(sc)
	if err != nil {
		return errors.Wrap(err, "marshal sidecar")
	}
	tmp := sidecarPath(dir, sc.Prefix) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrapf(err, "write sidecar %s", tmp)
	}
	return os.Rename(tmp, sidecarPath(dir, sc.Prefix))
}
