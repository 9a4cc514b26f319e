// © 2024 TDL Project Contributors
//
// SPDX-License-Identifier: Apache-2.0

//go:build windows

package compiler

import (
	"path/filepath"
	"strings"
)

func getDefaultRoots(lookup func(string) (string, bool)) []string {
	if tdlPath, ok := lookup("TDL_PATH"); ok && tdlPath != "" {
		return strings.Split(tdlPath, ";")
	}
	userprofile, _ := lookup("USERPROFILE")
	systemdrive, _ := lookup("SystemDrive")

	dataDirs := []string{
		filepath.Join(userprofile, "AppData", "Local", "tdl", "modules"),
		filepath.Join(systemdrive, "ProgramData", "tdl", "modules"),
	}

	return dataDirs
}
