// © 2024 TDL Project Contributors
//
// SPDX-License-Identifier: Apache-2.0

//go:build aix || darwin || dragonfly || freebsd || (js && wasm) || linux || netbsd || openbsd || solaris

package compiler

import (
	"os"
	"path/filepath"
	"strings"
)

// getDefaultRoots resolves the search roots for shared TDL modules. TDL_PATH
// takes priority when set, otherwise the XDG data directories are used.
func getDefaultRoots(lookup func(string) (string, bool)) []string {
	if tdlPath, ok := lookup("TDL_PATH"); ok && tdlPath != "" {
		return strings.Split(tdlPath, ":")
	}
	xdgDirs, ok := lookup("XDG_DATA_DIRS")
	if !ok {
		xdgDirs = "/usr/local/share/:/usr/share/"
	}
	dataDirs := strings.Split(xdgDirs, ":")
	for offset, dataDir := range dataDirs {
		p := filepath.Join(dataDir, "tdl")
		p = os.Expand(p, func(s string) string {
			v, _ := lookup(s)
			return v
		})
		dataDirs[offset] = p
	}
	return dataDirs
}
