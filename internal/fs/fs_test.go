// © 2024 TDL Project Contributors
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.tdl.dev/tdlc/internal/exc"
	"gopkg.tdl.dev/tdlc/internal/idl"
)

func readAll(t *testing.T, f idl.File) string {
	t.Helper()
	ctx := context.Background()
	body, err := f.Body(ctx)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, body.Close(ctx))
	}()
	out := make([]byte, 0, 64)
	for {
		b, err := body.Read(ctx, 32)
		out = append(out, b...)
		if err != nil {
			require.Equal(t, exc.CodeEOF, err.(exc.Exception).Code())
			return string(out)
		}
	}
}

func TestFileSystemLocalOpenFile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Users.tdl"), []byte("scala: a purs: B"), 0o644))

	lfs, err := NewFileSystemLocal(dir)
	require.NoError(t, err)

	files, err := lfs.Open(ctx, "/Users.tdl")
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, idl.FileKindTDL, files[0].Kind(ctx))
	require.Equal(t, "scala: a purs: B", readAll(t, files[0]))
}

func TestFileSystemLocalOpenDirectory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "A.tdl"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "B.tdl"), []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.txt"), []byte("x"), 0o644))

	lfs, err := NewFileSystemLocal(dir)
	require.NoError(t, err)

	files, err := lfs.Open(ctx, "/")
	require.NoError(t, err)
	require.Len(t, files, 2)
}

func TestFileSystemLocalNotFound(t *testing.T) {
	t.Parallel()

	lfs, err := NewFileSystemLocal(t.TempDir())
	require.NoError(t, err)

	_, err = lfs.Open(context.Background(), "/Missing.tdl")
	require.Error(t, err)
	var e exc.Exception
	require.True(t, errors.As(err, &e))
	require.Equal(t, exc.CodeFileNotFound, e.Code())
}

func TestFileSystemLocalWrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	lfs, err := NewFileSystemLocal(dir)
	require.NoError(t, err)

	require.NoError(t, lfs.Write(ctx, "/out/Users.tdl", "scala: a purs: B"))
	b, err := os.ReadFile(filepath.Join(dir, "out", "Users.tdl"))
	require.NoError(t, err)
	require.Equal(t, "scala: a purs: B", string(b))
}

func TestFileSystemMultiFallsThrough(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	first := t.TempDir()
	second := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(second, "Only.tdl"), []byte("x"), 0o644))

	f1, err := NewFileSystemLocal(first)
	require.NoError(t, err)
	f2, err := NewFileSystemLocal(second)
	require.NoError(t, err)
	multi := FileSystemMulti{f1, f2}

	files, err := multi.Open(ctx, "/Only.tdl")
	require.NoError(t, err)
	require.Len(t, files, 1)

	_, err = multi.Open(ctx, "/Nowhere.tdl")
	require.Error(t, err)

	err = multi.Write(ctx, "/x.tdl", "y")
	var e exc.Exception
	require.True(t, errors.As(err, &e))
	require.Equal(t, exc.CodeUnsupportedFileSystemOperation, e.Code())
}
