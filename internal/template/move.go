package template

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Move relocates the expanded tree into dest. A dry collision pass
// runs first: if any entry would overwrite an existing file the whole
// operation fails before a single byte is written. The
// version-control directory is not copied and symbolic links are
// rejected.
func Move(scratch, dest string) error {
	if err := checkCollisions(scratch, dest); err != nil {
		return err
	}
	return CopyTree(scratch, dest)
}

type pathPair struct {
	src string
	dst string
}

// checkCollisions walks the scratch tree and fails on the first entry
// that already exists as a file under dest.
func checkCollisions(scratch, dest string) error {
	if _, err := os.Lstat(dest); os.IsNotExist(err) {
		return nil
	}

	stack := []pathPair{{scratch, dest}}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(current.src)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			src := filepath.Join(current.src, entry.Name())
			dst := filepath.Join(current.dst, entry.Name())
			if entry.Type()&os.ModeSymlink != 0 {
				rel, _ := filepath.Rel(scratch, src)
				return fmt.Errorf("symbolic links not supported: %s", filepath.ToSlash(rel))
			}
			if entry.IsDir() {
				if entry.Name() == ".git" {
					continue
				}
				stack = append(stack, pathPair{src, dst})
				continue
			}
			if _, err := os.Lstat(dst); err == nil {
				return fmt.Errorf("file already exists: %s", dst)
			}
		}
	}
	return nil
}

// CopyTree copies root into dest, preserving file modes. The
// version-control directory is skipped and symbolic links are
// rejected.
func CopyTree(root, dest string) error {
	stack := []pathPair{{root, dest}}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if err := os.MkdirAll(current.dst, 0o755); err != nil {
			return err
		}
		entries, err := os.ReadDir(current.src)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			src := filepath.Join(current.src, entry.Name())
			dst := filepath.Join(current.dst, entry.Name())
			if entry.IsDir() {
				if entry.Name() == ".git" {
					continue
				}
				stack = append(stack, pathPair{src, dst})
				continue
			}
			if entry.Type()&os.ModeSymlink != 0 {
				rel, _ := filepath.Rel(root, src)
				return fmt.Errorf("symbolic links not supported: %s", filepath.ToSlash(rel))
			}
			if err := copyFile(src, dst); err != nil {
				return err
			}
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
