package iconpack

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// CheckAssets verifies that every static asset exists before anything is written.
func CheckAssets(fs afero.Fs, srcDir string, files []string) error {
	for _, name := range files {
		path := filepath.Join(srcDir, name)
		fi, err := fs.Stat(path)
		if err != nil {
			return &AssetCopyError{Path: path, Err: err}
		}
		if !fi.Mode().IsRegular() {
			return &AssetCopyError{Path: path, Err: errors.New("not a regular file")}
		}
	}
	return nil
}

// CopyAssets copies the named files of srcDir into dstDir.
func CopyAssets(fs afero.Fs, srcDir string, files []string, dstDir string) error {
	for _, name := range files {
		src := filepath.Join(srcDir, name)
		if err := copyFile(fs, src, filepath.Join(dstDir, name)); err != nil {
			return &AssetCopyError{Path: src, Err: err}
		}
	}
	return nil
}

// CopyTree copies the directory src into dst recursively.
func CopyTree(fs afero.Fs, src, dst string) error {
	return afero.Walk(fs, src, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return &AssetCopyError{Path: path, Err: err}
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if fi.IsDir() {
			return fs.MkdirAll(target, 0755)
		}
		if err := copyFile(fs, path, target); err != nil {
			return &AssetCopyError{Path: path, Err: err}
		}
		return nil
	})
}

func copyFile(fs afero.Fs, src, dst string) error {
	in, err := fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := fs.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	out, err := fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Archive zips the content of root into the file at dst. Entries are named
// relative to root, with forward slashes, in lexical order.
func Archive(fs afero.Fs, root, dst string) (err error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	absDst, err := filepath.Abs(dst)
	if err != nil {
		return err
	}
	if rel, err := filepath.Rel(absRoot, absDst); err == nil && !strings.HasPrefix(rel, "..") {
		return errors.Errorf("archive %s must not be placed inside %s", dst, root)
	}

	if err := fs.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Wrap(err, "unable to create archive directory")
	}
	f, err := fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Wrap(err, "unable to create archive")
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	zw := zip.NewWriter(f)
	walkErr := afero.Walk(fs, root, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == "." {
			return err
		}

		hdr, err := zip.FileInfoHeader(fi)
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		if fi.IsDir() {
			hdr.Name += "/"
			_, err = zw.CreateHeader(hdr)
			return err
		}
		hdr.Method = zip.Deflate

		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return err
		}
		in, err := fs.Open(path)
		if err != nil {
			return err
		}
		defer in.Close()
		_, err = io.Copy(w, in)
		return err
	})
	if walkErr != nil {
		zw.Close()
		return errors.Wrapf(walkErr, "unable to archive %s", root)
	}
	return errors.Wrap(zw.Close(), "unable to finalize archive")
}
