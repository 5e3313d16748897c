package split

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/arloliu/tagsplit/errs"
)

// FileSource opens local files.
type FileSource struct{}

var _ Source = FileSource{}

// NewFileSource creates a Source over the local file system.
func NewFileSource() FileSource {
	return FileSource{}
}

// Open opens the file at path for reading.
func (FileSource) Open(_ context.Context, path string) (Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, wrapNotFound(path, err)
	}

	return f, nil
}

// Size returns the size of the file at path.
func (FileSource) Size(_ context.Context, path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, wrapNotFound(path, err)
	}
	if info.IsDir() {
		return 0, fmt.Errorf("%s is a directory", path)
	}

	return info.Size(), nil
}

func wrapNotFound(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", errs.ErrObjectNotFound, path)
	}

	return err
}
