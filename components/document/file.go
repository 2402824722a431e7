package document

import (
	"context"
	"errors"
	"os"
	"strconv"
)

// Loader fetches a notification body from wherever it is stored
type Loader interface {
	Load(context.Context) (*Document, error)
}

type File struct {
	name string
}

var _ Loader = (*File)(nil)

func NewFile(fname string) *File {
	return &File{name: fname}
}

func (d *File) Load(ctx context.Context) (*Document, error) {
	fileInfo, err := os.Stat(d.name)
	if err != nil {
		return nil, err
	}
	if fileInfo.IsDir() {
		return nil, errors.New("FileDocument could not be a directory")
	}
	bs, err := os.ReadFile(d.name)
	if err != nil {
		return nil, err
	}
	ret := New(bs, fileInfo.Name())
	ret.Meta["modtime"] = strconv.FormatInt(fileInfo.ModTime().Unix(), 10)
	return ret, nil
}
