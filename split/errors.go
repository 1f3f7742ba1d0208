package split

import (
	"fmt"

	"golang.org/x/xerrors"
)

/*
ErrFoldOutOfRange is wrapped by errors of negative folds and folds beyond the count of groups
*/
var ErrFoldOutOfRange = xerrors.New("fold is out of range")

/*
DatasetNotFoundError is returned when no split representation of the problem exists
*/
type DatasetNotFoundError struct {
	Root    string
	Problem string
	Err     error
}

func (e *DatasetNotFoundError) Error() string {
	return fmt.Sprintf("dataset `%v` is not found in `%v`: %v", e.Problem, e.Root, e.Err)
}

func (e *DatasetNotFoundError) Unwrap() error {
	return e.Err
}

/*
MalformedDatasetError is returned when a located file can't be loaded as a table
*/
type MalformedDatasetError struct {
	Path string
	Err  error
}

func (e *MalformedDatasetError) Error() string {
	return fmt.Sprintf("malformed dataset `%v`: %v", e.Path, e.Err)
}

func (e *MalformedDatasetError) Unwrap() error {
	return e.Err
}
