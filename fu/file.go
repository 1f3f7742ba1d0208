package fu

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
	"go-ml.dev/pkg/zorros"
)

/*
CompressionSuffixes are file suffixes Open and Create handle transparently
*/
var CompressionSuffixes = []string{".xz", ".gz", ".zst"}

/*
TrimCompression splits the compression suffix off the file name
*/
func TrimCompression(path string) (string, string) {
	for _, s := range CompressionSuffixes {
		if strings.HasSuffix(path, s) {
			return path[:len(path)-len(s)], s
		}
	}
	return path, ""
}

type stack struct {
	io.Reader
	io.Writer
	closers []io.Closer
}

func (s *stack) Close() (err error) {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if e := s.closers[i].Close(); e != nil && err == nil {
			err = e
		}
	}
	return
}

/*
Open opens file for reading, unpacking it if the name has .xz, .gz or .zst suffix
*/
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	s := &stack{closers: []io.Closer{f}}
	br := bufio.NewReader(f)
	switch _, suffix := TrimCompression(path); suffix {
	case ".xz":
		r, e := xz.NewReader(br)
		if e != nil {
			f.Close()
			return nil, zorros.Wrapf(e, "failed to open xz stream %v: %v", path, e.Error())
		}
		s.Reader = r
	case ".gz":
		r, e := gzip.NewReader(br)
		if e != nil {
			f.Close()
			return nil, zorros.Wrapf(e, "failed to open gzip stream %v: %v", path, e.Error())
		}
		s.Reader = r
		s.closers = append(s.closers, r)
	case ".zst":
		r, e := zstd.NewReader(br)
		if e != nil {
			f.Close()
			return nil, zorros.Wrapf(e, "failed to open zstd stream %v: %v", path, e.Error())
		}
		rc := r.IOReadCloser()
		s.Reader = rc
		s.closers = append(s.closers, rc)
	default:
		s.Reader = br
	}
	return s, nil
}

/*
Create creates file for writing, packing it if the name has .xz, .gz or .zst suffix
*/
func Create(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	s := &stack{closers: []io.Closer{f}}
	switch _, suffix := TrimCompression(path); suffix {
	case ".xz":
		w, e := xz.NewWriter(f)
		if e != nil {
			f.Close()
			return nil, zorros.Wrapf(e, "failed to create xz stream %v: %v", path, e.Error())
		}
		s.Writer = w
		s.closers = append(s.closers, w)
	case ".gz":
		w := gzip.NewWriter(f)
		s.Writer = w
		s.closers = append(s.closers, w)
	case ".zst":
		w, e := zstd.NewWriter(f)
		if e != nil {
			f.Close()
			return nil, zorros.Wrapf(e, "failed to create zstd stream %v: %v", path, e.Error())
		}
		s.Writer = w
		s.closers = append(s.closers, w)
	default:
		s.Writer = f
	}
	return s, nil
}

/*
Exists reports whether path names an existing regular file
*/
func Exists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.Mode().IsRegular()
}
