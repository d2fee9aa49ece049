package restyutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	devenv "jetcargo-backend/dev/env"

	"github.com/go-resty/resty/v2"
)

// Output receives one rendered exchange per response.
type Output interface {
	Write(id string, contents string)
}

// FilesystemOutput writes every exchange to its own file in a directory,
// the directory is emptied when the output is created.
type FilesystemOutput struct {
	directory string
}

// NewFilesystemOutput accepts "<dev_state>/..." paths.
func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	dir, err := devenv.ResolvePath(dir)
	if err != nil {
		return FilesystemOutput{}, err
	}
	err = os.RemoveAll(dir)
	if err != nil {
		return FilesystemOutput{}, err
	}
	err = os.MkdirAll(dir, 0777)
	if err != nil {
		return FilesystemOutput{}, err
	}
	return FilesystemOutput{directory: dir}, nil
}

func (o FilesystemOutput) Directory() string {
	return o.directory
}

func (o FilesystemOutput) Write(id string, contents string) {
	err := os.WriteFile(filepath.Join(o.directory, id), []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to write exchange file", "id", id, "err", err)
	}
}

// Record writes every response client receives to output, a nil output
// records nothing. Exchanges are numbered in the order they complete.
func Record(client *resty.Client, output Output) {
	if output == nil {
		return
	}
	var counter atomic.Uint64
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		id := fmt.Sprintf("%04d.txt", counter.Add(1))
		output.Write(id, FormatExchange(res))
		slog.Debug(
			"recorded http exchange",
			"method", res.Request.Method,
			"url", res.Request.URL,
			"status", res.StatusCode(),
			"file", id,
		)
		return nil
	})
}
