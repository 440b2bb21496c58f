package imaging

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// Pending is an output file written to a temporary path in its destination
// directory. Nothing appears at the final path until Commit.
type Pending struct {
	file      *renameio.PendingFile
	path      string
	committed bool
	aborted   bool
}

// Stage creates a temporary file that will become dir/name on Commit.
func Stage(dir, name string) (*Pending, error) {
	path := filepath.Join(dir, name)
	f, err := renameio.NewPendingFile(path,
		renameio.WithTempDir(dir),
		renameio.WithStaticPermissions(0o644),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to stage %s: %w", name, err)
	}
	return &Pending{file: f, path: path}, nil
}

// Path returns the final destination.
func (p *Pending) Path() string {
	return p.path
}

// TempPath returns the temporary file currently holding the data.
func (p *Pending) TempPath() string {
	return p.file.Name()
}

func (p *Pending) Write(b []byte) (int, error) {
	return p.file.Write(b)
}

// Commit flushes the temporary file and renames it over the destination.
func (p *Pending) Commit() error {
	if p.committed || p.aborted {
		return errors.New("pending file already finalized")
	}
	if err := p.file.CloseAtomicallyReplace(); err != nil {
		p.file.Cleanup()
		p.aborted = true
		return fmt.Errorf("failed to move %s into place: %w", p.path, err)
	}
	p.committed = true
	return nil
}

// Abort discards the temporary file. Aborting a finalized file is a no-op.
func (p *Pending) Abort() error {
	if p.committed || p.aborted {
		return nil
	}
	p.aborted = true
	if err := p.file.Cleanup(); err != nil {
		return fmt.Errorf("failed to discard %s: %w", p.file.Name(), err)
	}
	return nil
}
