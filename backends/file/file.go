// Package file replays stream records stored in a JSON file. It is used to
// re-drive batches by hand, for example from dead-lettered payloads.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/hokaccha/go-prettyjson"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/batchcorp/searchsync/backends"
	"github.com/batchcorp/searchsync/relay"
	"github.com/batchcorp/searchsync/types"
)

const BackendName = "file"

var ErrMissingPath = errors.New("file path cannot be empty")

// Planner builds a batch without applying it. Implemented by relay.Relay.
type Planner interface {
	Plan(records []*types.StreamRecord) *relay.BatchPlan
}

type Config struct {
	Path string

	// Out receives dry-run output; defaults to stdout
	Out io.Writer

	NoColor bool
}

type File struct {
	cfg *Config
	log *logrus.Entry
}

func New(cfg *Config) (*File, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "unable to validate file config")
	}

	return &File{
		cfg: cfg,
		log: logrus.WithField("backend", BackendName),
	}, nil
}

func (f *File) Name() string {
	return BackendName
}

func validateConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("file config cannot be nil")
	}

	if cfg.Path == "" {
		return ErrMissingPath
	}

	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}

	return nil
}

// Read loads and decodes the records in the file
func (f *File) Read() ([]*types.StreamRecord, error) {
	data, err := ioutil.ReadFile(f.cfg.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read '%s'", f.cfg.Path)
	}

	records, err := backends.DecodeRecords(data)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to decode records in '%s'", f.cfg.Path)
	}

	f.log.Debugf("read %d records from '%s'", len(records), f.cfg.Path)

	return records, nil
}

// Apply hands every record in the file to h as a single batch
func (f *File) Apply(ctx context.Context, h backends.Handler) (*types.SyncMetrics, error) {
	records, err := f.Read()
	if err != nil {
		return nil, err
	}

	sm, err := h.HandleBatch(ctx, records)
	if err != nil {
		return nil, errors.Wrap(err, "unable to apply records")
	}

	return sm, nil
}

// DryRun prints the write operations the file would produce, followed by the
// records that would fail before reaching the search engine.
func (f *File) DryRun(p Planner) error {
	records, err := f.Read()
	if err != nil {
		return err
	}

	plan := p.Plan(records)

	for _, group := range plan.Groups {
		for _, op := range group.Ops {
			if err := f.display(op); err != nil {
				return err
			}
		}
	}

	for _, res := range plan.Results {
		if res.Success {
			continue
		}

		if err := f.display(map[string]string{
			"recordId": res.RecordID,
			"error":    res.Error(),
		}); err != nil {
			return err
		}
	}

	return nil
}

func (f *File) display(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "failed to marshal JSON")
	}

	if !f.cfg.NoColor {
		data, err = prettyjson.Format(data)
		if err != nil {
			return errors.Wrap(err, "unable to colorize JSON")
		}
	}

	_, err = fmt.Fprintln(f.cfg.Out, string(data))

	return err
}
