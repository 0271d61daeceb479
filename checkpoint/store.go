package checkpoint

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mduppes/fairseq2/data"
	"github.com/mduppes/fairseq2/errors"
	"github.com/mduppes/fairseq2/logger"
)

// File layout: an 8-byte magic, a 2-byte format version, a 16-byte
// checkpoint id, an 8-byte unix creation time, then the encoded tape.
var fileMagic = [8]byte{'F', 'S', '2', 'C', 'K', 'P', 'T', 0}

const (
	formatVersion uint16 = 1
	headerLen            = 8 + 2 + 16 + 8
	fileExt              = ".ckpt"
)

// Info describes a stored checkpoint.
type Info struct {
	ID        uuid.UUID
	CreatedAt time.Time
}

// FileStore keeps one checkpoint file per pipeline name under a directory.
// Writes go through a temp file and a rename, so a crash mid-save never
// corrupts the previous checkpoint.
type FileStore struct {
	dir    string
	log    *logger.Logger
	tracer trace.Tracer
}

// NewFileStore opens (and creates if needed) the checkpoint directory.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.FromFile(dir, err)
	}
	return &FileStore{
		dir:    dir,
		log:    logger.WithComponent("checkpoint"),
		tracer: otel.Tracer("fairseq2/checkpoint"),
	}, nil
}

// Save persists the tape under name, replacing any previous checkpoint.
func (s *FileStore) Save(ctx context.Context, name string, tape *data.Tape) error {
	_, span := s.tracer.Start(ctx, "checkpoint.save",
		trace.WithAttributes(attribute.String("pipeline", name)))
	defer span.End()

	if err := checkName(name); err != nil {
		span.RecordError(err)
		return err
	}
	payload, err := EncodeTape(tape)
	if err != nil {
		span.RecordError(err)
		return err
	}

	id := uuid.New()
	now := time.Now()

	buf := make([]byte, headerLen, headerLen+len(payload))
	copy(buf[0:8], fileMagic[:])
	binary.BigEndian.PutUint16(buf[8:10], formatVersion)
	copy(buf[10:26], id[:])
	binary.BigEndian.PutUint64(buf[26:34], uint64(now.Unix()))
	buf = append(buf, payload...)

	path := s.path(name)
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		span.RecordError(err)
		return errors.FromFile(s.dir, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		span.RecordError(err)
		return errors.FromFile(tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		span.RecordError(err)
		return errors.FromFile(tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		span.RecordError(err)
		return errors.FromFile(tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		span.RecordError(err)
		return errors.FromFile(path, err)
	}

	s.log.Info("checkpoint saved", map[string]interface{}{
		"pipeline":      name,
		"checkpoint_id": id.String(),
		"values":        tape.Len(),
		"bytes":         len(buf),
	})
	return nil
}

// Load reads the checkpoint stored under name. A missing checkpoint maps to
// NotFound; a corrupt or incompatible file maps to MalformedInput.
func (s *FileStore) Load(ctx context.Context, name string) (*data.Tape, Info, error) {
	_, span := s.tracer.Start(ctx, "checkpoint.load",
		trace.WithAttributes(attribute.String("pipeline", name)))
	defer span.End()

	if err := checkName(name); err != nil {
		span.RecordError(err)
		return nil, Info{}, err
	}
	path := s.path(name)
	raw, err := os.ReadFile(path)
	if err != nil {
		e := errors.FromFile(path, err)
		span.RecordError(e)
		return nil, Info{}, e
	}
	if len(raw) < headerLen {
		return nil, Info{}, errors.MalformedInput(
			fmt.Sprintf("%s is too short to be a checkpoint", path), nil)
	}
	if [8]byte(raw[0:8]) != fileMagic {
		return nil, Info{}, errors.MalformedInput(
			fmt.Sprintf("%s is not a checkpoint file", path), nil)
	}
	if v := binary.BigEndian.Uint16(raw[8:10]); v != formatVersion {
		return nil, Info{}, errors.MalformedInput(
			fmt.Sprintf("%s uses unsupported checkpoint format %d", path, v), nil)
	}

	var info Info
	copy(info.ID[:], raw[10:26])
	info.CreatedAt = time.Unix(int64(binary.BigEndian.Uint64(raw[26:34])), 0)

	tape, err := DecodeTape(raw[headerLen:])
	if err != nil {
		span.RecordError(err)
		return nil, Info{}, err
	}

	s.log.Debug("checkpoint loaded", map[string]interface{}{
		"pipeline":      name,
		"checkpoint_id": info.ID.String(),
		"values":        tape.Len(),
	})
	return tape, info, nil
}

// Delete removes the checkpoint stored under name. Deleting a missing
// checkpoint is not an error.
func (s *FileStore) Delete(name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	if err := os.Remove(s.path(name)); err != nil && !os.IsNotExist(err) {
		return errors.FromFile(s.path(name), err)
	}
	return nil
}

// List returns the names of all stored checkpoints.
func (s *FileStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.FromFile(s.dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), fileExt))
	}
	return names, nil
}

// SavePipeline captures and persists p's current position under its name.
func (s *FileStore) SavePipeline(ctx context.Context, p *data.Pipeline) error {
	tape, err := p.Position()
	if err != nil {
		return err
	}
	return s.Save(ctx, p.Name(), tape)
}

// RestorePipeline loads the checkpoint stored under p's name and restores
// p to that position.
func (s *FileStore) RestorePipeline(ctx context.Context, p *data.Pipeline) error {
	tape, _, err := s.Load(ctx, p.Name())
	if err != nil {
		return err
	}
	return p.LoadPosition(tape)
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+fileExt)
}

func checkName(name string) error {
	if name == "" {
		return errors.ContractViolation("checkpoint name is empty")
	}
	if strings.ContainsAny(name, "/\\") {
		return errors.ContractViolation(
			fmt.Sprintf("checkpoint name %q contains a path separator", name))
	}
	return nil
}
