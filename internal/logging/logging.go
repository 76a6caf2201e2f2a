package logging

import (
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Session is a logger bound to one run, plus the file it writes to.
type Session struct {
	*logrus.Entry
	file *os.File
}

// New writes to path, or discards when path is empty. The terminal belongs
// to the UI so there is no console output.
func New(path, level string) (*Session, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrap(err, "log level")
	}

	var (
		out  io.Writer = io.Discard
		file *os.File
	)
	if path != "" {
		file, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, errors.Wrapf(err, "open log %s", path)
		}
		out = file
	}
	return newSession(out, lvl, file), nil
}

func newSession(out io.Writer, lvl logrus.Level, file *os.File) *Session {
	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(lvl)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	return &Session{
		Entry: log.WithField("session", uuid.NewString()),
		file:  file,
	}
}

func (s *Session) Close() error {
	if s.file == nil {
		return nil
	}
	return s.file.Close()
}
