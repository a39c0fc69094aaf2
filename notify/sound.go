package notify

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// Sound plays an audio file when a non-subtle timer event fires.
type Sound struct {
	Log     *slog.Logger
	initErr error
	path    string
	once    sync.Once
	mu      sync.Mutex
}

var speakerInit = speaker.Init

// NewSound returns a sink playing the file at path. The format is checked
// up front; the file itself is opened on every playback.
func NewSound(path string, l *slog.Logger) (*Sound, error) {
	if _, err := decoderFor(path); err != nil {
		return nil, err
	}

	return &Sound{Log: l, path: path}, nil
}

func (s *Sound) Emit(event string, args ...any) {
	_, subtle, ok := TimerEvent(event, args)
	if !ok || subtle {
		return
	}

	go func() {
		if err := s.play(); err != nil && s.Log != nil {
			s.Log.Warn("unable to play sound", slog.String("path", s.path), slog.Any("error", err))
		}
	}()
}

type decodeFunc func(f *os.File) (beep.StreamSeekCloser, beep.Format, error)

func decoderFor(path string) (decodeFunc, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
			return mp3.Decode(f)
		}, nil
	case ".ogg":
		return func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
			return vorbis.Decode(f)
		}, nil
	case ".flac":
		return func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
			return flac.Decode(f)
		}, nil
	case ".wav":
		return func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
			return wav.Decode(f)
		}, nil
	default:
		return nil, errInvalidSoundFormat
	}
}

// play decodes and plays the file, blocking until playback ends. Overlapping
// events wait for the previous playback.
func (s *Sound) play() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	decode, err := decoderFor(s.path)
	if err != nil {
		return err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return err
	}

	stream, format, err := decode(f)
	if err != nil {
		_ = f.Close()
		return err
	}

	defer func() {
		// mp3 and vorbis streams close f themselves
		_ = stream.Close()
		_ = f.Close()
	}()

	if err := s.initSpeaker(format); err != nil {
		return err
	}

	done := make(chan struct{})

	speaker.Play(beep.Seq(stream, beep.Callback(func() {
		close(done)
	})))

	<-done

	return nil
}

// initSpeaker initialises the speaker once. A failed initialisation is
// reported on every later call.
func (s *Sound) initSpeaker(format beep.Format) error {
	bufferSize := 10

	s.once.Do(func() {
		s.initErr = speakerInit(
			format.SampleRate,
			format.SampleRate.N(time.Duration(int(time.Second)/bufferSize)),
		)
	})

	return s.initErr
}
