package participantv1

import (
	"bufio"
	"io"
	"sync"

	protocolv1 "github.com/hunkyJay/ProgExchange-Platform/internal/domain/protocol/v1"
)

// commandBacklog bounds how many complete commands a participant may have
// buffered ahead of the reactor before its reader blocks.
const commandBacklog = 64

// StreamSession adapts a byte stream (a net.Conn, a pipe) into a Session.
// A reader goroutine splits the stream on the protocol terminator and raises
// one readiness notification per complete command, so commands from the same
// participant are delivered in the order sent.
type StreamSession struct {
	rw       io.ReadWriteCloser
	reader   *bufio.Reader
	commands chan string

	writeMu sync.Mutex
	closeMu sync.Mutex
	closed  bool
}

// NewStreamSession wraps the stream. Start must be called to begin reading.
func NewStreamSession(rw io.ReadWriteCloser) *StreamSession {
	return &StreamSession{
		rw:       rw,
		reader:   bufio.NewReader(rw),
		commands: make(chan string, commandBacklog),
	}
}

// Start launches the reader goroutine. notify is invoked after each complete
// command becomes readable; died is invoked exactly once when the stream
// ends. Both are called from the reader goroutine.
func (s *StreamSession) Start(notify func(), died func()) {
	go func() {
		defer died()
		for {
			raw, err := s.readCommand()
			if err != nil {
				// A partial command with no terminator is discarded.
				return
			}
			s.commands <- raw
			notify()
		}
	}()
}

// readCommand reads one terminated command, holding at most MaxMessageLen
// bytes. An over-long message is cut at the limit and the remainder dropped
// up to the next terminator; the truncated prefix lacks its terminator and
// can never validate, so the sender still gets INVALID for it.
func (s *StreamSession) readCommand() (string, error) {
	buf := make([]byte, 0, protocolv1.MaxMessageLen)
	for {
		b, err := s.reader.ReadByte()
		if err != nil {
			return "", err
		}
		if len(buf) == protocolv1.MaxMessageLen {
			for b != protocolv1.Terminator {
				if b, err = s.reader.ReadByte(); err != nil {
					return "", err
				}
			}
			return string(buf), nil
		}
		buf = append(buf, b)
		if b == protocolv1.Terminator {
			return string(buf), nil
		}
	}
}

// TryRead returns the next buffered complete command without blocking.
func (s *StreamSession) TryRead() (string, bool) {
	select {
	case raw := <-s.commands:
		return raw, true
	default:
		return "", false
	}
}

// Write sends one message to the participant.
func (s *StreamSession) Write(msg string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_, err := io.WriteString(s.rw, msg)
	return err
}

// Close tears the stream down; the reader goroutine exits on the next read.
func (s *StreamSession) Close() error {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.rw.Close()
}
