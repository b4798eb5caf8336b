package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/castsync/castsync/log"
)

// EventCallback receives mpv property changes (by property name) and other events (by event name).
type EventCallback func(name string, data interface{})

// observed lists the properties the listener subscribes to.
var observed = []string{"time-pos", "pause", "seeking", "duration"}

// EventListener keeps a dedicated IPC connection open and forwards mpv notifications.
type EventListener struct {
	socketPath string
	conn       net.Conn
	callback   EventCallback
	stopCh     chan struct{}
	mu         sync.Mutex
	listening  bool
}

// NewEventListener creates a new event listener for the given socket.
func NewEventListener(socketPath string, callback EventCallback) *EventListener {
	return &EventListener{
		socketPath: socketPath,
		callback:   callback,
		stopCh:     make(chan struct{}),
	}
}

// Start subscribes to property changes on a persistent connection and starts the read loop.
// Subscriptions are per connection in mpv, so they are issued on the connection that is read.
func (el *EventListener) Start() error {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.listening {
		return nil
	}

	conn, err := net.Dial("unix", el.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	for id, name := range observed {
		cmd := ipcCommand{Command: []interface{}{"observe_property", id + 1, name}, RequestID: 1000 + id}
		if err := writeCommand(conn, cmd); err != nil {
			conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
	}

	el.conn = conn
	el.listening = true

	go el.readLoop(bufio.NewReader(conn))

	log.Infof("mpv event listener started on %s", el.socketPath)
	return nil
}

// Stop terminates the event listener.
func (el *EventListener) Stop() {
	el.mu.Lock()
	defer el.mu.Unlock()

	if !el.listening {
		return
	}

	close(el.stopCh)
	if el.conn != nil {
		el.conn.Close()
	}
	el.listening = false
}

// readLoop reads newline-delimited messages until the listener is stopped.
func (el *EventListener) readLoop(reader *bufio.Reader) {
	defer func() {
		el.mu.Lock()
		el.listening = false
		el.mu.Unlock()
	}()

	var partial []byte
	for {
		select {
		case <-el.stopCh:
			return
		default:
		}

		if err := el.conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
			return
		}

		line, err := reader.ReadBytes('\n')
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				partial = append(partial, line...)
				continue
			}
			select {
			case <-el.stopCh:
			default:
				log.Warnf("event listener read error: %v", err)
			}
			return
		}

		if len(partial) > 0 {
			line = append(partial, line...)
			partial = nil
		}
		el.processEvent(line)
	}
}

// processEvent parses and dispatches a single mpv message. Replies to commands are ignored.
func (el *EventListener) processEvent(line []byte) {
	var msg ipcMessage
	if err := json.Unmarshal(line, &msg); err != nil || el.callback == nil {
		return
	}

	switch msg.Event {
	case "":
		if err := msg.err(); err != nil {
			log.Warnf("mpv rejected request %d: %v", msg.RequestID, err)
		}
	case "property-change":
		if msg.Name != "" {
			el.callback(msg.Name, msg.Data)
		}
	default:
		el.callback(msg.Event, msg.Data)
	}
}
