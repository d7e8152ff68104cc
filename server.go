package fat9p

import (
	"fmt"
	"net"
	"sync"
	"time"

	"aqwari.net/retry"

	"github.com/oschettler/load81-picocalc/fat9p/internal/blockdev"
	"github.com/oschettler/load81-picocalc/fat9p/internal/fatvfs"
)

// Status is the snapshot server_status() returns (spec §6), enriched
// with a per-session open-fid count so an operator can see a session
// leaking fids without attaching a debugger.
type Status struct {
	Running        bool
	ActiveSessions int
	SessionFids    []int
}

// Server is the C7 lifecycle: bind, accept, and track sessions against
// one VFS. It is safe to Start/Stop repeatedly — WiFi dropping and
// coming back on the real target maps onto exactly that.
type Server struct {
	cfg Config
	vfs *fatvfs.VFS

	mu       sync.Mutex
	listener net.Listener
	conns    map[*conn]struct{}
	queue    *Queue
}

// NewServer creates a Server exporting dev's tree through a fresh
// FS lock. cfg's zero fields are replaced with their defaults.
func NewServer(dev blockdev.Device, cfg Config) *Server {
	cfg = cfg.withDefaults()
	locked := blockdev.NewLocked(dev)
	locked.Lock.Timeout = cfg.FSLockTimeout
	return &Server{
		cfg:   cfg,
		vfs:   fatvfs.New(locked),
		conns: make(map[*conn]struct{}),
	}
}

func (s *Server) logf(format string, v ...interface{}) {
	if s.cfg.Logger != nil {
		s.cfg.Logger.Printf(format, v...)
	}
}

// Start binds the configured port and begins accepting connections in
// the background, per §4.7's "on WiFi-up, bind and begin accepting".
func (s *Server) Start() error {
	s.mu.Lock()
	if s.listener != nil {
		s.mu.Unlock()
		return fmt.Errorf("fat9p: server already started")
	}
	l, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("fat9p: bind failed: %w", err)
	}
	s.listener = l
	s.queue = newQueue(s.cfg.DispatchQueueCapacity)
	q := s.queue
	s.mu.Unlock()

	go s.runWorker(q)
	go s.acceptLoop(l)
	return nil
}

// runWorker is the single goroutine ever allowed to call Dispatch: the
// "networking core" of spec §4.5/§5, draining q one item at a time so
// no two handlers, even from different sessions, ever run concurrently.
func (s *Server) runWorker(q *Queue) {
	for {
		select {
		case item := <-q.items:
			resp := Dispatch(item.conn.session, item.frame)
			if _, err := item.conn.rwc.Write(resp); err != nil {
				s.logf("fat9p: write error to %s: %v", item.conn.session.RemoteAddr, err)
				item.conn.rwc.Close()
			}
		case <-q.done:
			return
		}
	}
}

// acceptLoop mirrors the teacher's Accept-retry loop: temporary errors
// back off exponentially instead of spinning or giving up.
func (s *Server) acceptLoop(l net.Listener) {
	type temporary interface{ Temporary() bool }
	backoff := retry.Exponential(time.Millisecond).Max(time.Second)
	try := 0

	for {
		rwc, err := l.Accept()
		if err != nil {
			if terr, ok := err.(temporary); ok && terr.Temporary() {
				try++
				d := backoff(try)
				s.logf("fat9p: accept error: %v; retrying in %v", err, d)
				time.Sleep(d)
				continue
			}
			s.logf("fat9p: accept loop exiting: %v", err)
			return
		}
		try = 0

		if s.tooManyClients() {
			rwc.Close()
			continue
		}
		c := newConn(rwc, s)
		s.track(c)
		go c.serve()
	}
}

func (s *Server) currentQueue() *Queue {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue
}

func (s *Server) tooManyClients() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns) >= s.cfg.MaxClients
}

func (s *Server) track(c *conn) {
	s.mu.Lock()
	s.conns[c] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) forget(c *conn) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
}

// Stop closes the listener and every live session, per §4.7's
// "on WiFi-down" behavior: each connection's closeFid/defer cleanup
// runs as its serve loop unwinds from the now-closed socket.
func (s *Server) Stop() error {
	s.mu.Lock()
	l := s.listener
	s.listener = nil
	q := s.queue
	s.queue = nil
	conns := make([]*conn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	if q != nil {
		q.shutdown()
	}
	for _, c := range conns {
		c.rwc.Close()
	}
	if l == nil {
		return nil
	}
	return l.Close()
}

// Poll exists to satisfy the host-program interface's server_poll()
// (§6). The dispatch worker this package runs already pumps the queue
// on its own goroutine, so a caller never needs to drive Poll for
// correctness; it is kept as a cheap liveness snapshot a host's own
// main loop can call without needing to know that.
func (s *Server) Poll() Status {
	return s.Status()
}

// Status reports whether the server is accepting connections and how
// many sessions are live.
func (s *Server) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	fids := make([]int, 0, len(s.conns))
	for c := range s.conns {
		fids = append(fids, c.session.fids.len())
	}
	return Status{
		Running:        s.listener != nil,
		ActiveSessions: len(s.conns),
		SessionFids:    fids,
	}
}
