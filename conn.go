package fat9p

import (
	"net"

	"github.com/oschettler/load81-picocalc/fat9p/proto9p"
)

// conn is the per-connection receive side: it owns the session and the
// raw TCP socket, and is the one goroutine that ever frames bytes for
// this session off the wire. It never calls Dispatch itself — that
// stands in for the embedded target's callback-plus-main-loop split
// (spec §4.5): net.Conn.Read plays the role of "the main loop polling
// the TCP stack", and once a message is fully framed the deferred work
// a receive callback there would enqueue is, here, a submit onto the
// server's single Queue (queue.go), which the one dispatch worker
// goroutine (Server.runWorker) drains.
type conn struct {
	rwc     net.Conn
	srv     *Server
	session *Session
	queue   *Queue

	rx []byte // accumulated, not-yet-framed receive bytes
}

func newConn(rwc net.Conn, srv *Server) *conn {
	return &conn{
		rwc:     rwc,
		srv:     srv,
		session: NewSession(srv.vfs, srv.cfg, rwc.RemoteAddr().String()),
		queue:   srv.currentQueue(),
		rx:      make([]byte, 0, srv.cfg.MaxMsize),
	}
}

// serve reads messages and submits them to the dispatch queue until the
// connection closes or a framing error forces it shut, per §4.5's
// msize-exceeded rule.
func (c *conn) serve() {
	defer func() {
		c.srv.forget(c)
		c.rwc.Close()
	}()

	buf := make([]byte, c.srv.cfg.MaxMsize)
	for {
		n, err := c.rwc.Read(buf)
		if n > 0 {
			c.rx = append(c.rx, buf[:n]...)
			if !c.drain() {
				return
			}
		}
		if err != nil {
			return
		}
	}
}

// drain frames every complete message currently buffered and submits
// each to the server's dispatch queue in order, never calling Dispatch
// itself. It returns false if the connection must be closed (a framing
// error, or the queue shutting down underneath it).
func (c *conn) drain() bool {
	for {
		msgLen, ok, err := proto9p.Scan(c.rx, c.session.Msize())
		if err == proto9p.ErrMsizeExceeded {
			c.sendMsizeExceeded()
			return false
		}
		if err != nil {
			c.srv.logf("fat9p: framing error from %s: %v", c.session.RemoteAddr, err)
			return false
		}
		if !ok {
			return true
		}

		frame, ferr := proto9p.ParseFrame(c.rx[:msgLen])
		c.rx = c.rx[msgLen:]
		if ferr != nil {
			c.srv.logf("fat9p: frame parse error from %s: %v", c.session.RemoteAddr, ferr)
			return false
		}

		if !c.queue.submit(workItem{conn: c, frame: frame}) {
			c.srv.logf("fat9p: dispatch queue closed, dropping connection from %s", c.session.RemoteAddr)
			return false
		}
	}
}

func (c *conn) sendMsizeExceeded() {
	resp := proto9p.BuildRerror(nil, proto9p.NOTAG, "msize exceeded")
	c.rwc.Write(resp)
}
