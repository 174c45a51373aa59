// Package multinet provides a net.Listener which serves connections from
// several underlying listeners, so a single http.Server can accept on TCP4,
// TCP6 and UNIX sockets at once.
package multinet

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"
)

// unixPrefix marks an address passed to ListenAddrs as a UNIX socket path.
const unixPrefix = "unix:"

var errNoListeners = errors.New("multinet: no net.Listeners added to Listener")

// An Addr is net.Addr which stores network address information for all
// net.Listeners being used by a Listener.
type Addr []net.Addr

var _ net.Addr = Addr{}

// Network implements net.Addr, returning a comma-separated list of Network
// values for each net.Addr in a.
func (a Addr) Network() string {
	return a.join(net.Addr.Network)
}

// String implements net.Addr, returning a comma-separated list of String
// values for each net.Addr in a.
func (a Addr) String() string {
	return a.join(net.Addr.String)
}

func (a Addr) join(fn func(net.Addr) string) string {
	ss := make([]string, 0, len(a))
	for _, addr := range a {
		ss = append(ss, fn(addr))
	}

	return strings.Join(ss, ",")
}

// A Listener is a net.Listener which aggregates multiple net.Listeners. The
// net.Listeners do not have to be of the same underlying type. Any connection
// or error from an individual net.Listener will be forwarded to the Listener.
type Listener struct {
	ls []net.Listener

	startOnce, closeOnce sync.Once
	wg                   sync.WaitGroup
	done                 chan struct{}
	accepted             chan accepted
}

var _ net.Listener = &Listener{}

// Listen creates a Listener which aggregates multiple net.Listeners. Although
// it is possible to construct a Listener with no net.Listeners, it will always
// return an error on Accept.
func Listen(ls ...net.Listener) *Listener {
	return &Listener{
		ls:       ls,
		done:     make(chan struct{}),
		accepted: make(chan accepted, len(ls)),
	}
}

// ListenAddrs opens a stream listener for each of addrs and aggregates them
// into a Listener. Addresses of the form "unix:/path/to.sock" are UNIX socket
// paths; all others are TCP "host:port" pairs. If any address cannot be
// opened, the listeners opened so far are closed and an error is returned.
func ListenAddrs(ctx context.Context, addrs ...string) (*Listener, error) {
	if len(addrs) == 0 {
		return nil, errNoListeners
	}

	var (
		lc net.ListenConfig
		ls = make([]net.Listener, 0, len(addrs))
	)

	for _, addr := range addrs {
		network, address := "tcp", addr
		if path, ok := strings.CutPrefix(addr, unixPrefix); ok {
			network, address = "unix", path
		}

		ln, err := lc.Listen(ctx, network, address)
		if err != nil {
			for _, l := range ls {
				_ = l.Close()
			}

			return nil, fmt.Errorf("multinet: failed to listen on %q: %w", addr, err)
		}

		ls = append(ls, ln)
	}

	return Listen(ls...), nil
}

// Accept accepts a net.Conn from one of the owned net.Listeners. After Close,
// Accept returns an error wrapping net.ErrClosed.
func (l *Listener) Accept() (net.Conn, error) {
	if len(l.ls) == 0 {
		return nil, errNoListeners
	}

	// The first Accept starts one goroutine per owned listener, each feeding
	// l.accepted until l.done is closed.
	l.startOnce.Do(func() {
		l.wg.Add(len(l.ls))
		for _, ln := range l.ls {
			go func(ln net.Listener) {
				defer l.wg.Done()
				l.serve(ln)
			}(ln)
		}
	})

	select {
	case a := <-l.accepted:
		return a.c, a.err
	case <-l.done:
		return nil, fmt.Errorf("multinet: %w", net.ErrClosed)
	}
}

// Addr creates a net.Addr of type Addr with all the aggregated addresses of
// the owned net.Listeners.
func (l *Listener) Addr() net.Addr {
	addrs := make(Addr, 0, len(l.ls))
	for _, ln := range l.ls {
		addrs = append(addrs, ln.Addr())
	}

	return addrs
}

// A deadlineListener is a net.Listener with deadline support.
type deadlineListener interface {
	net.Listener
	SetDeadline(t time.Time) error
}

// SetDeadline sets a deadline t on all net.Listeners owned by this Listener.
// All net.Listeners must support the method "SetDeadline(t time.Time) error"
// or an error will be returned before any deadline is set. If more than one
// net.Listener returns an error, only the first error is returned.
func (l *Listener) SetDeadline(t time.Time) error {
	dls := make([]deadlineListener, 0, len(l.ls))
	for _, ln := range l.ls {
		dl, ok := ln.(deadlineListener)
		if !ok {
			return fmt.Errorf("multinet: net.Listener %T does not have a SetDeadline method", ln)
		}

		dls = append(dls, dl)
	}

	var err error
	for _, dl := range dls {
		if derr := dl.SetDeadline(t); derr != nil && err == nil {
			err = derr
		}
	}

	return err
}

// Close closes all net.Listeners owned by this Listener and waits for their
// accept goroutines to exit. If more than one net.Listener returns an error,
// only the first error is returned. Subsequent calls return nil.
func (l *Listener) Close() error {
	var err error
	l.closeOnce.Do(func() {
		close(l.done)

		// Every listener is closed to avoid leaking file descriptors.
		for _, ln := range l.ls {
			if cerr := ln.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}

		l.wg.Wait()
	})

	return err
}

// An accepted is the result of an individual listener's Accept method.
type accepted struct {
	c   net.Conn
	err error
}

// serve accepts connections on ln and forwards them to l.accepted. It returns
// when l is closed or when ln reports that it has been closed.
func (l *Listener) serve(ln net.Listener) {
	for {
		c, err := ln.Accept()

		// Prefer the done signal so that no connection is handed out after
		// Close, and close any connection which raced with it.
		select {
		case <-l.done:
			if c != nil {
				_ = c.Close()
			}
			return
		default:
		}

		select {
		case l.accepted <- accepted{c: c, err: err}:
		case <-l.done:
			if c != nil {
				_ = c.Close()
			}
			return
		}

		if errors.Is(err, net.ErrClosed) {
			return
		}
	}
}
