package stream

import (
	"fmt"
	"net"
)

// listen binds the TCP listener up front so address conflicts surface
// at startup instead of inside the serve goroutine.
func listen(addr string) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to bind event stream listener: %w", err)
	}
	return ln, nil
}
