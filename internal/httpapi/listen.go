package httpapi

import (
	"fmt"
	"net"
	"net/http"
)

// Listen binds the first free port starting at base, trying PortRetryCount
// successive ports, the way a local dev server avoids colliding with an
// already-running instance.
func Listen(base int) (net.Listener, int, error) {
	var lastErr error
	for i := 0; i < PortRetryCount; i++ {
		port := base + i
		ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
		if err == nil {
			return ln, port, nil
		}
		lastErr = err
	}
	return nil, 0, fmt.Errorf("no free port in [%d, %d]: %w", base, base+PortRetryCount-1, lastErr)
}

// Serve runs handler on ln until the listener is closed.
func Serve(ln net.Listener, handler http.Handler) error {
	return http.Serve(ln, handler)
}
