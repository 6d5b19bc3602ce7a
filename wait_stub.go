//go:build !unix

package sowait

// Hosts without a poll or select equivalent cannot wait for socket
// readiness at all.
func probeWaiter() (waitFunc, error) {
	return nullWaitForSocket, nil
}
