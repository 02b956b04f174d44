// Package ports defines the interfaces between layers. Client ports are
// implemented by outbound adapters and called by handlers; platform ports
// such as health checking are implemented by infrastructure.
package ports
